package router

import (
	"net/http"

	"meal-planner/internal/handler"
	"meal-planner/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Products      *handler.ProductHandler
	Recipes       *handler.RecipeHandler
	Plans         *handler.PlanHandler
	ShoppingLists *handler.ShoppingListHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, apiKey string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("GET /api/categories", h.Products.GetCategories)
	mux.HandleFunc("POST /api/categories", h.Products.CreateCategory)

	mux.HandleFunc("GET /api/products", h.Products.GetAll)
	mux.HandleFunc("POST /api/products", h.Products.Create)
	mux.HandleFunc("GET /api/products/{id}", h.Products.GetByID)
	mux.HandleFunc("PUT /api/products/{id}", h.Products.Update)
	mux.HandleFunc("DELETE /api/products/{id}", h.Products.Delete)

	mux.HandleFunc("GET /api/recipes", h.Recipes.GetAll)
	mux.HandleFunc("POST /api/recipes", h.Recipes.Create)
	mux.HandleFunc("GET /api/recipes/{id}", h.Recipes.GetByID)
	mux.HandleFunc("PUT /api/recipes/{id}", h.Recipes.Update)
	mux.HandleFunc("DELETE /api/recipes/{id}", h.Recipes.Delete)
	mux.HandleFunc("PUT /api/recipes/{id}/products/{productId}", h.Recipes.SetQuantity)

	mux.HandleFunc("GET /api/persons", h.Plans.GetPersons)
	mux.HandleFunc("POST /api/persons", h.Plans.CreatePerson)
	mux.HandleFunc("PUT /api/persons/{id}", h.Plans.UpdatePerson)
	mux.HandleFunc("DELETE /api/persons/{id}", h.Plans.DeletePerson)

	mux.HandleFunc("GET /api/plans", h.Plans.GetAll)
	mux.HandleFunc("POST /api/plans", h.Plans.Create)
	mux.HandleFunc("GET /api/plans/{id}", h.Plans.GetByID)
	mux.HandleFunc("PUT /api/plans/{id}", h.Plans.Update)
	mux.HandleFunc("DELETE /api/plans/{id}", h.Plans.Delete)
	mux.HandleFunc("GET /api/plans/{id}/days/{day}/calories", h.Plans.DayCalories)
	mux.HandleFunc("PUT /api/plans/{id}/meals", h.Plans.SaveMeal)
	mux.HandleFunc("POST /api/plans/{id}/days/{day}/slots/{slot}/complete", h.Plans.CompleteDayMeal)
	mux.HandleFunc("DELETE /api/meals/{id}", h.Plans.DeleteMeal)

	mux.HandleFunc("POST /api/plans/{id}/shopping-lists", h.ShoppingLists.Generate)
	mux.HandleFunc("GET /api/shopping-lists/{id}", h.ShoppingLists.GetByID)
	mux.HandleFunc("POST /api/shopping-lists/{id}/export", h.ShoppingLists.Export)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth -> UserIdentity
	var handler http.Handler = mux
	handler = middleware.UserIdentity(logger)(handler)
	handler = middleware.APIKeyAuth(apiKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
