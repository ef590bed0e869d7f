package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"meal-planner/internal/app"
	"meal-planner/internal/database"
	"meal-planner/internal/model"
	"meal-planner/internal/nutrition"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		pool, err := database.NewPool(cmd.Context(), cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		applied, err := database.Migrate(cmd.Context(), pool, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %d of %d migrations\n", applied, database.Versions())
		return nil
	},
}

var budgetCmd = &cobra.Command{
	Use:   "budget <plan-id>",
	Short: "Print the daily calorie budget of a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := parseInt64Arg("plan id", args[0])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(a *app.App) error {
			budget, err := a.Plans.Budget(cmd.Context(), planID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d kcal\n", budget)
			return nil
		})
	},
}

var daysCmd = &cobra.Command{
	Use:   "days <plan-id>",
	Short: "Print calories consumed on every day of a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := parseInt64Arg("plan id", args[0])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(a *app.App) error {
			summary, err := a.Plans.GetByID(cmd.Context(), planID)
			if err != nil {
				return err
			}
			return writeDays(cmd.OutOrStdout(), summary)
		})
	},
}

var shoppingExport bool

var shoppingListCmd = &cobra.Command{
	Use:   "shopping-list <plan-id>",
	Short: "Generate a shopping list snapshot for a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := parseInt64Arg("plan id", args[0])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(a *app.App) error {
			list, err := a.ShoppingLists.Generate(cmd.Context(), planID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			writeShoppingList(out, list)

			if shoppingExport {
				location, err := a.ShoppingLists.Export(cmd.Context(), list.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\nExported to %s\n", location)
			}
			return nil
		})
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <plan-id> <day> <slot>",
	Short: "Scale the meal in a slot so the day reaches the plan budget",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := parseInt64Arg("plan id", args[0])
		if err != nil {
			return err
		}
		day, err := parseDayArg(args[1])
		if err != nil {
			return err
		}
		slot, err := model.ParseMealSlot(args[2])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(a *app.App) error {
			result, err := a.Plans.CompleteDayMeal(cmd.Context(), planID, day, slot)
			if err != nil {
				return err
			}
			writeCompletion(cmd.OutOrStdout(), day, result)
			return nil
		})
	},
}

func init() {
	shoppingListCmd.Flags().BoolVar(&shoppingExport, "export", false, "Also export the list through the configured exporter")

	rootCmd.AddCommand(migrateCmd, budgetCmd, daysCmd, shoppingListCmd, completeCmd)
}

// writeDays prints consumed and remaining calories for every plan day.
func writeDays(w io.Writer, summary *model.PlanSummary) error {
	budget := decimal.NewFromInt(summary.Budget)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tKCAL\tREMAINING")
	for i, kcal := range summary.DaysCalories {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1,
			kcal.StringFixed(nutrition.CalorieDecimals),
			budget.Sub(kcal).StringFixed(nutrition.CalorieDecimals),
		)
	}
	return tw.Flush()
}

func writeShoppingList(w io.Writer, list *model.ShoppingListResponse) {
	fmt.Fprintf(w, "%s (%s)\n", list.Name, list.ID)
	for _, group := range list.Groups {
		fmt.Fprintf(w, "\n%s\n", group.Category)
		for _, e := range group.Entries {
			fmt.Fprintf(w, "  %-30s %10s g\n", e.ProductName, e.Quantity.StringFixed(nutrition.QuantityDecimals))
		}
	}
}

func writeCompletion(w io.Writer, day int, result *model.CompletionResponse) {
	fmt.Fprintf(w, "Meal %d: %s portions added, now %s; day %d total %s kcal\n",
		result.MealID,
		result.AdditionalPortions.StringFixed(nutrition.PortionDecimals),
		result.Portions.StringFixed(nutrition.PortionDecimals),
		day,
		result.DayCaloriesAfterFix.StringFixed(nutrition.CalorieDecimals),
	)
}
