package shopping

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"meal-planner/internal/model"
	"meal-planner/internal/nutrition"

	"github.com/rs/zerolog"
)

// Exporter writes a shopping list as gzipped CSV and returns where it went.
type Exporter interface {
	Export(ctx context.Context, name string, rows []model.ShoppingListRow) (string, error)
}

var csvHeader = []string{"category", "product", "grams"}

// FileName is the object name used for an exported list.
func FileName(list *model.ShoppingList) string {
	return list.ID.String() + ".csv.gz"
}

// WriteCSV encodes rows as gzipped CSV with a header line.
func WriteCSV(w io.Writer, rows []model.ShoppingListRow) error {
	gz := gzip.NewWriter(w)
	cw := csv.NewWriter(gz)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{r.Category, r.Product, r.Quantity.StringFixed(nutrition.QuantityDecimals)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return nil
}

// fileExporter writes exports into a local directory.
type fileExporter struct {
	dir    string
	logger zerolog.Logger
}

// NewFileExporter creates an exporter writing into dir.
func NewFileExporter(dir string, logger zerolog.Logger) Exporter {
	return &fileExporter{
		dir:    dir,
		logger: logger.With().Str("component", "file-exporter").Logger(),
	}
}

func (e *fileExporter) Export(ctx context.Context, name string, rows []model.ShoppingListRow) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		e.logger.Error().Err(err).Str("dir", e.dir).Msg("failed to create export directory")
		return "", fmt.Errorf("failed to create export directory %s: %w", e.dir, err)
	}

	path := filepath.Join(e.dir, name)
	if err := e.write(path, rows); err != nil {
		e.logger.Error().Err(err).Str("file", path).Msg("failed to write export file")
		return "", err
	}

	e.logger.Info().Str("file", path).Int("rows", len(rows)).Msg("shopping list exported")
	return path, nil
}

// write encodes rows into a temporary file next to path and renames it into
// place, so path never holds a partial export.
func (e *fileExporter) write(path string, rows []model.ShoppingListRow) (err error) {
	file, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create export file %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			if removeErr := os.Remove(file.Name()); removeErr != nil && !errors.Is(removeErr, fs.ErrNotExist) {
				e.logger.Warn().Err(removeErr).Str("file", file.Name()).Msg("failed to remove temporary export file")
			}
		}
	}()

	if err := file.Chmod(0o644); err != nil {
		file.Close()
		return fmt.Errorf("failed to set export file mode %s: %w", path, err)
	}
	if err := WriteCSV(file, rows); err != nil {
		file.Close()
		return fmt.Errorf("failed to write export file %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close export file %s: %w", path, err)
	}
	if err := os.Rename(file.Name(), path); err != nil {
		return fmt.Errorf("failed to move export file into %s: %w", path, err)
	}
	return nil
}

// fallbackExporter tries S3 first and falls back to the local directory.
type fallbackExporter struct {
	s3Exporter   Exporter
	fileExporter Exporter
	s3Prefix     string
	s3Enabled    bool
	logger       zerolog.Logger
}

// NewFallbackExporter creates an exporter that tries S3 first, then the local
// file system. If s3Exporter is nil only the file exporter is used.
func NewFallbackExporter(s3Exporter, fileExporter Exporter, s3Prefix string, s3Enabled bool, logger zerolog.Logger) Exporter {
	return &fallbackExporter{
		s3Exporter:   s3Exporter,
		fileExporter: fileExporter,
		s3Prefix:     s3Prefix,
		s3Enabled:    s3Enabled,
		logger:       logger.With().Str("component", "fallback-exporter").Logger(),
	}
}

// Export prepends s3Prefix to name for S3 and uses name as-is locally.
func (e *fallbackExporter) Export(ctx context.Context, name string, rows []model.ShoppingListRow) (string, error) {
	if e.s3Enabled && e.s3Exporter != nil {
		key := e.s3Prefix + name
		location, err := e.s3Exporter.Export(ctx, key, rows)
		if err == nil {
			return location, nil
		}
		e.logger.Warn().
			Err(err).
			Str("s3_key", key).
			Msg("failed to export to S3, falling back to local file system")
	} else {
		e.logger.Debug().
			Bool("s3_enabled", e.s3Enabled).
			Bool("has_s3_exporter", e.s3Exporter != nil).
			Msg("S3 disabled or not configured, using local file system")
	}

	return e.fileExporter.Export(ctx, name, rows)
}

func encode(rows []model.ShoppingListRow) (*bytes.Reader, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return nil, err
	}
	return bytes.NewReader(buf.Bytes()), nil
}
