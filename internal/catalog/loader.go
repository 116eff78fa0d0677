package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"carbwise/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"
)

// Loader reads food records from a named source.
type Loader interface {
	// Load reads and parses the dataset identified by source.
	Load(ctx context.Context, source string) ([]model.FoodRecord, error)
}

// fileLoader implements Loader for JSON datasets on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based dataset loader.
// Paths ending in .gz are decompressed.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a dataset file and returns its valid food records.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]model.FoodRecord, error) {
	l.logger.Info().Str("file", filePath).Msg("loading food dataset")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open dataset file")
		return nil, fmt.Errorf("failed to open dataset file %s: %w", filePath, err)
	}
	defer file.Close()

	data, err := readDataset(file, strings.HasSuffix(filePath, ".gz"))
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read dataset file")
		return nil, fmt.Errorf("failed to read dataset file %s: %w", filePath, err)
	}

	records, report, err := Parse(ctx, data)
	logReport(l.logger, filePath, report)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to parse dataset file")
		return nil, fmt.Errorf("failed to parse dataset file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("foods_loaded", len(records)).
		Msg("food dataset loaded successfully")

	return records, nil
}

// readDataset returns the dataset bytes as UTF-8. Input that is not valid
// UTF-8 is decoded as ISO-8859-1.
func readDataset(r io.Reader, gzipped bool) ([]byte, error) {
	if gzipped {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if utf8.Valid(data) {
		return data, nil
	}

	decoded, err := io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode ISO-8859-1 dataset: %w", err)
	}
	return decoded, nil
}

func logReport(logger zerolog.Logger, source string, report *ParseReport) {
	if report == nil {
		return
	}

	for _, s := range report.Skipped {
		logger.Warn().
			Str("source", source).
			Int("index", s.Index).
			Str("description", s.Description).
			Str("reason", s.Reason).
			Msg("skipping invalid food record")
	}

	for _, a := range report.Accepted {
		ev := logger.Debug().
			Str("source", source).
			Str("description", a.Description).
			Str("serving_variant", a.ServingVariant).
			Str("nutrient_variant", a.NutrientVariant)
		if len(a.Defaulted) > 0 {
			ev = ev.Strs("defaulted", a.Defaulted)
		}
		ev.Msg("food record resolved")
	}
}
