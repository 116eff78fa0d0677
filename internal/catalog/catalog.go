// Package catalog holds the in-memory food catalog: dataset parsing, the
// loaders that fetch datasets, and lookup and ranked search over the active
// snapshot.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"carbwise/internal/metrics"
	"carbwise/internal/model"
	"carbwise/internal/portion"

	"github.com/rs/zerolog"
)

// ErrReloadInProgress is returned by Reload while another reload runs.
var ErrReloadInProgress = errors.New("catalog reload already in progress")

// snapshot is an immutable view of one loaded dataset.
type snapshot struct {
	records      []model.FoodRecord
	lowered      []string
	byLowered    map[string]int
	byNormalized map[string]int
	source       string
	loadedAt     time.Time
}

func newSnapshot(records []model.FoodRecord, source string) *snapshot {
	s := &snapshot{
		records:      records,
		lowered:      make([]string, len(records)),
		byLowered:    make(map[string]int, len(records)),
		byNormalized: make(map[string]int, len(records)),
		source:       source,
		loadedAt:     time.Now(),
	}
	for i, r := range records {
		key := strings.ToLower(r.Description)
		s.lowered[i] = key
		// first occurrence wins for duplicate descriptions
		if _, ok := s.byLowered[key]; !ok {
			s.byLowered[key] = i
		}
		norm := portion.NormalizeName(r.Description)
		if _, ok := s.byNormalized[norm]; !ok && norm != "" {
			s.byNormalized[norm] = i
		}
	}
	return s
}

// Catalog serves lookups from the active snapshot. Readers never observe a
// partially loaded dataset: a new snapshot replaces the old one only after
// it has been parsed in full.
type Catalog struct {
	loader   Loader
	source   string
	logger   zerolog.Logger
	mu       sync.Mutex
	updating atomic.Bool
	active   atomic.Pointer[snapshot]
}

// New creates an empty catalog that reads source through loader.
func New(loader Loader, source string, logger zerolog.Logger) *Catalog {
	return &Catalog{
		loader: loader,
		source: source,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// NewWithRecords creates a catalog that is already loaded with records.
func NewWithRecords(records []model.FoodRecord, logger zerolog.Logger) *Catalog {
	c := &Catalog{
		source: "memory",
		logger: logger.With().Str("component", "catalog").Logger(),
	}
	c.active.Store(newSnapshot(records, c.source))
	return c
}

// Load reads the dataset once. Calls after a successful load are no-ops.
// A failure leaves the catalog unloaded and returns a *model.CatalogLoadError.
func (c *Catalog) Load(ctx context.Context) error {
	if c.active.Load() != nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active.Load() != nil {
		return nil
	}

	return c.loadLocked(ctx)
}

// Reload reparses the source and swaps the active snapshot on success.
// On failure the previous snapshot stays active.
func (c *Catalog) Reload(ctx context.Context) error {
	if !c.updating.CompareAndSwap(false, true) {
		c.logger.Info().Msg("reload already in progress, skipping")
		return ErrReloadInProgress
	}
	defer c.updating.Store(false)

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loadLocked(ctx)
}

func (c *Catalog) loadLocked(ctx context.Context) error {
	if c.loader == nil {
		return &model.CatalogLoadError{Source: c.source, Err: fmt.Errorf("no loader configured")}
	}

	start := time.Now()
	records, err := c.loader.Load(ctx, c.source)
	if err != nil {
		metrics.CatalogLoads.WithLabelValues("failure").Inc()
		c.logger.Error().Err(err).Str("source", c.source).Msg("failed to load food catalog")
		return &model.CatalogLoadError{Source: c.source, Err: err}
	}

	c.active.Store(newSnapshot(records, c.source))
	metrics.CatalogLoads.WithLabelValues("success").Inc()
	metrics.CatalogFoods.Set(float64(len(records)))

	c.logger.Info().
		Str("source", c.source).
		Int("foods", len(records)).
		Dur("duration", time.Since(start)).
		Msg("food catalog loaded")

	return nil
}

// IsLoaded reports whether a snapshot is active.
func (c *Catalog) IsLoaded() bool {
	return c.active.Load() != nil
}

// IsUpdating reports whether a reload is running.
func (c *Catalog) IsUpdating() bool {
	return c.updating.Load()
}

// Len returns the number of records in the active snapshot.
func (c *Catalog) Len() int {
	s := c.active.Load()
	if s == nil {
		return 0
	}
	return len(s.records)
}

// Stats describes the active snapshot.
func (c *Catalog) Stats() model.CatalogStats {
	stats := model.CatalogStats{Updating: c.IsUpdating()}
	s := c.active.Load()
	if s == nil {
		return stats
	}
	stats.Loaded = true
	stats.Foods = len(s.records)
	stats.Source = s.source
	stats.LoadedAt = s.loadedAt.UTC().Format(time.RFC3339)
	return stats
}

// GetByDescription returns the first record whose description equals name,
// ignoring case.
func (c *Catalog) GetByDescription(name string) (model.FoodRecord, error) {
	s := c.active.Load()
	if s == nil {
		return model.FoodRecord{}, model.ErrCatalogNotLoaded
	}
	i, ok := s.byLowered[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return model.FoodRecord{}, fmt.Errorf("%w: %q", model.ErrFoodNotFound, name)
	}
	return s.records[i], nil
}

// GetByNormalizedName matches name against descriptions after both are
// passed through portion.NormalizeName.
func (c *Catalog) GetByNormalizedName(name string) (model.FoodRecord, error) {
	s := c.active.Load()
	if s == nil {
		return model.FoodRecord{}, model.ErrCatalogNotLoaded
	}
	i, ok := s.byNormalized[portion.NormalizeName(name)]
	if !ok {
		return model.FoodRecord{}, fmt.Errorf("%w: %q", model.ErrFoodNotFound, name)
	}
	return s.records[i], nil
}
