// Package rulesdata loads and caches the bundled SRD reference datasets
// and implements the bilingual fallback view over them.
package rulesdata

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/tavernkeep/campaign-api/internal/entities"
	"github.com/tavernkeep/campaign-api/internal/errors"
	"github.com/tavernkeep/campaign-api/internal/locale"
)

//go:embed data
var bundledData embed.FS

// Category identifies one bundled dataset family.
type Category string

// Dataset categories shipped with the application.
const (
	CategorySpells        Category = "spells"
	CategoryClasses       Category = "classes"
	CategoryFeatures      Category = "features"
	CategoryMonsters      Category = "monsters"
	CategoryClassLearning Category = "class-learning"
)

// Categories lists every bundled category.
func Categories() []Category {
	return []Category{
		CategorySpells,
		CategoryClasses,
		CategoryFeatures,
		CategoryMonsters,
		CategoryClassLearning,
	}
}

// Store is a process-lifetime cache of parsed reference datasets keyed by
// (locale, category). Source files are immutable build artifacts, so
// entries are never invalidated. Concurrent first access for a key is
// coalesced into a single load.
type Store struct {
	fsys fs.FS

	mu    sync.RWMutex
	cache map[string]*entities.Dataset
	group singleflight.Group
}

// Config contains configuration for the Store.
type Config struct {
	// FS overrides the embedded dataset filesystem. Tests use this to
	// inject fixture datasets.
	FS fs.FS
}

// New creates a Store backed by the bundled datasets unless cfg overrides
// the source filesystem.
func New(cfg *Config) *Store {
	fsys := fs.FS(bundledData)
	if cfg != nil && cfg.FS != nil {
		fsys = cfg.FS
	}

	return &Store{
		fsys:  fsys,
		cache: make(map[string]*entities.Dataset),
	}
}

// Get returns the dataset for the given locale and category. The first
// call for a key parses the bundled JSON source; later calls return the
// same *Dataset with no re-read.
func (s *Store) Get(ctx context.Context, loc locale.Locale, category Category) (*entities.Dataset, error) {
	key := string(loc) + "/" + string(category)

	s.mu.RLock()
	ds, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return ds, nil
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		// Re-check under the write path: a racing caller may have
		// populated the entry between our read miss and this load.
		s.mu.RLock()
		cached, exists := s.cache[key]
		s.mu.RUnlock()
		if exists {
			return cached, nil
		}

		loaded, loadErr := s.load(loc, category)
		if loadErr != nil {
			return nil, loadErr
		}

		s.mu.Lock()
		s.cache[key] = loaded
		s.mu.Unlock()

		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*entities.Dataset), nil
}

// candidatePaths lists the file locations tried for a dataset, in order.
func candidatePaths(loc locale.Locale, category Category) []string {
	return []string{
		fmt.Sprintf("data/%s/%s.json", loc, category),
		fmt.Sprintf("%s/%s.json", loc, category),
	}
}

func (s *Store) load(loc locale.Locale, category Category) (*entities.Dataset, error) {
	var raw []byte
	var found bool
	for _, path := range candidatePaths(loc, category) {
		data, err := fs.ReadFile(s.fsys, path)
		if err == nil {
			raw = data
			found = true
			break
		}
	}
	if !found {
		return nil, errors.Internalf("dataset not found: locale=%s category=%s", loc, category)
	}

	var ds entities.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, errors.Wrapf(err, "failed to parse dataset %s/%s", loc, category)
	}

	if err := validateDataset(&ds, loc, category); err != nil {
		return nil, err
	}

	if ds.Total == 0 {
		ds.Total = len(ds.Results)
	}
	if ds.ByIndex == nil {
		ds.ByIndex = make(map[string]*entities.Record, len(ds.Results))
		for _, rec := range ds.Results {
			if rec.Index == "" {
				continue
			}
			ds.ByIndex[rec.Index] = rec
		}
	}

	return &ds, nil
}

// validateDataset rejects malformed source records at load time rather
// than letting nils propagate through every consumer.
func validateDataset(ds *entities.Dataset, loc locale.Locale, category Category) error {
	seen := make(map[string]bool, len(ds.Results))
	for i, rec := range ds.Results {
		if rec == nil {
			return errors.Internalf("dataset %s/%s: record %d is null", loc, category, i)
		}
		if rec.Index != "" {
			if seen[rec.Index] {
				return errors.Internalf("dataset %s/%s: duplicate index %q", loc, category, rec.Index)
			}
			seen[rec.Index] = true
		}

		switch category {
		case CategorySpells:
			if rec.Level != nil && (*rec.Level < 0 || *rec.Level > 9) {
				return errors.Internalf("dataset %s/%s: spell %q has invalid level %d", loc, category, rec.Index, *rec.Level)
			}
		case CategoryClassLearning:
			levels := make(map[int]bool, len(rec.Levels))
			for _, lvl := range rec.Levels {
				if lvl.Level < 1 || lvl.Level > 20 {
					return errors.Internalf("dataset %s/%s: class %q has invalid level %d", loc, category, rec.Index, lvl.Level)
				}
				if levels[lvl.Level] {
					return errors.Internalf("dataset %s/%s: class %q has duplicate level %d", loc, category, rec.Index, lvl.Level)
				}
				levels[lvl.Level] = true
			}
		}
	}
	return nil
}
