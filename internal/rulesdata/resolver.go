package rulesdata

import (
	"context"
	"strings"

	"github.com/tavernkeep/campaign-api/internal/entities"
	"github.com/tavernkeep/campaign-api/internal/locale"
)

// ResolvedRecord is a record viewed through the bilingual fallback: the
// localized record where one exists, the English record as the naming
// source of truth, and the effective display name. The public rules
// dataset is authored primarily in English and translations are partial,
// so every display surface degrades to English and finally to the raw
// index rather than showing a blank name.
type ResolvedRecord struct {
	*entities.Record

	English     *entities.Record `json:"-"`
	DisplayName string           `json:"displayName"`
}

// DisplayName picks the effective display name: English name if present,
// otherwise the localized name, otherwise the raw index string.
func DisplayName(localized, english *entities.Record, index string) string {
	if english != nil && english.Name != "" {
		return english.Name
	}
	if localized != nil && localized.Name != "" {
		return localized.Name
	}
	return index
}

// Matches reports whether the record matches term with a case-insensitive
// substring match across index, localized name, English name, and
// type/category fields. An empty term matches everything.
func (r *ResolvedRecord) Matches(term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)

	candidates := []string{r.Index, r.DisplayName, r.Type, r.School}
	if r.Record != nil {
		candidates = append(candidates, r.Record.Name)
	}
	if r.English != nil {
		candidates = append(candidates, r.English.Name, r.English.Type)
	}

	for _, c := range candidates {
		if c != "" && strings.Contains(strings.ToLower(c), needle) {
			return true
		}
	}
	return false
}

// Resolver merges localized datasets with the English dataset.
type Resolver struct {
	store *Store
}

// NewResolver creates a Resolver over the given store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the effective view of one category for a locale. Every
// English record appears exactly once; localized-only records (rare, but
// translations drift) are appended after them.
func (r *Resolver) Resolve(ctx context.Context, loc locale.Locale, category Category) ([]*ResolvedRecord, error) {
	english, err := r.store.Get(ctx, locale.English, category)
	if err != nil {
		return nil, err
	}

	localized := english
	if loc != locale.English {
		localized, err = r.store.Get(ctx, loc, category)
		if err != nil {
			return nil, err
		}
	}

	resolved := make([]*ResolvedRecord, 0, len(english.Results))
	for _, en := range english.Results {
		local := en
		if loc != locale.English {
			if rec, ok := localized.ByIndex[en.Index]; ok {
				local = rec
			} else {
				local = en
			}
		}
		resolved = append(resolved, &ResolvedRecord{
			Record:      local,
			English:     en,
			DisplayName: DisplayName(local, en, en.Index),
		})
	}

	if loc != locale.English {
		for _, rec := range localized.Results {
			if rec.Index == "" {
				resolved = append(resolved, &ResolvedRecord{
					Record:      rec,
					DisplayName: DisplayName(rec, nil, rec.Index),
				})
				continue
			}
			if _, ok := english.ByIndex[rec.Index]; ok {
				continue
			}
			resolved = append(resolved, &ResolvedRecord{
				Record:      rec,
				DisplayName: DisplayName(rec, nil, rec.Index),
			})
		}
	}

	return resolved, nil
}

// ResolveIndex returns the effective view of a single record, or nil when
// the index exists in neither the localized nor the English dataset.
func (r *Resolver) ResolveIndex(ctx context.Context, loc locale.Locale, category Category, index string) (*ResolvedRecord, error) {
	english, err := r.store.Get(ctx, locale.English, category)
	if err != nil {
		return nil, err
	}
	en := english.ByIndex[index]

	var local *entities.Record
	if loc != locale.English {
		localized, err := r.store.Get(ctx, loc, category)
		if err != nil {
			return nil, err
		}
		local = localized.ByIndex[index]
	}

	if en == nil && local == nil {
		return nil, nil
	}

	record := local
	if record == nil {
		record = en
	}

	return &ResolvedRecord{
		Record:      record,
		English:     en,
		DisplayName: DisplayName(local, en, index),
	}, nil
}
