// Package srdapi fetches spell details from the public D&D 5e rules API
// and blends them with the bundled bilingual datasets. Results are
// cached in Redis so repeated lookups don't hit the upstream service.
package srdapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	apientities "github.com/fadedpez/dnd5e-api/entities"

	"github.com/tavernkeep/campaign-api/internal/errors"
	"github.com/tavernkeep/campaign-api/internal/locale"
	"github.com/tavernkeep/campaign-api/internal/redis"
	"github.com/tavernkeep/campaign-api/internal/rulesdata"
)

const spellCacheKeyFormat = "srd:spell:%s:%s"

// SpellFetcher is the slice of the upstream client this package uses.
type SpellFetcher interface {
	GetSpell(key string) (*apientities.Spell, error)
}

// SpellView is the spell detail shape served to clients: upstream
// mechanics plus display name and description through the bilingual
// fallback (English name wins, localized description kept).
type SpellView struct {
	Index         string   `json:"index"`
	Name          string   `json:"name"`
	Level         int      `json:"level"`
	School        string   `json:"school,omitempty"`
	CastingTime   string   `json:"castingTime,omitempty"`
	Range         string   `json:"range,omitempty"`
	Duration      string   `json:"duration,omitempty"`
	Components    []string `json:"components,omitempty"`
	Description   []string `json:"description,omitempty"`
	Ritual        bool     `json:"ritual"`
	Concentration bool     `json:"concentration"`
}

// Config contains configuration for the SRD API client.
type Config struct {
	// BaseURL for the rules API (optional, defaults to the public endpoint)
	BaseURL string
	// HTTPTimeout for upstream requests (optional, defaults to 30 seconds)
	HTTPTimeout time.Duration
	// CacheTTL for cached spell views (optional, defaults to 24 hours)
	CacheTTL time.Duration

	Redis    redis.Client
	Resolver *rulesdata.Resolver

	// Fetcher overrides the constructed upstream client, for tests.
	Fetcher SpellFetcher
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Redis == nil {
		return errors.InvalidArgument("redis client cannot be nil")
	}
	if cfg.Resolver == nil {
		return errors.InvalidArgument("resolver cannot be nil")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.dnd5eapi.co/api/2014/"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	return nil
}

// Client looks up spells upstream with a Redis-backed cache.
type Client struct {
	fetcher  SpellFetcher
	redis    redis.Client
	resolver *rulesdata.Resolver
	ttl      time.Duration
}

// New creates a new SRD API client with the given configuration.
func New(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fetcher := cfg.Fetcher
	if fetcher == nil {
		base, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
			Client:  &http.Client{Timeout: cfg.HTTPTimeout},
			BaseURL: cfg.BaseURL,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create rules API client")
		}
		fetcher = base
	}

	return &Client{
		fetcher:  fetcher,
		redis:    cfg.Redis,
		resolver: cfg.Resolver,
		ttl:      cfg.CacheTTL,
	}, nil
}

// GetSpell returns the spell view for one index in the given locale.
// Views are cached per (locale, index) for the configured TTL. When the
// upstream service is unreachable the bundled dataset serves the view;
// a spell known to neither is NotFound.
func (c *Client) GetSpell(ctx context.Context, index string, loc locale.Locale) (*SpellView, error) {
	if index == "" {
		return nil, errors.InvalidArgument("spell index cannot be empty")
	}

	cacheKey := fmt.Sprintf(spellCacheKeyFormat, loc, index)
	if cached, err := c.redis.Get(ctx, cacheKey).Result(); err == nil {
		var view SpellView
		if err := json.Unmarshal([]byte(cached), &view); err == nil {
			return &view, nil
		}
		// Corrupt cache entry: fall through and rebuild.
	}

	bundled, err := c.resolver.ResolveIndex(ctx, loc, rulesdata.CategorySpells, index)
	if err != nil {
		return nil, err
	}

	view := &SpellView{Index: index}

	upstream, upstreamErr := c.fetcher.GetSpell(index)
	if upstreamErr == nil && upstream != nil {
		view.Name = upstream.Name
		view.Level = upstream.SpellLevel
		view.CastingTime = upstream.CastingTime
		view.Range = upstream.Range
		view.Duration = upstream.Duration
		view.Ritual = upstream.Ritual
		view.Concentration = upstream.Concentration
		if upstream.SpellSchool != nil {
			view.School = upstream.SpellSchool.Name
		}
	}

	if bundled != nil {
		applyBundled(view, bundled, loc)
	}

	if upstreamErr != nil {
		if bundled == nil {
			return nil, errors.NotFoundf("spell %s not found", index)
		}
		if lvl := bundled.Level; lvl != nil {
			view.Level = *lvl
		}
		view.CastingTime = bundled.CastingTime
		view.Range = bundled.Range
		view.Duration = bundled.Duration
	}

	if payload, err := json.Marshal(view); err == nil {
		// Best effort: a cache write failure never fails the lookup.
		_ = c.redis.Set(ctx, cacheKey, payload, c.ttl).Err()
	}

	return view, nil
}

// applyBundled overlays the bundled record: display name always wins
// (English-first fallback), localized description and school replace the
// upstream English text when the dataset carries them.
func applyBundled(view *SpellView, rec *rulesdata.ResolvedRecord, loc locale.Locale) {
	if rec.DisplayName != "" {
		view.Name = rec.DisplayName
	}
	if len(rec.Desc) > 0 {
		view.Description = rec.Desc
	}
	if len(rec.Components) > 0 {
		view.Components = rec.Components
	}
	if loc != locale.English && rec.School != "" {
		view.School = rec.School
	}
}
