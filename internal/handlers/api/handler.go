// Package api implements the HTTP JSON surface of the campaign server.
package api

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/tavernkeep/campaign-api/internal/auth"
	"github.com/tavernkeep/campaign-api/internal/errors"
	"github.com/tavernkeep/campaign-api/internal/orchestrators/bestiary"
	"github.com/tavernkeep/campaign-api/internal/orchestrators/campaign"
	"github.com/tavernkeep/campaign-api/internal/orchestrators/digest"
	"github.com/tavernkeep/campaign-api/internal/orchestrators/reference"
)

// Handler routes the API endpoints to the orchestrators.
type Handler struct {
	reference reference.Service
	bestiary  bestiary.Service
	campaign  campaign.Service
	digest    digest.Service

	auth         *auth.Middleware
	digestSecret string
}

// Config holds the dependencies for the API handler
type Config struct {
	Reference reference.Service
	Bestiary  bestiary.Service
	Campaign  campaign.Service
	Digest    digest.Service

	Auth *auth.Middleware
	// DigestSecret guards the internal digest trigger endpoint.
	DigestSecret string
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Reference == nil {
		vb.RequiredField("Reference")
	}
	if c.Bestiary == nil {
		vb.RequiredField("Bestiary")
	}
	if c.Campaign == nil {
		vb.RequiredField("Campaign")
	}
	if c.Digest == nil {
		vb.RequiredField("Digest")
	}
	if c.Auth == nil {
		vb.RequiredField("Auth")
	}
	if c.DigestSecret == "" {
		vb.RequiredField("DigestSecret")
	}

	return vb.Build()
}

// New creates the API handler with the provided dependencies.
func New(cfg *Config) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Handler{
		reference:    cfg.Reference,
		bestiary:     cfg.Bestiary,
		campaign:     cfg.Campaign,
		digest:       cfg.Digest,
		auth:         cfg.Auth,
		digestSecret: cfg.DigestSecret,
	}, nil
}

// Routes builds the full route table wrapped in the logging and recovery
// middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.handleHealth)

	mux.HandleFunc("GET /api/dnd/monsters", h.handleListMonsters)
	mux.HandleFunc("GET /api/dnd/monsters/{index}", h.handleGetMonster)
	mux.HandleFunc("GET /api/dnd/spells", h.handleListSpells)
	mux.HandleFunc("GET /api/dnd/spells/{index}", h.handleGetSpell)
	mux.HandleFunc("GET /api/dnd/classes/{classId}/levels/{level}", h.handleGetClassLevel)

	mux.Handle("GET /api/dnd/campaigns/{id}/bestiary", h.authed(h.handleListBestiary))
	mux.Handle("POST /api/dnd/campaigns/{id}/bestiary", h.authed(h.handleCreateBestiaryEntry))
	mux.Handle("POST /api/dnd/campaigns/{id}/bestiary/import", h.authed(h.handleImportMonster))
	mux.Handle("POST /api/dnd/campaigns/{id}/bestiary/{entryId}", h.authed(h.handleUpdateBestiaryEntry))
	mux.Handle("POST /api/dnd/campaigns/{id}/bestiary/{entryId}/delete", h.authed(h.handleDeleteBestiaryEntry))

	mux.Handle("POST /api/dnd/characters/upload-image", h.authed(h.handleUploadCharacterImage))
	mux.Handle("POST /api/dnd/campaigns/{id}/characters/{characterId}/delete", h.authed(h.handleDeleteCharacter))
	mux.Handle("POST /api/dnd/campaigns/{id}/maps/{mapId}/clear-image", h.authed(h.handleClearMapImage))

	mux.HandleFunc("POST /api/internal/digest", h.handleRunDigest)

	return recoverMiddleware(logMiddleware(mux))
}

func (h *Handler) authed(fn http.HandlerFunc) http.Handler {
	return h.auth.Require(fn)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireDigestSecret checks the shared-secret header in constant time.
func (h *Handler) requireDigestSecret(r *http.Request) error {
	got := r.Header.Get("X-Digest-Secret")
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.digestSecret)) != 1 {
		return errors.Unauthenticated("invalid digest secret")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.InvalidArgument("invalid JSON body")
	}
	return nil
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		slog.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(r.Context(), "panic in handler",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec)
				errors.WriteHTTP(w, errors.Internal("internal server error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
