package api

import (
	"net/http"
	"strconv"

	"github.com/tavernkeep/campaign-api/internal/errors"
	"github.com/tavernkeep/campaign-api/internal/locale"
	"github.com/tavernkeep/campaign-api/internal/orchestrators/reference"
	"github.com/tavernkeep/campaign-api/internal/rulesdata"
)

type listMonstersResponse struct {
	Total   int                         `json:"total"`
	Results []*rulesdata.ResolvedRecord `json:"results"`
}

func (h *Handler) handleListMonsters(w http.ResponseWriter, r *http.Request) {
	loc := locale.Normalize(r.URL.Query().Get("locale"))

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			errors.WriteHTTP(w, errors.InvalidArgument("limit must be a number"))
			return
		}
		limit = parsed
	}

	out, err := h.reference.ListMonsters(r.Context(), &reference.ListMonstersInput{
		Locale: loc,
		Name:   r.URL.Query().Get("name"),
		Limit:  limit,
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listMonstersResponse{
		Total:   out.Total,
		Results: out.Monsters,
	})
}

func (h *Handler) handleGetMonster(w http.ResponseWriter, r *http.Request) {
	out, err := h.reference.GetMonster(r.Context(), &reference.GetMonsterInput{
		Locale: locale.Normalize(r.URL.Query().Get("locale")),
		Index:  r.PathValue("index"),
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out.Monster)
}

type listSpellsResponse struct {
	Results []*rulesdata.ResolvedRecord `json:"results"`
}

func (h *Handler) handleListSpells(w http.ResponseWriter, r *http.Request) {
	class := r.URL.Query().Get("class")
	if class == "" {
		errors.WriteHTTP(w, errors.InvalidArgument("class query parameter is required"))
		return
	}

	level := 0
	if raw := r.URL.Query().Get("level"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			errors.WriteHTTP(w, errors.InvalidArgument("level must be a number"))
			return
		}
		level = parsed
	}

	out, err := h.reference.ListSpellsForClass(r.Context(), &reference.ListSpellsForClassInput{
		Locale:  locale.Normalize(r.URL.Query().Get("locale")),
		ClassID: class,
		Level:   level,
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listSpellsResponse{Results: out.Spells})
}

func (h *Handler) handleGetSpell(w http.ResponseWriter, r *http.Request) {
	out, err := h.reference.GetSpell(r.Context(), &reference.GetSpellInput{
		Locale: locale.Normalize(r.URL.Query().Get("locale")),
		Index:  r.PathValue("index"),
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out.Spell)
}

type classLevelResponse struct {
	Class    *rulesdata.ResolvedRecord   `json:"class"`
	Features []*rulesdata.ResolvedRecord `json:"features"`
	Spells   []*rulesdata.ResolvedRecord `json:"spells"`
}

func (h *Handler) handleGetClassLevel(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(r.PathValue("level"))
	if err != nil {
		errors.WriteHTTP(w, errors.InvalidArgument("level must be a number"))
		return
	}

	out, err := h.reference.GetClassLevel(r.Context(), &reference.GetClassLevelInput{
		Locale:  locale.Normalize(r.URL.Query().Get("locale")),
		ClassID: r.PathValue("classId"),
		Level:   level,
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, classLevelResponse{
		Class:    out.Class,
		Features: out.Features,
		Spells:   out.Spells,
	})
}
