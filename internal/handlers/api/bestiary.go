package api

import (
	"net/http"

	"github.com/tavernkeep/campaign-api/internal/auth"
	"github.com/tavernkeep/campaign-api/internal/entities"
	"github.com/tavernkeep/campaign-api/internal/errors"
	"github.com/tavernkeep/campaign-api/internal/locale"
	"github.com/tavernkeep/campaign-api/internal/orchestrators/bestiary"
)

// bestiaryEntryRequest is an entry payload plus optional free-text
// renditions of the block and table fields.
type bestiaryEntryRequest struct {
	entities.BestiaryEntry
	Text *textFieldsPayload `json:"text,omitempty"`
}

type textFieldsPayload struct {
	Speed            *string `json:"speed,omitempty"`
	Senses           *string `json:"senses,omitempty"`
	Traits           *string `json:"traits,omitempty"`
	Actions          *string `json:"actions,omitempty"`
	BonusActions     *string `json:"bonusActions,omitempty"`
	Reactions        *string `json:"reactions,omitempty"`
	LegendaryActions *string `json:"legendaryActions,omitempty"`
	LairActions      *string `json:"lairActions,omitempty"`
}

func (p *textFieldsPayload) toTextFields() *bestiary.TextFields {
	if p == nil {
		return nil
	}
	return &bestiary.TextFields{
		Speed:            p.Speed,
		Senses:           p.Senses,
		Traits:           p.Traits,
		Actions:          p.Actions,
		BonusActions:     p.BonusActions,
		Reactions:        p.Reactions,
		LegendaryActions: p.LegendaryActions,
		LairActions:      p.LairActions,
	}
}

// bestiaryEntryResponse pairs an entry with its text rendition so both
// the structured and the text editors can populate from one response.
type bestiaryEntryResponse struct {
	*entities.BestiaryEntry
	Text *bestiary.EntryText `json:"text"`
}

func entryResponse(entry *entities.BestiaryEntry) bestiaryEntryResponse {
	return bestiaryEntryResponse{
		BestiaryEntry: entry,
		Text:          bestiary.EncodeEntryText(entry),
	}
}

type listBestiaryResponse struct {
	Entries []bestiaryEntryResponse `json:"entries"`
}

func (h *Handler) handleListBestiary(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	out, err := h.bestiary.ListEntries(r.Context(), &bestiary.ListEntriesInput{
		CampaignID: r.PathValue("id"),
		UserID:     userID,
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	entries := make([]bestiaryEntryResponse, 0, len(out.Entries))
	for _, entry := range out.Entries {
		entries = append(entries, entryResponse(entry))
	}
	writeJSON(w, http.StatusOK, listBestiaryResponse{Entries: entries})
}

func (h *Handler) handleCreateBestiaryEntry(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req bestiaryEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	out, err := h.bestiary.CreateEntry(r.Context(), &bestiary.CreateEntryInput{
		CampaignID: r.PathValue("id"),
		UserID:     userID,
		Entry:      &req.BestiaryEntry,
		Text:       req.Text.toTextFields(),
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entryResponse(out.Entry))
}

func (h *Handler) handleUpdateBestiaryEntry(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req bestiaryEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	out, err := h.bestiary.UpdateEntry(r.Context(), &bestiary.UpdateEntryInput{
		CampaignID: r.PathValue("id"),
		EntryID:    r.PathValue("entryId"),
		UserID:     userID,
		Entry:      &req.BestiaryEntry,
		Text:       req.Text.toTextFields(),
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entryResponse(out.Entry))
}

func (h *Handler) handleDeleteBestiaryEntry(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	_, err := h.bestiary.DeleteEntry(r.Context(), &bestiary.DeleteEntryInput{
		CampaignID: r.PathValue("id"),
		EntryID:    r.PathValue("entryId"),
		UserID:     userID,
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type importMonsterRequest struct {
	MonsterIndex string `json:"monsterIndex"`
	Locale       string `json:"locale,omitempty"`
}

func (h *Handler) handleImportMonster(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req importMonsterRequest
	if err := decodeJSON(r, &req); err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	out, err := h.bestiary.ImportMonster(r.Context(), &bestiary.ImportMonsterInput{
		CampaignID:   r.PathValue("id"),
		UserID:       userID,
		MonsterIndex: req.MonsterIndex,
		Locale:       locale.Normalize(req.Locale),
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entryResponse(out.Entry))
}
