package api

import (
	"net/http"
	"time"

	"github.com/tavernkeep/campaign-api/internal/auth"
	"github.com/tavernkeep/campaign-api/internal/errors"
	"github.com/tavernkeep/campaign-api/internal/orchestrators/campaign"
	"github.com/tavernkeep/campaign-api/internal/orchestrators/digest"
)

// maxUploadForm bounds the in-memory portion of multipart parsing.
const maxUploadForm = 6 << 20

func (h *Handler) handleDeleteCharacter(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	_, err := h.campaign.DeleteCharacter(r.Context(), &campaign.DeleteCharacterInput{
		CampaignID:  r.PathValue("id"),
		CharacterID: r.PathValue("characterId"),
		UserID:      userID,
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type clearMapImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

func (h *Handler) handleClearMapImage(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	out, err := h.campaign.ClearMapImage(r.Context(), &campaign.ClearMapImageInput{
		CampaignID: r.PathValue("id"),
		MapID:      r.PathValue("mapId"),
		UserID:     userID,
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, clearMapImageResponse{ImageURL: out.ImageURL})
}

type uploadImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

func (h *Handler) handleUploadCharacterImage(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadForm); err != nil {
		errors.WriteHTTP(w, errors.InvalidArgument("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		errors.WriteHTTP(w, errors.InvalidArgument("image file is required"))
		return
	}
	defer func() { _ = file.Close() }()

	out, err := h.campaign.UploadCharacterImage(r.Context(), &campaign.UploadCharacterImageInput{
		UserID:      userID,
		CharacterID: r.FormValue("characterId"),
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadImageResponse{ImageURL: out.ImageURL})
}

type runDigestRequest struct {
	Frequency   string     `json:"frequency"`
	SendEmail   bool       `json:"sendEmail"`
	PeriodStart *time.Time `json:"periodStart,omitempty"`
	PeriodEnd   *time.Time `json:"periodEnd,omitempty"`
}

type runDigestResponse struct {
	Frequency      string    `json:"frequency"`
	PeriodStart    time.Time `json:"periodStart"`
	PeriodEnd      time.Time `json:"periodEnd"`
	RecipientCount int       `json:"recipientCount"`
	SentCount      int       `json:"sentCount"`
}

func (h *Handler) handleRunDigest(w http.ResponseWriter, r *http.Request) {
	if err := h.requireDigestSecret(r); err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	var req runDigestRequest
	if err := decodeJSON(r, &req); err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	out, err := h.digest.RunDigest(r.Context(), &digest.RunDigestInput{
		Frequency:   req.Frequency,
		SendEmail:   req.SendEmail,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, runDigestResponse{
		Frequency:      out.Frequency,
		PeriodStart:    out.PeriodStart,
		PeriodEnd:      out.PeriodEnd,
		RecipientCount: out.RecipientCount,
		SentCount:      out.SentCount,
	})
}
