// Package campaign implements the orchestrator for campaign-scoped
// actions: authorization, character deletion, and image handling.
package campaign

//go:generate mockgen -destination=mock/mock_service.go -package=campaignmock github.com/tavernkeep/campaign-api/internal/orchestrators/campaign Service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tavernkeep/campaign-api/internal/entities"
	"github.com/tavernkeep/campaign-api/internal/errors"
	"github.com/tavernkeep/campaign-api/internal/pkg/idgen"
	"github.com/tavernkeep/campaign-api/internal/repositories/campaigns"
	"github.com/tavernkeep/campaign-api/internal/repositories/characters"
	"github.com/tavernkeep/campaign-api/internal/repositories/maps"
	"github.com/tavernkeep/campaign-api/internal/storage"
)

// maxImageSize caps character image uploads at 5 MiB.
const maxImageSize = 5 << 20

// Service defines the interface for campaign operations
type Service interface {
	// Authorize checks that a user may act on a campaign. The campaign
	// owner and DM members pass RequireDM; any member passes otherwise.
	Authorize(ctx context.Context, input *AuthorizeInput) (*AuthorizeOutput, error)

	// DeleteCharacter removes a character, its child rows, and its
	// stored images. Image removal is best effort.
	DeleteCharacter(ctx context.Context, input *DeleteCharacterInput) (*DeleteCharacterOutput, error)

	// ClearMapImage resets a map to the blank image sentinel and removes
	// the stored objects. Clearing an already blank map is a no-op.
	ClearMapImage(ctx context.Context, input *ClearMapImageInput) (*ClearMapImageOutput, error)

	// UploadCharacterImage stores a character image and returns its
	// public URL
	UploadCharacterImage(ctx context.Context, input *UploadCharacterImageInput) (*UploadCharacterImageOutput, error)
}

// ImageStore is the slice of the storage client this orchestrator uses.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	RemovePrefix(ctx context.Context, prefix string) error
}

// Config holds the dependencies for the campaign orchestrator
type Config struct {
	CampaignRepo  campaigns.Repository
	CharacterRepo characters.Repository
	MapRepo       maps.Repository
	Storage       ImageStore
	IDGenerator   idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CampaignRepo == nil {
		vb.RequiredField("CampaignRepo")
	}
	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.MapRepo == nil {
		vb.RequiredField("MapRepo")
	}
	if c.Storage == nil {
		vb.RequiredField("Storage")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	campaignRepo  campaigns.Repository
	characterRepo characters.Repository
	mapRepo       maps.Repository
	storage       ImageStore
	idGen         idgen.Generator
}

// New creates a new campaign orchestrator with the provided dependencies
func New(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		campaignRepo:  cfg.CampaignRepo,
		characterRepo: cfg.CharacterRepo,
		mapRepo:       cfg.MapRepo,
		storage:       cfg.Storage,
		idGen:         cfg.IDGenerator,
	}, nil
}

// AuthorizeInput defines the input for authorizing a campaign action
type AuthorizeInput struct {
	CampaignID string
	UserID     string
	// RequireDM restricts the action to the owner and DM members.
	RequireDM bool
}

// AuthorizeOutput defines the output for authorizing a campaign action
type AuthorizeOutput struct {
	Campaign *entities.Campaign
	// Role is the membership role, or empty for a non-member owner.
	Role    string
	IsOwner bool
}

func (o *orchestrator) Authorize(ctx context.Context, input *AuthorizeInput) (*AuthorizeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.CampaignID == "" {
		return nil, errors.InvalidArgument("campaign ID cannot be empty")
	}
	if input.UserID == "" {
		return nil, errors.Unauthenticated("user ID cannot be empty")
	}

	// The campaign row and the membership row live in different tables;
	// fetch both before deciding so a slow membership lookup never hides
	// a missing campaign.
	var (
		campaign *entities.Campaign
		role     string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := o.campaignRepo.Get(gctx, campaigns.GetInput{ID: input.CampaignID})
		if err != nil {
			return err
		}
		campaign = out.Campaign
		return nil
	})
	g.Go(func() error {
		out, err := o.campaignRepo.GetMemberRole(gctx, campaigns.GetMemberRoleInput{
			CampaignID: input.CampaignID,
			UserID:     input.UserID,
		})
		if err != nil {
			if errors.IsNotFound(err) {
				return nil
			}
			return err
		}
		role = out.Role
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	isOwner := campaign.OwnerID == input.UserID
	if !isOwner && role == "" {
		return nil, errors.PermissionDenied("user is not a member of this campaign")
	}
	if input.RequireDM && !isOwner && role != entities.RoleDM {
		return nil, errors.PermissionDenied("action requires the campaign owner or a DM")
	}

	return &AuthorizeOutput{Campaign: campaign, Role: role, IsOwner: isOwner}, nil
}

// DeleteCharacterInput defines the input for deleting a character
type DeleteCharacterInput struct {
	CampaignID  string
	CharacterID string
	UserID      string
}

// DeleteCharacterOutput defines the output for deleting a character
type DeleteCharacterOutput struct{}

func (o *orchestrator) DeleteCharacter(ctx context.Context, input *DeleteCharacterInput) (*DeleteCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}

	if _, err := o.Authorize(ctx, &AuthorizeInput{
		CampaignID: input.CampaignID,
		UserID:     input.UserID,
		RequireDM:  true,
	}); err != nil {
		return nil, err
	}

	charOut, err := o.characterRepo.Get(ctx, characters.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}
	if charOut.Character.CampaignID != input.CampaignID {
		return nil, errors.NotFoundf("character %s not found", input.CharacterID)
	}

	if _, err := o.characterRepo.Delete(ctx, characters.DeleteInput{ID: input.CharacterID}); err != nil {
		return nil, err
	}

	// Rows are gone; leftover objects only waste space.
	prefix := storage.CharacterImagePrefix(input.CharacterID)
	if err := o.storage.RemovePrefix(ctx, prefix); err != nil {
		slog.WarnContext(ctx, "failed to remove character images",
			"character_id", input.CharacterID,
			"prefix", prefix,
			"error", err)
	}

	return &DeleteCharacterOutput{}, nil
}

// ClearMapImageInput defines the input for clearing a map image
type ClearMapImageInput struct {
	CampaignID string
	MapID      string
	UserID     string
}

// ClearMapImageOutput defines the output for clearing a map image
type ClearMapImageOutput struct {
	// ImageURL is the blank sentinel after a successful clear.
	ImageURL string
}

func (o *orchestrator) ClearMapImage(ctx context.Context, input *ClearMapImageInput) (*ClearMapImageOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.MapID == "" {
		return nil, errors.InvalidArgument("map ID cannot be empty")
	}

	if _, err := o.Authorize(ctx, &AuthorizeInput{
		CampaignID: input.CampaignID,
		UserID:     input.UserID,
		RequireDM:  true,
	}); err != nil {
		return nil, err
	}

	mapOut, err := o.mapRepo.Get(ctx, maps.GetInput{ID: input.MapID})
	if err != nil {
		return nil, err
	}
	if mapOut.Map.CampaignID != input.CampaignID {
		return nil, errors.NotFoundf("map %s not found", input.MapID)
	}

	// Already blank: nothing stored, nothing to touch.
	if mapOut.Map.ImageURL == entities.BlankMapImageURL {
		return &ClearMapImageOutput{ImageURL: entities.BlankMapImageURL}, nil
	}

	if err := o.storage.RemovePrefix(ctx, storage.MapImagePrefix(input.CampaignID, input.MapID)); err != nil {
		return nil, errors.Wrap(err, "failed to remove map images")
	}

	if _, err := o.mapRepo.SetImageURL(ctx, maps.SetImageURLInput{
		ID:       input.MapID,
		ImageURL: entities.BlankMapImageURL,
	}); err != nil {
		return nil, err
	}

	return &ClearMapImageOutput{ImageURL: entities.BlankMapImageURL}, nil
}

// UploadCharacterImageInput defines the input for uploading a character image
type UploadCharacterImageInput struct {
	UserID      string
	CharacterID string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadCharacterImageOutput defines the output for uploading a character image
type UploadCharacterImageOutput struct {
	ImageURL string
}

func (o *orchestrator) UploadCharacterImage(ctx context.Context, input *UploadCharacterImageInput) (*UploadCharacterImageOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}
	if input.Body == nil {
		return nil, errors.InvalidArgument("image body cannot be empty")
	}
	ext, ok := imageExtension(input.ContentType)
	if !ok {
		return nil, errors.InvalidArgumentf("unsupported image content type %q", input.ContentType)
	}
	if input.Size <= 0 || input.Size > maxImageSize {
		return nil, errors.InvalidArgumentf("image size must be between 1 byte and %d bytes", maxImageSize)
	}

	charOut, err := o.characterRepo.Get(ctx, characters.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}
	char := charOut.Character

	// The character's player may always replace their own portrait;
	// anyone else needs owner or DM rights on the campaign.
	if char.PlayerID != input.UserID {
		if _, err := o.Authorize(ctx, &AuthorizeInput{
			CampaignID: char.CampaignID,
			UserID:     input.UserID,
			RequireDM:  true,
		}); err != nil {
			return nil, err
		}
	}

	key := fmt.Sprintf("%s%s%s", storage.CharacterImagePrefix(input.CharacterID), o.idGen.Generate(), ext)
	url, err := o.storage.Upload(ctx, key, input.ContentType, io.LimitReader(input.Body, maxImageSize))
	if err != nil {
		return nil, err
	}

	return &UploadCharacterImageOutput{ImageURL: url}, nil
}

func imageExtension(contentType string) (string, bool) {
	switch strings.ToLower(contentType) {
	case "image/png":
		return ".png", true
	case "image/jpeg", "image/jpg":
		return ".jpg", true
	case "image/webp":
		return ".webp", true
	case "image/gif":
		return ".gif", true
	default:
		return "", false
	}
}
