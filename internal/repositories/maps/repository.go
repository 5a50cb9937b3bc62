// Package maps provides the interface for campaign map persistence
package maps

//go:generate mockgen -destination=mock/mock_repository.go -package=mapsmock github.com/tavernkeep/campaign-api/internal/repositories/maps Repository

import (
	"context"

	"github.com/tavernkeep/campaign-api/internal/entities"
)

// Repository defines the interface for campaign map persistence
type Repository interface {
	// Get retrieves a map by ID
	// Returns errors.NotFound if the map doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// SetImageURL updates a map's image URL
	// Returns errors.NotFound if the map doesn't exist
	SetImageURL(ctx context.Context, input SetImageURLInput) (*SetImageURLOutput, error)
}

// GetInput defines the input for getting a map
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a map
type GetOutput struct {
	Map *entities.CampaignMap
}

// SetImageURLInput defines the input for updating a map's image URL
type SetImageURLInput struct {
	ID       string
	ImageURL string
}

// SetImageURLOutput defines the output for updating a map's image URL
type SetImageURLOutput struct {
	Map *entities.CampaignMap
}
