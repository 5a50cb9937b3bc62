// Package campaigns provides the interface for campaign persistence
package campaigns

//go:generate mockgen -destination=mock/mock_repository.go -package=campaignsmock github.com/tavernkeep/campaign-api/internal/repositories/campaigns Repository

import (
	"context"

	"github.com/tavernkeep/campaign-api/internal/entities"
)

// Repository defines the interface for campaign persistence
type Repository interface {
	// Get retrieves a campaign by ID
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound if the campaign doesn't exist
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// GetMemberRole retrieves the role a user holds in a campaign
	// Returns errors.NotFound if the user is not a member
	GetMemberRole(ctx context.Context, input GetMemberRoleInput) (*GetMemberRoleOutput, error)
}

// GetInput defines the input for getting a campaign
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a campaign
type GetOutput struct {
	Campaign *entities.Campaign
}

// GetMemberRoleInput defines the input for a membership lookup
type GetMemberRoleInput struct {
	CampaignID string
	UserID     string
}

// GetMemberRoleOutput defines the output for a membership lookup
type GetMemberRoleOutput struct {
	Role string
}
