// Package bestiary provides the interface for bestiary entry persistence
package bestiary

//go:generate mockgen -destination=mock/mock_repository.go -package=bestiarymock github.com/tavernkeep/campaign-api/internal/repositories/bestiary Repository

import (
	"context"

	"github.com/tavernkeep/campaign-api/internal/entities"
)

// Repository defines the interface for bestiary entry persistence
type Repository interface {
	// List retrieves a campaign's bestiary entries ordered by sort order
	// Returns errors.InvalidArgument for empty campaign IDs
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// Get retrieves one entry by ID
	// Returns errors.NotFound if the entry doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Create inserts a new entry
	// Returns errors.AlreadyExists if an entry with the same ID exists
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Update replaces an existing entry
	// Returns errors.NotFound if the entry doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes an entry
	// Returns errors.NotFound if the entry doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// ListInput defines the input for listing a campaign's entries
type ListInput struct {
	CampaignID string
	// VisibleOnly restricts the list to entries players may see.
	VisibleOnly bool
}

// ListOutput defines the output for listing a campaign's entries
type ListOutput struct {
	Entries []*entities.BestiaryEntry
}

// GetInput defines the input for getting an entry
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting an entry
type GetOutput struct {
	Entry *entities.BestiaryEntry
}

// CreateInput defines the input for creating an entry
type CreateInput struct {
	Entry *entities.BestiaryEntry
}

// CreateOutput defines the output for creating an entry
type CreateOutput struct {
	Entry *entities.BestiaryEntry
}

// UpdateInput defines the input for updating an entry
type UpdateInput struct {
	Entry *entities.BestiaryEntry
}

// UpdateOutput defines the output for updating an entry
type UpdateOutput struct {
	Entry *entities.BestiaryEntry
}

// DeleteInput defines the input for deleting an entry
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting an entry
type DeleteOutput struct{}
