// Package characters provides the interface for character persistence
package characters

//go:generate mockgen -destination=mock/mock_repository.go -package=charactersmock github.com/tavernkeep/campaign-api/internal/repositories/characters Repository

import (
	"context"

	"github.com/tavernkeep/campaign-api/internal/entities"
)

// Repository defines the interface for character persistence
type Repository interface {
	// Get retrieves a character by ID
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound if the character doesn't exist
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Delete removes a character and its child rows (weapons, armor,
	// equipment, stats, spells). The deletes run as a sequence of
	// independent statements, not one transaction: a failure partway
	// returns the failing step's error and leaves the earlier deletes
	// in place.
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// GetInput defines the input for getting a character
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a character
type GetOutput struct {
	Character *entities.Character
}

// DeleteInput defines the input for deleting a character
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a character
type DeleteOutput struct {
	// Empty for now, can be extended later
}
