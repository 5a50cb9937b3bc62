// Package settings provides the interface for user settings persistence
package settings

//go:generate mockgen -destination=mock/mock_repository.go -package=settingsmock github.com/tavernkeep/campaign-api/internal/repositories/settings Repository

import (
	"context"

	"github.com/tavernkeep/campaign-api/internal/entities"
)

// Repository defines the interface for user settings persistence
type Repository interface {
	// ListDigestRecipients retrieves the settings rows for users who opted
	// into email digests at the given frequency
	ListDigestRecipients(ctx context.Context, input ListDigestRecipientsInput) (*ListDigestRecipientsOutput, error)
}

// ListDigestRecipientsInput defines the input for listing digest recipients
type ListDigestRecipientsInput struct {
	Frequency string
}

// ListDigestRecipientsOutput defines the output for listing digest recipients
type ListDigestRecipientsOutput struct {
	Recipients []*entities.UserSettings
}
