package settings

import (
	"context"

	"github.com/tavernkeep/campaign-api/internal/dbx"
	"github.com/tavernkeep/campaign-api/internal/entities"
	"github.com/tavernkeep/campaign-api/internal/errors"
)

type postgresRepository struct {
	db dbx.DBTX
}

// PostgresConfig contains configuration for the Postgres settings repository.
type PostgresConfig struct {
	DB dbx.DBTX
}

// Validate validates the PostgresConfig.
func (cfg *PostgresConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.DB == nil {
		return errors.InvalidArgument("db cannot be nil")
	}
	return nil
}

// NewPostgres creates a new Postgres-backed settings repository
func NewPostgres(cfg *PostgresConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &postgresRepository{db: cfg.DB}, nil
}

func (r *postgresRepository) ListDigestRecipients(ctx context.Context, input ListDigestRecipientsInput) (*ListDigestRecipientsOutput, error) {
	if input.Frequency == "" {
		return nil, errors.InvalidArgument("frequency cannot be empty")
	}

	query := `SELECT user_id, email, digest_frequency, send_email
		FROM user_settings
		WHERE digest_frequency = $1 AND send_email
		ORDER BY user_id`

	rows, err := r.db.QueryContext(ctx, query, input.Frequency)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list digest recipients")
	}
	defer func() { _ = rows.Close() }()

	var recipients []*entities.UserSettings
	for rows.Next() {
		var s entities.UserSettings
		if err := rows.Scan(&s.UserID, &s.Email, &s.DigestFrequency, &s.SendEmail); err != nil {
			return nil, errors.Wrap(err, "failed to scan user settings")
		}
		recipients = append(recipients, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read digest recipients")
	}

	return &ListDigestRecipientsOutput{Recipients: recipients}, nil
}
