package campaigns

import (
	"context"
	"database/sql"

	"github.com/tavernkeep/campaign-api/internal/dbx"
	"github.com/tavernkeep/campaign-api/internal/entities"
	"github.com/tavernkeep/campaign-api/internal/errors"
)

const (
	errCampaignIDEmpty = "campaign ID cannot be empty"
	errUserIDEmpty     = "user ID cannot be empty"
)

type postgresRepository struct {
	db dbx.DBTX
}

// PostgresConfig contains configuration for the Postgres campaign repository.
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

// NewPostgres creates a new Postgres-backed campaign repository
func NewPostgres(cfg *PostgresConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &postgresRepository{db: cfg.DB}, nil
}

func (r *postgresRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCampaignIDEmpty)
	}

	query := `SELECT id, name, owner_id, created_at, updated_at FROM campaigns WHERE id = $1`

	var c entities.Campaign
	err := r.db.QueryRowContext(ctx, query, input.ID).
		Scan(&c.ID, &c.Name, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("campaign %s not found", input.ID)
		}
		return nil, errors.Wrap(err, "failed to get campaign")
	}

	return &GetOutput{Campaign: &c}, nil
}

func (r *postgresRepository) GetMemberRole(ctx context.Context, input GetMemberRoleInput) (*GetMemberRoleOutput, error) {
	if input.CampaignID == "" {
		return nil, errors.InvalidArgument(errCampaignIDEmpty)
	}
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	query := `SELECT role FROM campaign_members WHERE campaign_id = $1 AND user_id = $2`

	var role string
	err := r.db.QueryRowContext(ctx, query, input.CampaignID, input.UserID).Scan(&role)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("user %s is not a member of campaign %s", input.UserID, input.CampaignID)
		}
		return nil, errors.Wrap(err, "failed to get member role")
	}

	return &GetMemberRoleOutput{Role: role}, nil
}
