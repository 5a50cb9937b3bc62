package maps

import (
	"context"
	"database/sql"

	"github.com/tavernkeep/campaign-api/internal/dbx"
	"github.com/tavernkeep/campaign-api/internal/entities"
	"github.com/tavernkeep/campaign-api/internal/errors"
	"github.com/tavernkeep/campaign-api/internal/pkg/clock"
)

const errMapIDEmpty = "map ID cannot be empty"

type postgresRepository struct {
	db    dbx.DBTX
	clock clock.Clock
}

// PostgresConfig contains configuration for the Postgres map repository.
type PostgresConfig struct {
	DB    dbx.DBTX
	Clock clock.Clock
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

// NewPostgres creates a new Postgres-backed map repository
func NewPostgres(cfg *PostgresConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &postgresRepository{db: cfg.DB, clock: c}, nil
}

func (r *postgresRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errMapIDEmpty)
	}

	query := `SELECT id, campaign_id, name, image_url, created_at, updated_at FROM campaign_maps WHERE id = $1`

	var m entities.CampaignMap
	err := r.db.QueryRowContext(ctx, query, input.ID).
		Scan(&m.ID, &m.CampaignID, &m.Name, &m.ImageURL, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("map %s not found", input.ID)
		}
		return nil, errors.Wrap(err, "failed to get map")
	}

	return &GetOutput{Map: &m}, nil
}

func (r *postgresRepository) SetImageURL(ctx context.Context, input SetImageURLInput) (*SetImageURLOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errMapIDEmpty)
	}

	now := r.clock.Now().Unix()

	result, err := r.db.ExecContext(ctx,
		`UPDATE campaign_maps SET image_url = $2, updated_at = $3 WHERE id = $1`,
		input.ID, input.ImageURL, now)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update map image")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read update result")
	}
	if affected == 0 {
		return nil, errors.NotFoundf("map %s not found", input.ID)
	}

	out, err := r.Get(ctx, GetInput{ID: input.ID})
	if err != nil {
		return nil, err
	}

	return &SetImageURLOutput{Map: out.Map}, nil
}
