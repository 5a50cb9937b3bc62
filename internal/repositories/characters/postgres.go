package characters

import (
	"context"
	"database/sql"

	"github.com/tavernkeep/campaign-api/internal/dbx"
	"github.com/tavernkeep/campaign-api/internal/entities"
	"github.com/tavernkeep/campaign-api/internal/errors"
)

const errCharacterIDEmpty = "character ID cannot be empty"

// childTables are deleted before the character row itself, in order.
var childTables = []string{
	"character_weapons",
	"character_armor",
	"character_equipment",
	"character_stats",
	"character_spells",
}

type postgresRepository struct {
	db dbx.DBTX
}

// PostgresConfig contains configuration for the Postgres character repository.
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

// NewPostgres creates a new Postgres-backed character repository
func NewPostgres(cfg *PostgresConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &postgresRepository{db: cfg.DB}, nil
}

func (r *postgresRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	query := `SELECT id, campaign_id, player_id, name, class_id, level, image_url, created_at, updated_at
		FROM characters WHERE id = $1`

	var c entities.Character
	err := r.db.QueryRowContext(ctx, query, input.ID).
		Scan(&c.ID, &c.CampaignID, &c.PlayerID, &c.Name, &c.ClassID, &c.Level, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("character %s not found", input.ID)
		}
		return nil, errors.Wrap(err, "failed to get character")
	}

	return &GetOutput{Character: &c}, nil
}

func (r *postgresRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	for _, table := range childTables {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE character_id = $1`, input.ID); err != nil {
			return nil, errors.Wrapf(err, "failed to delete %s for character %s", table, input.ID)
		}
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM characters WHERE id = $1`, input.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete character %s", input.ID)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read delete result")
	}
	if affected == 0 {
		return nil, errors.NotFoundf("character %s not found", input.ID)
	}

	return &DeleteOutput{}, nil
}
