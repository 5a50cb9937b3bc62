package bestiary

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/tavernkeep/campaign-api/internal/codec/blocktext"
	"github.com/tavernkeep/campaign-api/internal/dbx"
	"github.com/tavernkeep/campaign-api/internal/entities"
	"github.com/tavernkeep/campaign-api/internal/errors"
	"github.com/tavernkeep/campaign-api/internal/pkg/clock"
)

const (
	errEntryNil        = "entry cannot be nil"
	errEntryIDEmpty    = "entry ID cannot be empty"
	errCampaignIDEmpty = "campaign ID cannot be empty"
)

type postgresRepository struct {
	db    dbx.DBTX
	clock clock.Clock
}

// PostgresConfig contains configuration for the Postgres bestiary repository.
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

// NewPostgres creates a new Postgres-backed bestiary repository
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

const entryColumns = `id, campaign_id, name, size, type, alignment,
	armor_class, hit_points, challenge_rating, xp, proficiency_bonus,
	ability_scores, speed, senses,
	traits, actions, bonus_actions, reactions, legendary_actions, lair_actions,
	image_url, visible, sort_order, created_at, updated_at`

func (r *postgresRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.CampaignID == "" {
		return nil, errors.InvalidArgument(errCampaignIDEmpty)
	}

	query := `SELECT ` + entryColumns + ` FROM campaign_bestiary_entries WHERE campaign_id = $1`
	args := []any{input.CampaignID}
	if input.VisibleOnly {
		query += ` AND visible`
	}
	query += ` ORDER BY sort_order, name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list bestiary entries")
	}
	defer func() { _ = rows.Close() }()

	var entries []*entities.BestiaryEntry
	for rows.Next() {
		entry, scanErr := scanEntry(rows.Scan)
		if scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read bestiary entries")
	}

	return &ListOutput{Entries: entries}, nil
}

func (r *postgresRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errEntryIDEmpty)
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM campaign_bestiary_entries WHERE id = $1`, input.ID)
	entry, err := scanEntry(row.Scan)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFoundf("bestiary entry %s not found", input.ID)
		}
		return nil, err
	}

	return &GetOutput{Entry: entry}, nil
}

func (r *postgresRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Entry == nil {
		return nil, errors.InvalidArgument(errEntryNil)
	}
	if input.Entry.ID == "" {
		return nil, errors.InvalidArgument(errEntryIDEmpty)
	}
	if input.Entry.CampaignID == "" {
		return nil, errors.InvalidArgument(errCampaignIDEmpty)
	}

	entry := *input.Entry
	now := r.clock.Now().Unix()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	fields, err := jsonFields(&entry)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO campaign_bestiary_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		ON CONFLICT (id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.CampaignID, entry.Name, entry.Size, entry.Type, entry.Alignment,
		entry.ArmorClass, entry.HitPoints, entry.ChallengeRating, entry.XP, entry.ProficiencyBonus,
		fields.abilityScores, fields.speed, fields.senses,
		fields.traits, fields.actions, fields.bonusActions, fields.reactions, fields.legendaryActions, fields.lairActions,
		entry.ImageURL, entry.Visible, entry.SortOrder, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create bestiary entry")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read insert result")
	}
	if affected == 0 {
		return nil, errors.AlreadyExistsf("bestiary entry %s already exists", entry.ID)
	}

	return &CreateOutput{Entry: &entry}, nil
}

func (r *postgresRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Entry == nil {
		return nil, errors.InvalidArgument(errEntryNil)
	}
	if input.Entry.ID == "" {
		return nil, errors.InvalidArgument(errEntryIDEmpty)
	}

	entry := *input.Entry
	entry.UpdatedAt = r.clock.Now().Unix()

	fields, err := jsonFields(&entry)
	if err != nil {
		return nil, err
	}

	query := `UPDATE campaign_bestiary_entries SET
		name = $2, size = $3, type = $4, alignment = $5,
		armor_class = $6, hit_points = $7, challenge_rating = $8, xp = $9, proficiency_bonus = $10,
		ability_scores = $11, speed = $12, senses = $13,
		traits = $14, actions = $15, bonus_actions = $16, reactions = $17, legendary_actions = $18, lair_actions = $19,
		image_url = $20, visible = $21, sort_order = $22, updated_at = $23
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Name, entry.Size, entry.Type, entry.Alignment,
		entry.ArmorClass, entry.HitPoints, entry.ChallengeRating, entry.XP, entry.ProficiencyBonus,
		fields.abilityScores, fields.speed, fields.senses,
		fields.traits, fields.actions, fields.bonusActions, fields.reactions, fields.legendaryActions, fields.lairActions,
		entry.ImageURL, entry.Visible, entry.SortOrder, entry.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update bestiary entry")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read update result")
	}
	if affected == 0 {
		return nil, errors.NotFoundf("bestiary entry %s not found", entry.ID)
	}

	return &UpdateOutput{Entry: &entry}, nil
}

func (r *postgresRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errEntryIDEmpty)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM campaign_bestiary_entries WHERE id = $1`, input.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete bestiary entry")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read delete result")
	}
	if affected == 0 {
		return nil, errors.NotFoundf("bestiary entry %s not found", input.ID)
	}

	return &DeleteOutput{}, nil
}

// encodedFields holds the JSONB column payloads for one entry.
type encodedFields struct {
	abilityScores []byte
	speed         []byte
	senses        []byte
	traits        []byte
	actions       []byte
	bonusActions  []byte
	reactions     []byte
	legendaryActions []byte
	lairActions   []byte
}

func jsonFields(entry *entities.BestiaryEntry) (*encodedFields, error) {
	var fields encodedFields
	var err error

	marshal := func(dst *[]byte, v any) {
		if err != nil {
			return
		}
		*dst, err = json.Marshal(v)
	}

	marshal(&fields.abilityScores, entry.AbilityScores)
	marshal(&fields.speed, orEmptyMap(entry.Speed))
	marshal(&fields.senses, orEmptyMap(entry.Senses))
	marshal(&fields.traits, orEmptyBlocks(entry.Traits))
	marshal(&fields.actions, orEmptyBlocks(entry.Actions))
	marshal(&fields.bonusActions, orEmptyBlocks(entry.BonusActions))
	marshal(&fields.reactions, orEmptyBlocks(entry.Reactions))
	marshal(&fields.legendaryActions, orEmptyBlocks(entry.LegendaryActions))
	marshal(&fields.lairActions, orEmptyBlocks(entry.LairActions))

	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal bestiary entry fields")
	}
	return &fields, nil
}

func orEmptyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func orEmptyBlocks(blocks []blocktext.Block) []blocktext.Block {
	if blocks == nil {
		return []blocktext.Block{}
	}
	return blocks
}

// scanEntry reads one row using the entryColumns order.
func scanEntry(scan func(dest ...any) error) (*entities.BestiaryEntry, error) {
	var entry entities.BestiaryEntry
	var abilityScores, speed, senses []byte
	var traits, actions, bonusActions, reactions, legendaryActions, lairActions []byte

	err := scan(
		&entry.ID, &entry.CampaignID, &entry.Name, &entry.Size, &entry.Type, &entry.Alignment,
		&entry.ArmorClass, &entry.HitPoints, &entry.ChallengeRating, &entry.XP, &entry.ProficiencyBonus,
		&abilityScores, &speed, &senses,
		&traits, &actions, &bonusActions, &reactions, &legendaryActions, &lairActions,
		&entry.ImageURL, &entry.Visible, &entry.SortOrder, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("bestiary entry not found")
		}
		return nil, errors.Wrap(err, "failed to scan bestiary entry")
	}

	unmarshal := func(raw []byte, dst any) {
		if err != nil || len(raw) == 0 {
			return
		}
		err = json.Unmarshal(raw, dst)
	}

	unmarshal(abilityScores, &entry.AbilityScores)
	unmarshal(speed, &entry.Speed)
	unmarshal(senses, &entry.Senses)
	unmarshal(traits, &entry.Traits)
	unmarshal(actions, &entry.Actions)
	unmarshal(bonusActions, &entry.BonusActions)
	unmarshal(reactions, &entry.Reactions)
	unmarshal(legendaryActions, &entry.LegendaryActions)
	unmarshal(lairActions, &entry.LairActions)

	if err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal bestiary entry fields")
	}
	return &entry, nil
}
