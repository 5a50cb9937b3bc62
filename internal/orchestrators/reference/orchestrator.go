// Package reference implements the orchestrator serving the shared D&D
// reference data: monsters, spells, and class level progressions, viewed
// through the bilingual fallback.
package reference

//go:generate mockgen -destination=mock/mock_service.go -package=referencemock github.com/tavernkeep/campaign-api/internal/orchestrators/reference Service

import (
	"context"

	"github.com/tavernkeep/campaign-api/internal/clients/srdapi"
	"github.com/tavernkeep/campaign-api/internal/entities"
	"github.com/tavernkeep/campaign-api/internal/errors"
	"github.com/tavernkeep/campaign-api/internal/locale"
	"github.com/tavernkeep/campaign-api/internal/rulesdata"
)

const (
	defaultMonsterLimit = 50
	maxMonsterLimit     = 200
)

// Service defines the interface for reference data operations
type Service interface {
	// ListMonsters returns reference monsters matching an optional name
	// filter, truncated to the requested limit
	ListMonsters(ctx context.Context, input *ListMonstersInput) (*ListMonstersOutput, error)

	// GetMonster returns one reference monster by index
	GetMonster(ctx context.Context, input *GetMonsterInput) (*GetMonsterOutput, error)

	// GetClassLevel returns the features and learnable spells for a class
	// at one level. A level the class has no data for yields empty lists.
	GetClassLevel(ctx context.Context, input *GetClassLevelInput) (*GetClassLevelOutput, error)

	// ListSpellsForClass returns the spells a class can learn, optionally
	// restricted to one class level
	ListSpellsForClass(ctx context.Context, input *ListSpellsForClassInput) (*ListSpellsForClassOutput, error)

	// GetSpell returns the detail view of one spell
	GetSpell(ctx context.Context, input *GetSpellInput) (*GetSpellOutput, error)
}

// SpellSource provides spell details, normally the SRD API client.
type SpellSource interface {
	GetSpell(ctx context.Context, index string, loc locale.Locale) (*srdapi.SpellView, error)
}

// Config holds the dependencies for the reference orchestrator
type Config struct {
	Resolver    *rulesdata.Resolver
	SpellSource SpellSource
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.SpellSource == nil {
		vb.RequiredField("SpellSource")
	}

	return vb.Build()
}

type orchestrator struct {
	resolver *rulesdata.Resolver
	spells   SpellSource
}

// New creates a new reference orchestrator with the provided dependencies
func New(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		resolver: cfg.Resolver,
		spells:   cfg.SpellSource,
	}, nil
}

// ListMonstersInput defines the input for listing monsters
type ListMonstersInput struct {
	Locale locale.Locale
	// Name filters by case-insensitive substring across localized and
	// English names. Empty matches everything.
	Name string
	// Limit caps the result count; zero means the default of 50.
	Limit int
}

// ListMonstersOutput defines the output for listing monsters
type ListMonstersOutput struct {
	Monsters []*rulesdata.ResolvedRecord
	Total    int
}

func (o *orchestrator) ListMonsters(ctx context.Context, input *ListMonstersInput) (*ListMonstersOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}

	limit := input.Limit
	if limit == 0 {
		limit = defaultMonsterLimit
	}
	if limit < 1 || limit > maxMonsterLimit {
		return nil, errors.InvalidArgumentf("limit must be between 1 and %d", maxMonsterLimit)
	}

	records, err := o.resolver.Resolve(ctx, input.Locale, rulesdata.CategoryMonsters)
	if err != nil {
		return nil, err
	}

	matched := make([]*rulesdata.ResolvedRecord, 0, limit)
	total := 0
	for _, rec := range records {
		if !rec.Matches(input.Name) {
			continue
		}
		total++
		if len(matched) < limit {
			matched = append(matched, rec)
		}
	}

	return &ListMonstersOutput{Monsters: matched, Total: total}, nil
}

// GetMonsterInput defines the input for getting a monster
type GetMonsterInput struct {
	Locale locale.Locale
	Index  string
}

// GetMonsterOutput defines the output for getting a monster
type GetMonsterOutput struct {
	Monster *rulesdata.ResolvedRecord
}

func (o *orchestrator) GetMonster(ctx context.Context, input *GetMonsterInput) (*GetMonsterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.Index == "" {
		return nil, errors.InvalidArgument("monster index cannot be empty")
	}

	rec, err := o.resolver.ResolveIndex(ctx, input.Locale, rulesdata.CategoryMonsters, input.Index)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.NotFoundf("monster %s not found", input.Index)
	}

	return &GetMonsterOutput{Monster: rec}, nil
}

// GetClassLevelInput defines the input for getting a class level
type GetClassLevelInput struct {
	Locale locale.Locale
	// ClassID accepts the canonical index or a display name in either
	// language.
	ClassID string
	Level   int
}

// GetClassLevelOutput defines the output for getting a class level
type GetClassLevelOutput struct {
	Class    *rulesdata.ResolvedRecord
	Features []*rulesdata.ResolvedRecord
	// Spells lists the spells learnable at exactly this level.
	Spells []*rulesdata.ResolvedRecord
}

func (o *orchestrator) GetClassLevel(ctx context.Context, input *GetClassLevelInput) (*GetClassLevelOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.ClassID == "" {
		return nil, errors.InvalidArgument("class ID cannot be empty")
	}
	if input.Level < 1 || input.Level > 20 {
		return nil, errors.InvalidArgument("level must be between 1 and 20")
	}

	classID := locale.NormalizeClassID(input.ClassID)

	class, err := o.resolver.ResolveIndex(ctx, input.Locale, rulesdata.CategoryClasses, classID)
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, errors.NotFoundf("class %s not found", input.ClassID)
	}

	features, err := o.classFeatures(ctx, input.Locale, classID, input.Level)
	if err != nil {
		return nil, err
	}

	spells, err := o.learnableSpells(ctx, input.Locale, classID, input.Level, true)
	if err != nil {
		return nil, err
	}

	return &GetClassLevelOutput{
		Class:    class,
		Features: features,
		Spells:   spells,
	}, nil
}

// ListSpellsForClassInput defines the input for listing class spells
type ListSpellsForClassInput struct {
	Locale  locale.Locale
	ClassID string
	// Level restricts the list to spells learnable at exactly this level.
	// Zero lists every level.
	Level int
}

// ListSpellsForClassOutput defines the output for listing class spells
type ListSpellsForClassOutput struct {
	Spells []*rulesdata.ResolvedRecord
}

func (o *orchestrator) ListSpellsForClass(ctx context.Context, input *ListSpellsForClassInput) (*ListSpellsForClassOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.ClassID == "" {
		return nil, errors.InvalidArgument("class ID cannot be empty")
	}
	if input.Level != 0 && (input.Level < 1 || input.Level > 20) {
		return nil, errors.InvalidArgument("level must be between 1 and 20")
	}

	classID := locale.NormalizeClassID(input.ClassID)

	spells, err := o.learnableSpells(ctx, input.Locale, classID, input.Level, input.Level != 0)
	if err != nil {
		return nil, err
	}

	return &ListSpellsForClassOutput{Spells: spells}, nil
}

// GetSpellInput defines the input for getting a spell
type GetSpellInput struct {
	Locale locale.Locale
	Index  string
}

// GetSpellOutput defines the output for getting a spell
type GetSpellOutput struct {
	Spell *srdapi.SpellView
}

func (o *orchestrator) GetSpell(ctx context.Context, input *GetSpellInput) (*GetSpellOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.Index == "" {
		return nil, errors.InvalidArgument("spell index cannot be empty")
	}

	view, err := o.spells.GetSpell(ctx, input.Index, input.Locale)
	if err != nil {
		return nil, err
	}

	return &GetSpellOutput{Spell: view}, nil
}

// classFeatures returns the features a class gains at exactly one level.
func (o *orchestrator) classFeatures(ctx context.Context, loc locale.Locale, classID string, level int) ([]*rulesdata.ResolvedRecord, error) {
	records, err := o.resolver.Resolve(ctx, loc, rulesdata.CategoryFeatures)
	if err != nil {
		return nil, err
	}

	features := make([]*rulesdata.ResolvedRecord, 0)
	for _, rec := range records {
		if rec.ClassIndex != classID {
			continue
		}
		if rec.Level == nil || *rec.Level != level {
			continue
		}
		features = append(features, rec)
	}
	return features, nil
}

// learnableSpells resolves the class-learning table for a class into
// full spell records. With exact=false the level acts as no filter and
// every learnable spell is returned.
func (o *orchestrator) learnableSpells(ctx context.Context, loc locale.Locale, classID string, level int, exact bool) ([]*rulesdata.ResolvedRecord, error) {
	learning, err := o.resolver.ResolveIndex(ctx, loc, rulesdata.CategoryClassLearning, classID)
	if err != nil {
		return nil, err
	}
	if learning == nil {
		// Non-casters have no learning table.
		return []*rulesdata.ResolvedRecord{}, nil
	}

	// Mechanics come from the English table; translations drift behind it.
	levels := learning.Levels
	if learning.English != nil && len(learning.English.Levels) > 0 {
		levels = learning.English.Levels
	}

	spells := make([]*rulesdata.ResolvedRecord, 0)
	seen := make(map[string]bool)
	for _, lvl := range levels {
		if exact && lvl.Level != level {
			continue
		}
		for _, ref := range lvl.Spells {
			if seen[ref.Index] {
				continue
			}
			seen[ref.Index] = true

			spell, err := o.resolver.ResolveIndex(ctx, loc, rulesdata.CategorySpells, ref.Index)
			if err != nil {
				return nil, err
			}
			if spell == nil {
				// Learning tables may reference spells outside the
				// bundled dataset; surface the bare reference.
				rec := refRecord(ref.Index, ref.Name)
				spells = append(spells, rec)
				continue
			}
			spells = append(spells, spell)
		}
	}
	return spells, nil
}

func refRecord(index, name string) *rulesdata.ResolvedRecord {
	display := name
	if display == "" {
		display = index
	}
	return &rulesdata.ResolvedRecord{
		Record:      &entities.Record{Index: index, Name: name},
		DisplayName: display,
	}
}
