// Package bestiary implements the orchestrator for campaign bestiary
// entries, including the text-format editing surface and reference
// monster imports.
package bestiary

//go:generate mockgen -destination=mock/mock_service.go -package=bestiarymock github.com/tavernkeep/campaign-api/internal/orchestrators/bestiary Service

import (
	"context"

	"github.com/tavernkeep/campaign-api/internal/codec/blocktext"
	"github.com/tavernkeep/campaign-api/internal/entities"
	"github.com/tavernkeep/campaign-api/internal/errors"
	"github.com/tavernkeep/campaign-api/internal/locale"
	"github.com/tavernkeep/campaign-api/internal/orchestrators/campaign"
	"github.com/tavernkeep/campaign-api/internal/pkg/idgen"
	bestiaryrepo "github.com/tavernkeep/campaign-api/internal/repositories/bestiary"
	"github.com/tavernkeep/campaign-api/internal/rulesdata"
)

// Service defines the interface for bestiary operations
type Service interface {
	// ListEntries returns a campaign's bestiary. Players only see
	// entries marked visible; the owner and DMs see everything.
	ListEntries(ctx context.Context, input *ListEntriesInput) (*ListEntriesOutput, error)

	// CreateEntry adds a creature to the campaign bestiary (owner/DM)
	CreateEntry(ctx context.Context, input *CreateEntryInput) (*CreateEntryOutput, error)

	// UpdateEntry replaces an existing entry (owner/DM)
	UpdateEntry(ctx context.Context, input *UpdateEntryInput) (*UpdateEntryOutput, error)

	// DeleteEntry removes an entry (owner/DM)
	DeleteEntry(ctx context.Context, input *DeleteEntryInput) (*DeleteEntryOutput, error)

	// ImportMonster copies a reference monster into the campaign
	// bestiary with names resolved for the requested locale (owner/DM)
	ImportMonster(ctx context.Context, input *ImportMonsterInput) (*ImportMonsterOutput, error)
}

// Authorizer checks campaign access, normally the campaign orchestrator.
type Authorizer interface {
	Authorize(ctx context.Context, input *campaign.AuthorizeInput) (*campaign.AuthorizeOutput, error)
}

// Config holds the dependencies for the bestiary orchestrator
type Config struct {
	Repo        bestiaryrepo.Repository
	Authorizer  Authorizer
	Resolver    *rulesdata.Resolver
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Repo == nil {
		vb.RequiredField("Repo")
	}
	if c.Authorizer == nil {
		vb.RequiredField("Authorizer")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	repo     bestiaryrepo.Repository
	authz    Authorizer
	resolver *rulesdata.Resolver
	idGen    idgen.Generator
}

// New creates a new bestiary orchestrator with the provided dependencies
func New(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		repo:     cfg.Repo,
		authz:    cfg.Authorizer,
		resolver: cfg.Resolver,
		idGen:    cfg.IDGenerator,
	}, nil
}

// TextFields carries the free-text renditions of an entry's block lists
// and movement/sense tables. A nil field leaves the structured value
// alone; a set field is decoded and replaces it.
type TextFields struct {
	Speed            *string
	Senses           *string
	Traits           *string
	Actions          *string
	BonusActions     *string
	Reactions        *string
	LegendaryActions *string
	LairActions      *string
}

// EntryText is the free-text rendition of an entry, for text-based
// editors. Produced by EncodeEntryText.
type EntryText struct {
	Speed            string `json:"speed"`
	Senses           string `json:"senses"`
	Traits           string `json:"traits"`
	Actions          string `json:"actions"`
	BonusActions     string `json:"bonusActions"`
	Reactions        string `json:"reactions"`
	LegendaryActions string `json:"legendaryActions"`
	LairActions      string `json:"lairActions"`
}

// EncodeEntryText renders an entry's structured fields as editable text.
func EncodeEntryText(entry *entities.BestiaryEntry) *EntryText {
	return &EntryText{
		Speed:            blocktext.EncodeKV(entry.Speed),
		Senses:           blocktext.EncodeKV(entry.Senses),
		Traits:           blocktext.EncodeBlocks(entry.Traits),
		Actions:          blocktext.EncodeBlocks(entry.Actions),
		BonusActions:     blocktext.EncodeBlocks(entry.BonusActions),
		Reactions:        blocktext.EncodeBlocks(entry.Reactions),
		LegendaryActions: blocktext.EncodeBlocks(entry.LegendaryActions),
		LairActions:      blocktext.EncodeBlocks(entry.LairActions),
	}
}

// applyTextFields decodes the set text fields into the entry.
func applyTextFields(entry *entities.BestiaryEntry, text *TextFields) {
	if text == nil {
		return
	}
	if text.Speed != nil {
		entry.Speed = blocktext.DecodeKV(*text.Speed)
	}
	if text.Senses != nil {
		entry.Senses = blocktext.DecodeKV(*text.Senses)
	}
	if text.Traits != nil {
		entry.Traits = blocktext.DecodeBlocks(*text.Traits)
	}
	if text.Actions != nil {
		entry.Actions = blocktext.DecodeBlocks(*text.Actions)
	}
	if text.BonusActions != nil {
		entry.BonusActions = blocktext.DecodeBlocks(*text.BonusActions)
	}
	if text.Reactions != nil {
		entry.Reactions = blocktext.DecodeBlocks(*text.Reactions)
	}
	if text.LegendaryActions != nil {
		entry.LegendaryActions = blocktext.DecodeBlocks(*text.LegendaryActions)
	}
	if text.LairActions != nil {
		entry.LairActions = blocktext.DecodeBlocks(*text.LairActions)
	}
}

// ListEntriesInput defines the input for listing bestiary entries
type ListEntriesInput struct {
	CampaignID string
	UserID     string
}

// ListEntriesOutput defines the output for listing bestiary entries
type ListEntriesOutput struct {
	Entries []*entities.BestiaryEntry
}

func (o *orchestrator) ListEntries(ctx context.Context, input *ListEntriesInput) (*ListEntriesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}

	authz, err := o.authz.Authorize(ctx, &campaign.AuthorizeInput{
		CampaignID: input.CampaignID,
		UserID:     input.UserID,
	})
	if err != nil {
		return nil, err
	}

	visibleOnly := !authz.IsOwner && authz.Role != entities.RoleDM

	out, err := o.repo.List(ctx, bestiaryrepo.ListInput{
		CampaignID:  input.CampaignID,
		VisibleOnly: visibleOnly,
	})
	if err != nil {
		return nil, err
	}

	return &ListEntriesOutput{Entries: out.Entries}, nil
}

// CreateEntryInput defines the input for creating a bestiary entry
type CreateEntryInput struct {
	CampaignID string
	UserID     string
	Entry      *entities.BestiaryEntry
	// Text carries free-text renditions that override the entry's
	// structured fields.
	Text *TextFields
}

// CreateEntryOutput defines the output for creating a bestiary entry
type CreateEntryOutput struct {
	Entry *entities.BestiaryEntry
}

func (o *orchestrator) CreateEntry(ctx context.Context, input *CreateEntryInput) (*CreateEntryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.Entry == nil {
		return nil, errors.InvalidArgument("entry cannot be nil")
	}
	if input.Entry.Name == "" {
		return nil, errors.InvalidArgument("entry name cannot be empty")
	}

	if _, err := o.authz.Authorize(ctx, &campaign.AuthorizeInput{
		CampaignID: input.CampaignID,
		UserID:     input.UserID,
		RequireDM:  true,
	}); err != nil {
		return nil, err
	}

	entry := *input.Entry
	entry.ID = o.idGen.Generate()
	entry.CampaignID = input.CampaignID
	if entry.AbilityScores == (entities.AbilityScores{}) {
		entry.AbilityScores = entities.DefaultAbilityScores()
	}
	applyTextFields(&entry, input.Text)

	out, err := o.repo.Create(ctx, bestiaryrepo.CreateInput{Entry: &entry})
	if err != nil {
		return nil, err
	}

	return &CreateEntryOutput{Entry: out.Entry}, nil
}

// UpdateEntryInput defines the input for updating a bestiary entry
type UpdateEntryInput struct {
	CampaignID string
	EntryID    string
	UserID     string
	Entry      *entities.BestiaryEntry
	Text       *TextFields
}

// UpdateEntryOutput defines the output for updating a bestiary entry
type UpdateEntryOutput struct {
	Entry *entities.BestiaryEntry
}

func (o *orchestrator) UpdateEntry(ctx context.Context, input *UpdateEntryInput) (*UpdateEntryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.EntryID == "" {
		return nil, errors.InvalidArgument("entry ID cannot be empty")
	}
	if input.Entry == nil {
		return nil, errors.InvalidArgument("entry cannot be nil")
	}

	if _, err := o.authz.Authorize(ctx, &campaign.AuthorizeInput{
		CampaignID: input.CampaignID,
		UserID:     input.UserID,
		RequireDM:  true,
	}); err != nil {
		return nil, err
	}

	existing, err := o.getCampaignEntry(ctx, input.CampaignID, input.EntryID)
	if err != nil {
		return nil, err
	}

	entry := *input.Entry
	entry.ID = input.EntryID
	entry.CampaignID = input.CampaignID
	entry.CreatedAt = existing.CreatedAt
	applyTextFields(&entry, input.Text)

	out, err := o.repo.Update(ctx, bestiaryrepo.UpdateInput{Entry: &entry})
	if err != nil {
		return nil, err
	}

	return &UpdateEntryOutput{Entry: out.Entry}, nil
}

// DeleteEntryInput defines the input for deleting a bestiary entry
type DeleteEntryInput struct {
	CampaignID string
	EntryID    string
	UserID     string
}

// DeleteEntryOutput defines the output for deleting a bestiary entry
type DeleteEntryOutput struct{}

func (o *orchestrator) DeleteEntry(ctx context.Context, input *DeleteEntryInput) (*DeleteEntryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.EntryID == "" {
		return nil, errors.InvalidArgument("entry ID cannot be empty")
	}

	if _, err := o.authz.Authorize(ctx, &campaign.AuthorizeInput{
		CampaignID: input.CampaignID,
		UserID:     input.UserID,
		RequireDM:  true,
	}); err != nil {
		return nil, err
	}

	if _, err := o.getCampaignEntry(ctx, input.CampaignID, input.EntryID); err != nil {
		return nil, err
	}

	if _, err := o.repo.Delete(ctx, bestiaryrepo.DeleteInput{ID: input.EntryID}); err != nil {
		return nil, err
	}

	return &DeleteEntryOutput{}, nil
}

// ImportMonsterInput defines the input for importing a reference monster
type ImportMonsterInput struct {
	CampaignID   string
	UserID       string
	MonsterIndex string
	Locale       locale.Locale
}

// ImportMonsterOutput defines the output for importing a reference monster
type ImportMonsterOutput struct {
	Entry *entities.BestiaryEntry
}

func (o *orchestrator) ImportMonster(ctx context.Context, input *ImportMonsterInput) (*ImportMonsterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.MonsterIndex == "" {
		return nil, errors.InvalidArgument("monster index cannot be empty")
	}

	if _, err := o.authz.Authorize(ctx, &campaign.AuthorizeInput{
		CampaignID: input.CampaignID,
		UserID:     input.UserID,
		RequireDM:  true,
	}); err != nil {
		return nil, err
	}

	monster, err := o.resolver.ResolveIndex(ctx, input.Locale, rulesdata.CategoryMonsters, input.MonsterIndex)
	if err != nil {
		return nil, err
	}
	if monster == nil {
		return nil, errors.NotFoundf("monster %s not found", input.MonsterIndex)
	}

	entry := monsterToEntry(monster)
	entry.ID = o.idGen.Generate()
	entry.CampaignID = input.CampaignID

	listOut, err := o.repo.List(ctx, bestiaryrepo.ListInput{CampaignID: input.CampaignID})
	if err != nil {
		return nil, err
	}
	entry.SortOrder = nextSortOrder(listOut.Entries)

	out, err := o.repo.Create(ctx, bestiaryrepo.CreateInput{Entry: entry})
	if err != nil {
		return nil, err
	}

	return &ImportMonsterOutput{Entry: out.Entry}, nil
}

func (o *orchestrator) getCampaignEntry(ctx context.Context, campaignID, entryID string) (*entities.BestiaryEntry, error) {
	out, err := o.repo.Get(ctx, bestiaryrepo.GetInput{ID: entryID})
	if err != nil {
		return nil, err
	}
	if out.Entry.CampaignID != campaignID {
		return nil, errors.NotFoundf("bestiary entry %s not found", entryID)
	}
	return out.Entry, nil
}

// monsterToEntry copies a resolved reference monster into a new entry.
// Imports start hidden so the DM can finish editing before players see
// the creature.
func monsterToEntry(monster *rulesdata.ResolvedRecord) *entities.BestiaryEntry {
	entry := &entities.BestiaryEntry{
		Name:             monster.DisplayName,
		Size:             monster.Size,
		Type:             monster.Type,
		Alignment:        monster.Alignment,
		ArmorClass:       monster.ArmorClass,
		HitPoints:        monster.HitPoints,
		ChallengeRating:  monster.ChallengeRating,
		XP:               monster.XP,
		ProficiencyBonus: monster.ProficiencyBonus,
		AbilityScores:    entities.DefaultAbilityScores(),
		Speed:            monster.Speed,
		Senses:           monster.Senses,
		Traits:           namedTextBlocks(monster.Traits),
		Actions:          namedTextBlocks(monster.Actions),
		LegendaryActions: namedTextBlocks(monster.LegendaryActions),
		Visible:          false,
	}
	if monster.Record != nil && monster.Record.AbilityScores != nil {
		entry.AbilityScores = *monster.Record.AbilityScores
	}
	return entry
}

func namedTextBlocks(texts []entities.NamedText) []blocktext.Block {
	if len(texts) == 0 {
		return nil
	}
	blocks := make([]blocktext.Block, 0, len(texts))
	for _, t := range texts {
		blocks = append(blocks, blocktext.Block{Name: t.Name, Description: t.Description})
	}
	return blocks
}

func nextSortOrder(entries []*entities.BestiaryEntry) int {
	next := 0
	for _, e := range entries {
		if e.SortOrder >= next {
			next = e.SortOrder + 1
		}
	}
	return next
}
