package bestiary_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tavernkeep/campaign-api/internal/codec/blocktext"
	"github.com/tavernkeep/campaign-api/internal/entities"
	"github.com/tavernkeep/campaign-api/internal/errors"
	"github.com/tavernkeep/campaign-api/internal/locale"
	"github.com/tavernkeep/campaign-api/internal/orchestrators/bestiary"
	"github.com/tavernkeep/campaign-api/internal/orchestrators/campaign"
	"github.com/tavernkeep/campaign-api/internal/pkg/idgen"
	bestiaryrepo "github.com/tavernkeep/campaign-api/internal/repositories/bestiary"
	"github.com/tavernkeep/campaign-api/internal/rulesdata"
)

const testCampaignID = "camp-1"

// fakeAuthorizer grants or denies based on a per-user role table.
type fakeAuthorizer struct {
	roles   map[string]string
	isOwner map[string]bool
}

func (f *fakeAuthorizer) Authorize(_ context.Context, input *campaign.AuthorizeInput) (*campaign.AuthorizeOutput, error) {
	role, member := f.roles[input.UserID]
	owner := f.isOwner[input.UserID]
	if !member && !owner {
		return nil, errors.PermissionDenied("user is not a member of this campaign")
	}
	if input.RequireDM && !owner && role != entities.RoleDM {
		return nil, errors.PermissionDenied("action requires the campaign owner or a DM")
	}
	return &campaign.AuthorizeOutput{Role: role, IsOwner: owner}, nil
}

type fakeRepo struct {
	entries map[string]*entities.BestiaryEntry
}

func (f *fakeRepo) List(_ context.Context, input bestiaryrepo.ListInput) (*bestiaryrepo.ListOutput, error) {
	var entries []*entities.BestiaryEntry
	for _, e := range f.entries {
		if e.CampaignID != input.CampaignID {
			continue
		}
		if input.VisibleOnly && !e.Visible {
			continue
		}
		entries = append(entries, e)
	}
	return &bestiaryrepo.ListOutput{Entries: entries}, nil
}

func (f *fakeRepo) Get(_ context.Context, input bestiaryrepo.GetInput) (*bestiaryrepo.GetOutput, error) {
	e, ok := f.entries[input.ID]
	if !ok {
		return nil, errors.NotFoundf("bestiary entry %s not found", input.ID)
	}
	return &bestiaryrepo.GetOutput{Entry: e}, nil
}

func (f *fakeRepo) Create(_ context.Context, input bestiaryrepo.CreateInput) (*bestiaryrepo.CreateOutput, error) {
	if _, ok := f.entries[input.Entry.ID]; ok {
		return nil, errors.AlreadyExistsf("bestiary entry %s already exists", input.Entry.ID)
	}
	f.entries[input.Entry.ID] = input.Entry
	return &bestiaryrepo.CreateOutput{Entry: input.Entry}, nil
}

func (f *fakeRepo) Update(_ context.Context, input bestiaryrepo.UpdateInput) (*bestiaryrepo.UpdateOutput, error) {
	if _, ok := f.entries[input.Entry.ID]; !ok {
		return nil, errors.NotFoundf("bestiary entry %s not found", input.Entry.ID)
	}
	f.entries[input.Entry.ID] = input.Entry
	return &bestiaryrepo.UpdateOutput{Entry: input.Entry}, nil
}

func (f *fakeRepo) Delete(_ context.Context, input bestiaryrepo.DeleteInput) (*bestiaryrepo.DeleteOutput, error) {
	if _, ok := f.entries[input.ID]; !ok {
		return nil, errors.NotFoundf("bestiary entry %s not found", input.ID)
	}
	delete(f.entries, input.ID)
	return &bestiaryrepo.DeleteOutput{}, nil
}

type BestiarySuite struct {
	suite.Suite

	ctx  context.Context
	repo *fakeRepo
	svc  bestiary.Service
}

func (s *BestiarySuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = &fakeRepo{entries: map[string]*entities.BestiaryEntry{
		"entry-visible": {ID: "entry-visible", CampaignID: testCampaignID, Name: "Bandit", Visible: true, SortOrder: 0},
		"entry-hidden":  {ID: "entry-hidden", CampaignID: testCampaignID, Name: "Lich", Visible: false, SortOrder: 1},
	}}

	svc, err := bestiary.New(&bestiary.Config{
		Repo: s.repo,
		Authorizer: &fakeAuthorizer{
			roles:   map[string]string{"user-dm": entities.RoleDM, "user-player": entities.RolePlayer},
			isOwner: map[string]bool{"user-owner": true},
		},
		Resolver:    rulesdata.NewResolver(rulesdata.New(nil)),
		IDGenerator: idgen.NewSequential("entry"),
	})
	s.Require().NoError(err)
	s.svc = svc
}

func (s *BestiarySuite) TestListEntriesDMSeesHidden() {
	out, err := s.svc.ListEntries(s.ctx, &bestiary.ListEntriesInput{
		CampaignID: testCampaignID,
		UserID:     "user-dm",
	})
	s.Require().NoError(err)
	s.Assert().Len(out.Entries, 2)
}

func (s *BestiarySuite) TestListEntriesPlayerSeesVisibleOnly() {
	out, err := s.svc.ListEntries(s.ctx, &bestiary.ListEntriesInput{
		CampaignID: testCampaignID,
		UserID:     "user-player",
	})
	s.Require().NoError(err)

	s.Require().Len(out.Entries, 1)
	s.Assert().Equal("entry-visible", out.Entries[0].ID)
}

func (s *BestiarySuite) TestListEntriesNonMemberDenied() {
	_, err := s.svc.ListEntries(s.ctx, &bestiary.ListEntriesInput{
		CampaignID: testCampaignID,
		UserID:     "user-stranger",
	})
	s.Require().Error(err)
	s.Assert().Equal(errors.CodePermissionDenied, errors.GetCode(err))
}

func (s *BestiarySuite) TestCreateEntryDefaultsAbilityScores() {
	out, err := s.svc.CreateEntry(s.ctx, &bestiary.CreateEntryInput{
		CampaignID: testCampaignID,
		UserID:     "user-dm",
		Entry:      &entities.BestiaryEntry{Name: "Ogre"},
	})
	s.Require().NoError(err)

	s.Assert().NotEmpty(out.Entry.ID)
	s.Assert().Equal(testCampaignID, out.Entry.CampaignID)
	s.Assert().Equal(entities.DefaultAbilityScores(), out.Entry.AbilityScores)
}

func (s *BestiarySuite) TestCreateEntryDecodesTextFields() {
	traits := "Amphibious:\nThe creature can breathe air and water.\n\nPack Tactics:\nAdvantage when an ally is adjacent."
	speed := "walk: 30 ft.\nswim: 40 ft."

	out, err := s.svc.CreateEntry(s.ctx, &bestiary.CreateEntryInput{
		CampaignID: testCampaignID,
		UserID:     "user-owner",
		Entry:      &entities.BestiaryEntry{Name: "Kuo-toa"},
		Text: &bestiary.TextFields{
			Traits: &traits,
			Speed:  &speed,
		},
	})
	s.Require().NoError(err)

	s.Require().Len(out.Entry.Traits, 2)
	s.Assert().Equal("Amphibious", out.Entry.Traits[0].Name)
	s.Assert().Equal("30 ft.", out.Entry.Speed["walk"])
}

func (s *BestiarySuite) TestCreateEntryPlayerDenied() {
	_, err := s.svc.CreateEntry(s.ctx, &bestiary.CreateEntryInput{
		CampaignID: testCampaignID,
		UserID:     "user-player",
		Entry:      &entities.BestiaryEntry{Name: "Ogre"},
	})
	s.Require().Error(err)
	s.Assert().Equal(errors.CodePermissionDenied, errors.GetCode(err))
	s.Assert().Len(s.repo.entries, 2)
}

func (s *BestiarySuite) TestCreateEntryRequiresName() {
	_, err := s.svc.CreateEntry(s.ctx, &bestiary.CreateEntryInput{
		CampaignID: testCampaignID,
		UserID:     "user-dm",
		Entry:      &entities.BestiaryEntry{},
	})
	s.Require().Error(err)
	s.Assert().Equal(errors.CodeInvalidArgument, errors.GetCode(err))
}

func (s *BestiarySuite) TestUpdateEntryPreservesCreatedAt() {
	s.repo.entries["entry-visible"].CreatedAt = 1111

	out, err := s.svc.UpdateEntry(s.ctx, &bestiary.UpdateEntryInput{
		CampaignID: testCampaignID,
		EntryID:    "entry-visible",
		UserID:     "user-dm",
		Entry:      &entities.BestiaryEntry{Name: "Bandit Captain", Visible: true},
	})
	s.Require().NoError(err)

	s.Assert().Equal("Bandit Captain", out.Entry.Name)
	s.Assert().Equal(int64(1111), out.Entry.CreatedAt)
	s.Assert().Equal("entry-visible", out.Entry.ID)
}

func (s *BestiarySuite) TestUpdateEntryWrongCampaign() {
	s.repo.entries["entry-foreign"] = &entities.BestiaryEntry{ID: "entry-foreign", CampaignID: "camp-2", Name: "Imp"}

	_, err := s.svc.UpdateEntry(s.ctx, &bestiary.UpdateEntryInput{
		CampaignID: testCampaignID,
		EntryID:    "entry-foreign",
		UserID:     "user-dm",
		Entry:      &entities.BestiaryEntry{Name: "Imp"},
	})
	s.Require().Error(err)
	s.Assert().Equal(errors.CodeNotFound, errors.GetCode(err))
}

func (s *BestiarySuite) TestDeleteEntry() {
	_, err := s.svc.DeleteEntry(s.ctx, &bestiary.DeleteEntryInput{
		CampaignID: testCampaignID,
		EntryID:    "entry-hidden",
		UserID:     "user-owner",
	})
	s.Require().NoError(err)
	s.Assert().NotContains(s.repo.entries, "entry-hidden")
}

func (s *BestiarySuite) TestDeleteEntryPlayerDeniedLeavesRow() {
	_, err := s.svc.DeleteEntry(s.ctx, &bestiary.DeleteEntryInput{
		CampaignID: testCampaignID,
		EntryID:    "entry-hidden",
		UserID:     "user-player",
	})
	s.Require().Error(err)
	s.Assert().Equal(errors.CodePermissionDenied, errors.GetCode(err))
	s.Assert().Contains(s.repo.entries, "entry-hidden")
}

func (s *BestiarySuite) TestImportMonster() {
	out, err := s.svc.ImportMonster(s.ctx, &bestiary.ImportMonsterInput{
		CampaignID:   testCampaignID,
		UserID:       "user-dm",
		MonsterIndex: "goblin",
		Locale:       locale.English,
	})
	s.Require().NoError(err)

	s.Assert().Equal("Goblin", out.Entry.Name)
	s.Assert().Equal(testCampaignID, out.Entry.CampaignID)
	s.Assert().False(out.Entry.Visible)
	s.Assert().Equal(2, out.Entry.SortOrder)
	s.Assert().NotEmpty(out.Entry.Actions)
}

func (s *BestiarySuite) TestImportMonsterSpanishKeepsEnglishName() {
	out, err := s.svc.ImportMonster(s.ctx, &bestiary.ImportMonsterInput{
		CampaignID:   testCampaignID,
		UserID:       "user-dm",
		MonsterIndex: "goblin",
		Locale:       locale.Spanish,
	})
	s.Require().NoError(err)

	// English display name wins even though the Spanish dataset names
	// the goblin "Trasgo".
	s.Assert().Equal("Goblin", out.Entry.Name)
}

func (s *BestiarySuite) TestImportMonsterUnknownIndex() {
	_, err := s.svc.ImportMonster(s.ctx, &bestiary.ImportMonsterInput{
		CampaignID:   testCampaignID,
		UserID:       "user-dm",
		MonsterIndex: "tarrasque",
		Locale:       locale.English,
	})
	s.Require().Error(err)
	s.Assert().Equal(errors.CodeNotFound, errors.GetCode(err))
}

func (s *BestiarySuite) TestEncodeEntryTextRoundTrip() {
	entry := &entities.BestiaryEntry{
		Traits: []blocktext.Block{{Name: "Keen Smell", Description: "Advantage on smell checks."}},
		Speed:  map[string]any{"walk": "40 ft."},
	}

	text := bestiary.EncodeEntryText(entry)
	s.Assert().Contains(text.Traits, "Keen Smell")
	s.Assert().Contains(text.Speed, "walk: 40 ft.")
}

func (s *BestiarySuite) TestConfigValidation() {
	_, err := bestiary.New(&bestiary.Config{})
	s.Require().Error(err)
}

func TestBestiarySuite(t *testing.T) {
	suite.Run(t, new(BestiarySuite))
}
