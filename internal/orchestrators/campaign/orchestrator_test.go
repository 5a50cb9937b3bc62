package campaign_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/tavernkeep/campaign-api/internal/entities"
	"github.com/tavernkeep/campaign-api/internal/errors"
	"github.com/tavernkeep/campaign-api/internal/orchestrators/campaign"
	"github.com/tavernkeep/campaign-api/internal/pkg/idgen"
	"github.com/tavernkeep/campaign-api/internal/repositories/campaigns"
	campaignsmock "github.com/tavernkeep/campaign-api/internal/repositories/campaigns/mock"
	"github.com/tavernkeep/campaign-api/internal/repositories/characters"
	"github.com/tavernkeep/campaign-api/internal/repositories/maps"
)

const (
	testCampaignID = "camp-1"
	testOwnerID    = "user-owner"
	testDMID       = "user-dm"
	testPlayerID   = "user-player"
)

type fakeCharacterRepo struct {
	characters map[string]*entities.Character
	deleted    []string
	deleteErr  error
}

func (f *fakeCharacterRepo) Get(_ context.Context, input characters.GetInput) (*characters.GetOutput, error) {
	c, ok := f.characters[input.ID]
	if !ok {
		return nil, errors.NotFoundf("character %s not found", input.ID)
	}
	return &characters.GetOutput{Character: c}, nil
}

func (f *fakeCharacterRepo) Delete(_ context.Context, input characters.DeleteInput) (*characters.DeleteOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	if _, ok := f.characters[input.ID]; !ok {
		return nil, errors.NotFoundf("character %s not found", input.ID)
	}
	delete(f.characters, input.ID)
	f.deleted = append(f.deleted, input.ID)
	return &characters.DeleteOutput{}, nil
}

type fakeMapRepo struct {
	maps map[string]*entities.CampaignMap
}

func (f *fakeMapRepo) Get(_ context.Context, input maps.GetInput) (*maps.GetOutput, error) {
	m, ok := f.maps[input.ID]
	if !ok {
		return nil, errors.NotFoundf("map %s not found", input.ID)
	}
	return &maps.GetOutput{Map: m}, nil
}

func (f *fakeMapRepo) SetImageURL(_ context.Context, input maps.SetImageURLInput) (*maps.SetImageURLOutput, error) {
	m, ok := f.maps[input.ID]
	if !ok {
		return nil, errors.NotFoundf("map %s not found", input.ID)
	}
	m.ImageURL = input.ImageURL
	return &maps.SetImageURLOutput{Map: m}, nil
}

type fakeImageStore struct {
	uploads         []string
	removedPrefixes []string
	uploadErr       error
	removeErr       error
}

func (f *fakeImageStore) Upload(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads = append(f.uploads, key)
	return "https://cdn.example.com/storage/v1/object/public/campaign-assets/" + key, nil
}

func (f *fakeImageStore) RemovePrefix(_ context.Context, prefix string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removedPrefixes = append(f.removedPrefixes, prefix)
	return nil
}

type CampaignSuite struct {
	suite.Suite

	ctx          context.Context
	ctrl         *gomock.Controller
	campaignRepo *campaignsmock.MockRepository
	charRepo     *fakeCharacterRepo
	mapRepo      *fakeMapRepo
	store        *fakeImageStore
	svc          campaign.Service
}

func (s *CampaignSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.campaignRepo = campaignsmock.NewMockRepository(s.ctrl)
	s.charRepo = &fakeCharacterRepo{characters: map[string]*entities.Character{
		"char-1": {ID: "char-1", CampaignID: testCampaignID, PlayerID: testPlayerID, Name: "Aldric"},
	}}
	s.mapRepo = &fakeMapRepo{maps: map[string]*entities.CampaignMap{
		"map-blank": {ID: "map-blank", CampaignID: testCampaignID, ImageURL: entities.BlankMapImageURL},
		"map-image": {ID: "map-image", CampaignID: testCampaignID, ImageURL: "https://cdn.example.com/storage/v1/object/public/campaign-assets/campaigns/camp-1/maps/map-image/a.png"},
	}}
	s.store = &fakeImageStore{}

	svc, err := campaign.New(&campaign.Config{
		CampaignRepo:  s.campaignRepo,
		CharacterRepo: s.charRepo,
		MapRepo:       s.mapRepo,
		Storage:       s.store,
		IDGenerator:   idgen.NewSequential("img"),
	})
	s.Require().NoError(err)
	s.svc = svc
}

func (s *CampaignSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CampaignSuite) expectCampaign() {
	s.campaignRepo.EXPECT().
		Get(gomock.Any(), campaigns.GetInput{ID: testCampaignID}).
		Return(&campaigns.GetOutput{Campaign: &entities.Campaign{
			ID:      testCampaignID,
			OwnerID: testOwnerID,
		}}, nil).
		AnyTimes()
}

func (s *CampaignSuite) expectRole(userID, role string) {
	out := &campaigns.GetMemberRoleOutput{Role: role}
	var err error
	if role == "" {
		out = nil
		err = errors.NotFoundf("user %s is not a member of campaign %s", userID, testCampaignID)
	}
	s.campaignRepo.EXPECT().
		GetMemberRole(gomock.Any(), campaigns.GetMemberRoleInput{CampaignID: testCampaignID, UserID: userID}).
		Return(out, err).
		AnyTimes()
}

func (s *CampaignSuite) TestAuthorizeOwner() {
	s.expectCampaign()
	s.expectRole(testOwnerID, "")

	out, err := s.svc.Authorize(s.ctx, &campaign.AuthorizeInput{
		CampaignID: testCampaignID,
		UserID:     testOwnerID,
		RequireDM:  true,
	})
	s.Require().NoError(err)
	s.Assert().True(out.IsOwner)
}

func (s *CampaignSuite) TestAuthorizeDM() {
	s.expectCampaign()
	s.expectRole(testDMID, entities.RoleDM)

	out, err := s.svc.Authorize(s.ctx, &campaign.AuthorizeInput{
		CampaignID: testCampaignID,
		UserID:     testDMID,
		RequireDM:  true,
	})
	s.Require().NoError(err)
	s.Assert().False(out.IsOwner)
	s.Assert().Equal(entities.RoleDM, out.Role)
}

func (s *CampaignSuite) TestAuthorizePlayerDeniedForDMAction() {
	s.expectCampaign()
	s.expectRole(testPlayerID, entities.RolePlayer)

	_, err := s.svc.Authorize(s.ctx, &campaign.AuthorizeInput{
		CampaignID: testCampaignID,
		UserID:     testPlayerID,
		RequireDM:  true,
	})
	s.Require().Error(err)
	s.Assert().Equal(errors.CodePermissionDenied, errors.GetCode(err))
}

func (s *CampaignSuite) TestAuthorizePlayerAllowedForMemberAction() {
	s.expectCampaign()
	s.expectRole(testPlayerID, entities.RolePlayer)

	out, err := s.svc.Authorize(s.ctx, &campaign.AuthorizeInput{
		CampaignID: testCampaignID,
		UserID:     testPlayerID,
	})
	s.Require().NoError(err)
	s.Assert().Equal(entities.RolePlayer, out.Role)
}

func (s *CampaignSuite) TestAuthorizeNonMemberDenied() {
	s.expectCampaign()
	s.expectRole("user-stranger", "")

	_, err := s.svc.Authorize(s.ctx, &campaign.AuthorizeInput{
		CampaignID: testCampaignID,
		UserID:     "user-stranger",
	})
	s.Require().Error(err)
	s.Assert().Equal(errors.CodePermissionDenied, errors.GetCode(err))
}

func (s *CampaignSuite) TestAuthorizeUnknownCampaign() {
	s.campaignRepo.EXPECT().
		Get(gomock.Any(), campaigns.GetInput{ID: "camp-missing"}).
		Return(nil, errors.NotFoundf("campaign camp-missing not found")).
		AnyTimes()
	s.campaignRepo.EXPECT().
		GetMemberRole(gomock.Any(), gomock.Any()).
		Return(nil, errors.NotFound("not a member")).
		AnyTimes()

	_, err := s.svc.Authorize(s.ctx, &campaign.AuthorizeInput{
		CampaignID: "camp-missing",
		UserID:     testOwnerID,
	})
	s.Require().Error(err)
	s.Assert().Equal(errors.CodeNotFound, errors.GetCode(err))
}

func (s *CampaignSuite) TestAuthorizeMissingUser() {
	_, err := s.svc.Authorize(s.ctx, &campaign.AuthorizeInput{CampaignID: testCampaignID})
	s.Require().Error(err)
	s.Assert().Equal(errors.CodeUnauthenticated, errors.GetCode(err))
}

func (s *CampaignSuite) TestDeleteCharacter() {
	s.expectCampaign()
	s.expectRole(testOwnerID, "")

	_, err := s.svc.DeleteCharacter(s.ctx, &campaign.DeleteCharacterInput{
		CampaignID:  testCampaignID,
		CharacterID: "char-1",
		UserID:      testOwnerID,
	})
	s.Require().NoError(err)

	s.Assert().Equal([]string{"char-1"}, s.charRepo.deleted)
	s.Assert().Equal([]string{"characters/char-1/"}, s.store.removedPrefixes)
}

func (s *CampaignSuite) TestDeleteCharacterImageRemovalIsBestEffort() {
	s.expectCampaign()
	s.expectRole(testOwnerID, "")
	s.store.removeErr = errors.Internal("storage down")

	_, err := s.svc.DeleteCharacter(s.ctx, &campaign.DeleteCharacterInput{
		CampaignID:  testCampaignID,
		CharacterID: "char-1",
		UserID:      testOwnerID,
	})
	s.Require().NoError(err)
	s.Assert().Equal([]string{"char-1"}, s.charRepo.deleted)
}

func (s *CampaignSuite) TestDeleteCharacterDeniedForPlayerLeavesRow() {
	s.expectCampaign()
	s.expectRole(testPlayerID, entities.RolePlayer)

	_, err := s.svc.DeleteCharacter(s.ctx, &campaign.DeleteCharacterInput{
		CampaignID:  testCampaignID,
		CharacterID: "char-1",
		UserID:      testPlayerID,
	})
	s.Require().Error(err)
	s.Assert().Equal(errors.CodePermissionDenied, errors.GetCode(err))

	s.Assert().Contains(s.charRepo.characters, "char-1")
	s.Assert().Empty(s.store.removedPrefixes)
}

func (s *CampaignSuite) TestDeleteCharacterWrongCampaign() {
	s.expectCampaign()
	s.expectRole(testOwnerID, "")
	s.charRepo.characters["char-other"] = &entities.Character{ID: "char-other", CampaignID: "camp-2"}

	_, err := s.svc.DeleteCharacter(s.ctx, &campaign.DeleteCharacterInput{
		CampaignID:  testCampaignID,
		CharacterID: "char-other",
		UserID:      testOwnerID,
	})
	s.Require().Error(err)
	s.Assert().Equal(errors.CodeNotFound, errors.GetCode(err))
}

func (s *CampaignSuite) TestClearMapImage() {
	s.expectCampaign()
	s.expectRole(testDMID, entities.RoleDM)

	out, err := s.svc.ClearMapImage(s.ctx, &campaign.ClearMapImageInput{
		CampaignID: testCampaignID,
		MapID:      "map-image",
		UserID:     testDMID,
	})
	s.Require().NoError(err)

	s.Assert().Equal(entities.BlankMapImageURL, out.ImageURL)
	s.Assert().Equal(entities.BlankMapImageURL, s.mapRepo.maps["map-image"].ImageURL)
	s.Assert().Equal([]string{"campaigns/camp-1/maps/map-image/"}, s.store.removedPrefixes)
}

func (s *CampaignSuite) TestClearMapImageBlankIsNoOp() {
	s.expectCampaign()
	s.expectRole(testOwnerID, "")

	out, err := s.svc.ClearMapImage(s.ctx, &campaign.ClearMapImageInput{
		CampaignID: testCampaignID,
		MapID:      "map-blank",
		UserID:     testOwnerID,
	})
	s.Require().NoError(err)

	s.Assert().Equal(entities.BlankMapImageURL, out.ImageURL)
	s.Assert().Empty(s.store.removedPrefixes)
}

func (s *CampaignSuite) TestUploadCharacterImageByPlayer() {
	out, err := s.svc.UploadCharacterImage(s.ctx, &campaign.UploadCharacterImageInput{
		UserID:      testPlayerID,
		CharacterID: "char-1",
		ContentType: "image/png",
		Size:        128,
		Body:        strings.NewReader("png-bytes"),
	})
	s.Require().NoError(err)

	s.Require().Len(s.store.uploads, 1)
	s.Assert().True(strings.HasPrefix(s.store.uploads[0], "characters/char-1/"))
	s.Assert().True(strings.HasSuffix(s.store.uploads[0], ".png"))
	s.Assert().Contains(out.ImageURL, "characters/char-1/")
}

func (s *CampaignSuite) TestUploadCharacterImageByDM() {
	s.expectCampaign()
	s.expectRole(testDMID, entities.RoleDM)

	_, err := s.svc.UploadCharacterImage(s.ctx, &campaign.UploadCharacterImageInput{
		UserID:      testDMID,
		CharacterID: "char-1",
		ContentType: "image/jpeg",
		Size:        128,
		Body:        strings.NewReader("jpeg-bytes"),
	})
	s.Require().NoError(err)
	s.Assert().Len(s.store.uploads, 1)
}

func (s *CampaignSuite) TestUploadCharacterImageValidation() {
	cases := []struct {
		name  string
		input *campaign.UploadCharacterImageInput
	}{
		{"bad content type", &campaign.UploadCharacterImageInput{
			UserID: testPlayerID, CharacterID: "char-1",
			ContentType: "text/html", Size: 10, Body: strings.NewReader("x"),
		}},
		{"too large", &campaign.UploadCharacterImageInput{
			UserID: testPlayerID, CharacterID: "char-1",
			ContentType: "image/png", Size: 6 << 20, Body: strings.NewReader("x"),
		}},
		{"zero size", &campaign.UploadCharacterImageInput{
			UserID: testPlayerID, CharacterID: "char-1",
			ContentType: "image/png", Size: 0, Body: strings.NewReader("x"),
		}},
		{"missing character", &campaign.UploadCharacterImageInput{
			UserID: testPlayerID,
			ContentType: "image/png", Size: 10, Body: strings.NewReader("x"),
		}},
	}

	for _, tc := range cases {
		_, err := s.svc.UploadCharacterImage(s.ctx, tc.input)
		s.Require().Error(err, tc.name)
		s.Assert().Equal(errors.CodeInvalidArgument, errors.GetCode(err), tc.name)
		s.Assert().Empty(s.store.uploads, tc.name)
	}
}

func (s *CampaignSuite) TestConfigValidation() {
	_, err := campaign.New(&campaign.Config{})
	s.Require().Error(err)
}

func TestCampaignSuite(t *testing.T) {
	suite.Run(t, new(CampaignSuite))
}
