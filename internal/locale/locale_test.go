package locale_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tavernkeep/campaign-api/internal/locale"
)

type LocaleTestSuite struct {
	suite.Suite
}

func TestLocaleSuite(t *testing.T) {
	suite.Run(t, new(LocaleTestSuite))
}

func (s *LocaleTestSuite) TestNormalize() {
	testCases := []struct {
		input    string
		expected locale.Locale
	}{
		{"en", locale.English},
		{"EN", locale.English},
		{"English", locale.English},
		{"es", locale.Spanish},
		{"ES", locale.Spanish},
		{"Spanish", locale.Spanish},
		{"español", locale.Spanish},
		{"Espanol", locale.Spanish},
		{"es-MX", locale.Spanish},
		{"es_ES", locale.Spanish},
		{"en-US", locale.English},
		{"", locale.English},
		{"  es  ", locale.Spanish},
		{"klingon", locale.English},
		{"fr", locale.English},
	}

	for _, tc := range testCases {
		s.Run(tc.input, func() {
			s.Assert().Equal(tc.expected, locale.Normalize(tc.input))
		})
	}
}

func (s *LocaleTestSuite) TestSupported() {
	s.Assert().True(locale.Supported(locale.English))
	s.Assert().True(locale.Supported(locale.Spanish))
	s.Assert().False(locale.Supported(locale.Locale("fr")))
}

func (s *LocaleTestSuite) TestNormalizeClassID() {
	testCases := []struct {
		input    string
		expected string
	}{
		{"wizard", "wizard"},
		{"Wizard", "wizard"},
		{"mago", "wizard"},
		{"Mago", "wizard"},
		{"clérigo", "cleric"},
		{"Cleric", "cleric"},
		{"pícaro", "rogue"},
		{"Explorador", "ranger"},
		{"warlock", "warlock"},
		{"Blood Hunter", "blood-hunter"},
		{"  fighter  ", "fighter"},
	}

	for _, tc := range testCases {
		s.Run(tc.input, func() {
			s.Assert().Equal(tc.expected, locale.NormalizeClassID(tc.input))
		})
	}
}
