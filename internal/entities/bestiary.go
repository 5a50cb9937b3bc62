package entities

import "github.com/tavernkeep/campaign-api/internal/codec/blocktext"

// AbilityScores is the standard D&D sextuple. New bestiary entries
// default every score to 10.
type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// DefaultAbilityScores returns the sextuple used for new creatures.
func DefaultAbilityScores() AbilityScores {
	return AbilityScores{
		Strength:     10,
		Dexterity:    10,
		Constitution: 10,
		Intelligence: 10,
		Wisdom:       10,
		Charisma:     10,
	}
}

// BestiaryEntry is a campaign-owned creature record, distinct from the
// shared reference monster dataset. Combat numbers are nullable because
// the editor allows partially filled stat blocks.
type BestiaryEntry struct {
	ID         string `json:"id"`
	CampaignID string `json:"campaignId"`

	Name      string `json:"name"`
	Size      string `json:"size,omitempty"`
	Type      string `json:"type,omitempty"`
	Alignment string `json:"alignment,omitempty"`

	ArmorClass       *int     `json:"armorClass"`
	HitPoints        *int     `json:"hitPoints"`
	ChallengeRating  *float64 `json:"challengeRating"`
	XP               *int     `json:"xp"`
	ProficiencyBonus *int     `json:"proficiencyBonus"`

	AbilityScores AbilityScores `json:"abilityScores"`

	Speed  map[string]any `json:"speed,omitempty"`
	Senses map[string]any `json:"senses,omitempty"`

	Traits           []blocktext.Block `json:"traits,omitempty"`
	Actions          []blocktext.Block `json:"actions,omitempty"`
	BonusActions     []blocktext.Block `json:"bonusActions,omitempty"`
	Reactions        []blocktext.Block `json:"reactions,omitempty"`
	LegendaryActions []blocktext.Block `json:"legendaryActions,omitempty"`
	LairActions      []blocktext.Block `json:"lairActions,omitempty"`

	ImageURL  string `json:"imageUrl,omitempty"`
	Visible   bool   `json:"visible"`
	SortOrder int    `json:"sortOrder"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}
