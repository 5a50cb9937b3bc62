// Package entities implements the campaign and reference data entities
package entities

// Record is one entry of a bundled reference dataset. The datasets are
// authored as loose JSON, so Record is the union of the fields each
// category carries; loaders validate the fields that matter for a
// category and reject malformed source records at load time.
type Record struct {
	Index string `json:"index"`
	Name  string `json:"name,omitempty"`

	// Long-form text. Spanish datasets keep localized descriptions even
	// when display names fall back to English.
	Desc []string `json:"desc,omitempty"`

	// Spells and class features
	Level       *int     `json:"level,omitempty"`
	School      string   `json:"school,omitempty"`
	CastingTime string   `json:"casting_time,omitempty"`
	Range       string   `json:"range,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Components  []string `json:"components,omitempty"`
	Classes     []string `json:"classes,omitempty"`

	// Classes
	HitDie int `json:"hit_die,omitempty"`

	// Features
	ClassIndex string `json:"class,omitempty"`

	// Monsters
	Size              string             `json:"size,omitempty"`
	Type              string             `json:"type,omitempty"`
	Subtype           string             `json:"subtype,omitempty"`
	Alignment         string             `json:"alignment,omitempty"`
	ArmorClass        *int               `json:"armor_class,omitempty"`
	HitPoints         *int               `json:"hit_points,omitempty"`
	ChallengeRating   *float64           `json:"challenge_rating,omitempty"`
	XP                *int               `json:"xp,omitempty"`
	ProficiencyBonus  *int               `json:"proficiency_bonus,omitempty"`
	AbilityScores     *AbilityScores     `json:"ability_scores,omitempty"`
	Speed             map[string]any     `json:"speed,omitempty"`
	Senses            map[string]any     `json:"senses,omitempty"`
	Traits            []NamedText        `json:"traits,omitempty"`
	Actions           []NamedText        `json:"actions,omitempty"`
	LegendaryActions  []NamedText        `json:"legendary_actions,omitempty"`

	// Class-learning
	Levels []LearningLevel `json:"levels,omitempty"`
}

// NamedText is a name + description pair as authored in the datasets.
type NamedText struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LearningLevel lists the spells a class may learn at one level.
// Levels are unique per class; an absent level means an empty list.
type LearningLevel struct {
	Level  int        `json:"level"`
	Spells []SpellRef `json:"spells,omitempty"`
}

// SpellRef is a lightweight reference into the spells dataset.
type SpellRef struct {
	Index string `json:"index"`
	Name  string `json:"name,omitempty"`
}

// Dataset is a parsed, immutable reference dataset for one
// (locale, category) pair.
type Dataset struct {
	Total   int                `json:"total"`
	Results []*Record          `json:"results"`
	ByIndex map[string]*Record `json:"-"`
}
