package entities

// Character is a player character owned by one campaign and one player.
// Child rows (weapons, armor, equipment, stats, spells) live in their own
// tables and are deleted alongside the character.
type Character struct {
	ID         string `json:"id"`
	CampaignID string `json:"campaignId"`
	PlayerID   string `json:"playerId"`
	Name       string `json:"name"`
	ClassID    string `json:"classId"`
	Level      int    `json:"level"`
	ImageURL   string `json:"imageUrl,omitempty"`
	CreatedAt  int64  `json:"createdAt"`
	UpdatedAt  int64  `json:"updatedAt"`
}

// CharacterWeapon is one weapon row belonging to a character.
type CharacterWeapon struct {
	ID          string `json:"id"`
	CharacterID string `json:"characterId"`
	Name        string `json:"name"`
	Damage      string `json:"damage,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// CharacterArmor is one armor row belonging to a character.
type CharacterArmor struct {
	ID          string `json:"id"`
	CharacterID string `json:"characterId"`
	Name        string `json:"name"`
	ArmorClass  int    `json:"armorClass"`
	Notes       string `json:"notes,omitempty"`
}

// CharacterEquipment is one equipment row belonging to a character.
type CharacterEquipment struct {
	ID          string `json:"id"`
	CharacterID string `json:"characterId"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
}

// CharacterStats is the single stats row belonging to a character.
type CharacterStats struct {
	CharacterID   string        `json:"characterId"`
	AbilityScores AbilityScores `json:"abilityScores"`
	MaxHP         int           `json:"maxHp"`
	CurrentHP     int           `json:"currentHp"`
	ArmorClass    int           `json:"armorClass"`
}

// CharacterSpell is one known/prepared spell row belonging to a character.
type CharacterSpell struct {
	ID          string `json:"id"`
	CharacterID string `json:"characterId"`
	SpellIndex  string `json:"spellIndex"`
	Prepared    bool   `json:"prepared"`
}
