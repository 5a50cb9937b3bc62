package entities

// Campaign member roles.
const (
	RoleDM     = "dm"
	RolePlayer = "player"
)

// BlankMapImageURL is the sentinel a map carries when no image has been
// uploaded. Clearing a map that already has it is a no-op.
const BlankMapImageURL = "blank://default-map"

// Campaign is the top-level ownership unit for all campaign content.
type Campaign struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// CampaignMember links a user to a campaign with a role.
type CampaignMember struct {
	CampaignID string `json:"campaignId"`
	UserID     string `json:"userId"`
	Role       string `json:"role"`
	CreatedAt  int64  `json:"createdAt"`
}

// CampaignMap is a battle or world map owned by a campaign.
type CampaignMap struct {
	ID         string `json:"id"`
	CampaignID string `json:"campaignId"`
	Name       string `json:"name"`
	ImageURL   string `json:"imageUrl"`
	CreatedAt  int64  `json:"createdAt"`
	UpdatedAt  int64  `json:"updatedAt"`
}

// UserSettings carries per-user notification preferences consumed by the
// digest job.
type UserSettings struct {
	UserID          string `json:"userId"`
	Email           string `json:"email"`
	DigestFrequency string `json:"digestFrequency"`
	SendEmail       bool   `json:"sendEmail"`
}
