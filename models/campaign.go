package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Campaign funding bounds, in currency units (USD).
const (
	GoalAmountMin = 1000
	GoalAmountMax = 100000
)

// CampaignTypes is the fixed set of campaign categories.
var CampaignTypes = []string{
	"Family", "Community", "Education", "Emergencies",
	"Events", "Medical", "Volunteer", "Other",
}

// Video link kinds accepted in Campaign.VideoLinks.
var VideoLinkTypes = []string{"youtube", "direct", "embed"}

// VideoLink is one entry of a campaign's video list: a hosted video link, a
// direct file link, or raw embed markup.
type VideoLink struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// VideoLinkList stores the video links as a JSON column.
type VideoLinkList []VideoLink

func (v VideoLinkList) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	return json.Marshal(v)
}

func (v *VideoLinkList) Scan(src interface{}) error {
	if src == nil {
		*v = nil
		return nil
	}
	var data []byte
	switch s := src.(type) {
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		return fmt.Errorf("unsupported type %T for VideoLinkList", src)
	}
	if len(data) == 0 {
		*v = nil
		return nil
	}
	return json.Unmarshal(data, v)
}

// JSONMap stores free-form key/value data (extra social links) as JSON.
type JSONMap map[string]string

func (m JSONMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch s := src.(type) {
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		return fmt.Errorf("unsupported type %T for JSONMap", src)
	}
	if len(data) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(data, m)
}

type Campaign struct {
	ID               string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title            string        `gorm:"size:100;not null" json:"title"`
	Description      string        `gorm:"type:text;not null" json:"description"`
	GoalAmount       float64       `gorm:"type:decimal(12,2);not null" json:"goal_amount"`
	CurrentAmount    float64       `gorm:"type:decimal(12,2);not null;default:0" json:"current_amount"`
	CampaignType     string        `gorm:"type:enum('Family','Community','Education','Emergencies','Events','Medical','Volunteer','Other');not null" json:"campaign_type"`
	ImageURL         string        `gorm:"type:varchar(500);not null" json:"image_url"`
	FacebookURL      *string       `gorm:"type:varchar(500)" json:"facebook_url,omitempty"`
	InstagramURL     *string       `gorm:"type:varchar(500)" json:"instagram_url,omitempty"`
	TiktokURL        *string       `gorm:"type:varchar(500)" json:"tiktok_url,omitempty"`
	OtherSocialLinks JSONMap       `gorm:"type:json" json:"other_social_links,omitempty"`
	VideoLinks       VideoLinkList `gorm:"type:json" json:"video_links,omitempty"`
	ThankYouMessage  string        `gorm:"size:200;not null" json:"thank_you_message"`
	Approved         bool          `gorm:"not null;default:false" json:"approved"`
	OwnerID          string        `gorm:"type:varchar(36);index;not null" json:"owner_id"`
	Owner            *User         `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Donations        []Donation    `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE" json:"donations,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ValidCampaignType reports whether t is a known campaign category.
func ValidCampaignType(t string) bool {
	for _, v := range CampaignTypes {
		if v == t {
			return true
		}
	}
	return false
}

// SanitizeVideoLinks drops entries with an unknown type or empty value, the
// same filtering applied on both create and update.
func SanitizeVideoLinks(links []VideoLink) VideoLinkList {
	var out VideoLinkList
	for _, l := range links {
		if l.Value == "" {
			continue
		}
		for _, t := range VideoLinkTypes {
			if l.Type == t {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

// ErrInvalidGoalAmount is returned by ValidateGoalAmount for out-of-range goals.
var ErrInvalidGoalAmount = errors.New("goal amount must be between 1,000 and 100,000")

// ValidateGoalAmount enforces the [GoalAmountMin, GoalAmountMax] funding range.
func ValidateGoalAmount(amount float64) error {
	if amount < GoalAmountMin || amount > GoalAmountMax {
		return ErrInvalidGoalAmount
	}
	return nil
}
