package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Donation amount bounds, in currency units (USD).
const (
	DonationAmountMin = 10
	DonationAmountMax = 100000
)

// WalletTypes is the fixed set of wallet families a donor can pay with.
var WalletTypes = []string{"phantom", "metamask", "coinbase", "trust"}

// Currencies accepted across the supported wallets.
var Currencies = []string{"SOL", "ETH", "BTC", "USDC", "USDT"}

// Donation is a single contribution against a campaign. Rows are write-once:
// no update or delete path exists.
type Donation struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CampaignID   string    `gorm:"type:varchar(36);index;not null" json:"campaign_id"`
	Campaign     *Campaign `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"`
	Amount       float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	DonorName    string    `gorm:"size:100;not null" json:"donor_name"`
	DonorMessage *string   `gorm:"size:100" json:"donor_message,omitempty"`
	WalletType   string    `gorm:"type:enum('phantom','metamask','coinbase','trust');not null" json:"wallet_type"`
	Currency     string    `gorm:"type:enum('SOL','ETH','BTC','USDC','USDT');not null" json:"currency"`
	Signature    *string   `gorm:"size:191" json:"signature,omitempty"`
	UserID       *string   `gorm:"type:varchar(36);index" json:"user_id,omitempty"`
	User         *User     `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Donation) TableName() string {
	return "donations"
}

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// ValidWalletType reports whether w is a supported wallet family.
func ValidWalletType(w string) bool {
	for _, v := range WalletTypes {
		if v == w {
			return true
		}
	}
	return false
}

// ValidCurrency reports whether c is a supported currency code.
func ValidCurrency(c string) bool {
	for _, v := range Currencies {
		if v == c {
			return true
		}
	}
	return false
}
