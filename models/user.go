package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Role values for User.Role.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Governorates a user can register from.
var Governorates = []string{"GAZA", "NORTH_GAZA", "KHAN_YUNIS", "RAFAH", "DEIR_AL_BALAH"}

type User struct {
	ID           string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string     `gorm:"size:100;not null" json:"name"`
	Email        string     `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Password     string     `gorm:"size:255;not null" json:"-"`
	Phone        string     `gorm:"size:30;not null" json:"phone"`
	NationalID   string     `gorm:"size:30;uniqueIndex;not null" json:"national_id"`
	DateOfBirth  time.Time  `json:"date_of_birth"`
	Governorate  string     `gorm:"type:enum('GAZA','NORTH_GAZA','KHAN_YUNIS','RAFAH','DEIR_AL_BALAH');not null" json:"governorate"`
	ThumbnailURL *string    `gorm:"type:varchar(500)" json:"thumbnail_url,omitempty"`
	Role         string     `gorm:"type:enum('USER','ADMIN');default:'USER'" json:"role"`
	Campaigns    []Campaign `gorm:"foreignKey:OwnerID" json:"campaigns,omitempty"`
	Donations    []Donation `gorm:"foreignKey:UserID" json:"donations,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// HashPassword replaces the plain password with its bcrypt hash.
func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// ValidatePassword checks the given password against the stored hash.
func (u *User) ValidatePassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidGovernorate reports whether g is a known governorate value.
func ValidGovernorate(g string) bool {
	for _, v := range Governorates {
		if v == g {
			return true
		}
	}
	return false
}
