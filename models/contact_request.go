package models

import "time"

// ContactRequest is a message sent through the public contact form.
type ContactRequest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"size:100;not null" json:"full_name"`
	Email     string    `gorm:"size:191;not null" json:"email"`
	Phone     string    `gorm:"size:30;not null" json:"phone"`
	Subject   string    `gorm:"size:200;not null" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (ContactRequest) TableName() string {
	return "contact_requests"
}
