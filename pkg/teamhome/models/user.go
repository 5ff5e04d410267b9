package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User represents a TeamHome account. Users are referenced by teams,
// content and events but never owned by them. PasswordHash is empty for
// users who only sign in through Auth0; Auth0Subject is the "sub" claim.
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"index" json:"email"`
	PhoneNumber  string         `gorm:"index" json:"phone_number,omitempty"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	AvatarURL    string         `json:"avatar_url,omitempty"`
	PasswordHash string         `json:"-"`
	Auth0Subject string         `gorm:"index" json:"-"`
	Active       bool           `gorm:"default:true" json:"active"`
}

// FullName returns "First Last", trimmed
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
