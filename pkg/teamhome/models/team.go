package models

import "time"

// Team is the root aggregate of TeamHome: it owns a membership roster and
// scopes messages, documents, folders and events.
type Team struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"not null" json:"name"`
	Premium   bool      `gorm:"default:false" json:"premium"`
	// Version is bumped on every roster write and checked on update so that
	// concurrent invitations cannot silently overwrite each other.
	Version uint `gorm:"not null;default:1" json:"version"`

	// Relationships
	Members []TeamMember `gorm:"foreignKey:TeamID" json:"users"`
}

// TeamMember is one entry of a team's ordered membership list
type TeamMember struct {
	ID       uint `gorm:"primarykey" json:"-"`
	TeamID   uint `gorm:"not null;uniqueIndex:idx_team_user" json:"-"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_team_user" json:"user_id"`
	Admin    bool `gorm:"default:false" json:"admin"`
	Position int  `gorm:"not null;default:0" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user"`
}
