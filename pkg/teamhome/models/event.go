package models

import "time"

// EventAction is the verb of an activity record
type EventAction string

const (
	ActionCreated   EventAction = "created"
	ActionUpdated   EventAction = "updated"
	ActionInvited   EventAction = "invited"
	ActionKicked    EventAction = "kicked"
	ActionLeft      EventAction = "left"
	ActionDeleted   EventAction = "deleted"
	ActionUpgraded  EventAction = "upgraded"
	ActionCommented EventAction = "commented on"
)

// EventObject is the kind of thing an activity record is about
type EventObject string

const (
	ObjectTeam     EventObject = "team"
	ObjectUser     EventObject = "user"
	ObjectMessage  EventObject = "message"
	ObjectDocument EventObject = "document"
	ObjectFolder   EventObject = "folder"
	ObjectComment  EventObject = "comment"
)

// Event is an append-only activity record. Events are never updated.
type Event struct {
	ID            uint        `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time   `gorm:"index" json:"created_at"`
	TeamID        uint        `gorm:"not null;index" json:"team_id"`
	UserID        uint        `gorm:"not null;index" json:"user_id"`
	ActionString  EventAction `gorm:"type:varchar(32);not null" json:"action_string"`
	ObjectString  EventObject `gorm:"type:varchar(32);not null" json:"object_string"`
	EventTargetID uint        `json:"event_target_id"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
