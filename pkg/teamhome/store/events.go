package store

import (
	"context"

	"github.com/mikepea/teamhome/pkg/teamhome/models"
	"gorm.io/gorm"
)

// EventStore persists activity events
type EventStore struct {
	db *gorm.DB
}

// NewEventStore creates a new event repository
func NewEventStore(db *gorm.DB) *EventStore {
	return &EventStore{db: db}
}

// Insert appends an event
func (s *EventStore) Insert(ctx context.Context, event *models.Event) error {
	return conn(ctx, s.db).Omit("User").Create(event).Error
}

// FindByID returns an event with its user resolved
func (s *EventStore) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := conn(ctx, s.db).Preload("User").First(&event, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &event, nil
}

// FindByTeam returns the events of a team, newest first
func (s *EventStore) FindByTeam(ctx context.Context, teamID uint) ([]models.Event, error) {
	return s.find(ctx, conn(ctx, s.db).Where("team_id = ?", teamID))
}

// FindByTeams returns the events of any of the given teams, newest first
func (s *EventStore) FindByTeams(ctx context.Context, teamIDs []uint) ([]models.Event, error) {
	if len(teamIDs) == 0 {
		return []models.Event{}, nil
	}
	return s.find(ctx, conn(ctx, s.db).Where("team_id IN ?", teamIDs))
}

// FindByUserInTeams returns the events a user performed in any of the given
// teams, newest first
func (s *EventStore) FindByUserInTeams(ctx context.Context, userID uint, teamIDs []uint) ([]models.Event, error) {
	if len(teamIDs) == 0 {
		return []models.Event{}, nil
	}
	return s.find(ctx, conn(ctx, s.db).Where("user_id = ? AND team_id IN ?", userID, teamIDs))
}

func (s *EventStore) find(ctx context.Context, query *gorm.DB) ([]models.Event, error) {
	var events []models.Event
	if err := query.Preload("User").Order("created_at DESC, id DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteByID deletes an event and returns it
func (s *EventStore) DeleteByID(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := conn(ctx, s.db).Delete(&models.Event{}, id)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return event, nil
}

// DeleteByTeam deletes all events of a team
func (s *EventStore) DeleteByTeam(ctx context.Context, teamID uint) (int64, error) {
	result := conn(ctx, s.db).Where("team_id = ?", teamID).Delete(&models.Event{})
	return result.RowsAffected, result.Error
}
