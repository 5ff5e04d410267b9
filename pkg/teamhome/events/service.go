package events

import (
	"context"
	"errors"

	"github.com/mikepea/teamhome/pkg/teamhome/apperr"
	"github.com/mikepea/teamhome/pkg/teamhome/membership"
	"github.com/mikepea/teamhome/pkg/teamhome/models"
	"github.com/mikepea/teamhome/pkg/teamhome/store"
)

var knownActions = map[models.EventAction]bool{
	models.ActionCreated:   true,
	models.ActionUpdated:   true,
	models.ActionInvited:   true,
	models.ActionKicked:    true,
	models.ActionLeft:      true,
	models.ActionDeleted:   true,
	models.ActionUpgraded:  true,
	models.ActionCommented: true,
}

var knownObjects = map[models.EventObject]bool{
	models.ObjectTeam:     true,
	models.ObjectUser:     true,
	models.ObjectMessage:  true,
	models.ObjectDocument: true,
	models.ObjectFolder:   true,
	models.ObjectComment:  true,
}

// Service serves the activity feed to members of the teams it belongs to
type Service struct {
	events *store.EventStore
	teams  *store.TeamStore
}

// NewService creates a feed service
func NewService(events *store.EventStore, teams *store.TeamStore) *Service {
	return &Service{events: events, teams: teams}
}

func eventMissing() *apperr.Error {
	return apperr.New(apperr.NotFound, "Event doesn't exist.")
}

func forbidden() *apperr.Error {
	return apperr.New(apperr.Forbidden, "You do not have permission to do that.")
}

func (s *Service) team(ctx context.Context, teamID uint) (*models.Team, error) {
	team, err := s.teams.FindByID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "Team doesn't exist")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load team", err)
	}
	return team, nil
}

func (s *Service) teamIDs(ctx context.Context, userID uint) ([]uint, error) {
	teams, err := s.teams.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch teams", err)
	}
	ids := make([]uint, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	return ids, nil
}

// event loads an event whose team the user is on. Events of teams the
// user cannot see are reported missing.
func (s *Service) event(ctx context.Context, id, userID uint) (*models.Event, *models.Team, error) {
	event, err := s.events.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, eventMissing()
	}
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Internal, "Failed to fetch event", err)
	}
	team, err := s.teams.FindByID(ctx, event.TeamID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !membership.AlreadyMember(team, userID)) {
		return nil, nil, eventMissing()
	}
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Internal, "Failed to load team", err)
	}
	return event, team, nil
}

// List returns the events of every team the user is on
func (s *Service) List(ctx context.Context, userID uint) ([]models.Event, error) {
	ids, err := s.teamIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	events, err := s.events.FindByTeams(ctx, ids)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch events", err)
	}
	return events, nil
}

// Get returns one event
func (s *Service) Get(ctx context.Context, id, userID uint) (*models.Event, error) {
	event, _, err := s.event(ctx, id, userID)
	return event, err
}

// ListByTeam returns a team's events to one of its members
func (s *Service) ListByTeam(ctx context.Context, teamID, userID uint) ([]models.Event, error) {
	team, err := s.team(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !membership.AlreadyMember(team, userID) {
		return nil, forbidden()
	}
	events, err := s.events.FindByTeam(ctx, teamID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch events", err)
	}
	return events, nil
}

// ListByUser returns what actorID did in the teams the viewer is on
func (s *Service) ListByUser(ctx context.Context, actorID, viewerID uint) ([]models.Event, error) {
	ids, err := s.teamIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	events, err := s.events.FindByUserInTeams(ctx, actorID, ids)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch events", err)
	}
	return events, nil
}

// Add appends an event performed by a member of the team
func (s *Service) Add(ctx context.Context, userID uint, in RecordInput) (*models.Event, error) {
	if !knownActions[in.Action] || !knownObjects[in.Object] {
		return nil, apperr.New(apperr.InvalidInput, "Unknown event action or object.")
	}
	team, err := s.team(ctx, in.TeamID)
	if err != nil {
		return nil, err
	}
	if !membership.AlreadyMember(team, userID) {
		return nil, forbidden()
	}

	event := models.Event{
		TeamID:        in.TeamID,
		UserID:        userID,
		ActionString:  in.Action,
		ObjectString:  in.Object,
		EventTargetID: in.TargetID,
	}
	if err := s.events.Insert(ctx, &event); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to add event", err)
	}
	created, err := s.events.FindByID(ctx, event.ID)
	if err != nil {
		return &event, nil
	}
	return created, nil
}

// Delete removes an event. Only an admin of the event's team may.
func (s *Service) Delete(ctx context.Context, id, userID uint) (*models.Event, error) {
	_, team, err := s.event(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !membership.IsAdmin(team, userID) {
		return nil, forbidden()
	}
	event, err := s.events.DeleteByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, eventMissing()
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to delete event", err)
	}
	return event, nil
}
