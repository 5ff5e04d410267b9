// Package teams implements team management: the roster workflows
// (create, invite, kick, leave), team updates, deletion and premium
// upgrades, and their HTTP handlers.
package teams

import (
	"context"
	"errors"
	"strings"

	"github.com/mikepea/teamhome/pkg/teamhome/apperr"
	"github.com/mikepea/teamhome/pkg/teamhome/billing"
	"github.com/mikepea/teamhome/pkg/teamhome/events"
	"github.com/mikepea/teamhome/pkg/teamhome/membership"
	"github.com/mikepea/teamhome/pkg/teamhome/models"
	"github.com/mikepea/teamhome/pkg/teamhome/notify"
	"github.com/mikepea/teamhome/pkg/teamhome/store"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=mocks_test.go -package=teams . Notifier,EventRecorder

// inviteAttempts is how many times an invitation re-reads the team after
// losing a version race
const inviteAttempts = 3

// Notifier queues outbound mail without blocking
type Notifier interface {
	Enqueue(msg notify.Mail) bool
}

// EventRecorder records activity without blocking
type EventRecorder interface {
	Record(ctx context.Context, in events.RecordInput)
}

// Deleter runs the team deletion cascade
type Deleter interface {
	DeleteTeam(ctx context.Context, teamID, actingUserID uint) (*models.Team, error)
}

// Upgrader charges for premium
type Upgrader interface {
	UpgradeToPremium(ctx context.Context, teamID, userID uint, in billing.UpgradeInput) (*models.Team, error)
}

// Service runs team workflows
type Service struct {
	teams      *store.TeamStore
	users      *store.UserStore
	deleter    Deleter
	upgrader   Upgrader
	notifier   Notifier
	recorder   EventRecorder
	mailDomain string
	logger     *zap.Logger
}

// Config wires a Service
type Config struct {
	Teams      *store.TeamStore
	Users      *store.UserStore
	Deleter    Deleter
	Upgrader   Upgrader
	Notifier   Notifier
	Recorder   EventRecorder
	MailDomain string
	Logger     *zap.Logger
}

// NewService creates a new teams service
func NewService(cfg Config) *Service {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.MailDomain == "" {
		cfg.MailDomain = "team.home"
	}
	return &Service{
		teams:      cfg.Teams,
		users:      cfg.Users,
		deleter:    cfg.Deleter,
		upgrader:   cfg.Upgrader,
		notifier:   cfg.Notifier,
		recorder:   cfg.Recorder,
		mailDomain: cfg.MailDomain,
		logger:     cfg.Logger,
	}
}

// CreateInput is the input of Create
type CreateInput struct {
	Name string
}

// UpdateInput is the input of Update. Nil fields are left unchanged.
type UpdateInput struct {
	Name *string
}

// InviteInput identifies the invitee by email, phone number or both
type InviteInput struct {
	Email       string
	PhoneNumber string
}

func teamMissing() *apperr.Error {
	return apperr.New(apperr.NotFound, "Team doesn't exist")
}

func forbidden() *apperr.Error {
	return apperr.New(apperr.Forbidden, "You do not have permission to do that.")
}

func (s *Service) load(ctx context.Context, id uint) (*models.Team, error) {
	team, err := s.teams.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, teamMissing()
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load team", err)
	}
	return team, nil
}

func (s *Service) record(ctx context.Context, in events.RecordInput) {
	if s.recorder != nil {
		s.recorder.Record(ctx, in)
	}
}

// List returns every team
func (s *Service) List(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch teams", err)
	}
	return teams, nil
}

// FindByUser returns the teams a user is on
func (s *Service) FindByUser(ctx context.Context, userID uint) ([]models.Team, error) {
	teams, err := s.teams.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch teams", err)
	}
	return teams, nil
}

// Find returns one team with its roster resolved
func (s *Service) Find(ctx context.Context, id uint) (*models.Team, error) {
	return s.load(ctx, id)
}

// Create creates a team whose only member is its creator, as admin
func (s *Service) Create(ctx context.Context, userID uint, in CreateInput) (*models.Team, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.New(apperr.InvalidInput, "A team name is required.")
	}

	team := models.Team{
		Name:    name,
		Members: []models.TeamMember{{UserID: userID, Admin: true}},
	}
	if err := s.teams.Insert(ctx, &team); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to create team", err)
	}

	s.record(ctx, events.RecordInput{
		TeamID:   team.ID,
		UserID:   userID,
		Action:   models.ActionCreated,
		Object:   models.ObjectTeam,
		TargetID: team.ID,
	})
	return s.load(ctx, team.ID)
}

// Update changes team fields. Only admins may update a team.
func (s *Service) Update(ctx context.Context, id, userID uint, in UpdateInput) (*models.Team, error) {
	team, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !membership.IsAdmin(team, userID) {
		return nil, forbidden()
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.New(apperr.InvalidInput, "A team name is required.")
		}
		fields["name"] = name
	}
	if len(fields) == 0 {
		return team, nil
	}

	updated, err := s.teams.Update(ctx, id, fields)
	if errors.Is(err, store.ErrNotFound) {
		return nil, teamMissing()
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to update team", err)
	}

	s.record(ctx, events.RecordInput{
		TeamID:   id,
		UserID:   userID,
		Action:   models.ActionUpdated,
		Object:   models.ObjectTeam,
		TargetID: id,
	})
	return updated, nil
}

// Delete deletes a team and everything scoped to it
func (s *Service) Delete(ctx context.Context, id, userID uint) (*models.Team, error) {
	return s.deleter.DeleteTeam(ctx, id, userID)
}

// Invite adds the users matching the contact details to the team. Capacity
// and duplicate checks run against the team as read; the roster write is
// conditional on the team version, and a lost race is retried from a fresh
// read.
func (s *Service) Invite(ctx context.Context, id, inviterID uint, in InviteInput) (*models.Team, error) {
	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.PhoneNumber)
	if email == "" && phone == "" {
		return nil, apperr.New(apperr.InvalidInput, "No email or phone number provided.")
	}

	for attempt := 1; ; attempt++ {
		team, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		inviter, ok := membership.Find(team, inviterID)
		if !ok {
			return nil, forbidden()
		}
		if !membership.CanInvite(team) {
			return nil, apperr.New(apperr.CapacityExceeded, "Free teams are only allowed 5 members.").
				WithCode(apperr.CodeNotPremium)
		}

		candidates, err := s.users.FindByContact(ctx, email, phone)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "Failed to look up users", err)
		}
		if len(candidates) == 0 {
			return nil, apperr.New(apperr.InvalidInput, "No user exists with that email or phone number.")
		}
		added := membership.NewMembers(team, candidates)
		if len(added) == 0 {
			return nil, apperr.New(apperr.InvalidInput, "The user is already on the team.")
		}

		updated, err := s.teams.AppendMembers(ctx, id, team.Version, added)
		if errors.Is(err, store.ErrConflict) {
			if attempt < inviteAttempts {
				s.logger.Debug("team changed during invitation, retrying",
					zap.Uint("team_id", id),
					zap.Int("attempt", attempt))
				continue
			}
			return nil, apperr.Wrap(apperr.Conflict, "The team was changed by someone else. Please try again.", err)
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, teamMissing()
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "Failed to update team", err)
		}

		s.announce(ctx, updated, inviter.User, added)
		return updated, nil
	}
}

// announce mails every added user that has an email and records the
// invitations
func (s *Service) announce(ctx context.Context, team *models.Team, inviter models.User, added []models.TeamMember) {
	for _, m := range added {
		if m.User.Email != "" && s.notifier != nil {
			s.notifier.Enqueue(notify.InviteMail(team.Name, inviter.FullName(), m.User.Email, s.mailDomain))
		}
		s.record(ctx, events.RecordInput{
			TeamID:   team.ID,
			UserID:   inviter.ID,
			Action:   models.ActionInvited,
			Object:   models.ObjectUser,
			TargetID: m.UserID,
		})
	}
}

// Kick removes a member. Only admins may kick, and the last admin cannot
// be removed.
func (s *Service) Kick(ctx context.Context, id, actingUserID, targetUserID uint) (*models.Team, error) {
	team, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !membership.IsAdmin(team, actingUserID) {
		return nil, forbidden()
	}
	target, ok := membership.Find(team, targetUserID)
	if !ok {
		return nil, apperr.New(apperr.NotFound, "The user is not on the team.")
	}
	if target.Admin && membership.AdminCount(team) <= 1 {
		return nil, apperr.New(apperr.InvalidInput, "Cannot remove the last admin.")
	}

	updated, err := s.removeMember(ctx, id, targetUserID)
	if err != nil {
		return nil, err
	}

	s.record(ctx, events.RecordInput{
		TeamID:   id,
		UserID:   actingUserID,
		Action:   models.ActionKicked,
		Object:   models.ObjectUser,
		TargetID: targetUserID,
	})
	return updated, nil
}

// Leave removes the current user from a team. The last admin cannot leave
// while other members remain; when the last member is an admin, leaving
// deletes the team through the cascade and returns the deleted team.
func (s *Service) Leave(ctx context.Context, id, userID uint) (*models.Team, error) {
	team, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	entry, ok := membership.Find(team, userID)
	if !ok {
		return nil, apperr.New(apperr.InvalidInput, "You are not on the team.")
	}
	if entry.Admin && membership.AdminCount(team) <= 1 && len(team.Members) > 1 {
		return nil, apperr.New(apperr.InvalidInput, "The last admin cannot leave while other members remain.")
	}

	var updated *models.Team
	if entry.Admin && len(team.Members) == 1 {
		updated, err = s.deleter.DeleteTeam(ctx, id, userID)
	} else {
		updated, err = s.removeMember(ctx, id, userID)
	}
	if err != nil {
		return nil, err
	}

	s.record(ctx, events.RecordInput{
		TeamID:   id,
		UserID:   userID,
		Action:   models.ActionLeft,
		Object:   models.ObjectTeam,
		TargetID: id,
	})
	return updated, nil
}

func (s *Service) removeMember(ctx context.Context, id, userID uint) (*models.Team, error) {
	updated, err := s.teams.RemoveMember(ctx, id, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, teamMissing()
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to update team", err)
	}
	return updated, nil
}

// UpgradeToPremium charges for premium on behalf of a team member
func (s *Service) UpgradeToPremium(ctx context.Context, id, userID uint, in billing.UpgradeInput) (*models.Team, error) {
	team, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !membership.AlreadyMember(team, userID) {
		return nil, forbidden()
	}

	updated, err := s.upgrader.UpgradeToPremium(ctx, id, userID, in)
	if err != nil {
		return nil, err
	}

	s.record(ctx, events.RecordInput{
		TeamID:   id,
		UserID:   userID,
		Action:   models.ActionUpgraded,
		Object:   models.ObjectTeam,
		TargetID: id,
	})
	return updated, nil
}
