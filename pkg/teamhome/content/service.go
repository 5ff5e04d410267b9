// Package content manages the messages, documents, folders and comments
// that live inside a team.
package content

import (
	"context"
	"errors"
	"strings"

	"github.com/mikepea/teamhome/pkg/teamhome/apperr"
	"github.com/mikepea/teamhome/pkg/teamhome/events"
	"github.com/mikepea/teamhome/pkg/teamhome/membership"
	"github.com/mikepea/teamhome/pkg/teamhome/models"
	"github.com/mikepea/teamhome/pkg/teamhome/store"
)

// EventRecorder records activity without blocking
type EventRecorder interface {
	Record(ctx context.Context, in events.RecordInput)
}

// Service enforces team membership on content reads and writes
type Service struct {
	repos    *store.Repositories
	recorder EventRecorder
}

// NewService creates a content service
func NewService(repos *store.Repositories, recorder EventRecorder) *Service {
	return &Service{repos: repos, recorder: recorder}
}

// MessageInput is the input of CreateMessage
type MessageInput struct {
	Title   string
	Content string
}

// DocumentInput is the input of CreateDocument
type DocumentInput struct {
	Title    string
	DocURL   string
	Content  string
	FolderID *uint
}

// member loads the team and checks that userID is on it
func (s *Service) member(ctx context.Context, teamID, userID uint) (*models.Team, error) {
	team, err := s.repos.Teams.FindByID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "Team doesn't exist")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load team", err)
	}
	if !membership.AlreadyMember(team, userID) {
		return nil, apperr.New(apperr.Forbidden, "You do not have permission to do that.")
	}
	return team, nil
}

func (s *Service) record(ctx context.Context, teamID, userID uint, action models.EventAction, object models.EventObject, target uint) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(ctx, events.RecordInput{
		TeamID:   teamID,
		UserID:   userID,
		Action:   action,
		Object:   object,
		TargetID: target,
	})
}

func required(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.New(apperr.InvalidInput, "A "+field+" is required.")
	}
	return nil
}

// ListMessages returns a team's messages, newest first
func (s *Service) ListMessages(ctx context.Context, teamID, userID uint) ([]models.Message, error) {
	if _, err := s.member(ctx, teamID, userID); err != nil {
		return nil, err
	}
	messages, err := s.repos.Messages.FindByTeam(ctx, teamID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch messages", err)
	}
	return messages, nil
}

// CreateMessage posts a message to the team's board
func (s *Service) CreateMessage(ctx context.Context, teamID, userID uint, in MessageInput) (*models.Message, error) {
	if err := required(in.Title, "title"); err != nil {
		return nil, err
	}
	if _, err := s.member(ctx, teamID, userID); err != nil {
		return nil, err
	}

	message := models.Message{
		TeamID:  teamID,
		UserID:  userID,
		Title:   strings.TrimSpace(in.Title),
		Content: in.Content,
	}
	if err := s.repos.Messages.Insert(ctx, &message); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to create message", err)
	}
	s.record(ctx, teamID, userID, models.ActionCreated, models.ObjectMessage, message.ID)
	return &message, nil
}

func (s *Service) message(ctx context.Context, teamID, messageID uint) (*models.Message, error) {
	message, err := s.repos.Messages.FindByID(ctx, messageID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && message.TeamID != teamID) {
		return nil, apperr.New(apperr.NotFound, "Message doesn't exist.")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load message", err)
	}
	return message, nil
}

// ListMessageComments returns the comments on a message, oldest first
func (s *Service) ListMessageComments(ctx context.Context, teamID, messageID, userID uint) ([]models.MsgComment, error) {
	if _, err := s.member(ctx, teamID, userID); err != nil {
		return nil, err
	}
	if _, err := s.message(ctx, teamID, messageID); err != nil {
		return nil, err
	}
	comments, err := s.repos.MsgComments.FindByParent(ctx, messageID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch comments", err)
	}
	return comments, nil
}

// CommentOnMessage adds a comment to a message
func (s *Service) CommentOnMessage(ctx context.Context, teamID, messageID, userID uint, body string) (*models.MsgComment, error) {
	if err := required(body, "comment"); err != nil {
		return nil, err
	}
	if _, err := s.member(ctx, teamID, userID); err != nil {
		return nil, err
	}
	if _, err := s.message(ctx, teamID, messageID); err != nil {
		return nil, err
	}

	comment := models.MsgComment{MessageID: messageID, UserID: userID, Content: body}
	if err := s.repos.MsgComments.Insert(ctx, &comment); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to create comment", err)
	}
	s.record(ctx, teamID, userID, models.ActionCommented, models.ObjectMessage, messageID)
	return &comment, nil
}

// ListDocuments returns a team's documents, newest first
func (s *Service) ListDocuments(ctx context.Context, teamID, userID uint) ([]models.Document, error) {
	if _, err := s.member(ctx, teamID, userID); err != nil {
		return nil, err
	}
	documents, err := s.repos.Documents.FindByTeam(ctx, teamID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch documents", err)
	}
	return documents, nil
}

// CreateDocument adds a document, optionally filed in one of the team's folders
func (s *Service) CreateDocument(ctx context.Context, teamID, userID uint, in DocumentInput) (*models.Document, error) {
	if err := required(in.Title, "title"); err != nil {
		return nil, err
	}
	if _, err := s.member(ctx, teamID, userID); err != nil {
		return nil, err
	}
	if in.FolderID != nil {
		folder, err := s.repos.Folders.FindByID(ctx, *in.FolderID)
		if errors.Is(err, store.ErrNotFound) || (err == nil && folder.TeamID != teamID) {
			return nil, apperr.New(apperr.NotFound, "Folder doesn't exist.")
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "Failed to load folder", err)
		}
	}

	document := models.Document{
		TeamID:   teamID,
		FolderID: in.FolderID,
		UserID:   userID,
		Title:    strings.TrimSpace(in.Title),
		DocURL:   in.DocURL,
		Content:  in.Content,
	}
	if err := s.repos.Documents.Insert(ctx, &document); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to create document", err)
	}
	s.record(ctx, teamID, userID, models.ActionCreated, models.ObjectDocument, document.ID)
	return &document, nil
}

func (s *Service) document(ctx context.Context, teamID, documentID uint) (*models.Document, error) {
	document, err := s.repos.Documents.FindByID(ctx, documentID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && document.TeamID != teamID) {
		return nil, apperr.New(apperr.NotFound, "Document doesn't exist.")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load document", err)
	}
	return document, nil
}

// ListDocumentComments returns the comments on a document, oldest first
func (s *Service) ListDocumentComments(ctx context.Context, teamID, documentID, userID uint) ([]models.DocComment, error) {
	if _, err := s.member(ctx, teamID, userID); err != nil {
		return nil, err
	}
	if _, err := s.document(ctx, teamID, documentID); err != nil {
		return nil, err
	}
	comments, err := s.repos.DocComments.FindByParent(ctx, documentID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch comments", err)
	}
	return comments, nil
}

// CommentOnDocument adds a comment to a document
func (s *Service) CommentOnDocument(ctx context.Context, teamID, documentID, userID uint, body string) (*models.DocComment, error) {
	if err := required(body, "comment"); err != nil {
		return nil, err
	}
	if _, err := s.member(ctx, teamID, userID); err != nil {
		return nil, err
	}
	if _, err := s.document(ctx, teamID, documentID); err != nil {
		return nil, err
	}

	comment := models.DocComment{DocumentID: documentID, UserID: userID, Content: body}
	if err := s.repos.DocComments.Insert(ctx, &comment); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to create comment", err)
	}
	s.record(ctx, teamID, userID, models.ActionCommented, models.ObjectDocument, documentID)
	return &comment, nil
}

// ListFolders returns a team's folders ordered by title
func (s *Service) ListFolders(ctx context.Context, teamID, userID uint) ([]models.Folder, error) {
	if _, err := s.member(ctx, teamID, userID); err != nil {
		return nil, err
	}
	folders, err := s.repos.Folders.FindByTeam(ctx, teamID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch folders", err)
	}
	return folders, nil
}

// CreateFolder adds a folder to the team
func (s *Service) CreateFolder(ctx context.Context, teamID, userID uint, title string) (*models.Folder, error) {
	if err := required(title, "title"); err != nil {
		return nil, err
	}
	if _, err := s.member(ctx, teamID, userID); err != nil {
		return nil, err
	}

	folder := models.Folder{TeamID: teamID, UserID: userID, Title: strings.TrimSpace(title)}
	if err := s.repos.Folders.Insert(ctx, &folder); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to create folder", err)
	}
	s.record(ctx, teamID, userID, models.ActionCreated, models.ObjectFolder, folder.ID)
	return &folder, nil
}
