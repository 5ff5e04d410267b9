package store

import (
	"context"

	"github.com/mikepea/teamhome/pkg/teamhome/models"
	"gorm.io/gorm"
)

// MessageStore persists team messages
type MessageStore struct {
	db *gorm.DB
}

// NewMessageStore creates a new message repository
func NewMessageStore(db *gorm.DB) *MessageStore {
	return &MessageStore{db: db}
}

// Insert creates a message
func (s *MessageStore) Insert(ctx context.Context, message *models.Message) error {
	return conn(ctx, s.db).Create(message).Error
}

// FindByID returns a message by id
func (s *MessageStore) FindByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	if err := conn(ctx, s.db).First(&message, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &message, nil
}

// FindByTeam returns all messages of a team, newest first
func (s *MessageStore) FindByTeam(ctx context.Context, teamID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := conn(ctx, s.db).Where("team_id = ?", teamID).Order("created_at DESC, id DESC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// IDsByTeam returns the ids of all messages of a team
func (s *MessageStore) IDsByTeam(ctx context.Context, teamID uint) ([]uint, error) {
	var ids []uint
	if err := conn(ctx, s.db).Model(&models.Message{}).Where("team_id = ?", teamID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// DeleteByTeam deletes all messages of a team
func (s *MessageStore) DeleteByTeam(ctx context.Context, teamID uint) (int64, error) {
	result := conn(ctx, s.db).Where("team_id = ?", teamID).Delete(&models.Message{})
	return result.RowsAffected, result.Error
}

// MsgCommentStore persists message comments
type MsgCommentStore struct {
	db *gorm.DB
}

// NewMsgCommentStore creates a new message comment repository
func NewMsgCommentStore(db *gorm.DB) *MsgCommentStore {
	return &MsgCommentStore{db: db}
}

// Insert creates a message comment
func (s *MsgCommentStore) Insert(ctx context.Context, comment *models.MsgComment) error {
	return conn(ctx, s.db).Create(comment).Error
}

// FindByParent returns the comments of a message, oldest first
func (s *MsgCommentStore) FindByParent(ctx context.Context, messageID uint) ([]models.MsgComment, error) {
	var comments []models.MsgComment
	if err := conn(ctx, s.db).Where("message_id = ?", messageID).Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteByParent deletes all comments of a message
func (s *MsgCommentStore) DeleteByParent(ctx context.Context, messageID uint) (int64, error) {
	result := conn(ctx, s.db).Where("message_id = ?", messageID).Delete(&models.MsgComment{})
	return result.RowsAffected, result.Error
}

// DocumentStore persists team documents
type DocumentStore struct {
	db *gorm.DB
}

// NewDocumentStore creates a new document repository
func NewDocumentStore(db *gorm.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Insert creates a document
func (s *DocumentStore) Insert(ctx context.Context, document *models.Document) error {
	return conn(ctx, s.db).Create(document).Error
}

// FindByID returns a document by id
func (s *DocumentStore) FindByID(ctx context.Context, id uint) (*models.Document, error) {
	var document models.Document
	if err := conn(ctx, s.db).First(&document, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &document, nil
}

// FindByTeam returns all documents of a team, newest first
func (s *DocumentStore) FindByTeam(ctx context.Context, teamID uint) ([]models.Document, error) {
	var documents []models.Document
	if err := conn(ctx, s.db).Where("team_id = ?", teamID).Order("created_at DESC, id DESC").Find(&documents).Error; err != nil {
		return nil, err
	}
	return documents, nil
}

// IDsByTeam returns the ids of all documents of a team
func (s *DocumentStore) IDsByTeam(ctx context.Context, teamID uint) ([]uint, error) {
	var ids []uint
	if err := conn(ctx, s.db).Model(&models.Document{}).Where("team_id = ?", teamID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// DeleteByTeam deletes all documents of a team
func (s *DocumentStore) DeleteByTeam(ctx context.Context, teamID uint) (int64, error) {
	result := conn(ctx, s.db).Where("team_id = ?", teamID).Delete(&models.Document{})
	return result.RowsAffected, result.Error
}

// DocCommentStore persists document comments
type DocCommentStore struct {
	db *gorm.DB
}

// NewDocCommentStore creates a new document comment repository
func NewDocCommentStore(db *gorm.DB) *DocCommentStore {
	return &DocCommentStore{db: db}
}

// Insert creates a document comment
func (s *DocCommentStore) Insert(ctx context.Context, comment *models.DocComment) error {
	return conn(ctx, s.db).Create(comment).Error
}

// FindByParent returns the comments of a document, oldest first
func (s *DocCommentStore) FindByParent(ctx context.Context, documentID uint) ([]models.DocComment, error) {
	var comments []models.DocComment
	if err := conn(ctx, s.db).Where("document_id = ?", documentID).Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteByParent deletes all comments of a document
func (s *DocCommentStore) DeleteByParent(ctx context.Context, documentID uint) (int64, error) {
	result := conn(ctx, s.db).Where("document_id = ?", documentID).Delete(&models.DocComment{})
	return result.RowsAffected, result.Error
}

// FolderStore persists team folders
type FolderStore struct {
	db *gorm.DB
}

// NewFolderStore creates a new folder repository
func NewFolderStore(db *gorm.DB) *FolderStore {
	return &FolderStore{db: db}
}

// Insert creates a folder
func (s *FolderStore) Insert(ctx context.Context, folder *models.Folder) error {
	return conn(ctx, s.db).Create(folder).Error
}

// FindByID returns a folder by id
func (s *FolderStore) FindByID(ctx context.Context, id uint) (*models.Folder, error) {
	var folder models.Folder
	if err := conn(ctx, s.db).First(&folder, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &folder, nil
}

// FindByTeam returns all folders of a team ordered by title
func (s *FolderStore) FindByTeam(ctx context.Context, teamID uint) ([]models.Folder, error) {
	var folders []models.Folder
	if err := conn(ctx, s.db).Where("team_id = ?", teamID).Order("title ASC").Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

// DeleteByTeam deletes all folders of a team
func (s *FolderStore) DeleteByTeam(ctx context.Context, teamID uint) (int64, error) {
	result := conn(ctx, s.db).Where("team_id = ?", teamID).Delete(&models.Folder{})
	return result.RowsAffected, result.Error
}
