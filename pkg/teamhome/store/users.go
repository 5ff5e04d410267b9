package store

import (
	"context"

	"github.com/mikepea/teamhome/pkg/teamhome/models"
	"gorm.io/gorm"
)

// UserStore persists users
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a new user repository
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByID returns a user by id
func (s *UserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := conn(ctx, s.db).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// FindByEmail returns the user registered with email
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := conn(ctx, s.db).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// FindByAuth0Subject returns the user linked to an Auth0 identity
func (s *UserStore) FindByAuth0Subject(ctx context.Context, subject string) (*models.User, error) {
	var user models.User
	if err := conn(ctx, s.db).Where("auth0_subject = ?", subject).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// FindByContact returns all users matching email OR phone. Empty values are
// ignored; when both are empty no users match.
func (s *UserStore) FindByContact(ctx context.Context, email, phone string) ([]models.User, error) {
	query := conn(ctx, s.db).Model(&models.User{})
	switch {
	case email != "" && phone != "":
		query = query.Where("email = ? OR phone_number = ?", email, phone)
	case email != "":
		query = query.Where("email = ?", email)
	case phone != "":
		query = query.Where("phone_number = ?", phone)
	default:
		return nil, nil
	}

	var users []models.User
	if err := query.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Insert creates a user
func (s *UserStore) Insert(ctx context.Context, user *models.User) error {
	return conn(ctx, s.db).Create(user).Error
}

// Save updates all fields of an existing user
func (s *UserStore) Save(ctx context.Context, user *models.User) error {
	return conn(ctx, s.db).Save(user).Error
}
