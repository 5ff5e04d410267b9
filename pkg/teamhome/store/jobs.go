package store

import (
	"context"

	"github.com/mikepea/teamhome/pkg/teamhome/models"
	"gorm.io/gorm"
)

// DeletionStore persists team deletion jobs
type DeletionStore struct {
	db *gorm.DB
}

// NewDeletionStore creates a new deletion job repository
func NewDeletionStore(db *gorm.DB) *DeletionStore {
	return &DeletionStore{db: db}
}

// Create inserts a deletion job
func (s *DeletionStore) Create(ctx context.Context, job *models.TeamDeletion) error {
	return conn(ctx, s.db).Create(job).Error
}

// Save persists the progress of a deletion job
func (s *DeletionStore) Save(ctx context.Context, job *models.TeamDeletion) error {
	return conn(ctx, s.db).Save(job).Error
}

// FindByTeam returns the deletion job of a team
func (s *DeletionStore) FindByTeam(ctx context.Context, teamID uint) (*models.TeamDeletion, error) {
	var job models.TeamDeletion
	if err := conn(ctx, s.db).Where("team_id = ?", teamID).First(&job).Error; err != nil {
		return nil, notFound(err)
	}
	return &job, nil
}

// ListPending returns up to limit unfinished jobs, oldest first
func (s *DeletionStore) ListPending(ctx context.Context, limit int) ([]models.TeamDeletion, error) {
	var jobs []models.TeamDeletion
	err := conn(ctx, s.db).
		Where("status = ?", models.DeletionPending).
		Order("updated_at ASC, id ASC").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// ChargeStore persists premium charge intents
type ChargeStore struct {
	db *gorm.DB
}

// NewChargeStore creates a new charge repository
func NewChargeStore(db *gorm.DB) *ChargeStore {
	return &ChargeStore{db: db}
}

// FindByKey returns the charge recorded under an idempotency key
func (s *ChargeStore) FindByKey(ctx context.Context, key string) (*models.PremiumCharge, error) {
	var charge models.PremiumCharge
	if err := conn(ctx, s.db).Where("idempotency_key = ?", key).First(&charge).Error; err != nil {
		return nil, notFound(err)
	}
	return &charge, nil
}

// Insert records a new charge intent
func (s *ChargeStore) Insert(ctx context.Context, charge *models.PremiumCharge) error {
	return conn(ctx, s.db).Create(charge).Error
}

// Save persists the outcome of a charge
func (s *ChargeStore) Save(ctx context.Context, charge *models.PremiumCharge) error {
	return conn(ctx, s.db).Save(charge).Error
}
