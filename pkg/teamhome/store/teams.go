package store

import (
	"context"

	"github.com/mikepea/teamhome/pkg/teamhome/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TeamStore persists teams and their membership rosters
type TeamStore struct {
	db *gorm.DB
}

// NewTeamStore creates a new team repository
func NewTeamStore(db *gorm.DB) *TeamStore {
	return &TeamStore{db: db}
}

// withMembers preloads the ordered roster with member users resolved
func withMembers(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Preload("Members.User")
}

// FindByID returns a team with its roster resolved
func (s *TeamStore) FindByID(ctx context.Context, id uint) (*models.Team, error) {
	var team models.Team
	if err := withMembers(conn(ctx, s.db)).First(&team, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &team, nil
}

// List returns all teams
func (s *TeamStore) List(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := withMembers(conn(ctx, s.db)).Order("id ASC").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// FindByUser returns all teams the user is a member of
func (s *TeamStore) FindByUser(ctx context.Context, userID uint) ([]models.Team, error) {
	var teams []models.Team
	err := withMembers(conn(ctx, s.db)).
		Where("id IN (?)", conn(ctx, s.db).Model(&models.TeamMember{}).Select("team_id").Where("user_id = ?", userID)).
		Order("id ASC").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// Insert creates a team together with its initial roster
func (s *TeamStore) Insert(ctx context.Context, team *models.Team) error {
	return conn(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(team).Error; err != nil {
			return err
		}
		for i := range team.Members {
			team.Members[i].TeamID = team.ID
			team.Members[i].Position = i
		}
		if len(team.Members) == 0 {
			return nil
		}
		return tx.Omit("User").Create(&team.Members).Error
	})
}

// Update applies a field patch to a team and returns the updated team
func (s *TeamStore) Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.Team, error) {
	result := conn(ctx, s.db).Model(&models.Team{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.FindByID(ctx, id)
}

// AppendMembers adds members to the end of the roster in one transaction,
// provided the team is still at expectedVersion. Returns ErrConflict when
// another writer got there first.
func (s *TeamStore) AppendMembers(ctx context.Context, id, expectedVersion uint, members []models.TeamMember) (*models.Team, error) {
	err := conn(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		if err := bumpVersion(tx, id, expectedVersion); err != nil {
			return err
		}

		var last struct{ Max *int }
		if err := tx.Model(&models.TeamMember{}).Select("MAX(position) AS max").Where("team_id = ?", id).Scan(&last).Error; err != nil {
			return err
		}
		next := 0
		if last.Max != nil {
			next = *last.Max + 1
		}

		for i := range members {
			members[i].ID = 0
			members[i].TeamID = id
			members[i].Position = next + i
		}
		if len(members) == 0 {
			return nil
		}
		return tx.Omit("User").Create(&members).Error
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

// RemoveMember removes a user from the roster and returns the updated team.
// Removing a user who is not on the team leaves the roster unchanged.
func (s *TeamStore) RemoveMember(ctx context.Context, id, userID uint) (*models.Team, error) {
	err := conn(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Team{}).Where("id = ?", id).
			Updates(map[string]interface{}{"version": gorm.Expr("version + 1")})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("team_id = ? AND user_id = ?", id, userID).Delete(&models.TeamMember{}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

// DeleteByID deletes a team and its roster, returning the deleted team.
// Returns ErrNotFound if the team was already gone at delete time.
func (s *TeamStore) DeleteByID(ctx context.Context, id uint) (*models.Team, error) {
	var team models.Team
	err := conn(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		if err := withMembers(tx).First(&team, id).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Team{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// bumpVersion increments the team version if it still equals expected
func bumpVersion(tx *gorm.DB, id, expected uint) error {
	result := tx.Model(&models.Team{}).
		Where("id = ? AND version = ?", id, expected).
		Updates(map[string]interface{}{"version": gorm.Expr("version + 1")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := tx.Model(&models.Team{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrConflict
}
