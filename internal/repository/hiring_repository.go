package repository

import (
	"github.com/yukikurage/task-tracker/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormHiringRepository is a GORM implementation of HiringRepository
type GormHiringRepository struct {
	db *gorm.DB
}

// NewHiringRepository creates a new HiringRepository
func NewHiringRepository(db *gorm.DB) HiringRepository {
	return &GormHiringRepository{db: db}
}

// AddMember inserts the hiring unless the pair already exists. A new hiring
// appends projectTitle to the user's history if it is not there yet; an
// existing one changes nothing. Both writes share one transaction.
func (r *GormHiringRepository) AddMember(hiring models.Hiring, projectTitle string) (*AddMemberResult, error) {
	var result *AddMemberResult
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = addMember(tx, hiring, projectTitle)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func addMember(tx *gorm.DB, hiring models.Hiring, projectTitle string) (*AddMemberResult, error) {
	result := &AddMemberResult{}

	insert := tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "project_id"}},
			DoNothing: true,
		}).
		Create(&hiring)
	if insert.Error != nil {
		return nil, insert.Error
	}
	result.Created = insert.RowsAffected > 0

	if !result.Created {
		userID, projectID := hiring.UserID, hiring.ProjectID
		hiring = models.Hiring{}
		if err := tx.Where("user_id = ? AND project_id = ?", userID, projectID).
			First(&hiring).Error; err != nil {
			return nil, err
		}
		result.Hiring = hiring
		return result, nil
	}
	result.Hiring = hiring

	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, hiring.UserID).Error; err != nil {
		return nil, err
	}

	if user.HasJoined(projectTitle) {
		return result, nil
	}

	history := append(models.StringList{}, user.History...)
	history = append(history, projectTitle)
	if err := tx.Model(&user).Update("history", history).Error; err != nil {
		return nil, err
	}
	result.Joined = true
	return result, nil
}

// IsMember reports whether a hiring exists for the pair
func (r *GormHiringRepository) IsMember(projectID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Hiring{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindMember finds the hiring for the pair
func (r *GormHiringRepository) FindMember(projectID, userID uint64) (*models.Hiring, error) {
	var hiring models.Hiring
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&hiring).Error; err != nil {
		return nil, err
	}
	return &hiring, nil
}

// UpdateRole sets the role of an existing hiring
func (r *GormHiringRepository) UpdateRole(projectID, userID uint64, role string) error {
	return r.db.Model(&models.Hiring{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("role_in_project", role).Error
}

// ListMembers lists all hirings of a project
func (r *GormHiringRepository) ListMembers(projectID uint64) ([]models.Hiring, error) {
	var hirings []models.Hiring
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("id").
		Find(&hirings).Error; err != nil {
		return nil, err
	}
	return hirings, nil
}

// ListByUser lists all hirings of a user
func (r *GormHiringRepository) ListByUser(userID uint64) ([]models.Hiring, error) {
	var hirings []models.Hiring
	if err := r.db.Preload("Project").
		Where("user_id = ?", userID).
		Order("id").
		Find(&hirings).Error; err != nil {
		return nil, err
	}
	return hirings, nil
}

// DeleteByProject removes every hiring of a project
func (r *GormHiringRepository) DeleteByProject(projectID uint64) error {
	return r.db.Where("project_id = ?", projectID).Delete(&models.Hiring{}).Error
}

// DeleteByUser removes every hiring of a user
func (r *GormHiringRepository) DeleteByUser(userID uint64) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Hiring{}).Error
}
