package repository

import (
	"github.com/yukikurage/task-tracker/internal/database"
	"github.com/yukikurage/task-tracker/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	_, err := r.CreateWithMembers(project, nil)
	return err
}

// CreateWithMembers creates the project and hires members into it in one
// transaction. Results follow the order of members.
func (r *GormProjectRepository) CreateWithMembers(project *models.Project, members []models.Hiring) ([]AddMemberResult, error) {
	results := make([]AddMemberResult, 0, len(members))

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}

		for _, hiring := range members {
			hiring.ProjectID = project.ID
			result, err := addMember(tx, hiring, project.Title)
			if err != nil {
				return err
			}
			results = append(results, *result)
		}
		return nil
	})
	if err != nil {
		project.ID = 0
		return nil, err
	}
	return results, nil
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// TitleExists reports whether a project other than excludeID uses the title
func (r *GormProjectRepository) TitleExists(title string, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.Model(&models.Project{}).Where("title = ?", title)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Omit(clause.Associations).Save(project).Error
}

// Delete deletes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("project_id = ?", id)

		// Delete comments of the project's tasks
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		// Delete all tasks in the project
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		// Delete all hirings
		if err := tx.Where("project_id = ?", id).Delete(&models.Hiring{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

// List lists public projects matching the filter
func (r *GormProjectRepository) List(filter ProjectFilter) ([]models.Project, error) {
	projects := []models.Project{}

	err := r.db.Model(&models.Project{}).
		Where("private = ?", false).
		Scopes(
			database.Equals("status", filter.Status),
			database.Equals("title", filter.Title),
			database.Equals("owner_id", filter.OwnerID),
			database.OrderBy(filter.Sort, "id"),
		).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	return projects, nil
}
