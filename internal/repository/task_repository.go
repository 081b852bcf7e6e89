package repository

import (
	"github.com/yukikurage/task-tracker/internal/database"
	"github.com/yukikurage/task-tracker/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// TitleExists reports whether a task other than excludeID in the project uses the title
func (r *GormTaskRepository) TitleExists(projectID uint64, title string, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.Model(&models.Task{}).Where("project_id = ? AND title = ?", projectID, title)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List retrieves tasks with filtering and sorting
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}

	err := r.db.Model(&models.Task{}).
		Scopes(
			database.Equals("project_id", filter.ProjectID),
			database.Equals("executor_id", filter.ExecutorID),
			database.Equals("tester_id", filter.TesterID),
			database.Equals("status", filter.Status),
			database.Equals("priority", filter.Priority),
			database.Between("deadline", filter.DeadlineAfter, filter.DeadlineBefore),
			database.OrderBy(filter.Sort, "id"),
		).
		Preload("Executor").
		Preload("Tester").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit(clause.Associations).Save(task).Error
}

// Delete deletes a task and its comments
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Task{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ClearAssignee unsets the user as executor or tester on every task
func (r *GormTaskRepository) ClearAssignee(userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).Where("executor_id = ?", userID).
			Update("executor_id", nil).Error; err != nil {
			return err
		}
		return tx.Model(&models.Task{}).Where("tester_id = ?", userID).
			Update("tester_id", nil).Error
	})
}
