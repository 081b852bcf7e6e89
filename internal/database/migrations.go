package database

import (
	"fmt"
	"log"

	"github.com/yukikurage/task-tracker/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds the listing indexes that are not declared on the models.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		// Project listing filters
		{&models.Project{}, "projects", "idx_projects_private_status", "private, status"},
		{&models.Project{}, "projects", "idx_projects_owner_id", "owner_id"},

		// Task listing filters
		{&models.Task{}, "tasks", "idx_tasks_status", "status"},
		{&models.Task{}, "tasks", "idx_tasks_priority", "priority"},

		// Comments are read per task in creation order
		{&models.Comment{}, "comments", "idx_comments_task_created", "task_id, date_created"},

		// Ledger lookups by user
		{&models.Hiring{}, "hirings", "idx_hirings_user_id", "user_id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}

// MigrateDatabase runs the migrations that follow AutoMigrate.
func MigrateDatabase(db *gorm.DB) error {
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	return nil
}
