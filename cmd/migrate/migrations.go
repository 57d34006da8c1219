package main

import (
	"gorm.io/gorm"

	"github.com/taskhub/engine/internal/models"
)

// registerModels returns all models that need migration
func registerModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Task{},
	}
}

// runMigrations executes all database migrations
func runMigrations(db *gorm.DB) error {
	// gen_random_uuid() column defaults need pgcrypto on Postgres < 13
	if err := enableUUIDExtension(db); err != nil {
		return err
	}

	if err := db.AutoMigrate(registerModels()...); err != nil {
		return err
	}

	return runCustomMigrations(db)
}

// runCustomMigrations handles schema changes AutoMigrate can't handle
func runCustomMigrations(db *gorm.DB) error {
	migrations := []func(*gorm.DB) error{
		addTaskOwnerIndex,
		addPriorityCheck,
	}

	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return err
		}
	}

	return nil
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error
}

// addTaskOwnerIndex backs the per-owner listing, newest first.
func addTaskOwnerIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tasks_owner_created
		ON tasks(owner_id, created_at DESC)
	`).Error
}

func addPriorityCheck(db *gorm.DB) error {
	return db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_tasks_priority') THEN
				ALTER TABLE tasks ADD CONSTRAINT chk_tasks_priority
				CHECK (priority IN ('low', 'medium', 'high'));
			END IF;
		END $$;
	`).Error
}
