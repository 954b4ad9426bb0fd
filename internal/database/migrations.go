package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// EnsureIndexes adds the single-column indexes used by listing and report
// queries. Composite indexes are declared on the model tags.
func EnsureIndexes(db *gorm.DB, log *logrus.Logger) error {
	indexes := []struct {
		model any
		field string
	}{
		// Task indexes for sorting and overdue scans
		{&models.Task{}, "DueDate"},
		{&models.Task{}, "CreatedAt"},

		// Project listing is newest first
		{&models.Project{}, "CreatedAt"},

		// Inbox listing is newest first
		{&models.Notification{}, "CreatedAt"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.field) {
			log.WithField("field", idx.field).Debug("Index already exists, skipping")
			continue
		}

		if err := migrator.CreateIndex(idx.model, idx.field); err != nil {
			return fmt.Errorf("failed to create index on %T.%s: %w", idx.model, idx.field, err)
		}

		log.WithField("field", idx.field).Infof("Created index on %T", idx.model)
	}

	return nil
}
