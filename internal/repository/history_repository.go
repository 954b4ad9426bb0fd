package repository

import (
	"context"

	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormHistoryRepository is a GORM implementation of HistoryRepository
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Create appends one entry
func (r *GormHistoryRepository) Create(ctx context.Context, entry *models.TaskHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByTask returns the entries of one task, newest first
func (r *GormHistoryRepository) ListByTask(ctx context.Context, taskID uint64) ([]models.TaskHistory, error) {
	entries := []models.TaskHistory{}
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Scopes(database.NewestFirst).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListRecent returns the latest entries across all tasks
func (r *GormHistoryRepository) ListRecent(ctx context.Context, limit int) ([]models.TaskHistory, error) {
	entries := []models.TaskHistory{}
	if err := r.db.WithContext(ctx).
		Scopes(database.NewestFirst, database.Limit(limit)).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
