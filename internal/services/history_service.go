package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
)

var ErrHistoryFieldsRequired = errors.New("task id, user id and action are required")

// HistoryService records and reads the task audit trail
type HistoryService struct {
	historyRepo repository.HistoryRepository
	userRepo    repository.UserRepository
	taskRepo    repository.TaskRepository
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(historyRepo repository.HistoryRepository, userRepo repository.UserRepository, taskRepo repository.TaskRepository) *HistoryService {
	return &HistoryService{
		historyRepo: historyRepo,
		userRepo:    userRepo,
		taskRepo:    taskRepo,
	}
}

// HistoryEntry is a history row joined with display fields
type HistoryEntry struct {
	models.TaskHistory
	Username  string
	TaskTitle string
}

// Record appends one immutable audit entry. Storage errors are returned as-is
// so that a failing insert aborts the surrounding task mutation.
func (s *HistoryService) Record(ctx context.Context, taskID, actingUserID uint64, action models.HistoryAction, oldValue, newValue string, changes map[string]models.FieldChange) error {
	if taskID == 0 || actingUserID == 0 || action == "" {
		return ErrHistoryFieldsRequired
	}

	entry := &models.TaskHistory{
		TaskID:   taskID,
		UserID:   actingUserID,
		Action:   action,
		OldValue: oldValue,
		NewValue: newValue,
		Changes:  changes,
	}
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to record %s history for task %d: %w", action, taskID, err)
	}
	return nil
}

// ListByTask returns a task's audit trail, newest first. Entries of deleted
// tasks are still returned.
func (s *HistoryService) ListByTask(ctx context.Context, taskID uint64) ([]HistoryEntry, error) {
	entries, err := s.historyRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task history: %w", err)
	}
	return s.join(ctx, entries)
}

// ListRecent returns the latest entries across all tasks. limit is clamped to
// the configured bounds.
func (s *HistoryService) ListRecent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}
	if limit > constants.MaxHistoryLimit {
		limit = constants.MaxHistoryLimit
	}

	entries, err := s.historyRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return s.join(ctx, entries)
}

func (s *HistoryService) join(ctx context.Context, entries []models.TaskHistory) ([]HistoryEntry, error) {
	userIDs := make([]uint64, 0, len(entries))
	taskIDs := make([]uint64, 0, len(entries))
	for _, e := range entries {
		userIDs = append(userIDs, e.UserID)
		taskIDs = append(taskIDs, e.TaskID)
	}

	users, err := lookupUsers(ctx, s.userRepo, userIDs)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.FindByIDs(ctx, uniqueIDs(taskIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	titles := make(map[uint64]string, len(tasks))
	for _, t := range tasks {
		titles[t.ID] = t.Title
	}

	result := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		entry := HistoryEntry{TaskHistory: e, TaskTitle: titles[e.TaskID]}
		if u, ok := users[e.UserID]; ok {
			entry.Username = u.Username
		}
		result = append(result, entry)
	}
	return result, nil
}
