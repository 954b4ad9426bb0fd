package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned by every repository when the requested row does not exist
var ErrNotFound = errors.New("repository: record not found")

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// FindByIDs returns the tasks whose ids are listed, in no particular order
	FindByIDs(ctx context.Context, ids []uint64) ([]models.Task, error)

	// List retrieves tasks matching the filter, newest first
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Updates writes only the given columns
	Updates(ctx context.Context, id uint64, fields map[string]any) error

	// Delete hard deletes a task
	Delete(ctx context.Context, id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	ProjectID  *uint64
	AssignedTo *uint64
	SearchText string
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id uint64) (*models.Project, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	Updates(ctx context.Context, id uint64, fields map[string]any) error
	Delete(ctx context.Context, id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByIDs returns the users whose ids are listed
	FindByIDs(ctx context.Context, ids []uint64) ([]models.User, error)

	// List returns every user ordered by username
	List(ctx context.Context) ([]models.User, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id uint64) (*models.Comment, error)
	ListByTask(ctx context.Context, taskID uint64) ([]models.Comment, error)
	Delete(ctx context.Context, id uint64) error
}

// HistoryRepository stores the append-only task audit trail
type HistoryRepository interface {
	// Create appends one entry
	Create(ctx context.Context, entry *models.TaskHistory) error

	// ListByTask returns the entries of one task, newest first
	ListByTask(ctx context.Context, taskID uint64) ([]models.TaskHistory, error)

	// ListRecent returns the latest entries across all tasks
	ListRecent(ctx context.Context, limit int) ([]models.TaskHistory, error)
}

// NotificationRepository stores per-user inbox rows
type NotificationRepository interface {
	// Create appends one notification
	Create(ctx context.Context, notification *models.Notification) error

	// FindByID finds a notification by ID
	FindByID(ctx context.Context, id string) (*models.Notification, error)

	// ListByUser returns the user's notifications newest first
	ListByUser(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]models.Notification, error)

	// MarkRead flags the listed notifications of the user as read.
	// An empty ids slice marks every unread notification of the user.
	MarkRead(ctx context.Context, userID uint64, ids []string) (int64, error)

	// Delete removes one notification
	Delete(ctx context.Context, id string) error
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
