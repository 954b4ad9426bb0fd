package dto

import (
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

type CommentDTO struct {
	ID          uint64    `json:"id"`
	TaskID      uint64    `json:"taskId"`
	UserID      uint64    `json:"userId"`
	Username    string    `json:"username"`
	CommentText string    `json:"commentText"`
	CreatedAt   time.Time `json:"createdAt"`
}

type HistoryDTO struct {
	ID        string                        `json:"id"`
	TaskID    uint64                        `json:"taskId"`
	TaskTitle string                        `json:"taskTitle,omitempty"`
	UserID    uint64                        `json:"userId"`
	Username  string                        `json:"username"`
	Action    models.HistoryAction          `json:"action"`
	OldValue  string                        `json:"oldValue"`
	NewValue  string                        `json:"newValue"`
	Changes   map[string]models.FieldChange `json:"changes,omitempty"`
	CreatedAt time.Time                     `json:"createdAt"`
}

type NotificationDTO struct {
	ID            string                  `json:"id"`
	UserID        uint64                  `json:"userId"`
	Message       string                  `json:"message"`
	Type          models.NotificationType `json:"type"`
	Read          bool                    `json:"read"`
	RelatedTaskID *uint64                 `json:"relatedTaskId"`
	TaskTitle     string                  `json:"taskTitle,omitempty"`
	CreatedAt     time.Time               `json:"createdAt"`
}

func ToCommentDTO(entry services.CommentEntry) CommentDTO {
	return CommentDTO{
		ID:          entry.ID,
		TaskID:      entry.TaskID,
		UserID:      entry.UserID,
		Username:    entry.Username,
		CommentText: entry.CommentText,
		CreatedAt:   entry.CreatedAt,
	}
}

func ToCommentDTOs(entries []services.CommentEntry) []CommentDTO {
	out := make([]CommentDTO, len(entries))
	for i, e := range entries {
		out[i] = ToCommentDTO(e)
	}
	return out
}

func ToHistoryDTOs(entries []services.HistoryEntry) []HistoryDTO {
	out := make([]HistoryDTO, len(entries))
	for i, e := range entries {
		out[i] = HistoryDTO{
			ID:        e.ID,
			TaskID:    e.TaskID,
			TaskTitle: e.TaskTitle,
			UserID:    e.UserID,
			Username:  e.Username,
			Action:    e.Action,
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			Changes:   e.Changes,
			CreatedAt: e.CreatedAt,
		}
	}
	return out
}

func ToNotificationDTOs(entries []services.NotificationEntry) []NotificationDTO {
	out := make([]NotificationDTO, len(entries))
	for i, e := range entries {
		out[i] = NotificationDTO{
			ID:            e.ID,
			UserID:        e.UserID,
			Message:       e.Message,
			Type:          e.Type,
			Read:          e.Read,
			RelatedTaskID: e.RelatedTaskID,
			TaskTitle:     e.TaskTitle,
			CreatedAt:     e.CreatedAt,
		}
	}
	return out
}
