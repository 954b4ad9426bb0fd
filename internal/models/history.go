package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistoryAction string

const (
	HistoryActionCreated       HistoryAction = "CREATED"
	HistoryActionStatusChanged HistoryAction = "STATUS_CHANGED"
	HistoryActionTitleChanged  HistoryAction = "TITLE_CHANGED"
	HistoryActionAssigned      HistoryAction = "ASSIGNED"
	HistoryActionUpdated       HistoryAction = "UPDATED"
	HistoryActionDeleted       HistoryAction = "DELETED"
)

// FieldChange is one from→to pair inside a history entry
type FieldChange struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// TaskHistory is an immutable audit entry. It has no UpdatedAt on purpose.
type TaskHistory struct {
	ID        string                 `gorm:"primarykey;type:varchar(36)" json:"id" bson:"_id"`
	TaskID    uint64                 `gorm:"not null;index:idx_task_histories_task_created,priority:1" json:"task_id" bson:"task_id"`
	UserID    uint64                 `gorm:"not null" json:"user_id" bson:"user_id"`
	Action    HistoryAction          `gorm:"type:varchar(20);not null" json:"action" bson:"action"`
	OldValue  string                 `gorm:"type:text" json:"old_value" bson:"old_value"`
	NewValue  string                 `gorm:"type:text" json:"new_value" bson:"new_value"`
	Changes   map[string]FieldChange `gorm:"serializer:json;type:text" json:"changes,omitempty" bson:"changes,omitempty"`
	CreatedAt time.Time              `gorm:"index:idx_task_histories_task_created,priority:2" json:"created_at" bson:"created_at"`
}

// BeforeCreate assigns the document id when the caller left it empty
func (h *TaskHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
