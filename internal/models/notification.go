package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTaskAssigned   NotificationType = "task_assigned"
	NotificationTaskUpdated    NotificationType = "task_updated"
	NotificationTaskCompleted  NotificationType = "task_completed"
	NotificationTaskDeleted    NotificationType = "task_deleted"
	NotificationCommentAdded   NotificationType = "comment_added"
	NotificationGeneral        NotificationType = "general"
	NotificationProjectCreated NotificationType = "project_created"
)

type Notification struct {
	ID            string           `gorm:"primarykey;type:varchar(36)" json:"id" bson:"_id"`
	UserID        uint64           `gorm:"not null;index:idx_notifications_user_read,priority:1" json:"user_id" bson:"user_id"`
	Message       string           `gorm:"type:varchar(500);not null" json:"message" bson:"message"`
	Type          NotificationType `gorm:"type:varchar(30);not null;default:'general'" json:"type" bson:"type"`
	Read          bool             `gorm:"column:is_read;not null;default:false;index:idx_notifications_user_read,priority:2" json:"read" bson:"read"`
	RelatedTaskID *uint64          `json:"related_task_id" bson:"related_task_id,omitempty"`
	CreatedAt     time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" bson:"updated_at"`
}

// BeforeCreate assigns the document id when the caller left it empty
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
