package models

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusBlocked    TaskStatus = "Blocked"
	TaskStatusCancelled  TaskStatus = "Cancelled"
)

// TaskStatuses lists every status in display order
var TaskStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusBlocked,
	TaskStatusCancelled,
}

var taskStatusAliases = map[string]TaskStatus{
	"pending":     TaskStatusPending,
	"pendiente":   TaskStatusPending,
	"in progress": TaskStatusInProgress,
	"in-progress": TaskStatusInProgress,
	"in_progress": TaskStatusInProgress,
	"en progreso": TaskStatusInProgress,
	"completed":   TaskStatusCompleted,
	"completada":  TaskStatusCompleted,
	"blocked":     TaskStatusBlocked,
	"bloqueada":   TaskStatusBlocked,
	"cancelled":   TaskStatusCancelled,
	"canceled":    TaskStatusCancelled,
	"cancelada":   TaskStatusCancelled,
}

// ParseTaskStatus maps a client supplied status, including the legacy
// Spanish labels, onto a canonical TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	status, ok := taskStatusAliases[strings.ToLower(strings.TrimSpace(s))]
	return status, ok
}

type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "Low"
	TaskPriorityMedium   TaskPriority = "Medium"
	TaskPriorityHigh     TaskPriority = "High"
	TaskPriorityCritical TaskPriority = "Critical"
)

// TaskPriorities lists every priority from lowest to highest
var TaskPriorities = []TaskPriority{
	TaskPriorityLow,
	TaskPriorityMedium,
	TaskPriorityHigh,
	TaskPriorityCritical,
}

var taskPriorityAliases = map[string]TaskPriority{
	"low":      TaskPriorityLow,
	"baja":     TaskPriorityLow,
	"medium":   TaskPriorityMedium,
	"media":    TaskPriorityMedium,
	"high":     TaskPriorityHigh,
	"alta":     TaskPriorityHigh,
	"critical": TaskPriorityCritical,
	"crítica":  TaskPriorityCritical,
	"critica":  TaskPriorityCritical,
}

// ParseTaskPriority is the priority counterpart of ParseTaskStatus.
func ParseTaskPriority(s string) (TaskPriority, bool) {
	priority, ok := taskPriorityAliases[strings.ToLower(strings.TrimSpace(s))]
	return priority, ok
}

type Task struct {
	ID             uint64       `gorm:"primarykey" json:"id"`
	Title          string       `gorm:"type:varchar(200);not null" json:"title"`
	Description    string       `gorm:"type:text" json:"description"`
	Status         TaskStatus   `gorm:"type:varchar(20);not null;default:'Pending';index:idx_tasks_project_status,priority:2" json:"status"`
	Priority       TaskPriority `gorm:"type:varchar(20);not null;default:'Medium'" json:"priority"`
	ProjectID      uint64       `gorm:"not null;index:idx_tasks_project_status,priority:1" json:"project_id"`
	AssignedTo     *uint64      `gorm:"index" json:"assigned_to"`
	CreatedBy      uint64       `gorm:"not null;index" json:"created_by"`
	DueDate        *time.Time   `json:"due_date"`
	EstimatedHours float64      `gorm:"not null;default:0" json:"estimated_hours"`
	ActualHours    float64      `gorm:"not null;default:0" json:"actual_hours"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// AssigneeID returns the assignee or 0 when the task is unassigned
func (t Task) AssigneeID() uint64 {
	if t.AssignedTo == nil {
		return 0
	}
	return *t.AssignedTo
}

// IsOverdue reports whether the task is past due and still open at now.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != TaskStatusCompleted
}
