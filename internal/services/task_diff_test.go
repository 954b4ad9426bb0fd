package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

func uintPtr(v uint64) *uint64 {
	return &v
}

func TestDiffTask_NoChanges(t *testing.T) {
	due := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	task := models.Task{ID: 1, Title: "A", Status: models.TaskStatusPending, AssignedTo: uintPtr(2), CreatedBy: 1, DueDate: &due}
	sameDue := due.In(time.FixedZone("UTC+9", 9*3600))
	copyTask := task
	copyTask.DueDate = &sameDue

	d := diffTask(task, copyTask)
	assert.Empty(t, d.historyEntries())
	assert.Empty(t, d.notifications())
}

func TestDiffTask_StatusRules(t *testing.T) {
	before := models.Task{ID: 1, Title: "A", Status: models.TaskStatusPending, AssignedTo: uintPtr(2), CreatedBy: 1}
	after := before
	after.Status = models.TaskStatusCompleted

	d := diffTask(before, after)

	entries := d.historyEntries()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, models.HistoryActionStatusChanged, entries[0].Action)
		assert.Equal(t, models.FieldChange{From: "Pending", To: "Completed"}, entries[0].Changes["status"])
	}

	notifications := d.notifications()
	if assert.Len(t, notifications, 2) {
		assert.Equal(t, uint64(2), notifications[0].RecipientID)
		assert.Equal(t, models.NotificationTaskUpdated, notifications[0].Type)
		assert.Equal(t, uint64(1), notifications[1].RecipientID)
		assert.Equal(t, models.NotificationTaskCompleted, notifications[1].Type)
		assert.Equal(t, "Task completed: A", notifications[1].Message)
	}
}

func TestDiffTask_AssignmentRules(t *testing.T) {
	unassigned := models.Task{ID: 1, Title: "A", CreatedBy: 1}
	assigned := unassigned
	assigned.AssignedTo = uintPtr(3)

	d := diffTask(unassigned, assigned)
	entries := d.historyEntries()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, models.HistoryActionAssigned, entries[0].Action)
		assert.Equal(t, "", entries[0].OldValue)
		assert.Equal(t, "3", entries[0].NewValue)
	}
	if n := d.notifications(); assert.Len(t, n, 1) {
		assert.Equal(t, models.NotificationTaskAssigned, n[0].Type)
	}

	d = diffTask(assigned, unassigned)
	entries = d.historyEntries()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, models.HistoryActionUpdated, entries[0].Action)
	}
	if n := d.notifications(); assert.Len(t, n, 1) {
		assert.Equal(t, uint64(3), n[0].RecipientID)
		assert.Equal(t, "You were unassigned from task: A", n[0].Message)
	}
}

func TestDiffTask_DetailChangesWithoutAssigneeAreSilent(t *testing.T) {
	before := models.Task{ID: 1, Title: "A", Priority: models.TaskPriorityLow, CreatedBy: 1}
	after := before
	after.Priority = models.TaskPriorityCritical
	after.EstimatedHours = 1.5

	d := diffTask(before, after)
	assert.Empty(t, d.notifications())

	entries := d.historyEntries()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, models.FieldChange{From: "Low", To: "Critical"}, entries[0].Changes["priority"])
		assert.Equal(t, models.FieldChange{From: "0", To: "1.5"}, entries[0].Changes["estimatedHours"])
	}
}

func TestCreationAndDeletionNotifications(t *testing.T) {
	task := models.Task{ID: 9, Title: "T", CreatedBy: 1}
	if n := creationNotifications(task); assert.Len(t, n, 1) {
		assert.Equal(t, models.NotificationGeneral, n[0].Type)
		assert.Equal(t, uint64(1), n[0].RecipientID)
	}
	assert.Len(t, deletionNotifications(task), 1)

	task.AssignedTo = uintPtr(2)
	if n := creationNotifications(task); assert.Len(t, n, 1) {
		assert.Equal(t, models.NotificationTaskAssigned, n[0].Type)
		assert.Equal(t, uint64(2), n[0].RecipientID)
	}
	assert.Len(t, deletionNotifications(task), 2)

	task.AssignedTo = uintPtr(1)
	assert.Len(t, deletionNotifications(task), 1)

	orphan := models.Task{ID: 10, Title: "nobody"}
	assert.Empty(t, deletionNotifications(orphan))
	assert.Empty(t, creationNotifications(orphan))
}
