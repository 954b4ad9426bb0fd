package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
)

const (
	msgTaskAssigned   = "New task assigned: %s"
	msgTaskCreated    = "Task created: %s"
	msgTaskUpdated    = "Task updated: %s"
	msgTaskCompleted  = "Task completed: %s"
	msgTaskDeleted    = "Task deleted: %s"
	msgTaskUnassigned = "You were unassigned from task: %s"
	msgCommentAdded   = "New comment on task: %s"
)

// taskDiff compares a task snapshot with its post-update state
type taskDiff struct {
	before models.Task
	after  models.Task

	statusChanged bool
	titleChanged  bool
	// assigned is set when a non-empty assignee differing from the old one was given
	assigned bool
	// unassigned is set when the assignee was cleared while one existed
	unassigned bool
	// detailsChanged covers priority, due date and description
	detailsChanged bool
	// updated collects every field change recorded in the UPDATED entry
	updated map[string]models.FieldChange
}

func diffTask(before, after models.Task) taskDiff {
	d := taskDiff{
		before:  before,
		after:   after,
		updated: map[string]models.FieldChange{},
	}

	d.statusChanged = before.Status != after.Status
	d.titleChanged = before.Title != after.Title

	oldAssignee, newAssignee := before.AssigneeID(), after.AssigneeID()
	d.assigned = newAssignee != 0 && newAssignee != oldAssignee
	d.unassigned = newAssignee == 0 && oldAssignee != 0

	if before.Priority != after.Priority {
		d.updated["priority"] = models.FieldChange{From: string(before.Priority), To: string(after.Priority)}
		d.detailsChanged = true
	}
	if !sameDueDate(before.DueDate, after.DueDate) {
		d.updated["dueDate"] = models.FieldChange{From: formatDueDate(before.DueDate), To: formatDueDate(after.DueDate)}
		d.detailsChanged = true
	}
	if before.Description != after.Description {
		d.updated["description"] = models.FieldChange{From: before.Description, To: after.Description}
		d.detailsChanged = true
	}
	if d.unassigned {
		d.updated["assignedTo"] = models.FieldChange{From: formatID(oldAssignee), To: ""}
	}
	if before.ProjectID != after.ProjectID {
		d.updated["projectId"] = models.FieldChange{From: formatID(before.ProjectID), To: formatID(after.ProjectID)}
	}
	if before.EstimatedHours != after.EstimatedHours {
		d.updated["estimatedHours"] = models.FieldChange{From: formatHours(before.EstimatedHours), To: formatHours(after.EstimatedHours)}
	}
	if before.ActualHours != after.ActualHours {
		d.updated["actualHours"] = models.FieldChange{From: formatHours(before.ActualHours), To: formatHours(after.ActualHours)}
	}

	return d
}

// historyEntries returns the audit rows for the diff in write order
func (d taskDiff) historyEntries() []models.TaskHistory {
	var entries []models.TaskHistory

	if d.statusChanged {
		from, to := string(d.before.Status), string(d.after.Status)
		entries = append(entries, models.TaskHistory{
			Action:   models.HistoryActionStatusChanged,
			OldValue: from,
			NewValue: to,
			Changes:  map[string]models.FieldChange{"status": {From: from, To: to}},
		})
	}
	if d.titleChanged {
		entries = append(entries, models.TaskHistory{
			Action:   models.HistoryActionTitleChanged,
			OldValue: d.before.Title,
			NewValue: d.after.Title,
			Changes:  map[string]models.FieldChange{"title": {From: d.before.Title, To: d.after.Title}},
		})
	}
	if d.assigned {
		from, to := formatID(d.before.AssigneeID()), formatID(d.after.AssigneeID())
		entries = append(entries, models.TaskHistory{
			Action:   models.HistoryActionAssigned,
			OldValue: from,
			NewValue: to,
			Changes:  map[string]models.FieldChange{"assignedTo": {From: from, To: to}},
		})
	}
	if len(d.updated) > 0 {
		entries = append(entries, models.TaskHistory{
			Action:  models.HistoryActionUpdated,
			Changes: d.updated,
		})
	}

	return entries
}

// notifications applies the update fan-out rules. Several rules may target
// the same user in one request; each fires independently.
func (d taskDiff) notifications() []NotificationRequest {
	var out []NotificationRequest
	taskID := d.after.ID
	title := d.after.Title
	previousAssignee := d.before.AssigneeID()

	if d.statusChanged {
		out = append(out, notification(previousAssignee, msgTaskUpdated, models.NotificationTaskUpdated, taskID, title))
		if d.after.Status == models.TaskStatusCompleted {
			out = append(out, notification(d.after.CreatedBy, msgTaskCompleted, models.NotificationTaskCompleted, taskID, title))
		}
	}
	if d.assigned {
		out = append(out, notification(d.after.AssigneeID(), msgTaskAssigned, models.NotificationTaskAssigned, taskID, title))
	}
	if d.unassigned {
		out = append(out, notification(previousAssignee, msgTaskUnassigned, models.NotificationTaskUpdated, taskID, title))
	}
	if d.detailsChanged {
		out = append(out, notification(previousAssignee, msgTaskUpdated, models.NotificationTaskUpdated, taskID, title))
	}

	return withRecipients(out)
}

func creationNotifications(task models.Task) []NotificationRequest {
	if task.AssigneeID() != 0 {
		return withRecipients([]NotificationRequest{
			notification(task.AssigneeID(), msgTaskAssigned, models.NotificationTaskAssigned, task.ID, task.Title),
		})
	}
	return withRecipients([]NotificationRequest{
		notification(task.CreatedBy, msgTaskCreated, models.NotificationGeneral, task.ID, task.Title),
	})
}

func deletionNotifications(task models.Task) []NotificationRequest {
	return withRecipients(involvedNotifications(task, msgTaskDeleted, models.NotificationTaskDeleted))
}

// involvedNotifications addresses the assignee and, when different, the creator
func involvedNotifications(task models.Task, format string, notificationType models.NotificationType) []NotificationRequest {
	out := []NotificationRequest{
		notification(task.AssigneeID(), format, notificationType, task.ID, task.Title),
	}
	if task.CreatedBy != task.AssigneeID() {
		out = append(out, notification(task.CreatedBy, format, notificationType, task.ID, task.Title))
	}
	return out
}

func notification(recipientID uint64, format string, notificationType models.NotificationType, taskID uint64, title string) NotificationRequest {
	related := taskID
	return NotificationRequest{
		RecipientID:   recipientID,
		Message:       fmt.Sprintf(format, title),
		Type:          notificationType,
		RelatedTaskID: &related,
	}
}

// withRecipients drops requests that have nobody to deliver to
func withRecipients(requests []NotificationRequest) []NotificationRequest {
	out := requests[:0]
	for _, r := range requests {
		if r.RecipientID != 0 {
			out = append(out, r)
		}
	}
	return out
}

func sameDueDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func formatDueDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatID(id uint64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatUint(id, 10)
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
