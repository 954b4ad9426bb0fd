package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotNotificationOwner = errors.New("notification belongs to another user")
)

// NotificationRequest is one pending inbox entry
type NotificationRequest struct {
	RecipientID   uint64
	Message       string
	Type          models.NotificationType
	RelatedTaskID *uint64
}

// NotificationEntry is a notification joined with its task title
type NotificationEntry struct {
	models.Notification
	TaskTitle string
}

// NotificationService writes and reads per-user inboxes
type NotificationService struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
	mailer   Mailer
	log      *logrus.Logger
}

// NewNotificationService creates a new NotificationService. mailer may be nil.
func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository, taskRepo repository.TaskRepository, mailer Mailer, log *logrus.Logger) *NotificationService {
	return &NotificationService{
		repo:     repo,
		userRepo: userRepo,
		taskRepo: taskRepo,
		mailer:   mailer,
		log:      log,
	}
}

// Notify writes one unread notification. A zero recipient is a no-op.
func (s *NotificationService) Notify(ctx context.Context, recipientID uint64, message string, notificationType models.NotificationType, relatedTaskID *uint64) error {
	if recipientID == 0 {
		return nil
	}
	if notificationType == "" {
		notificationType = models.NotificationGeneral
	}

	notification := &models.Notification{
		UserID:        recipientID,
		Message:       truncate(message, constants.MaxNotificationMessageLength),
		Type:          notificationType,
		RelatedTaskID: relatedTaskID,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to notify user %d: %w", recipientID, err)
	}

	s.mail(ctx, notification)
	return nil
}

// Dispatch sends every request independently. Failures are logged and
// swallowed so that callers never fail because of an inbox write.
func (s *NotificationService) Dispatch(ctx context.Context, requests ...NotificationRequest) {
	for _, req := range requests {
		if err := s.Notify(ctx, req.RecipientID, req.Message, req.Type, req.RelatedTaskID); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"recipient": req.RecipientID,
				"type":      req.Type,
			}).Error("Notification dispatch failed")
		}
	}
}

// ListForUser returns the user's latest notifications
func (s *NotificationService) ListForUser(ctx context.Context, userID uint64, unreadOnly bool) ([]NotificationEntry, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, unreadOnly, constants.NotificationInboxLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	var taskIDs []uint64
	for _, n := range notifications {
		if n.RelatedTaskID != nil {
			taskIDs = append(taskIDs, *n.RelatedTaskID)
		}
	}
	tasks, err := s.taskRepo.FindByIDs(ctx, uniqueIDs(taskIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	titles := make(map[uint64]string, len(tasks))
	for _, t := range tasks {
		titles[t.ID] = t.Title
	}

	entries := make([]NotificationEntry, 0, len(notifications))
	for _, n := range notifications {
		entry := NotificationEntry{Notification: n}
		if n.RelatedTaskID != nil {
			entry.TaskTitle = titles[*n.RelatedTaskID]
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// MarkRead marks the given notifications as read, or all unread ones when ids
// is empty. Ids owned by other users are ignored.
func (s *NotificationService) MarkRead(ctx context.Context, userID uint64, ids []string) (int64, error) {
	changed, err := s.repo.MarkRead(ctx, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return changed, nil
}

// Delete removes a notification owned by userID
func (s *NotificationService) Delete(ctx context.Context, userID uint64, id string) error {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to find notification: %w", err)
	}
	if notification.UserID != userID {
		return ErrNotNotificationOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (s *NotificationService) mail(ctx context.Context, n *models.Notification) {
	if s.mailer == nil {
		return
	}

	user, err := s.userRepo.FindByID(ctx, n.UserID)
	if err != nil || user.Email == "" {
		return
	}

	if err := s.mailer.Send(user.Email, "Task tracker: "+string(n.Type), n.Message); err != nil {
		s.log.WithError(err).WithField("recipient", n.UserID).Warn("Notification email failed")
	}
}

// truncate cuts s to at most limit runes
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
