package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
)

var (
	ErrCommentNotFound     = errors.New("comment not found")
	ErrCommentTextRequired = errors.New("comment text is required")
	ErrCommentTooLong      = fmt.Errorf("comment must be at most %d characters", constants.MaxCommentLength)
	ErrNotCommentAuthor    = errors.New("only the author or an admin can delete this comment")
)

// CommentEntry is a comment joined with its author's username
type CommentEntry struct {
	models.Comment
	Username string
}

// CommentService handles task comments
type CommentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
	notifier    *NotificationService
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository, userRepo repository.UserRepository, notifier *NotificationService) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// ListByTask returns a task's comments oldest first
func (s *CommentService) ListByTask(ctx context.Context, taskID uint64) ([]CommentEntry, error) {
	comments, err := s.commentRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	userIDs := make([]uint64, 0, len(comments))
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
	}
	users, err := lookupUsers(ctx, s.userRepo, userIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]CommentEntry, 0, len(comments))
	for _, c := range comments {
		entries = append(entries, CommentEntry{Comment: c, Username: users[c.UserID].Username})
	}
	return entries, nil
}

// CreateComment stores a comment and notifies the task's assignee and creator
func (s *CommentService) CreateComment(ctx context.Context, userID, taskID uint64, text string) (*CommentEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentTextRequired
	}
	if utf8.RuneCountInString(text) > constants.MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	comment := &models.Comment{
		TaskID:      task.ID,
		UserID:      userID,
		CommentText: text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.notifier.Dispatch(ctx, withRecipients(involvedNotifications(*task, msgCommentAdded, models.NotificationCommentAdded))...)

	entry := &CommentEntry{Comment: *comment}
	if user, err := s.userRepo.FindByID(ctx, userID); err == nil {
		entry.Username = user.Username
	}
	return entry, nil
}

// DeleteComment removes a comment when actor is its author or an admin
func (s *CommentService) DeleteComment(ctx context.Context, actor *models.User, id uint64) error {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to find comment: %w", err)
	}

	if comment.UserID != actor.ID && !actor.IsAdmin() {
		return ErrNotCommentAuthor
	}

	if err := s.commentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
