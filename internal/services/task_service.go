package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTitleRequired          = errors.New("title is required")
	ErrTitleEmpty             = errors.New("title cannot be empty")
	ErrTitleTooLong           = fmt.Errorf("title must be at most %d characters", constants.MaxTaskTitleLength)
	ErrDescriptionTooLong     = fmt.Errorf("description must be at most %d characters", constants.MaxTaskDescriptionLength)
	ErrProjectRequired        = errors.New("projectId is required")
	ErrAssigneeNotFound       = errors.New("assigned user does not exist")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidPriority        = errors.New("invalid priority")
	ErrNegativeHours          = errors.New("hours cannot be negative")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAITextRequired         = errors.New("text is required")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService runs task mutations together with their audit and
// notification side effects
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	history     *HistoryService
	notifier    *NotificationService
	aiService   TaskGenerator
}

// NewTaskService creates a new TaskService. aiService may be nil, which
// disables GenerateTasks.
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	history *HistoryService,
	notifier *NotificationService,
	aiService TaskGenerator,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		history:     history,
		notifier:    notifier,
		aiService:   aiService,
	}
}

// TaskDetails is a task with its project and users resolved for display
type TaskDetails struct {
	Task     models.Task
	Project  *models.Project
	Assignee *models.User
	Creator  *models.User
}

// Patch is one merge-patch field. Set reports whether the key was sent;
// a nil Value with Set means the field was cleared.
type Patch[T any] struct {
	Set   bool
	Value *T
}

// PatchValue returns a Patch that sets v
func PatchValue[T any](v T) Patch[T] {
	return Patch[T]{Set: true, Value: &v}
}

// PatchClear returns a Patch that clears the field
func PatchClear[T any]() Patch[T] {
	return Patch[T]{Set: true}
}

// ListTasksInput represents filters for listing and searching tasks
type ListTasksInput struct {
	Status     string
	Priority   string
	ProjectID  *uint64
	AssignedTo *uint64
	SearchText string
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title          string
	Description    string
	Status         string
	Priority       string
	ProjectID      uint64
	AssignedTo     *uint64
	DueDate        *time.Time
	EstimatedHours float64
	ActualHours    float64
	CreatedBy      uint64
}

// UpdateTaskInput represents a merge-patch over a task. Nil pointers and
// unset patches leave the stored value untouched.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Status         *string
	Priority       *string
	ProjectID      Patch[uint64]
	AssignedTo     Patch[uint64]
	DueDate        Patch[time.Time]
	EstimatedHours *float64
	ActualHours    *float64
}

// ListTasks returns tasks matching the filters, newest first
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]TaskDetails, error) {
	filter := repository.TaskFilter{
		ProjectID:  input.ProjectID,
		AssignedTo: input.AssignedTo,
		SearchText: input.SearchText,
	}
	if input.Status != "" {
		status, ok := models.ParseTaskStatus(input.Status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		filter.Status = &status
	}
	if input.Priority != "" {
		priority, ok := models.ParseTaskPriority(input.Priority)
		if !ok {
			return nil, ErrInvalidPriority
		}
		filter.Priority = &priority
	}

	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return s.details(ctx, tasks)
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*TaskDetails, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, *task)
}

// CreateTask validates and stores a task, records its CREATED entry and
// notifies the assignee, or the creator when nobody is assigned.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*TaskDetails, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.ProjectID == 0 {
		return nil, ErrProjectRequired
	}
	if err := validateTaskText(title, input.Description); err != nil {
		return nil, err
	}
	if input.EstimatedHours < 0 || input.ActualHours < 0 {
		return nil, ErrNegativeHours
	}

	status := models.TaskStatusPending
	if input.Status != "" {
		parsed, ok := models.ParseTaskStatus(input.Status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		status = parsed
	}
	priority := models.TaskPriorityMedium
	if input.Priority != "" {
		parsed, ok := models.ParseTaskPriority(input.Priority)
		if !ok {
			return nil, ErrInvalidPriority
		}
		priority = parsed
	}

	if err := s.ensureProject(ctx, input.ProjectID); err != nil {
		return nil, err
	}

	var assignedTo *uint64
	if input.AssignedTo != nil && *input.AssignedTo != 0 {
		if err := s.ensureAssignee(ctx, *input.AssignedTo); err != nil {
			return nil, err
		}
		id := *input.AssignedTo
		assignedTo = &id
	}

	task := &models.Task{
		Title:          title,
		Description:    input.Description,
		Status:         status,
		Priority:       priority,
		ProjectID:      input.ProjectID,
		AssignedTo:     assignedTo,
		CreatedBy:      input.CreatedBy,
		DueDate:        normalizeDueDate(input.DueDate),
		EstimatedHours: input.EstimatedHours,
		ActualHours:    input.ActualHours,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := s.history.Record(ctx, task.ID, input.CreatedBy, models.HistoryActionCreated, "", task.Title, nil); err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, creationNotifications(*task)...)

	return s.detail(ctx, *task)
}

// UpdateTask applies a merge-patch. History rows are written before the task
// row and abort the update on failure; notifications follow the write and
// are best-effort.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, actingUserID uint64, input UpdateTaskInput) (*TaskDetails, error) {
	before, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	after, fields, err := s.applyPatch(ctx, *before, input)
	if err != nil {
		return nil, err
	}

	diff := diffTask(*before, after)
	for _, entry := range diff.historyEntries() {
		if err := s.history.Record(ctx, taskID, actingUserID, entry.Action, entry.OldValue, entry.NewValue, entry.Changes); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Updates(ctx, taskID, fields); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.notifier.Dispatch(ctx, diff.notifications()...)

	return s.GetTask(ctx, taskID)
}

// DeleteTask records the deletion, notifies the people involved and removes
// the row. History, notifications and comments of the task are kept.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, actingUserID uint64) error {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return err
	}

	if err := s.history.Record(ctx, task.ID, actingUserID, models.HistoryActionDeleted, task.Title, "", nil); err != nil {
		return err
	}

	s.notifier.Dispatch(ctx, deletionNotifications(*task)...)

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// GenerateTasks uses AI to suggest tasks from free text. Nothing is stored.
func (s *TaskService) GenerateTasks(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrAITextRequired
	}

	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		aiTasks = aiTasks[:constants.MaxAIGeneratedTasks]
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" || utf8.RuneCountInString(aiTask.Title) > constants.MaxTaskTitleLength {
			continue
		}

		if aiTask.DueDate != nil && aiTask.DueDate.Before(cutoff) {
			aiTask.DueDate = nil
		}
		priority, ok := models.ParseTaskPriority(aiTask.Priority)
		if !ok {
			priority = models.TaskPriorityMedium
		}
		aiTask.Priority = string(priority)

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

// applyPatch validates input against the stored task and returns the
// post-update task together with the columns to write.
func (s *TaskService) applyPatch(ctx context.Context, task models.Task, input UpdateTaskInput) (models.Task, map[string]any, error) {
	fields := map[string]any{}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return task, nil, ErrTitleEmpty
		}
		task.Title = title
		fields["title"] = title
	}
	if input.Description != nil {
		task.Description = *input.Description
		fields["description"] = task.Description
	}
	if err := validateTaskText(task.Title, task.Description); err != nil {
		return task, nil, err
	}

	if input.Status != nil {
		status, ok := models.ParseTaskStatus(*input.Status)
		if !ok {
			return task, nil, ErrInvalidStatus
		}
		task.Status = status
		fields["status"] = status
	}
	if input.Priority != nil {
		priority, ok := models.ParseTaskPriority(*input.Priority)
		if !ok {
			return task, nil, ErrInvalidPriority
		}
		task.Priority = priority
		fields["priority"] = priority
	}

	if input.ProjectID.Set {
		if input.ProjectID.Value == nil || *input.ProjectID.Value == 0 {
			return task, nil, ErrProjectRequired
		}
		if *input.ProjectID.Value != task.ProjectID {
			if err := s.ensureProject(ctx, *input.ProjectID.Value); err != nil {
				return task, nil, err
			}
		}
		task.ProjectID = *input.ProjectID.Value
		fields["project_id"] = task.ProjectID
	}

	if input.AssignedTo.Set {
		if input.AssignedTo.Value == nil || *input.AssignedTo.Value == 0 {
			task.AssignedTo = nil
			fields["assigned_to"] = nil
		} else {
			id := *input.AssignedTo.Value
			if id != task.AssigneeID() {
				if err := s.ensureAssignee(ctx, id); err != nil {
					return task, nil, err
				}
			}
			task.AssignedTo = &id
			fields["assigned_to"] = id
		}
	}

	if input.DueDate.Set {
		task.DueDate = normalizeDueDate(input.DueDate.Value)
		if task.DueDate == nil {
			fields["due_date"] = nil
		} else {
			fields["due_date"] = *task.DueDate
		}
	}

	if input.EstimatedHours != nil {
		if *input.EstimatedHours < 0 {
			return task, nil, ErrNegativeHours
		}
		task.EstimatedHours = *input.EstimatedHours
		fields["estimated_hours"] = task.EstimatedHours
	}
	if input.ActualHours != nil {
		if *input.ActualHours < 0 {
			return task, nil, ErrNegativeHours
		}
		task.ActualHours = *input.ActualHours
		fields["actual_hours"] = task.ActualHours
	}

	return task, fields, nil
}

func (s *TaskService) findTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) ensureProject(ctx context.Context, projectID uint64) error {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}
	return nil
}

func (s *TaskService) ensureAssignee(ctx context.Context, userID uint64) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssigneeNotFound
		}
		return fmt.Errorf("failed to find assignee: %w", err)
	}
	return nil
}

func (s *TaskService) detail(ctx context.Context, task models.Task) (*TaskDetails, error) {
	details, err := s.details(ctx, []models.Task{task})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// details resolves projects and users with one lookup per table
func (s *TaskService) details(ctx context.Context, tasks []models.Task) ([]TaskDetails, error) {
	projectIDs := make([]uint64, 0, len(tasks))
	userIDs := make([]uint64, 0, len(tasks)*2)
	for _, t := range tasks {
		projectIDs = append(projectIDs, t.ProjectID)
		userIDs = append(userIDs, t.CreatedBy, t.AssigneeID())
	}

	projects, err := lookupProjects(ctx, s.projectRepo, projectIDs)
	if err != nil {
		return nil, err
	}
	users, err := lookupUsers(ctx, s.userRepo, userIDs)
	if err != nil {
		return nil, err
	}

	result := make([]TaskDetails, 0, len(tasks))
	for _, t := range tasks {
		d := TaskDetails{Task: t}
		if p, ok := projects[t.ProjectID]; ok {
			d.Project = &p
		}
		if u, ok := users[t.AssigneeID()]; ok {
			d.Assignee = &u
		}
		if u, ok := users[t.CreatedBy]; ok {
			d.Creator = &u
		}
		result = append(result, d)
	}
	return result, nil
}

func validateTaskText(title, description string) error {
	if utf8.RuneCountInString(title) > constants.MaxTaskTitleLength {
		return ErrTitleTooLong
	}
	if utf8.RuneCountInString(description) > constants.MaxTaskDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// normalizeDueDate drops sub-second precision so that values survive a
// round trip through any of the supported databases unchanged
func normalizeDueDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := t.Truncate(time.Second)
	return &d
}
