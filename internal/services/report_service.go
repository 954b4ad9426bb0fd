package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
)

// CSVHeader is the fixed column set of the task export
var CSVHeader = []string{"ID", "Title", "Status", "Priority", "Project", "Assigned To", "Created By", "Due Date"}

const (
	csvNotAvailable = "N/A"
	csvUnassigned   = "Unassigned"
	csvNoDueDate    = "No due date"
)

// TaskStats summarizes every task
type TaskStats struct {
	Total          int
	Completed      int
	Pending        int
	InProgress     int
	Overdue        int
	CompletionRate float64
	ByStatus       map[string]int
	ByPriority     map[string]int
}

// ProjectStat summarizes the tasks of one project
type ProjectStat struct {
	ProjectID      uint64
	ProjectName    string
	TotalTasks     int
	Completed      int
	Pending        int
	InProgress     int
	CompletionRate float64
}

type ProjectStats struct {
	TotalProjects int
	Projects      []ProjectStat
}

// UserStat summarizes the tasks assigned to one user
type UserStat struct {
	UserID        uint64
	Username      string
	TotalAssigned int
	Completed     int
	Pending       int
	InProgress    int
}

type UserStats struct {
	TotalUsers int
	Users      []UserStat
}

// ReportService aggregates tasks in memory. Datasets are assumed small, so
// every report loads the full tables.
type ReportService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	now         func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ReportService {
	return &ReportService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		now:         time.Now,
	}
}

// TaskStats counts tasks by status and priority. A task is overdue when its
// due date is strictly before now and it is not completed.
func (s *ReportService) TaskStats(ctx context.Context) (*TaskStats, error) {
	tasks, err := s.allTasks(ctx)
	if err != nil {
		return nil, err
	}

	stats := &TaskStats{
		Total:      len(tasks),
		ByStatus:   make(map[string]int, len(models.TaskStatuses)),
		ByPriority: make(map[string]int, len(models.TaskPriorities)),
	}
	for _, status := range models.TaskStatuses {
		stats.ByStatus[string(status)] = 0
	}
	for _, priority := range models.TaskPriorities {
		stats.ByPriority[string(priority)] = 0
	}

	now := s.now()
	for _, t := range tasks {
		stats.ByStatus[string(t.Status)]++
		stats.ByPriority[string(t.Priority)]++

		switch t.Status {
		case models.TaskStatusCompleted:
			stats.Completed++
		case models.TaskStatusPending:
			stats.Pending++
		case models.TaskStatusInProgress:
			stats.InProgress++
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}
	}
	stats.CompletionRate = percentage(stats.Completed, stats.Total)

	return stats, nil
}

// ProjectStats counts each project's tasks by filtering the full task set
func (s *ReportService) ProjectStats(ctx context.Context) (*ProjectStats, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	tasks, err := s.allTasks(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ProjectStats{
		TotalProjects: len(projects),
		Projects:      make([]ProjectStat, 0, len(projects)),
	}
	for _, p := range projects {
		stat := ProjectStat{ProjectID: p.ID, ProjectName: p.Name}
		for _, t := range tasks {
			if t.ProjectID != p.ID {
				continue
			}
			stat.TotalTasks++
			switch t.Status {
			case models.TaskStatusCompleted:
				stat.Completed++
			case models.TaskStatusPending:
				stat.Pending++
			case models.TaskStatusInProgress:
				stat.InProgress++
			}
		}
		stat.CompletionRate = percentage(stat.Completed, stat.TotalTasks)
		stats.Projects = append(stats.Projects, stat)
	}

	return stats, nil
}

// UserStats counts each user's assigned tasks
func (s *ReportService) UserStats(ctx context.Context) (*UserStats, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	tasks, err := s.allTasks(ctx)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		TotalUsers: len(users),
		Users:      make([]UserStat, 0, len(users)),
	}
	for _, u := range users {
		stat := UserStat{UserID: u.ID, Username: u.Username}
		for _, t := range tasks {
			if t.AssigneeID() != u.ID {
				continue
			}
			stat.TotalAssigned++
			switch t.Status {
			case models.TaskStatusCompleted:
				stat.Completed++
			case models.TaskStatusPending:
				stat.Pending++
			case models.TaskStatusInProgress:
				stat.InProgress++
			}
		}
		stats.Users = append(stats.Users, stat)
	}

	return stats, nil
}

// ExportCSV writes every task as one CSV row under CSVHeader. Fields are
// quoted and escaped per RFC 4180.
func (s *ReportService) ExportCSV(ctx context.Context, w io.Writer) error {
	tasks, err := s.allTasks(ctx)
	if err != nil {
		return err
	}

	projectIDs := make([]uint64, 0, len(tasks))
	userIDs := make([]uint64, 0, len(tasks)*2)
	for _, t := range tasks {
		projectIDs = append(projectIDs, t.ProjectID)
		userIDs = append(userIDs, t.CreatedBy, t.AssigneeID())
	}
	projects, err := lookupProjects(ctx, s.projectRepo, projectIDs)
	if err != nil {
		return err
	}
	users, err := lookupUsers(ctx, s.userRepo, userIDs)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, t := range tasks {
		project := csvNotAvailable
		if p, ok := projects[t.ProjectID]; ok {
			project = p.Name
		}
		assignee := csvUnassigned
		if u, ok := users[t.AssigneeID()]; ok {
			assignee = u.Username
		}
		creator := csvNotAvailable
		if u, ok := users[t.CreatedBy]; ok {
			creator = u.Username
		}
		dueDate := csvNoDueDate
		if t.DueDate != nil {
			dueDate = t.DueDate.Format("2006-01-02")
		}

		record := []string{
			strconv.FormatUint(t.ID, 10),
			t.Title,
			string(t.Status),
			string(t.Priority),
			project,
			assignee,
			creator,
			dueDate,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row for task %d: %w", t.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (s *ReportService) allTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// percentage returns part/total*100 rounded to one decimal, or 0 for an empty total
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
