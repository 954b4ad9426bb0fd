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
	ErrProjectNotFound           = errors.New("project not found")
	ErrProjectNameRequired       = errors.New("project name is required")
	ErrProjectNameTooLong        = fmt.Errorf("project name must be at most %d characters", constants.MaxProjectNameLength)
	ErrProjectDescriptionTooLong = fmt.Errorf("project description must be at most %d characters", constants.MaxProjectDescriptionLength)
)

const msgProjectCreated = "Project created: %s"

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	notifier    *NotificationService
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, notifier *NotificationService) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		notifier:    notifier,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
}

// UpdateProjectInput represents a merge-patch over a project
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// ListProjects returns every project, newest first
func (s *ProjectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns one project
func (s *ProjectService) GetProject(ctx context.Context, id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// CreateProject stores a project and acknowledges it to the acting user
func (s *ProjectService) CreateProject(ctx context.Context, actingUserID uint64, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}
	if err := validateProjectText(name, input.Description); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.notifier.Dispatch(ctx, NotificationRequest{
		RecipientID: actingUserID,
		Message:     fmt.Sprintf(msgProjectCreated, project.Name),
		Type:        models.NotificationProjectCreated,
	})

	return project, nil
}

// UpdateProject writes the fields present in input
func (s *ProjectService) UpdateProject(ctx context.Context, id uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = name
		fields["name"] = name
	}
	if input.Description != nil {
		project.Description = *input.Description
		fields["description"] = project.Description
	}
	if err := validateProjectText(project.Name, project.Description); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Updates(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.GetProject(ctx, id)
}

// DeleteProject hard deletes a project
func (s *ProjectService) DeleteProject(ctx context.Context, id uint64) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func validateProjectText(name, description string) error {
	if utf8.RuneCountInString(name) > constants.MaxProjectNameLength {
		return ErrProjectNameTooLong
	}
	if utf8.RuneCountInString(description) > constants.MaxProjectDescriptionLength {
		return ErrProjectDescriptionTooLong
	}
	return nil
}
