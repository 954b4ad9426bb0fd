package dto

import (
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64          `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email,omitempty"`
	Role      models.UserRole `json:"role"`
	CreatedAt time.Time       `json:"createdAt"`
}

// UserRefDTO is the short form of a user embedded in other resources
type UserRefDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProjectRefDTO is the short form of a project embedded in a task
type ProjectRefDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// TaskDTO represents a task in API responses. Foreign keys are kept next
// to the resolved project and users.
type TaskDTO struct {
	ID             uint64              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Status         models.TaskStatus   `json:"status"`
	Priority       models.TaskPriority `json:"priority"`
	ProjectID      uint64              `json:"projectId"`
	Project        *ProjectRefDTO      `json:"project"`
	AssignedTo     *uint64             `json:"assignedTo"`
	Assignee       *UserRefDTO         `json:"assignee"`
	CreatedBy      uint64              `json:"createdBy"`
	Creator        *UserRefDTO         `json:"creator"`
	DueDate        *time.Time          `json:"dueDate"`
	EstimatedHours float64             `json:"estimatedHours"`
	ActualHours    float64             `json:"actualHours"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// GeneratedTaskDTO is one AI suggestion. Suggestions are never stored.
type GeneratedTaskDTO struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

// AuthDTO is returned by register and login
type AuthDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserDTO   `json:"user"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

func toUserRef(user *models.User) *UserRefDTO {
	if user == nil {
		return nil
	}
	return &UserRefDTO{ID: user.ID, Username: user.Username}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	out := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		out[i] = ToProjectDTO(p)
	}
	return out
}

// ToTaskDTO converts a resolved task to TaskDTO
func ToTaskDTO(details services.TaskDetails) TaskDTO {
	task := details.Task
	dto := TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		Priority:       task.Priority,
		ProjectID:      task.ProjectID,
		AssignedTo:     task.AssignedTo,
		Assignee:       toUserRef(details.Assignee),
		CreatedBy:      task.CreatedBy,
		Creator:        toUserRef(details.Creator),
		DueDate:        task.DueDate,
		EstimatedHours: task.EstimatedHours,
		ActualHours:    task.ActualHours,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}

	if details.Project != nil {
		dto.Project = &ProjectRefDTO{ID: details.Project.ID, Name: details.Project.Name}
	}

	return dto
}

// ToTaskDTOs converts a list of resolved tasks
func ToTaskDTOs(details []services.TaskDetails) []TaskDTO {
	out := make([]TaskDTO, len(details))
	for i, d := range details {
		out[i] = ToTaskDTO(d)
	}
	return out
}

func ToGeneratedTaskDTOs(tasks []services.GeneratedTask) []GeneratedTaskDTO {
	out := make([]GeneratedTaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = GeneratedTaskDTO{
			Title:       t.Title,
			Description: t.Description,
			Priority:    t.Priority,
			DueDate:     t.DueDate,
		}
	}
	return out
}
