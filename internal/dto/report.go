package dto

import "github.com/yukikurage/task-tracker-api/internal/services"

type TaskStatsDTO struct {
	Total          int            `json:"total"`
	Completed      int            `json:"completed"`
	Pending        int            `json:"pending"`
	InProgress     int            `json:"inProgress"`
	Overdue        int            `json:"overdue"`
	CompletionRate float64        `json:"completionRate"`
	ByStatus       map[string]int `json:"byStatus"`
	ByPriority     map[string]int `json:"byPriority"`
}

type ProjectStatDTO struct {
	ProjectID      uint64  `json:"projectId"`
	ProjectName    string  `json:"projectName"`
	TotalTasks     int     `json:"totalTasks"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	InProgress     int     `json:"inProgress"`
	CompletionRate float64 `json:"completionRate"`
}

type ProjectStatsDTO struct {
	TotalProjects int              `json:"totalProjects"`
	Projects      []ProjectStatDTO `json:"projects"`
}

type UserStatDTO struct {
	UserID        uint64 `json:"userId"`
	Username      string `json:"username"`
	TotalAssigned int    `json:"totalAssigned"`
	Completed     int    `json:"completed"`
	Pending       int    `json:"pending"`
	InProgress    int    `json:"inProgress"`
}

type UserStatsDTO struct {
	TotalUsers int           `json:"totalUsers"`
	Users      []UserStatDTO `json:"users"`
}

func ToTaskStatsDTO(stats services.TaskStats) TaskStatsDTO {
	return TaskStatsDTO{
		Total:          stats.Total,
		Completed:      stats.Completed,
		Pending:        stats.Pending,
		InProgress:     stats.InProgress,
		Overdue:        stats.Overdue,
		CompletionRate: stats.CompletionRate,
		ByStatus:       stats.ByStatus,
		ByPriority:     stats.ByPriority,
	}
}

func ToProjectStatsDTO(stats services.ProjectStats) ProjectStatsDTO {
	projects := make([]ProjectStatDTO, len(stats.Projects))
	for i, p := range stats.Projects {
		projects[i] = ProjectStatDTO(p)
	}
	return ProjectStatsDTO{TotalProjects: stats.TotalProjects, Projects: projects}
}

func ToUserStatsDTO(stats services.UserStats) UserStatsDTO {
	users := make([]UserStatDTO, len(stats.Users))
	for i, u := range stats.Users {
		users[i] = UserStatDTO(u)
	}
	return UserStatsDTO{TotalUsers: stats.TotalUsers, Users: users}
}
