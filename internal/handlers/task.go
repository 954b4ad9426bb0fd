package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks returns tasks filtered by status, priority, projectId and
// assignedTo, newest first
func (h *TaskHandler) ListTasks(c *gin.Context) {
	projectID, err := utils.QueryID(c, "projectId")
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	assignedTo, err := utils.QueryID(c, "assignedTo")
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), services.ListTasksInput{
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		ProjectID:  projectID,
		AssignedTo: assignedTo,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondList(c, dto.ToTaskDTOs(tasks))
}

// SearchTasks matches searchText against title and description
func (h *TaskHandler) SearchTasks(c *gin.Context) {
	p, err := readPayload(c)
	if err != nil {
		respondPayloadError(c, err)
		return
	}

	input := services.ListTasksInput{}
	if input.SearchText, err = p.str("searchText"); err != nil {
		respondPayloadError(c, err)
		return
	}
	if input.Status, err = p.str("status"); err != nil {
		respondPayloadError(c, err)
		return
	}
	if input.Priority, err = p.str("priority"); err != nil {
		respondPayloadError(c, err)
		return
	}
	project, err := p.optID("projectId")
	if err != nil {
		respondPayloadError(c, err)
		return
	}
	input.ProjectID = project.Value

	tasks, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondList(c, dto.ToTaskDTOs(tasks))
}

// GetTask returns a single task
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Request.Context(), middleware.GetParamID(c))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondOK(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task owned by the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	p, err := readPayload(c)
	if err != nil {
		respondPayloadError(c, err)
		return
	}
	input, err := toCreateTaskInput(p, userID)
	if err != nil {
		respondPayloadError(c, err)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies the body as a merge-patch. Keys that are absent keep
// their stored value; null or "" clears projectId, assignedTo and dueDate.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	p, err := readPayload(c)
	if err != nil {
		respondPayloadError(c, err)
		return
	}
	input, err := toUpdateTaskInput(p)
	if err != nil {
		respondPayloadError(c, err)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), middleware.GetParamID(c), userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondOK(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), middleware.GetParamID(c), userID); err != nil {
		respondTaskError(c, err)
		return
	}

	respondMessage(c, "Task deleted successfully")
}

// GenerateTasks generates task suggestions from text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tasks, err := h.taskService.GenerateTasks(c.Request.Context(), req.Text)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondList(c, dto.ToGeneratedTaskDTOs(tasks))
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrTitleTooLong),
		errors.Is(err, services.ErrDescriptionTooLong),
		errors.Is(err, services.ErrProjectRequired),
		errors.Is(err, services.ErrAssigneeNotFound),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrNegativeHours),
		errors.Is(err, services.ErrAITextRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.Unprocessable(c, err.Error())
	default:
		respondInternal(c, err)
	}
}
