package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

type HistoryHandler struct {
	historyService *services.HistoryService
}

func NewHistoryHandler(historyService *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// ListRecent returns the latest audit entries across all tasks
func (h *HistoryHandler) ListRecent(c *gin.Context) {
	limit, err := utils.QueryLimit(c, constants.DefaultHistoryLimit, constants.MaxHistoryLimit)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	entries, err := h.historyService.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondInternal(c, err)
		return
	}

	respondList(c, dto.ToHistoryDTOs(entries))
}

// ListTaskHistory returns a task's audit trail, newest first. Entries of
// deleted tasks stay readable.
func (h *HistoryHandler) ListTaskHistory(c *gin.Context) {
	entries, err := h.historyService.ListByTask(c.Request.Context(), middleware.GetParamID(c))
	if err != nil {
		respondInternal(c, err)
		return
	}

	respondList(c, dto.ToHistoryDTOs(entries))
}
