package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListNotifications returns the current user's inbox
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	entries, err := h.notificationService.ListForUser(c.Request.Context(), userID, utils.QueryBool(c, "unreadOnly"))
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	respondList(c, dto.ToNotificationDTOs(entries))
}

// MarkRead marks the listed notifications as read, or every unread one when
// no ids are sent
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type MarkReadRequest struct {
		NotificationIDs []string `json:"notificationIds"`
	}

	var req MarkReadRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	changed, err := h.notificationService.MarkRead(c.Request.Context(), userID, req.NotificationIDs)
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"updated": changed})
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondNotificationError(c, err)
		return
	}

	respondMessage(c, "Notification deleted successfully")
}

func respondNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotificationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotNotificationOwner):
		apierrors.Forbidden(c, err.Error())
	default:
		respondInternal(c, err)
	}
}
