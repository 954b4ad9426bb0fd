package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/validation"
)

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, dto.OK(data))
}

func respondList[T any](c *gin.Context, items []T) {
	c.JSON(http.StatusOK, dto.List(items))
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.Message(message))
}

// respondBindError answers a failed ShouldBindJSON with field messages when
// the body decoded but did not validate.
func respondBindError(c *gin.Context, err error) {
	if details := validation.Messages(err); details != nil {
		apierrors.ValidationFailed(c, details)
		return
	}
	apierrors.BadRequest(c, "Invalid request body")
}

func respondPayloadError(c *gin.Context, err error) {
	var fe *fieldError
	if errors.As(err, &fe) {
		apierrors.ValidationFailed(c, map[string]string{fe.field: fe.Error()})
		return
	}
	apierrors.BadRequest(c, "Invalid request body")
}

// respondInternal attaches err for the request logger and passes its
// message through in a 500
func respondInternal(c *gin.Context, err error) {
	_ = c.Error(err)
	apierrors.InternalError(c, err.Error())
}

// currentUserID is the authenticated user id; RequireAuth guarantees it is
// present on protected routes.
func currentUserID(c *gin.Context) (uint64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
	}
	return userID, ok
}
