package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// ListTaskComments returns the comments of a task, oldest first
func (h *CommentHandler) ListTaskComments(c *gin.Context) {
	comments, err := h.commentService.ListByTask(c.Request.Context(), middleware.GetParamID(c))
	if err != nil {
		respondCommentError(c, err)
		return
	}

	respondList(c, dto.ToCommentDTOs(comments))
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	p, err := readPayload(c)
	if err != nil {
		respondPayloadError(c, err)
		return
	}
	taskID, err := p.optID("taskId")
	if err != nil {
		respondPayloadError(c, err)
		return
	}
	if taskID.Value == nil {
		apierrors.ValidationFailed(c, map[string]string{"taskId": "The field 'taskId' is required."})
		return
	}
	text, err := p.str("commentText")
	if err != nil {
		respondPayloadError(c, err)
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), userID, *taskID.Value, text)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, dto.ToCommentDTO(*comment))
}

// DeleteComment removes a comment. Only its author or an admin may do so.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), user, middleware.GetParamID(c)); err != nil {
		respondCommentError(c, err)
		return
	}

	respondMessage(c, "Comment deleted successfully")
}

func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCommentTextRequired),
		errors.Is(err, services.ErrCommentTooLong):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotCommentAuthor):
		apierrors.Forbidden(c, err.Error())
	default:
		respondInternal(c, err)
	}
}
