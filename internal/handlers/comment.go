package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/dto"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/middleware"
	"github.com/yukikurage/task-tracker/internal/services"
)

// CommentHandler serves the discussion under a task. The task always comes
// from the URL.
type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *CommentHandler) ListComments(c *gin.Context) {
	task, ok := middleware.CurrentTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	comments, err := h.commentService.ListComments(task.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": dto.ToCommentDTOs(comments),
	})
}

func (h *CommentHandler) AddComment(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	task, ok := middleware.CurrentTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	comment, err := h.commentService.AddComment(c.Request.Context(), actor, task.ID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment added",
		"comment": dto.ToCommentDTO(*comment),
	})
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	task, ok := middleware.CurrentTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	comment, err := h.commentService.UpdateComment(task.ID, commentID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment updated",
		"comment": dto.ToCommentDTO(*comment),
	})
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	task, ok := middleware.CurrentTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(task.ID, commentID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
	})
}
