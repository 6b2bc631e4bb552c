package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/notify"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/views"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	notifier notify.Notifier
	renderer *views.Renderer
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments repositories.CommentRepository, posts repositories.PostRepository, notifier notify.Notifier, renderer *views.Renderer) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		posts:    posts,
		notifier: notifier,
		renderer: renderer,
	}
}

// RegisterCommentRoutes registers comment routes on the posts group.
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/:id/comments", h.GetComments)
	g.POST("/:id/comments", h.CreateComment, requireAuth)
	g.POST("/comments/:id/like", h.ToggleLike, requireAuth)
	g.DELETE("/comments/:id", h.DeleteComment, requireAuth)
}

// GetComments returns the post's comments as a reply tree. Unknown posts
// simply have no comments.
func (h *CommentHandler) GetComments(c echo.Context) error {
	id, err := repositories.ParseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusOK, []views.CommentView{})
	}
	ctx := c.Request().Context()

	comments, err := h.comments.ListByPost(ctx, id)
	if err != nil {
		return err
	}
	tree, err := h.renderer.CommentThread(ctx, comments)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tree)
}

// CreateComment adds a comment or, with parentId, a reply to a comment on
// the same post.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID, err := paramID(c, "id", msgPostNotFound)
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}
	ctx := c.Request().Context()
	me := currentAccountID(c)

	post, err := h.posts.GetByID(ctx, postID)
	if err != nil {
		return storeError(err, msgPostNotFound)
	}

	var parent *models.Comment
	if req.ParentID != "" {
		parentID, err := repositories.ParseID(req.ParentID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent comment not found on this post")
		}
		parent, err = h.comments.GetByID(ctx, parentID)
		if errors.Is(err, repositories.ErrNotFound) || (err == nil && parent.Post != post.ID) {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent comment not found on this post")
		}
		if err != nil {
			return err
		}
	}

	comment := &models.Comment{
		Post:    post.ID,
		Author:  me,
		Content: content,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}
	if err := h.comments.Create(ctx, comment); err != nil {
		return err
	}

	if parent != nil {
		h.notifier.Notify(ctx, notify.Event{
			Kind:      models.NotificationReply,
			Recipient: parent.Author,
			Sender:    me,
			Post:      &post.ID,
			Comment:   &comment.ID,
			Content:   content,
		})
	}
	if parent == nil || parent.Author != post.Author {
		h.notifier.Notify(ctx, notify.Event{
			Kind:      models.NotificationComment,
			Recipient: post.Author,
			Sender:    me,
			Post:      &post.ID,
			Comment:   &comment.ID,
			Content:   content,
		})
	}

	view, err := h.renderer.Comment(ctx, comment)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

// ToggleLike flips the caller's like and returns the comment's likers.
func (h *CommentHandler) ToggleLike(c echo.Context) error {
	id, err := paramID(c, "id", msgCommentNotFound)
	if err != nil {
		return err
	}
	likes, err := h.comments.ToggleLike(c.Request().Context(), id, currentAccountID(c))
	if err != nil {
		return storeError(err, msgCommentNotFound)
	}
	return c.JSON(http.StatusOK, views.HexIDs(likes))
}

// DeleteComment removes a comment. Its replies stay and are shown as
// top-level comments afterwards.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	id, err := paramID(c, "id", msgCommentNotFound)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	comment, err := h.comments.GetByID(ctx, id)
	if err != nil {
		return storeError(err, msgCommentNotFound)
	}
	if comment.Author != currentAccountID(c) {
		return echo.NewHTTPError(http.StatusUnauthorized, msgNotAuthorized)
	}
	if err := h.comments.Delete(ctx, id); err != nil {
		return storeError(err, msgCommentNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Comment removed"})
}
