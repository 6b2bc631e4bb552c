package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/notify"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/social"
	"github.com/anonto42/nano-social/backend/internal/views"
	"github.com/anonto42/nano-social/backend/pkg/logger"
	"github.com/anonto42/nano-social/backend/pkg/metrics"
	"github.com/labstack/echo/v4"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 100
	trendingLimit    = 20
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts         repositories.PostRepository
	comments      repositories.CommentRepository
	accounts      repositories.AccountRepository
	notifications repositories.NotificationRepository
	notifier      notify.Notifier
	renderer      *views.Renderer
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	accounts repositories.AccountRepository,
	notifications repositories.NotificationRepository,
	notifier notify.Notifier,
	renderer *views.Renderer,
) *PostHandler {
	return &PostHandler{
		posts:         posts,
		comments:      comments,
		accounts:      accounts,
		notifications: notifications,
		notifier:      notifier,
		renderer:      renderer,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, requireAuth, optionalAuth echo.MiddlewareFunc) {
	g.GET("", h.GetPosts, optionalAuth)
	g.GET("/trending", h.Trending, optionalAuth)
	g.POST("", h.CreatePost, requireAuth)
	g.GET("/:id", h.GetPost, optionalAuth)
	g.PUT("/:id", h.UpdatePost, requireAuth)
	g.DELETE("/:id", h.DeletePost, requireAuth)
	g.POST("/:id/reaction", h.React, requireAuth)
	g.POST("/:id/share", h.Share, requireAuth)
}

// GetPosts lists the feed newest first, optionally for one author.
func (h *PostHandler) GetPosts(c echo.Context) error {
	filter := repositories.PostFilter{Limit: defaultFeedLimit}
	if v := c.QueryParam("author"); v != "" {
		author, err := repositories.ParseID(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid author id")
		}
		filter.Author = &author
	}
	if v, err := strconv.ParseInt(c.QueryParam("skip"), 10, 64); err == nil && v > 0 {
		filter.Skip = v
	}
	if v, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64); err == nil && v > 0 {
		filter.Limit = min(v, maxFeedLimit)
	}

	posts, err := h.posts.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return h.renderList(c, posts)
}

// Trending lists the most reacted posts.
func (h *PostHandler) Trending(c echo.Context) error {
	posts, err := h.posts.Trending(c.Request().Context(), trendingLimit)
	if err != nil {
		return err
	}
	return h.renderList(c, posts)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}

	post := &models.Post{
		Author:   currentAccountID(c),
		Title:    strings.TrimSpace(req.Title),
		Content:  content,
		ImageURL: req.ImageURL,
	}
	if err := h.posts.Create(c.Request().Context(), post); err != nil {
		return err
	}
	return h.renderOne(c, http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.loadPost(c)
	if err != nil {
		return err
	}
	return h.renderOne(c, http.StatusOK, post)
}

// UpdatePost lets the author edit title and body.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	post, err := h.loadOwnPost(c)
	if err != nil {
		return err
	}
	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.posts.UpdateContent(c.Request().Context(), post.ID, repositories.PostEdit{
		Title:   req.Title,
		Content: strings.TrimSpace(req.Content),
	})
	if err != nil {
		return storeError(err, msgPostNotFound)
	}
	return h.renderOne(c, http.StatusOK, updated)
}

// DeletePost removes the post with its comments, its notifications and
// every saved reference to it.
func (h *PostHandler) DeletePost(c echo.Context) error {
	post, err := h.loadOwnPost(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if err := h.posts.Delete(ctx, post.ID); err != nil {
		return storeError(err, msgPostNotFound)
	}
	if err := h.comments.DeleteByPost(ctx, post.ID); err != nil {
		return err
	}
	if err := h.notifications.DeleteByPost(ctx, post.ID); err != nil {
		return err
	}
	if err := h.accounts.RemoveSavedPost(ctx, post.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post removed"})
}

// React toggles the caller's reaction and returns the resulting reaction set.
func (h *PostHandler) React(c echo.Context) error {
	id, err := paramID(c, "id", msgPostNotFound)
	if err != nil {
		return err
	}
	var req models.ReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown reaction type")
	}
	kind := req.Type
	if kind == "" {
		kind = models.ReactionLike
	}
	me := currentAccountID(c)
	ctx := c.Request().Context()

	post, change, err := h.posts.ApplyReaction(ctx, id, me, kind)
	if err != nil {
		return storeError(err, msgPostNotFound)
	}
	metrics.ReactionToggles.WithLabelValues(change.Outcome.String()).Inc()

	if change.Outcome != social.ReactionRemoved {
		h.notifier.Notify(ctx, notify.Event{
			Kind:      models.NotificationLike,
			Recipient: post.Author,
			Sender:    me,
			Post:      &post.ID,
			Content:   string(kind),
		})
	}
	return c.JSON(http.StatusOK, views.Reactions(post.Reactions))
}

// Share creates a post pointing at the shared post. Sharing a share points
// at the ultimate original, so share chains never grow past one level.
func (h *PostHandler) Share(c echo.Context) error {
	source, err := h.loadPost(c)
	if err != nil {
		return err
	}
	var req models.SharePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	me := currentAccountID(c)

	original := source
	if source.OriginalPost != nil {
		original, err = h.posts.GetByID(ctx, *source.OriginalPost)
		if err != nil {
			return storeError(err, msgPostNotFound)
		}
	}

	share := &models.Post{
		Author:       me,
		Content:      strings.TrimSpace(req.Content),
		OriginalPost: &original.ID,
	}
	if err := h.posts.Create(ctx, share); err != nil {
		return err
	}
	if err := h.posts.AddShare(ctx, original.ID, me); err != nil {
		log := logger.WithComponent("posts")
		log.Warn().Err(err).
			Str("post_id", original.ID.Hex()).
			Msg("failed to record share on original")
	}
	h.notifier.Notify(ctx, notify.Event{
		Kind:      models.NotificationShare,
		Recipient: original.Author,
		Sender:    me,
		Post:      &original.ID,
	})
	return h.renderOne(c, http.StatusCreated, share)
}

func (h *PostHandler) loadPost(c echo.Context) (*models.Post, error) {
	id, err := paramID(c, "id", msgPostNotFound)
	if err != nil {
		return nil, err
	}
	post, err := h.posts.GetByID(c.Request().Context(), id)
	if err != nil {
		return nil, storeError(err, msgPostNotFound)
	}
	return post, nil
}

func (h *PostHandler) loadOwnPost(c echo.Context) (*models.Post, error) {
	post, err := h.loadPost(c)
	if err != nil {
		return nil, err
	}
	if post.Author != currentAccountID(c) {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, msgNotAuthorized)
	}
	return post, nil
}

func (h *PostHandler) renderList(c echo.Context, posts []models.Post) error {
	viewer, err := optionalViewer(c, h.accounts)
	if err != nil {
		return err
	}
	out, err := h.renderer.Posts(c.Request().Context(), viewer, posts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PostHandler) renderOne(c echo.Context, status int, post *models.Post) error {
	viewer, err := optionalViewer(c, h.accounts)
	if err != nil {
		return err
	}
	out, err := h.renderer.Post(c.Request().Context(), viewer, post)
	if err != nil {
		return err
	}
	return c.JSON(status, out)
}
