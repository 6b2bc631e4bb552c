package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/notify"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/views"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccountHandler serves profile management and the follow, save and block toggles.
type AccountHandler struct {
	accounts repositories.AccountRepository
	posts    repositories.PostRepository
	notifier notify.Notifier
	renderer *views.Renderer
}

func NewAccountHandler(accounts repositories.AccountRepository, posts repositories.PostRepository, notifier notify.Notifier, renderer *views.Renderer) *AccountHandler {
	return &AccountHandler{accounts: accounts, posts: posts, notifier: notifier, renderer: renderer}
}

// RegisterAccountRoutes registers profile routes. Static paths are matched
// before /:id.
func (h *AccountHandler) RegisterAccountRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.PUT("/update", h.UpdateProfile, requireAuth)
	g.GET("/saved", h.SavedPosts, requireAuth)
	g.PUT("/follow/:id", h.ToggleFollow, requireAuth)
	g.PUT("/save/:postId", h.ToggleSave, requireAuth)
	g.PUT("/block/:id", h.Block, requireAuth)
	g.PUT("/unblock/:id", h.Unblock, requireAuth)
	g.GET("/:id", h.GetProfile)
}

// UpdateProfile changes only the fields present in the body.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	account, err := h.accounts.UpdateProfile(c.Request().Context(), currentAccountID(c), req.ToUpdate())
	if err != nil {
		return storeError(err, msgUserNotFound)
	}
	return c.JSON(http.StatusOK, views.Self(account))
}

// SavedPosts lists the caller's saved posts, most recently saved first.
func (h *AccountHandler) SavedPosts(c echo.Context) error {
	account, err := currentAccount(c, h.accounts)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	found, err := h.posts.GetByIDs(ctx, account.SavedPosts)
	if err != nil {
		return err
	}
	byID := make(map[primitive.ObjectID]models.Post, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	ordered := make([]models.Post, 0, len(found))
	for _, id := range account.SavedPosts {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	out, err := h.renderer.Posts(ctx, account, ordered)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// GetProfile returns an account's public profile.
func (h *AccountHandler) GetProfile(c echo.Context) error {
	id, err := paramID(c, "id", msgUserNotFound)
	if err != nil {
		return err
	}
	account, err := h.accounts.GetByID(c.Request().Context(), id)
	if err != nil {
		return storeError(err, msgUserNotFound)
	}
	return c.JSON(http.StatusOK, views.Public(account))
}

func (h *AccountHandler) ToggleFollow(c echo.Context) error {
	me := currentAccountID(c)
	target, err := paramID(c, "id", msgUserNotFound)
	if err != nil {
		return err
	}
	if target == me {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot follow yourself")
	}
	ctx := c.Request().Context()

	following, err := h.accounts.ToggleFollow(ctx, me, target)
	if err != nil {
		return storeError(err, msgUserNotFound)
	}
	if !following {
		return c.JSON(http.StatusOK, echo.Map{"message": "Unfollowed", "isFollowing": false})
	}
	h.notifier.Notify(ctx, notify.Event{Kind: models.NotificationFollow, Recipient: target, Sender: me})
	return c.JSON(http.StatusOK, echo.Map{"message": "Followed", "isFollowing": true})
}

func (h *AccountHandler) ToggleSave(c echo.Context) error {
	postID, err := paramID(c, "postId", msgPostNotFound)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.posts.GetByID(ctx, postID); err != nil {
		return storeError(err, msgPostNotFound)
	}

	saved, list, err := h.accounts.ToggleSaved(ctx, currentAccountID(c), postID)
	if err != nil {
		return storeError(err, msgUserNotFound)
	}
	message := "Post unsaved"
	if saved {
		message = "Post saved"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": message, "saved": saved, "savedPosts": views.HexIDs(list)})
}

func (h *AccountHandler) Block(c echo.Context) error {
	return h.setBlocked(c, true)
}

func (h *AccountHandler) Unblock(c echo.Context) error {
	return h.setBlocked(c, false)
}

func (h *AccountHandler) setBlocked(c echo.Context, blocked bool) error {
	me := currentAccountID(c)
	target, err := paramID(c, "id", msgUserNotFound)
	if err != nil {
		return err
	}
	if target == me {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot block yourself")
	}
	ctx := c.Request().Context()

	if blocked {
		if _, err := h.accounts.GetByID(ctx, target); err != nil {
			return storeError(err, msgUserNotFound)
		}
	}
	list, err := h.accounts.SetBlocked(ctx, me, target, blocked)
	if errors.Is(err, repositories.ErrNotFound) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
	}
	if err != nil {
		return err
	}

	message := "User unblocked"
	if blocked {
		message = "User blocked"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": message, "blocked": blocked, "blockedUsers": views.HexIDs(list)})
}
