package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/views"
	"github.com/labstack/echo/v4"
)

const notificationPageSize = 20

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications repositories.NotificationRepository
	renderer      *views.Renderer
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications repositories.NotificationRepository, renderer *views.Renderer) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, renderer: renderer}
}

// RegisterNotificationRoutes registers notification routes. All of them
// need an authenticated caller.
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("", h.GetNotifications)
	g.GET("/unread-count", h.GetUnreadCount)
	g.PUT("/read-all", h.MarkAllAsRead)
	g.PUT("/:id/read", h.MarkAsRead)
}

// GetNotifications returns the caller's newest notifications
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.notifications.ListByRecipient(ctx, currentAccountID(c), notificationPageSize)
	if err != nil {
		return err
	}
	out, err := h.renderer.Notifications(ctx, items)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.notifications.UnreadCount(c.Request().Context(), currentAccountID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	const notFound = "Notification not found"
	id, err := paramID(c, "id", notFound)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	n, err := h.notifications.GetByID(ctx, id)
	if err != nil {
		return storeError(err, notFound)
	}
	if n.Recipient != currentAccountID(c) {
		return echo.NewHTTPError(http.StatusUnauthorized, msgNotAuthorized)
	}
	if err := h.notifications.MarkRead(ctx, id); err != nil {
		return storeError(err, notFound)
	}
	n.Read = true

	out, err := h.renderer.Notifications(ctx, []models.Notification{*n})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out[0])
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	if err := h.notifications.MarkAllRead(c.Request().Context(), currentAccountID(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read"})
}
