package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/social"
	"github.com/anonto42/nano-social/backend/internal/views"
	"github.com/labstack/echo/v4"
)

// MessageHandler serves direct messages and the conversation list.
type MessageHandler struct {
	messages repositories.MessageRepository
	accounts repositories.AccountRepository
	renderer *views.Renderer
}

func NewMessageHandler(messages repositories.MessageRepository, accounts repositories.AccountRepository, renderer *views.Renderer) *MessageHandler {
	return &MessageHandler{messages: messages, accounts: accounts, renderer: renderer}
}

// RegisterMessageRoutes registers message routes. All of them need an
// authenticated caller.
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("", h.Send)
	g.GET("/conversations", h.Conversations)
	g.GET("/:partnerId", h.Thread)
}

// Send delivers a message unless either side has blocked the other.
func (h *MessageHandler) Send(c echo.Context) error {
	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}
	ctx := c.Request().Context()

	me, err := currentAccount(c, h.accounts)
	if err != nil {
		return err
	}
	recipientID, err := repositories.ParseID(req.RecipientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, msgUserNotFound)
	}
	if recipientID == me.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot message yourself")
	}
	recipient, err := h.accounts.GetByID(ctx, recipientID)
	if err != nil {
		return storeError(err, msgUserNotFound)
	}
	if social.ContainsID(me.BlockedUsers, recipient.ID) || social.ContainsID(recipient.BlockedUsers, me.ID) {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot send messages to this user")
	}

	msg := &models.Message{Sender: me.ID, Recipient: recipient.ID, Content: content}
	if err := h.messages.Create(ctx, msg); err != nil {
		return err
	}
	out, err := h.renderer.Messages(ctx, []models.Message{*msg})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out[0])
}

// Conversations lists one entry per partner, most recent first. q filters
// by partner name or last message.
func (h *MessageHandler) Conversations(c echo.Context) error {
	ctx := c.Request().Context()
	me := currentAccountID(c)

	history, err := h.messages.ListForAccount(ctx, me)
	if err != nil {
		return err
	}
	out, err := h.renderer.Conversations(ctx, social.DeriveConversations(me, history))
	if err != nil {
		return err
	}

	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))
	if q == "" {
		return c.JSON(http.StatusOK, out)
	}
	filtered := make([]views.ConversationView, 0, len(out))
	for _, conv := range out {
		if strings.Contains(strings.ToLower(conv.Name), q) ||
			strings.Contains(strings.ToLower(conv.Username), q) ||
			strings.Contains(strings.ToLower(conv.LastMessage), q) {
			filtered = append(filtered, conv)
		}
	}
	return c.JSON(http.StatusOK, filtered)
}

// Thread returns the messages exchanged with a partner, oldest first, and
// marks the partner's messages to the caller as read.
func (h *MessageHandler) Thread(c echo.Context) error {
	partner, err := paramID(c, "partnerId", msgUserNotFound)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	me := currentAccountID(c)

	if err := h.messages.MarkThreadRead(ctx, partner, me); err != nil {
		return err
	}
	thread, err := h.messages.Thread(ctx, me, partner)
	if err != nil {
		return err
	}
	out, err := h.renderer.Messages(ctx, thread)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
