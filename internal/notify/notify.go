// Package notify is the single place where social actions turn into stored
// notifications.
package notify

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/pkg/logger"
	"github.com/anonto42/nano-social/backend/pkg/metrics"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a notification-worthy action by Sender that concerns Recipient.
type Event struct {
	Kind      models.NotificationKind
	Recipient primitive.ObjectID
	Sender    primitive.ObjectID
	Post      *primitive.ObjectID
	Comment   *primitive.ObjectID
	Content   string
}

// Notifier delivers events. Delivery never fails the triggering action.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// Service persists events as notifications.
type Service struct {
	repo repositories.NotificationRepository
	log  zerolog.Logger
}

func NewService(repo repositories.NotificationRepository) *Service {
	return &Service{repo: repo, log: logger.WithComponent("notify")}
}

// Notify stores ev unless it is addressed to its own sender.
func (s *Service) Notify(ctx context.Context, ev Event) {
	if ev.Recipient.IsZero() || ev.Recipient == ev.Sender {
		return
	}
	n := &models.Notification{
		Recipient: ev.Recipient,
		Sender:    ev.Sender,
		Type:      ev.Kind,
		Post:      ev.Post,
		Comment:   ev.Comment,
		Content:   ev.Content,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		metrics.NotificationFailures.Inc()
		s.log.Error().Err(err).
			Str("kind", string(ev.Kind)).
			Str("recipient", ev.Recipient.Hex()).
			Msg("failed to store notification")
		return
	}
	metrics.NotificationsCreated.WithLabelValues(string(ev.Kind)).Inc()
}
