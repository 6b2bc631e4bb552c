package memory

import (
	"context"
	"sync"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	items []*models.Notification
}

var _ repositories.NotificationRepository = (*NotificationRepository)(nil)

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now().UTC()
	stored := copyNotification(n)
	r.items = append(r.items, &stored)
	return nil
}

func (r *NotificationRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.items {
		if n.ID == id {
			out := copyNotification(n)
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *NotificationRepository) ListByRecipient(_ context.Context, recipient primitive.ObjectID, limit int64) ([]models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Notification, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		if n := r.items[i]; n.Recipient == recipient {
			out = append(out, copyNotification(n))
		}
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.items {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, recipient primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.items {
		if n.Recipient == recipient {
			n.Read = true
		}
	}
	return nil
}

func (r *NotificationRepository) UnreadCount(_ context.Context, recipient primitive.ObjectID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, n := range r.items {
		if n.Recipient == recipient && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) DeleteByPost(_ context.Context, post primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	for _, n := range r.items {
		if n.Post == nil || *n.Post != post {
			kept = append(kept, n)
		}
	}
	r.items = kept
	return nil
}

func copyNotification(n *models.Notification) models.Notification {
	out := *n
	out.Post = cloneOID(n.Post)
	out.Comment = cloneOID(n.Comment)
	return out
}
