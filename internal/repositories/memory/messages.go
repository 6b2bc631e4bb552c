package memory

import (
	"context"
	"sync"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageRepository struct {
	mu       sync.RWMutex
	messages []*models.Message
}

var _ repositories.MessageRepository = (*MessageRepository)(nil)

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

func (r *MessageRepository) Create(_ context.Context, message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now().UTC()
	stored := *message
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *MessageRepository) ListForAccount(_ context.Context, account primitive.ObjectID) ([]models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Message, 0)
	for i := len(r.messages) - 1; i >= 0; i-- {
		m := r.messages[i]
		if m.Sender == account || m.Recipient == account {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *MessageRepository) Thread(_ context.Context, a, b primitive.ObjectID) ([]models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Message, 0)
	for _, m := range r.messages {
		if (m.Sender == a && m.Recipient == b) || (m.Sender == b && m.Recipient == a) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *MessageRepository) MarkThreadRead(_ context.Context, sender, recipient primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.messages {
		if m.Sender == sender && m.Recipient == recipient {
			m.Read = true
		}
	}
	return nil
}
