package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestService_StoresEvent(t *testing.T) {
	repo := memory.NewNotificationRepository()
	svc := NewService(repo)
	ctx := context.Background()
	to, from, post := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	svc.Notify(ctx, Event{Kind: models.NotificationLike, Recipient: to, Sender: from, Post: &post})

	list, err := repo.ListByRecipient(ctx, to, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationLike, list[0].Type)
	assert.Equal(t, from, list[0].Sender)
	assert.Equal(t, &post, list[0].Post)
	assert.False(t, list[0].Read)
}

func TestService_SkipsSelfNotifications(t *testing.T) {
	repo := memory.NewNotificationRepository()
	svc := NewService(repo)
	ctx := context.Background()
	me := primitive.NewObjectID()

	svc.Notify(ctx, Event{Kind: models.NotificationComment, Recipient: me, Sender: me})

	count, err := repo.UnreadCount(ctx, me)
	require.NoError(t, err)
	assert.Zero(t, count)
}

type failingRepo struct {
	*memory.NotificationRepository
}

func (failingRepo) Create(context.Context, *models.Notification) error {
	return errors.New("store down")
}

func TestService_SwallowsStoreErrors(t *testing.T) {
	svc := NewService(failingRepo{memory.NewNotificationRepository()})

	assert.NotPanics(t, func() {
		svc.Notify(context.Background(), Event{
			Kind:      models.NotificationFollow,
			Recipient: primitive.NewObjectID(),
			Sender:    primitive.NewObjectID(),
		})
	})
}
