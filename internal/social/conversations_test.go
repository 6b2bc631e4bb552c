package social

import (
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDeriveConversations_FirstOccurrenceWins(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	messages := []models.Message{
		{Sender: b, Recipient: a, Content: "three", CreatedAt: base.Add(3 * time.Minute)},
		{Sender: a, Recipient: c, Content: "two", CreatedAt: base.Add(2 * time.Minute), Read: true},
		{Sender: a, Recipient: b, Content: "one", CreatedAt: base.Add(time.Minute), Read: true},
	}

	got := DeriveConversations(a, messages)

	require.Len(t, got, 2)
	assert.Equal(t, Conversation{
		PartnerID:   b,
		LastMessage: "three",
		Timestamp:   base.Add(3 * time.Minute),
		Read:        false,
		IsSender:    false,
	}, got[0])
	assert.Equal(t, Conversation{
		PartnerID:   c,
		LastMessage: "two",
		Timestamp:   base.Add(2 * time.Minute),
		Read:        true,
		IsSender:    true,
	}, got[1])
}

func TestDeriveConversations_Empty(t *testing.T) {
	got := DeriveConversations(primitive.NewObjectID(), nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
