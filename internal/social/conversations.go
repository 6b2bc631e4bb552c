package social

import (
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation summarises the latest message exchanged with one partner.
type Conversation struct {
	PartnerID   primitive.ObjectID
	LastMessage string
	Timestamp   time.Time
	Read        bool
	IsSender    bool
}

// DeriveConversations collapses account's message history into one entry per
// partner. messages must be ordered newest first; the first message seen for
// a partner wins and the output keeps first-seen order.
func DeriveConversations(account primitive.ObjectID, messages []models.Message) []Conversation {
	seen := make(map[primitive.ObjectID]struct{})
	conversations := make([]Conversation, 0)

	for i := range messages {
		msg := &messages[i]
		partner := msg.Partner(account)
		if _, ok := seen[partner]; ok {
			continue
		}
		seen[partner] = struct{}{}
		conversations = append(conversations, Conversation{
			PartnerID:   partner,
			LastMessage: msg.Content,
			Timestamp:   msg.CreatedAt,
			Read:        msg.Read,
			IsSender:    msg.Sender == account,
		})
	}
	return conversations
}
