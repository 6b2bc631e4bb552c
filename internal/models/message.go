package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a direct message between two accounts.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Sender    primitive.ObjectID `bson:"sender"`
	Recipient primitive.ObjectID `bson:"recipient"`
	Content   string             `bson:"content"`
	Read      bool               `bson:"read"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Partner returns the other party of the message as seen by account.
func (m *Message) Partner(account primitive.ObjectID) primitive.ObjectID {
	if m.Sender == account {
		return m.Recipient
	}
	return m.Sender
}

type SendMessageRequest struct {
	RecipientID string `json:"recipientId" validate:"required,len=24,hexadecimal"`
	Content     string `json:"content" validate:"required,max=5000"`
}
