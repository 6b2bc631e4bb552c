package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification represents a user notification (MongoDB)
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Recipient primitive.ObjectID  `bson:"recipient"`
	Sender    primitive.ObjectID  `bson:"sender"`
	Type      NotificationKind    `bson:"type"`
	Post      *primitive.ObjectID `bson:"post,omitempty"`
	Comment   *primitive.ObjectID `bson:"comment,omitempty"`
	Content   string              `bson:"content,omitempty"`
	Read      bool                `bson:"read"`
	CreatedAt time.Time           `bson:"created_at"`
}
