package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a post. ParentID makes it a reply.
type Comment struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Post      primitive.ObjectID   `bson:"post"`
	Author    primitive.ObjectID   `bson:"author"`
	Content   string               `bson:"content"`
	ParentID  *primitive.ObjectID  `bson:"parent_id,omitempty"`
	Likes     []primitive.ObjectID `bson:"likes"`
	CreatedAt time.Time            `bson:"created_at"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,max=2000"`
	ParentID string `json:"parentId" validate:"omitempty,len=24,hexadecimal"`
}
