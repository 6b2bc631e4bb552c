package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reaction is one account's typed response to a post.
type Reaction struct {
	User primitive.ObjectID `bson:"user"`
	Type ReactionKind       `bson:"type"`
}

// Post represents a social media post stored in MongoDB
type Post struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Author       primitive.ObjectID   `bson:"author"`
	Title        string               `bson:"title,omitempty"`
	Content      string               `bson:"content"`
	ImageURL     string               `bson:"image_url,omitempty"`
	Reactions    []Reaction           `bson:"reactions"`
	Shares       []primitive.ObjectID `bson:"shares"`
	CreatedAt    time.Time            `bson:"created_at"`
	EditedAt     *time.Time           `bson:"edited_at,omitempty"`
	OriginalPost *primitive.ObjectID  `bson:"original_post,omitempty"` // set when this post is a share
}

// EnsureSets replaces nil arrays with empty ones before the post is stored.
func (p *Post) EnsureSets() {
	if p.Reactions == nil {
		p.Reactions = []Reaction{}
	}
	if p.Shares == nil {
		p.Shares = []primitive.ObjectID{}
	}
}

// ReactionOf returns account's reaction on the post, if any.
func (p *Post) ReactionOf(account primitive.ObjectID) (ReactionKind, bool) {
	for _, r := range p.Reactions {
		if r.User == account {
			return r.Type, true
		}
	}
	return "", false
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title    string `json:"title" validate:"max=200"`
	Content  string `json:"content" validate:"required,max=5000"`
	ImageURL string `json:"image_url" validate:"omitempty,max=2048"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Content string  `json:"content" validate:"max=5000"`
}

type ReactionRequest struct {
	Type ReactionKind `json:"type"`
}

type SharePostRequest struct {
	Content string `json:"content" validate:"max=5000"`
}
