package memory

import (
	"context"
	"sync"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/social"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentRepository struct {
	mu       sync.RWMutex
	comments []*models.Comment
}

var _ repositories.CommentRepository = (*CommentRepository)(nil)

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{}
}

func (r *CommentRepository) Create(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now().UTC()
	if comment.Likes == nil {
		comment.Likes = []primitive.ObjectID{}
	}
	stored := copyComment(comment)
	r.comments = append(r.comments, &stored)
	return nil
}

func (r *CommentRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, c := r.locate(id)
	if c == nil {
		return nil, repositories.ErrNotFound
	}
	out := copyComment(c)
	return &out, nil
}

func (r *CommentRepository) ListByPost(_ context.Context, post primitive.ObjectID) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Comment, 0)
	for _, c := range r.comments {
		if c.Post == post {
			out = append(out, copyComment(c))
		}
	}
	return out, nil
}

func (r *CommentRepository) CountByPosts(_ context.Context, posts []primitive.ObjectID) (map[primitive.ObjectID]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[primitive.ObjectID]struct{}, len(posts))
	for _, p := range posts {
		wanted[p] = struct{}{}
	}
	counts := make(map[primitive.ObjectID]int, len(posts))
	for _, c := range r.comments {
		if _, ok := wanted[c.Post]; ok {
			counts[c.Post]++
		}
	}
	return counts, nil
}

func (r *CommentRepository) ToggleLike(_ context.Context, id, account primitive.ObjectID) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, c := r.locate(id)
	if c == nil {
		return nil, repositories.ErrNotFound
	}
	c.Likes, _ = social.ToggleID(c.Likes, account)
	return cloneIDs(c.Likes), nil
}

func (r *CommentRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, c := r.locate(id)
	if c == nil {
		return repositories.ErrNotFound
	}
	r.comments = append(r.comments[:i], r.comments[i+1:]...)
	return nil
}

func (r *CommentRepository) DeleteByPost(_ context.Context, post primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.comments[:0]
	for _, c := range r.comments {
		if c.Post != post {
			kept = append(kept, c)
		}
	}
	r.comments = kept
	return nil
}

func (r *CommentRepository) locate(id primitive.ObjectID) (int, *models.Comment) {
	for i, c := range r.comments {
		if c.ID == id {
			return i, c
		}
	}
	return -1, nil
}

func copyComment(c *models.Comment) models.Comment {
	out := *c
	out.Likes = cloneIDs(c.Likes)
	out.ParentID = cloneOID(c.ParentID)
	return out
}
