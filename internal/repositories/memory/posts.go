package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/social"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostRepository keeps posts in insertion order, which doubles as creation order.
type PostRepository struct {
	mu    sync.RWMutex
	posts []*models.Post
}

var _ repositories.PostRepository = (*PostRepository)(nil)

func NewPostRepository() *PostRepository {
	return &PostRepository{}
}

func (r *PostRepository) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now().UTC()
	post.EnsureSets()
	stored := copyPost(post)
	r.posts = append(r.posts, &stored)
	return nil
}

func (r *PostRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, p := r.locate(id)
	if p == nil {
		return nil, repositories.ErrNotFound
	}
	out := copyPost(p)
	return &out, nil
}

func (r *PostRepository) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		if _, p := r.locate(id); p != nil {
			out = append(out, copyPost(p))
		}
	}
	return out, nil
}

func (r *PostRepository) List(_ context.Context, filter repositories.PostFilter) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Post, 0)
	skipped := int64(0)
	for i := len(r.posts) - 1; i >= 0; i-- {
		p := r.posts[i]
		if filter.Author != nil && p.Author != *filter.Author {
			continue
		}
		if skipped < filter.Skip {
			skipped++
			continue
		}
		if filter.Limit > 0 && int64(len(out)) >= filter.Limit {
			break
		}
		out = append(out, copyPost(p))
	}
	return out, nil
}

func (r *PostRepository) Trending(_ context.Context, limit int64) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Post, 0, len(r.posts))
	for i := len(r.posts) - 1; i >= 0; i-- {
		out = append(out, copyPost(r.posts[i]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Reactions) > len(out[j].Reactions)
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *PostRepository) UpdateContent(_ context.Context, id primitive.ObjectID, edit repositories.PostEdit) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, p := r.locate(id)
	if p == nil {
		return nil, repositories.ErrNotFound
	}
	if edit.Content != "" {
		p.Content = edit.Content
	}
	if edit.Title != nil {
		p.Title = *edit.Title
	}
	now := time.Now().UTC()
	p.EditedAt = &now
	out := copyPost(p)
	return &out, nil
}

func (r *PostRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, p := r.locate(id)
	if p == nil {
		return repositories.ErrNotFound
	}
	r.posts = append(r.posts[:i], r.posts[i+1:]...)
	return nil
}

func (r *PostRepository) ApplyReaction(_ context.Context, id, account primitive.ObjectID, kind models.ReactionKind) (*models.Post, social.ReactionChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, p := r.locate(id)
	if p == nil {
		return nil, social.ReactionChange{}, repositories.ErrNotFound
	}
	next, change := social.ApplyReaction(p.Reactions, account, kind)
	p.Reactions = next
	out := copyPost(p)
	return &out, change, nil
}

func (r *PostRepository) AddShare(_ context.Context, id, account primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, p := r.locate(id)
	if p == nil {
		return repositories.ErrNotFound
	}
	p.Shares = append(p.Shares, account)
	return nil
}

func (r *PostRepository) Search(_ context.Context, query string, limit int64) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	out := make([]models.Post, 0)
	for i := len(r.posts) - 1; i >= 0; i-- {
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		p := r.posts[i]
		if strings.Contains(strings.ToLower(p.Content), q) || strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, copyPost(p))
		}
	}
	return out, nil
}

func (r *PostRepository) locate(id primitive.ObjectID) (int, *models.Post) {
	for i, p := range r.posts {
		if p.ID == id {
			return i, p
		}
	}
	return -1, nil
}

func copyPost(p *models.Post) models.Post {
	out := *p
	out.Reactions = append([]models.Reaction{}, p.Reactions...)
	out.Shares = cloneIDs(p.Shares)
	out.OriginalPost = cloneOID(p.OriginalPost)
	if p.EditedAt != nil {
		t := *p.EditedAt
		out.EditedAt = &t
	}
	return out
}
