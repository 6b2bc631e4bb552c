package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/social"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AccountRepository struct {
	mu    sync.RWMutex
	byID  map[primitive.ObjectID]*models.Account
	order []primitive.ObjectID
}

var _ repositories.AccountRepository = (*AccountRepository)(nil)

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{byID: make(map[primitive.ObjectID]*models.Account)}
}

func (r *AccountRepository) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.byID {
		if a.Email == account.Email || a.Username == account.Username {
			return repositories.ErrDuplicate
		}
	}
	account.ID = primitive.NewObjectID()
	account.CreatedAt = time.Now().UTC()
	if account.Role == "" {
		account.Role = models.RoleUser
	}
	account.EnsureSets()

	stored := copyAccount(account)
	r.byID[stored.ID] = &stored
	r.order = append(r.order, stored.ID)
	return nil
}

func (r *AccountRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(id)
}

func (r *AccountRepository) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Account, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.byID[id]; ok {
			out = append(out, copyAccount(a))
		}
	}
	return out, nil
}

func (r *AccountRepository) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return a.Email == email })
}

func (r *AccountRepository) FindByEmailOrUsername(_ context.Context, email, username string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return a.Email == email || a.Username == username })
}

func (r *AccountRepository) UpdateProfile(_ context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	update.Apply(a)
	out := copyAccount(a)
	return &out, nil
}

func (r *AccountRepository) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.Password = hash
	return nil
}

func (r *AccountRepository) ToggleFollow(_ context.Context, actor, target primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[target]
	if !ok {
		return false, repositories.ErrNotFound
	}
	a, ok := r.byID[actor]
	if !ok {
		return false, repositories.ErrNotFound
	}

	var following bool
	if social.ContainsID(t.Followers, actor) {
		t.Followers = without(t.Followers, actor)
	} else {
		t.Followers = append(t.Followers, actor)
		following = true
	}
	if following {
		if !social.ContainsID(a.Following, target) {
			a.Following = append(a.Following, target)
		}
	} else {
		a.Following = without(a.Following, target)
	}
	return following, nil
}

func (r *AccountRepository) ToggleSaved(_ context.Context, account, post primitive.ObjectID) (bool, []primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[account]
	if !ok {
		return false, nil, repositories.ErrNotFound
	}
	var saved bool
	a.SavedPosts, saved = social.ToggleID(a.SavedPosts, post)
	return saved, cloneIDs(a.SavedPosts), nil
}

func (r *AccountRepository) SetBlocked(_ context.Context, account, target primitive.ObjectID, blocked bool) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[account]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	present := social.ContainsID(a.BlockedUsers, target)
	switch {
	case blocked && !present:
		a.BlockedUsers = append(a.BlockedUsers, target)
	case !blocked && present:
		a.BlockedUsers = without(a.BlockedUsers, target)
	}
	return cloneIDs(a.BlockedUsers), nil
}

func (r *AccountRepository) RemoveSavedPost(_ context.Context, post primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.byID {
		a.SavedPosts = without(a.SavedPosts, post)
	}
	return nil
}

func (r *AccountRepository) Search(_ context.Context, query string, limit int64) ([]models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	out := make([]models.Account, 0)
	for _, id := range r.order {
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		a := r.byID[id]
		if strings.Contains(strings.ToLower(a.Username), q) || strings.Contains(strings.ToLower(a.FullName), q) ||
			strings.Contains(strings.ToLower(a.Email), q) {
			out = append(out, copyAccount(a))
		}
	}
	return out, nil
}

func (r *AccountRepository) get(id primitive.ObjectID) (*models.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := copyAccount(a)
	return &out, nil
}

func (r *AccountRepository) find(match func(*models.Account) bool) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if a := r.byID[id]; match(a) {
			out := copyAccount(a)
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func copyAccount(a *models.Account) models.Account {
	out := *a
	out.Followers = cloneIDs(a.Followers)
	out.Following = cloneIDs(a.Following)
	out.SavedPosts = cloneIDs(a.SavedPosts)
	out.BlockedUsers = cloneIDs(a.BlockedUsers)
	return out
}
