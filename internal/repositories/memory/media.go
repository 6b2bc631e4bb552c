package memory

import (
	"context"
	"sync"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

type MediaRepository struct {
	mu     sync.RWMutex
	nextID uint
	assets []models.MediaAsset
}

var _ repositories.MediaRepository = (*MediaRepository)(nil)

func NewMediaRepository() *MediaRepository {
	return &MediaRepository{}
}

func (r *MediaRepository) Create(_ context.Context, asset *models.MediaAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	asset.ID = r.nextID
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}
	r.assets = append(r.assets, *asset)
	return nil
}

func (r *MediaRepository) ListByOwner(_ context.Context, owner string) ([]models.MediaAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.MediaAsset, 0)
	for i := len(r.assets) - 1; i >= 0; i-- {
		if r.assets[i].OwnerID == owner {
			out = append(out, r.assets[i])
		}
	}
	return out, nil
}
