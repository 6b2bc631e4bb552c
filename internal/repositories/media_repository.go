package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
)

// MediaRepository keeps the ledger of uploaded files
type MediaRepository interface {
	Create(ctx context.Context, asset *models.MediaAsset) error
	// ListByOwner returns the owner's uploads, newest first.
	ListByOwner(ctx context.Context, owner string) ([]models.MediaAsset, error)
}

type postgresMediaRepository struct {
	db *gorm.DB
}

func NewPostgresMediaRepository(db *gorm.DB) MediaRepository {
	return &postgresMediaRepository{db: db}
}

func (r *postgresMediaRepository) Create(ctx context.Context, asset *models.MediaAsset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *postgresMediaRepository) ListByOwner(ctx context.Context, owner string) ([]models.MediaAsset, error) {
	assets := make([]models.MediaAsset, 0)
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("created_at DESC").Order("id DESC").
		Find(&assets).Error
	return assets, err
}
