package models

import "time"

// MediaKind tells what an uploaded file is used for.
type MediaKind string

const (
	MediaAvatar MediaKind = "avatar"
	MediaCover  MediaKind = "cover"
	MediaPost   MediaKind = "post"
)

// MediaAsset is the ledger entry of an uploaded file (PostgreSQL)
type MediaAsset struct {
	ID          uint      `gorm:"primaryKey"`
	OwnerID     string    `gorm:"size:24;index"` // account ObjectID hex
	Kind        MediaKind `gorm:"size:20"`
	URL         string    `gorm:"size:2048"`
	StorageKey  string    `gorm:"size:1024"`
	ContentType string    `gorm:"size:100"`
	Size        int64
	CreatedAt   time.Time `gorm:"index"`
}
