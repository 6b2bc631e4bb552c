// Package media stores uploaded images on local disk or in a Firebase
// Storage bucket and validates what may be uploaded.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("Images only (jpeg, jpg, png, gif, webp)")
	ErrTooLarge        = errors.New("File too large")
)

var allowedImages = map[string]struct{}{
	"jpeg": {}, "jpg": {}, "png": {}, "gif": {}, "webp": {},
}

// Object describes a stored file.
type Object struct {
	URL  string
	Key  string
	Size int64
}

// Store persists an upload under the owner's namespace.
type Store interface {
	Save(ctx context.Context, owner, filename, contentType string, r io.Reader) (Object, error)
}

// ValidateImage accepts a file only when both its extension and its declared
// MIME type name a supported image format and it fits in max bytes.
func ValidateImage(filename, contentType string, size, max int64) error {
	if size > max {
		return ErrTooLarge
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if _, ok := allowedImages[ext]; !ok {
		return ErrUnsupportedType
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	sub, found := strings.CutPrefix(mediaType, "image/")
	if !found {
		return ErrUnsupportedType
	}
	if _, ok := allowedImages[sub]; !ok {
		return ErrUnsupportedType
	}
	return nil
}

// NewFilename returns a collision-free name keeping ext, e.g.
// "1718000000000-3f1c...-....png".
func NewFilename(ext string) string {
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), strings.ToLower(ext))
}

// DiskStore writes files below Root/users/{owner}/ and serves them from
// PublicPath/users/{owner}/.
type DiskStore struct {
	Root       string
	PublicPath string
}

func NewDiskStore(root, publicPath string) *DiskStore {
	return &DiskStore{Root: root, PublicPath: publicPath}
}

func (s *DiskStore) Save(_ context.Context, owner, filename, _ string, r io.Reader) (Object, error) {
	if strings.ContainsAny(owner, `/\`) || strings.ContainsAny(filename, `/\`) {
		return Object{}, fmt.Errorf("invalid upload path %q/%q", owner, filename)
	}
	dir := filepath.Join(s.Root, "users", owner)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Object{}, fmt.Errorf("create upload dir: %w", err)
	}

	full := filepath.Join(dir, filename)
	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return Object{}, fmt.Errorf("create upload file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return Object{}, fmt.Errorf("write upload file: %w", err)
	}

	key := path.Join("users", owner, filename)
	return Object{URL: path.Join(s.PublicPath, key), Key: key, Size: n}, nil
}

// BucketStore writes files to a Cloud Storage bucket under users/{owner}/.
type BucketStore struct {
	bucket *gcs.BucketHandle
	name   string
}

func NewBucketStore(bucket *gcs.BucketHandle, name string) *BucketStore {
	return &BucketStore{bucket: bucket, name: name}
}

func (s *BucketStore) Save(ctx context.Context, owner, filename, contentType string, r io.Reader) (Object, error) {
	key := path.Join("users", owner, filename)

	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"
	n, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return Object{}, fmt.Errorf("upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return Object{}, fmt.Errorf("finalize %s: %w", key, err)
	}
	return Object{URL: s.PublicURL(key), Key: key, Size: n}, nil
}

// PublicURL is the download address of key in the bucket.
func (s *BucketStore) PublicURL(key string) string {
	return "https://storage.googleapis.com/" + s.name + "/" + key
}
