package media

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImage(t *testing.T) {
	const max = 5 << 20

	assert.NoError(t, ValidateImage("me.PNG", "image/png", 1024, max))
	assert.NoError(t, ValidateImage("me.jpg", "image/jpeg", max, max))
	assert.NoError(t, ValidateImage("a.webp", "image/webp; charset=binary", 10, max))

	assert.ErrorIs(t, ValidateImage("me.png", "image/png", max+1, max), ErrTooLarge)
	assert.ErrorIs(t, ValidateImage("notes.txt", "image/png", 10, max), ErrUnsupportedType)
	assert.ErrorIs(t, ValidateImage("me.png", "text/plain", 10, max), ErrUnsupportedType)
	assert.ErrorIs(t, ValidateImage("me.png", "image/svg+xml", 10, max), ErrUnsupportedType)
	assert.ErrorIs(t, ValidateImage("me", "image/png", 10, max), ErrUnsupportedType)
}

func TestNewFilename(t *testing.T) {
	a, b := NewFilename(".PNG"), NewFilename(".PNG")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.Regexp(t, regexp.MustCompile(`^\d+-[0-9a-f-]{36}\.png$`), a)
}

func TestDiskStore_Save(t *testing.T) {
	root := t.TempDir()
	store := NewDiskStore(root, "/uploads")

	obj, err := store.Save(context.Background(), "abc123", "pic.png", "image/png", strings.NewReader("pixels"))
	require.NoError(t, err)

	assert.Equal(t, "/uploads/users/abc123/pic.png", obj.URL)
	assert.Equal(t, "users/abc123/pic.png", obj.Key)
	assert.EqualValues(t, 6, obj.Size)

	data, err := os.ReadFile(filepath.Join(root, "users", "abc123", "pic.png"))
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))
}

func TestDiskStore_RejectsTraversal(t *testing.T) {
	store := NewDiskStore(t.TempDir(), "/uploads")

	_, err := store.Save(context.Background(), "abc", "../evil.png", "image/png", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestBucketStore_PublicURL(t *testing.T) {
	s := NewBucketStore(nil, "my-bucket")
	assert.Equal(t, "https://storage.googleapis.com/my-bucket/users/u/f.png", s.PublicURL("users/u/f.png"))
}
