package imagestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	err     error
	deletes int
}

func (f *failingStore) Upload(ctx context.Context, recipeID string, data []byte) (string, error) {
	return "", f.err
}

func (f *failingStore) Delete(ctx context.Context, recipeID string) error {
	f.deletes++
	return f.err
}

func TestLocalStore_UploadAndDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	store := NewLocalStore(dir)
	ctx := context.Background()

	url, err := store.Upload(ctx, "abc", []byte("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "file://"), url)
	assert.True(t, strings.HasSuffix(url, filepath.Join("images", "abc.png")), url)

	data, err := os.ReadFile(filepath.Join(dir, "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, store.Delete(ctx, "abc"))
	assert.ErrorIs(t, store.Delete(ctx, "abc"), ErrNotFound)
}

func TestFallbackStore_UploadFallsBack(t *testing.T) {
	logger := zerolog.Nop()
	local := NewLocalStore(t.TempDir())
	store := NewFallbackStore(&failingStore{err: errors.New("no credentials")}, local, &logger)

	url, err := store.Upload(context.Background(), "r1", []byte("x"))
	require.NoError(t, err)
	assert.Contains(t, url, "r1.png")
}

func TestFallbackStore_DeleteTriesBoth(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	local := NewLocalStore(t.TempDir())
	primary := &failingStore{err: ErrNotFound}
	store := NewFallbackStore(primary, local, &logger)

	_, err := local.Upload(ctx, "r2", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "r2"))
	assert.Equal(t, 1, primary.deletes)
	assert.ErrorIs(t, store.Delete(ctx, "r2"), ErrNotFound)
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "recipes/1234.png", objectName("1234"))
}
