package memory

import (
	"context"
	"strings"
	"testing"

	"drive/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New("http://blobs.test")

	require.NoError(t, s.Put(ctx, "a", strings.NewReader("hello"), 5, "text/plain"))
	assert.Error(t, s.Put(ctx, "b", strings.NewReader("hello"), 3, "text/plain"))

	require.NoError(t, s.Copy(ctx, "a", "c"))
	data, ok := s.Get("c")
	require.True(t, ok)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, 2, s.Len())

	assert.ErrorIs(t, s.Copy(ctx, "missing", "d"), storage.ErrObjectNotFound)

	url, err := s.PresignGet(ctx, "a", storage.PresignOptions{FileName: "a b.txt", Inline: true})
	require.NoError(t, err)
	assert.Equal(t, "http://blobs.test/a?disposition=inline&filename=a+b.txt", url)

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.PresignGet(ctx, "a", storage.PresignOptions{})
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "users/owner-1/blobs/blob-1", storage.ObjectKey("owner-1", "blob-1"))
}
