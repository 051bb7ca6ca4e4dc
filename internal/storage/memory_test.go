package storage

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("https://cdn.example.com/")

	err := store.Put(ctx, "p1/a.jpg", bytes.NewReader([]byte("abc")), "image/jpeg")
	assert.NoError(t, err)
	assert.True(t, store.Has("p1/a.jpg"))

	url, ok := store.PublicURL("p1/a.jpg")
	assert.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/p1/a.jpg", url, "trailing slash on the base is collapsed")

	assert.NoError(t, store.Delete(ctx, "p1/a.jpg"))
	assert.False(t, store.Has("p1/a.jpg"))

	// Deleting a missing key is not an error.
	assert.NoError(t, store.Delete(ctx, "p1/a.jpg"))
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("")

	for _, key := range []string{"p1/b.jpg", "p1/a.jpg", "p2/c.jpg"} {
		assert.NoError(t, store.Put(ctx, key, bytes.NewReader([]byte("x")), "image/jpeg"))
	}

	keys, err := store.List(ctx, "p1/")
	assert.NoError(t, err)
	assert.Equal(t, []string{"p1/a.jpg", "p1/b.jpg"}, keys, "keys come back sorted")

	all, err := store.List(ctx, "")
	assert.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryStoreDefaultBaseURL(t *testing.T) {
	store := NewMemoryStore("")
	url, ok := store.PublicURL("p1/a.jpg")
	assert.True(t, ok)
	assert.Equal(t, "memory://objects/p1/a.jpg", url)
}
