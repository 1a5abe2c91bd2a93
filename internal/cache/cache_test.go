package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listing struct {
	Items  []string `json:"items"`
	Number int      `json:"number"`
}

func TestKey(t *testing.T) {
	assert.Equal(t, "posts:index:page=2", Key("posts", "index", "page=2"))
}

func TestPageCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	pages := NewPageCache[listing](NewMemoryStore())

	got, ok, err := pages.Get(ctx, "posts:index:page=1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	want := &listing{Items: []string{"a", "b"}, Number: 1}
	require.NoError(t, pages.Set(ctx, "posts:index:page=1", want, 20*time.Second))

	got, ok, err = pages.Get(ctx, "posts:index:page=1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	_, ok, err = pages.Get(ctx, "posts:index:page=2")
	require.NoError(t, err)
	assert.False(t, ok, "keys for other pages must not collide")

	require.NoError(t, pages.Clear(ctx))
	_, ok, err = pages.Get(ctx, "posts:index:page=1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPageCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "k", []byte("{not json"), time.Minute))

	_, ok, err := NewPageCache[listing](store).Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, ok)
}
