package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCache()

	require.NoError(t, m.Set(ctx, "catalog:tags", []string{"breakfast"}, time.Minute))

	var got []string
	found, err := m.Get(ctx, "catalog:tags", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"breakfast"}, got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCache()
	current := time.Now()
	m.now = func() time.Time { return current }

	require.NoError(t, m.Set(ctx, "revoked:abc", true, time.Minute))
	ok, _ := m.Exists(ctx, "revoked:abc")
	assert.True(t, ok)

	current = current.Add(2 * time.Minute)
	ok, _ = m.Exists(ctx, "revoked:abc")
	assert.False(t, ok)
}

func TestMemoryCacheDeletePattern(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCache()
	_ = m.Set(ctx, "catalog:tags", 1, 0)
	_ = m.Set(ctx, "catalog:ingredients:sa", 2, 0)
	_ = m.Set(ctx, "revoked:x", 3, 0)

	require.NoError(t, m.DeletePattern(ctx, "catalog:*"))

	for key, want := range map[string]bool{"catalog:tags": false, "catalog:ingredients:sa": false, "revoked:x": true} {
		ok, _ := m.Exists(ctx, key)
		assert.Equal(t, want, ok, key)
	}
}
