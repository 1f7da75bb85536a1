package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"flight-aggregator/internal/cache"
)

func TestManageCacheUseCaseStats(t *testing.T) {
	c := cache.New(10, time.Minute)
	c.Set("k", "v", -1)
	c.Get("k")
	c.Get("missing")

	uc := NewManageCacheUseCase(c, zap.NewNop())
	stats, err := uc.Stats()
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, 10, stats.MaxSize)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 0.5, stats.HitRate)
}

func TestManageCacheUseCaseClear(t *testing.T) {
	c := cache.New(10, time.Minute)
	c.Set("a", 1, -1)
	c.Set("b", 2, -1)

	uc := NewManageCacheUseCase(c, zap.NewNop())
	removed, err := uc.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	stats, err := uc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Size)
}
