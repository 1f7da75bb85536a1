package usecase

import (
	"go.uber.org/zap"

	"flight-aggregator/internal/cache"
)

// CacheStats mirrors cache.Stats plus the derived hit rate, the shape
// the MCP tool layer reports verbatim.
type CacheStats struct {
	Size    int
	MaxSize int
	Hits    int64
	Misses  int64
	HitRate float64
}

// ManageCacheUseCase exposes cache introspection and clearing. The
// underlying cache operations cannot fail, so the returned error is
// always nil.
type ManageCacheUseCase struct {
	cache  *cache.Cache
	logger *zap.Logger
}

// NewManageCacheUseCase builds the use case over the shared cache.
func NewManageCacheUseCase(c *cache.Cache, logger *zap.Logger) *ManageCacheUseCase {
	return &ManageCacheUseCase{cache: c, logger: logger}
}

// Stats reports a point-in-time snapshot of cache health.
func (u *ManageCacheUseCase) Stats() (CacheStats, error) {
	s := u.cache.Stats()
	return CacheStats{
		Size:    s.Size,
		MaxSize: s.MaxSize,
		Hits:    s.Hits,
		Misses:  s.Misses,
		HitRate: s.HitRate(),
	}, nil
}

// Clear empties the cache, returning the count of entries removed.
// Cache.Clear cannot fail, so the returned error is always nil.
func (u *ManageCacheUseCase) Clear() (int, error) {
	removed := u.cache.Clear()
	u.logger.Info("cache_cleared", zap.Int("entries_removed", removed))
	return removed, nil
}
