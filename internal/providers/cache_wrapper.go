package providers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"flight-aggregator/internal/cache"
	"flight-aggregator/internal/common"
	"flight-aggregator/internal/domain"
)

// CacheWrapper decorates a Provider with a read-through cache keyed on
// the search criteria: a hit short-circuits the underlying Search call
// entirely, a miss invokes it and caches only the Ok branch. An Err
// result is never cached, so a transient provider failure does not
// poison subsequent identical searches for the TTL window.
type CacheWrapper struct {
	inner Provider
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

// NewCacheWrapper wraps inner with a shared cache instance.
func NewCacheWrapper(inner Provider, c *cache.Cache, ttl time.Duration, logger *zap.Logger) *CacheWrapper {
	return &CacheWrapper{inner: inner, cache: c, ttl: ttl, log: logger}
}

func (w *CacheWrapper) Name() string { return w.inner.Name() }

func (w *CacheWrapper) IsAvailable() bool { return w.inner.IsAvailable() }

func (w *CacheWrapper) Search(ctx context.Context, criteria domain.SearchCriteria) common.Result[[]domain.Flight] {
	key, err := w.cacheKey(criteria)
	if err != nil {
		// key generation failure degrades to a direct, uncached call
		// rather than failing the search outright.
		w.log.Warn("cache_key_generation_failed", zap.String("provider", w.Name()), zap.Error(err))
		return w.inner.Search(ctx, criteria)
	}

	if cached, ok := w.cache.Get(key); ok {
		if flights, ok := cached.([]domain.Flight); ok {
			return common.Ok(flights)
		}
	}

	result := w.inner.Search(ctx, criteria)
	if result.IsOk() {
		w.cache.Set(key, result.Unwrap(), w.ttl)
	}
	return result
}

// cacheKey builds the canonical cache key payload per the field list
// documented in SPEC_FULL.md §12, matching the reference key
// generator's field set exactly: provider name plus every criteria
// field that affects the search result, keying on the *effective* max
// stops (so non_stop_only=true and max_stops=0 collide, as intended)
// and always including flexible_dates/date_flexibility_days (null when
// not flexible) so a flexible search never reuses a non-flexible hit.
// Never the zero-value Today used only for validation.
func (w *CacheWrapper) cacheKey(criteria domain.SearchCriteria) (string, error) {
	payload := map[string]any{
		"provider":              w.Name(),
		"origin":                criteria.Origin.Code,
		"destination":           criteria.Destination.Code,
		"departure":             criteria.DepartureDate.Format("2006-01-02"),
		"return":                nil,
		"adults":                criteria.Passengers.Adults,
		"children":              criteria.Passengers.Children,
		"infants":               criteria.Passengers.Infants,
		"cabin_class":           criteria.CabinClass.ClassType,
		"effective_max_stops":   nil,
		"flexible_dates":        criteria.FlexibleDates,
		"date_flexibility_days": nil,
	}
	if criteria.ReturnDate != nil {
		payload["return"] = criteria.ReturnDate.Format("2006-01-02")
	}
	if stops := criteria.EffectiveMaxStops(); stops != nil {
		payload["effective_max_stops"] = *stops
	}
	if criteria.FlexibleDates {
		payload["date_flexibility_days"] = criteria.DateFlexibilityDays
	}
	return cache.GenerateKey(payload)
}
