package providers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"flight-aggregator/internal/common"
	"flight-aggregator/internal/domain"
	"flight-aggregator/internal/ratelimit"
)

// performSearchFunc is the abstract hook each adapter supplies: fetch
// and normalize flights for criteria, returning raw errors (HTTP
// status errors, timeouts, parse failures) for the base to classify.
type performSearchFunc func(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Flight, error)

// baseProvider implements the fixed flow from spec §4.5: acquire a
// rate-limit token, invoke the adapter's perform-search hook, classify
// any error into the ProviderError family. Concrete adapters embed this
// struct and supply name/performSearch.
type baseProvider struct {
	name        string
	limiter     *ratelimit.Limiter
	logger      *zap.Logger
	performFn   performSearchFunc
}

func newBaseProvider(name string, limiter *ratelimit.Limiter, logger *zap.Logger, fn performSearchFunc) *baseProvider {
	return &baseProvider{name: name, limiter: limiter, logger: logger, performFn: fn}
}

func (b *baseProvider) Name() string { return b.name }

func (b *baseProvider) Search(ctx context.Context, criteria domain.SearchCriteria) common.Result[[]domain.Flight] {
	if err := b.limiter.Acquire(ctx); err != nil {
		return common.Err[[]domain.Flight](domain.NewTimeoutError(b.name, 0))
	}

	flights, err := b.performFn(ctx, criteria)
	if err != nil {
		return common.Err[[]domain.Flight](b.mapError(err))
	}
	return common.Ok(flights)
}

func (b *baseProvider) IsAvailable() bool {
	return b.limiter.TryAcquire()
}

// httpStatusError is returned by an adapter's HTTP call when the
// back-end responded with a non-2xx status.
type httpStatusError struct {
	StatusCode int
	Reason     string
	RetryAfter string
}

func (e *httpStatusError) Error() string {
	return "http status " + strconv.Itoa(e.StatusCode) + ": " + e.Reason
}

// timeoutError marks a transport-level timeout, distinct from a poll
// budget exhaustion (which adapters raise directly as *domain.TimeoutError).
type timeoutError struct{ cause error }

func (e *timeoutError) Error() string { return "request timed out: " + e.cause.Error() }
func (e *timeoutError) Unwrap() error { return e.cause }

// mapError classifies an adapter-surfaced error into the ProviderError
// family (spec §4.5): timeout -> TimeoutError; 429 -> RateLimitError
// carrying Retry-After; other status -> ProviderError with status and
// reason; anything else -> generic ProviderError wrapping the original.
func (b *baseProvider) mapError(err error) error {
	var asDomainErr domain.CodedError
	if errors.As(err, &asDomainErr) {
		return asDomainErr
	}

	var toErr *timeoutError
	if errors.As(err, &toErr) {
		return domain.NewTimeoutError(b.name, 0)
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusTooManyRequests {
			var retryAfter *float64
			if statusErr.RetryAfter != "" {
				if seconds, parseErr := strconv.ParseFloat(statusErr.RetryAfter, 64); parseErr == nil {
					retryAfter = &seconds
				}
			}
			return domain.NewRateLimitError(b.name, retryAfter)
		}
		return domain.NewProviderError(b.name, statusErr.Error(), err)
	}

	return domain.NewProviderError(b.name, err.Error(), err)
}
