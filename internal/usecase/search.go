// Package usecase implements the application-layer operations exposed
// to callers (MCP tools, tests): searching flights and managing the
// cache, each wrapping its failure mode in the use-case-level error
// types so callers never see a raw provider or cache error.
package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"flight-aggregator/internal/aggregator"
	"flight-aggregator/internal/common"
	"flight-aggregator/internal/domain"
)

// SearchOutcome is the result of one SearchFlights call: the
// truncated, price-sorted flights plus the metadata spec §5 requires
// every search response to carry.
type SearchOutcome struct {
	Flights         []domain.Flight
	ResultCount     int
	ProvidersUsed   []string
	ProvidersFailed []string
	ElapsedSeconds  float64
	CacheHit        bool
}

// SearchFlightsUseCase invokes the aggregator, truncates to the
// configured result cap, and annotates the outcome.
type SearchFlightsUseCase struct {
	aggregator       *aggregator.Aggregator
	maxSearchResults int
	logger           *zap.Logger
	now              func() time.Time
}

// NewSearchFlightsUseCase builds the use case over agg, capping result
// lists at maxSearchResults.
func NewSearchFlightsUseCase(agg *aggregator.Aggregator, maxSearchResults int, logger *zap.Logger) *SearchFlightsUseCase {
	return &SearchFlightsUseCase{aggregator: agg, maxSearchResults: maxSearchResults, logger: logger, now: time.Now}
}

// Execute runs the search, returning a SearchError (never a raw
// provider/aggregator error) on total failure: every provider
// returning an error, or zero providers registered.
func (u *SearchFlightsUseCase) Execute(ctx context.Context, criteria domain.SearchCriteria) (SearchOutcome, error) {
	logger := u.logger
	if requestID, ok := common.RequestID(ctx); ok {
		logger = logger.With(zap.String("request_id", requestID))
	}

	start := u.now()
	result := u.aggregator.Aggregate(ctx, criteria)
	elapsed := u.now().Sub(start).Seconds()

	if len(result.Succeeded) == 0 {
		failedNames := make([]string, 0, len(result.Failed))
		var firstErr error
		for _, f := range result.Failed {
			failedNames = append(failedNames, f.Provider)
			if firstErr == nil {
				firstErr = f.Err
			}
		}
		logger.Error("search_failed_all_providers", zap.Strings("providers_failed", failedNames))
		return SearchOutcome{}, domain.NewSearchError("all providers failed to return results", failedNames, firstErr)
	}

	flights := result.Flights
	if u.maxSearchResults > 0 && len(flights) > u.maxSearchResults {
		flights = flights[:u.maxSearchResults]
	}

	failedNames := make([]string, 0, len(result.Failed))
	for _, f := range result.Failed {
		failedNames = append(failedNames, f.Provider)
	}

	// providers_used reports every provider attempted, not just the
	// ones that succeeded: a caller distinguishing "attempted" from
	// "succeeded" still has providers_failed for that.
	attempted := make([]string, 0, len(result.Succeeded)+len(failedNames))
	attempted = append(attempted, result.Succeeded...)
	attempted = append(attempted, failedNames...)

	return SearchOutcome{
		Flights:         flights,
		ResultCount:     len(flights),
		ProvidersUsed:   attempted,
		ProvidersFailed: failedNames,
		ElapsedSeconds:  elapsed,
		// cache_hit is always reported false at this layer: a cache
		// wrapper's cache-hit save happens one layer below, inside each
		// per-provider Search call, so the use case itself has no
		// visibility into whether any member hit. See SPEC_FULL.md §13.
		CacheHit: false,
	}, nil
}
