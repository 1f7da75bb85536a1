// Package aggregator fans a search out across every enabled provider
// concurrently, merges the results, deduplicates near-identical
// itineraries reported by more than one back-end, and returns a single
// price-ascending list.
package aggregator

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"flight-aggregator/internal/common"
	"flight-aggregator/internal/domain"
)

// Provider is the minimal capability the aggregator fans out over; it
// matches internal/providers.Provider structurally so the aggregator
// package never needs to import providers (it is itself registered as
// a provider-shaped component one layer up, per the self-similar
// composition the use-case layer relies on).
type Provider interface {
	Name() string
	Search(ctx context.Context, criteria domain.SearchCriteria) common.Result[[]domain.Flight]
	IsAvailable() bool
}

// dedup thresholds, ported from the reference aggregator's similarity
// check: two flights from different providers are considered the same
// itinerary when their departure/arrival times are within 30 minutes
// of each other and their prices are within 5% of their mean.
const (
	dedupTimeWindow  = 30 * time.Minute
	dedupPriceWindow = 0.05
)

// Outcome is one provider's contribution to a search: either the
// flights it found, or the error it failed with. Exactly one of
// Flights/Err is meaningful, mirroring the partial-failure partition
// spec §5 requires the use-case layer to report.
type Outcome struct {
	Provider string
	Flights  []domain.Flight
	Err      error
}

// Result bundles the deduplicated, price-sorted flights together with
// the per-provider success/failure partition.
type Result struct {
	Flights   []domain.Flight
	Succeeded []string
	Failed    []Outcome
}

// Aggregator implements the Provider interface itself (spec Design
// Note §9's self-similar composition): Search fans out to every member
// provider, Name reports a fixed identifier, IsAvailable is true when
// at least one member is available.
type Aggregator struct {
	providers []Provider
	logger    *zap.Logger
}

// New builds an Aggregator over the given providers, searched in the
// order given (callers typically pass registry.Enabled(0), already
// priority-ordered).
func New(providers []Provider, logger *zap.Logger) *Aggregator {
	return &Aggregator{providers: providers, logger: logger}
}

func (a *Aggregator) Name() string { return "aggregator" }

func (a *Aggregator) IsAvailable() bool {
	for _, p := range a.providers {
		if p.IsAvailable() {
			return true
		}
	}
	return false
}

// Search fans out to every member provider concurrently and returns
// common.Ok([]domain.Flight) only when at least one provider
// succeeded. With no providers it returns an Err saying so; if every
// provider failed, it returns a ProviderError whose message lists the
// failed provider names and which wraps the first provider's error
// (use Aggregate directly for the full partition).
func (a *Aggregator) Search(ctx context.Context, criteria domain.SearchCriteria) common.Result[[]domain.Flight] {
	result := a.Aggregate(ctx, criteria)
	if len(result.Succeeded) == 0 {
		if len(result.Failed) == 0 {
			return common.Err[[]domain.Flight](domain.NewProviderError(a.Name(), "no providers available", nil))
		}
		names := make([]string, 0, len(result.Failed))
		for _, o := range result.Failed {
			names = append(names, o.Provider)
		}
		return common.Err[[]domain.Flight](domain.NewProviderError(a.Name(), "all providers failed: "+strings.Join(names, ", "), result.Failed[0].Err))
	}
	return common.Ok(result.Flights)
}

// Aggregate runs the full fan-out/merge/dedup pipeline and exposes the
// success/failure partition alongside the merged flights, per spec §5.
func (a *Aggregator) Aggregate(ctx context.Context, criteria domain.SearchCriteria) Result {
	outcomes := a.fanOut(ctx, criteria)

	var merged []domain.Flight
	var succeeded []string
	var failed []Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
			continue
		}
		succeeded = append(succeeded, o.Provider)
		merged = append(merged, o.Flights...)
	}

	deduped := dedupe(merged)
	sort.SliceStable(deduped, func(i, j int) bool {
		less, err := deduped[i].Price.LessThan(deduped[j].Price)
		if err != nil {
			return false
		}
		return less
	})

	return Result{Flights: deduped, Succeeded: succeeded, Failed: failed}
}

// fanOut runs every provider's Search concurrently and waits for all
// of them, cancellation-aware: if ctx is cancelled mid-flight, each
// provider's own Search call is expected to observe it and return an
// error promptly (the rate limiter and HTTP client both honor ctx).
func (a *Aggregator) fanOut(ctx context.Context, criteria domain.SearchCriteria) []Outcome {
	logger := a.logger
	if requestID, ok := common.RequestID(ctx); ok {
		logger = logger.With(zap.String("request_id", requestID))
	}

	outcomes := make([]Outcome, len(a.providers))

	var wg sync.WaitGroup
	for i, p := range a.providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			result := p.Search(ctx, criteria)
			if result.IsErr() {
				outcomes[i] = Outcome{Provider: p.Name(), Err: result.UnwrapErr()}
				logger.Warn("provider_search_failed", zap.String("provider", p.Name()), zap.Error(result.UnwrapErr()))
				return
			}
			outcomes[i] = Outcome{Provider: p.Name(), Flights: result.Unwrap()}
		}(i, p)
	}
	wg.Wait()

	return outcomes
}

// dedupe merges flights reported by more than one provider for the
// same itinerary. A cheap signature (origin, destination, airline,
// departure and arrival time each rounded to the nearest 30 minutes)
// buckets candidates before the pairwise similarity check runs, so the
// O(n^2) comparison only applies within a bucket. The bucket is
// necessarily coarser than the similarity check itself (it can't see
// price), so two flights in the same bucket still run through similar
// before being merged. First-seen wins: within a bucket, flights are
// compared in input order and the earliest-seen representative of each
// similarity class is kept.
func dedupe(flights []domain.Flight) []domain.Flight {
	buckets := make(map[string][]domain.Flight)
	order := make([]string, 0)
	for _, f := range flights {
		sig := signature(f)
		if _, ok := buckets[sig]; !ok {
			order = append(order, sig)
		}
		buckets[sig] = append(buckets[sig], f)
	}

	out := make([]domain.Flight, 0, len(flights))
	for _, sig := range order {
		out = append(out, dedupeBucket(buckets[sig])...)
	}
	return out
}

func signature(f domain.Flight) string {
	return f.Origin.Code + "|" + f.Destination.Code + "|" + f.Airline + "|" +
		roundToHalfHour(f.DepartureTime).Format(time.RFC3339) + "|" + roundToHalfHour(f.ArrivalTime).Format(time.RFC3339)
}

// roundToHalfHour rounds t to the nearest 30-minute boundary, so two
// flights reported a few minutes apart by different providers still
// land in the same dedup bucket.
func roundToHalfHour(t time.Time) time.Time {
	return t.Round(30 * time.Minute)
}

func dedupeBucket(flights []domain.Flight) []domain.Flight {
	kept := make([]domain.Flight, 0, len(flights))
	for _, candidate := range flights {
		duplicate := false
		for _, existing := range kept {
			if similar(candidate, existing) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, candidate)
		}
	}
	return kept
}

// similar reports whether two flights represent the same real-world
// itinerary as reported by different back-ends: departure and arrival
// times each within dedupTimeWindow, and price within dedupPriceWindow
// of the pair's mean. Note this relation is not transitive (A~B and
// B~C does not imply A~C), matching the reference implementation's
// pairwise check rather than a clustering pass.
func similar(a, b domain.Flight) bool {
	if absDuration(a.DepartureTime.Sub(b.DepartureTime)) > dedupTimeWindow {
		return false
	}
	if absDuration(a.ArrivalTime.Sub(b.ArrivalTime)) > dedupTimeWindow {
		return false
	}
	if a.Price.Currency != b.Price.Currency {
		return false
	}
	mean, err := a.Price.Mean(b.Price)
	if err != nil {
		return false
	}
	diff, err := a.Price.AbsDiff(b.Price)
	if err != nil {
		return false
	}
	meanFloat, _ := mean.Float64()
	diffFloat, _ := diff.Float64()
	if meanFloat == 0 {
		return diffFloat == 0
	}
	return diffFloat/meanFloat <= dedupPriceWindow
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
