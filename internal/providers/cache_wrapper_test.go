package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"flight-aggregator/internal/cache"
	"flight-aggregator/internal/common"
	"flight-aggregator/internal/domain"
)

type countingProvider struct {
	name    string
	calls   int
	flights []domain.Flight
	err     error
}

func (p *countingProvider) Name() string      { return p.name }
func (p *countingProvider) IsAvailable() bool { return true }
func (p *countingProvider) Search(ctx context.Context, criteria domain.SearchCriteria) common.Result[[]domain.Flight] {
	p.calls++
	if p.err != nil {
		return common.Err[[]domain.Flight](p.err)
	}
	return common.Ok(p.flights)
}

func newTestCriteria(t *testing.T) domain.SearchCriteria {
	t.Helper()
	origin, _ := domain.NewAirport("SFO", "", "", "")
	dest, _ := domain.NewAirport("JFK", "", "", "")
	passengers, _ := domain.NewPassengerConfig(1, 0, 0)
	cabin, _ := domain.NewCabinClass(domain.CabinEconomy)
	today := time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)
	c, err := domain.NewSearchCriteria(domain.SearchCriteriaInput{
		Origin: origin, Destination: dest, DepartureDate: today.AddDate(0, 0, 5),
		Passengers: passengers, CabinClass: cabin, Today: today,
	})
	require.NoError(t, err)
	return c
}

func sampleFlights(t *testing.T) []domain.Flight {
	t.Helper()
	origin, _ := domain.NewAirport("SFO", "", "", "")
	dest, _ := domain.NewAirport("JFK", "", "", "")
	price, _ := domain.NewPrice(decimal.NewFromInt(250), "USD")
	cabin, _ := domain.NewCabinClass(domain.CabinEconomy)
	dep := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)
	f, err := domain.NewFlight("f1", origin, dest, dep, dep.Add(5*time.Hour), price, cabin, 0, "AA", "", "", "", "")
	require.NoError(t, err)
	return []domain.Flight{f}
}

func TestCacheWrapperHitsOnlyOnce(t *testing.T) {
	inner := &countingProvider{name: "inner", flights: sampleFlights(t)}
	c := cache.New(10, time.Minute)
	w := NewCacheWrapper(inner, c, time.Minute, zap.NewNop())
	criteria := newTestCriteria(t)

	r1 := w.Search(context.Background(), criteria)
	require.True(t, r1.IsOk())
	r2 := w.Search(context.Background(), criteria)
	require.True(t, r2.IsOk())

	assert.Equal(t, 1, inner.calls, "second search should be served from cache")
	assert.Equal(t, r1.Unwrap(), r2.Unwrap())
}

func TestCacheWrapperDoesNotCacheErrors(t *testing.T) {
	inner := &countingProvider{name: "inner", err: errors.New("provider down")}
	c := cache.New(10, time.Minute)
	w := NewCacheWrapper(inner, c, time.Minute, zap.NewNop())
	criteria := newTestCriteria(t)

	r1 := w.Search(context.Background(), criteria)
	assert.True(t, r1.IsErr())
	r2 := w.Search(context.Background(), criteria)
	assert.True(t, r2.IsErr())

	assert.Equal(t, 2, inner.calls, "an Err result must never be cached")
}

func TestCacheWrapperDelegatesNameAndAvailability(t *testing.T) {
	inner := &countingProvider{name: "skyscanner"}
	w := NewCacheWrapper(inner, cache.New(10, time.Minute), time.Minute, zap.NewNop())
	assert.Equal(t, "skyscanner", w.Name())
	assert.True(t, w.IsAvailable())
}

func TestCacheWrapperKeyStableUnderFieldOrder(t *testing.T) {
	inner := &countingProvider{name: "inner", flights: sampleFlights(t)}
	w := NewCacheWrapper(inner, cache.New(10, time.Minute), time.Minute, zap.NewNop())

	criteria := newTestCriteria(t)
	k1, err := w.cacheKey(criteria)
	require.NoError(t, err)
	k2, err := w.cacheKey(criteria)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}

func criteriaWithStopsRule(t *testing.T, nonStopOnly bool, maxStops *int) domain.SearchCriteria {
	t.Helper()
	origin, _ := domain.NewAirport("SFO", "", "", "")
	dest, _ := domain.NewAirport("JFK", "", "", "")
	passengers, _ := domain.NewPassengerConfig(1, 0, 0)
	cabin, _ := domain.NewCabinClass(domain.CabinEconomy)
	today := time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)
	c, err := domain.NewSearchCriteria(domain.SearchCriteriaInput{
		Origin: origin, Destination: dest, DepartureDate: today.AddDate(0, 0, 5),
		Passengers: passengers, CabinClass: cabin, Today: today,
		NonStopOnly: nonStopOnly, MaxStops: maxStops,
	})
	require.NoError(t, err)
	return c
}

func TestCacheWrapperKeyCollidesOnEquivalentStopsRule(t *testing.T) {
	w := NewCacheWrapper(&countingProvider{name: "inner"}, cache.New(10, time.Minute), time.Minute, zap.NewNop())

	zero := 0
	nonStopOnly := criteriaWithStopsRule(t, true, nil)
	maxStopsZero := criteriaWithStopsRule(t, false, &zero)

	k1, err := w.cacheKey(nonStopOnly)
	require.NoError(t, err)
	k2, err := w.cacheKey(maxStopsZero)
	require.NoError(t, err)
	assert.Equal(t, k1, k2, "non_stop_only=true and max_stops=0 describe the same effective search")
}

func TestCacheWrapperKeyDiffersOnFlexibility(t *testing.T) {
	w := NewCacheWrapper(&countingProvider{name: "inner"}, cache.New(10, time.Minute), time.Minute, zap.NewNop())

	origin, _ := domain.NewAirport("SFO", "", "", "")
	dest, _ := domain.NewAirport("JFK", "", "", "")
	passengers, _ := domain.NewPassengerConfig(1, 0, 0)
	cabin, _ := domain.NewCabinClass(domain.CabinEconomy)
	today := time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)

	rigid, err := domain.NewSearchCriteria(domain.SearchCriteriaInput{
		Origin: origin, Destination: dest, DepartureDate: today.AddDate(0, 0, 5),
		Passengers: passengers, CabinClass: cabin, Today: today,
	})
	require.NoError(t, err)

	flexible, err := domain.NewSearchCriteria(domain.SearchCriteriaInput{
		Origin: origin, Destination: dest, DepartureDate: today.AddDate(0, 0, 5),
		Passengers: passengers, CabinClass: cabin, Today: today,
		FlexibleDates: true, DateFlexibilityDays: 3,
	})
	require.NoError(t, err)

	k1, err := w.cacheKey(rigid)
	require.NoError(t, err)
	k2, err := w.cacheKey(flexible)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2, "a flexible search must not reuse a rigid search's cached result")
}
