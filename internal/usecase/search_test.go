package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"flight-aggregator/internal/aggregator"
	"flight-aggregator/internal/common"
	"flight-aggregator/internal/domain"
)

type fakeSearchProvider struct {
	name    string
	flights []domain.Flight
	err     error
}

func (f *fakeSearchProvider) Name() string      { return f.name }
func (f *fakeSearchProvider) IsAvailable() bool { return true }
func (f *fakeSearchProvider) Search(ctx context.Context, criteria domain.SearchCriteria) common.Result[[]domain.Flight] {
	if f.err != nil {
		return common.Err[[]domain.Flight](f.err)
	}
	return common.Ok(f.flights)
}

func mustTestFlight(t *testing.T, id string, price int64) domain.Flight {
	t.Helper()
	origin, _ := domain.NewAirport("SFO", "", "", "")
	dest, _ := domain.NewAirport("JFK", "", "", "")
	p, err := domain.NewPrice(decimal.NewFromInt(price), "USD")
	require.NoError(t, err)
	cabin, _ := domain.NewCabinClass(domain.CabinEconomy)
	dep := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)
	f, err := domain.NewFlight(id, origin, dest, dep, dep.Add(5*time.Hour), p, cabin, 0, "AA", "", "", "", "")
	require.NoError(t, err)
	return f
}

func mustTestCriteria(t *testing.T) domain.SearchCriteria {
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

func TestSearchFlightsUseCaseAllProvidersFail(t *testing.T) {
	p := &fakeSearchProvider{name: "p1", err: errors.New("provider unreachable")}
	agg := aggregator.New([]aggregator.Provider{p}, zap.NewNop())
	uc := NewSearchFlightsUseCase(agg, 50, zap.NewNop())

	_, err := uc.Execute(context.Background(), mustTestCriteria(t))
	require.Error(t, err)

	var searchErr *domain.SearchError
	assert.True(t, errors.As(err, &searchErr))
}

func TestSearchFlightsUseCaseSuccess(t *testing.T) {
	flights := []domain.Flight{mustTestFlight(t, "f1", 200), mustTestFlight(t, "f2", 900)}
	ok := &fakeSearchProvider{name: "ok", flights: flights}
	bad := &fakeSearchProvider{name: "bad", err: errors.New("timeout")}
	agg := aggregator.New([]aggregator.Provider{ok, bad}, zap.NewNop())
	uc := NewSearchFlightsUseCase(agg, 50, zap.NewNop())

	outcome, err := uc.Execute(context.Background(), mustTestCriteria(t))
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.ResultCount)
	assert.Equal(t, []string{"ok", "bad"}, outcome.ProvidersUsed, "providers_used reports every attempt, not just successes")
	assert.Equal(t, []string{"bad"}, outcome.ProvidersFailed)
	assert.False(t, outcome.CacheHit)
	assert.GreaterOrEqual(t, outcome.ElapsedSeconds, float64(0))
}

func TestSearchFlightsUseCaseTruncatesToMax(t *testing.T) {
	flights := []domain.Flight{
		mustTestFlight(t, "f1", 100), mustTestFlight(t, "f2", 200), mustTestFlight(t, "f3", 300),
	}
	ok := &fakeSearchProvider{name: "ok", flights: flights}
	agg := aggregator.New([]aggregator.Provider{ok}, zap.NewNop())
	uc := NewSearchFlightsUseCase(agg, 2, zap.NewNop())

	outcome, err := uc.Execute(context.Background(), mustTestCriteria(t))
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.ResultCount)
	assert.Len(t, outcome.Flights, 2)
}

func TestSearchFlightsUseCaseZeroProviders(t *testing.T) {
	agg := aggregator.New(nil, zap.NewNop())
	uc := NewSearchFlightsUseCase(agg, 50, zap.NewNop())

	_, err := uc.Execute(context.Background(), mustTestCriteria(t))
	require.Error(t, err)
}
