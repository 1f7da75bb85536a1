package mcptools

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flight-aggregator/internal/domain"
)

func TestParseSearchCriteriaDefaults(t *testing.T) {
	departure := time.Now().AddDate(0, 0, 10).Format(dateLayout)
	args := map[string]any{
		"origin":         "SFO",
		"destination":    "JFK",
		"departure_date": departure,
	}

	criteria, err := parseSearchCriteria(args)
	require.NoError(t, err)
	assert.Equal(t, "SFO", criteria.Origin.Code)
	assert.Equal(t, "JFK", criteria.Destination.Code)
	assert.Equal(t, 1, criteria.Passengers.Adults)
	assert.Equal(t, domain.CabinEconomy, criteria.CabinClass.ClassType)
	assert.True(t, criteria.IsOneWay())
}

func TestParseSearchCriteriaRoundTrip(t *testing.T) {
	departure := time.Now().AddDate(0, 0, 10).Format(dateLayout)
	ret := time.Now().AddDate(0, 0, 17).Format(dateLayout)
	args := map[string]any{
		"origin":         "SFO",
		"destination":    "JFK",
		"departure_date": departure,
		"return_date":    ret,
		"adults":         float64(2),
		"children":       float64(1),
		"cabin_class":    "business",
		"non_stop_only":  true,
	}

	criteria, err := parseSearchCriteria(args)
	require.NoError(t, err)
	assert.False(t, criteria.IsOneWay())
	assert.Equal(t, 2, criteria.Passengers.Adults)
	assert.Equal(t, domain.CabinBusiness, criteria.CabinClass.ClassType)
	require.NotNil(t, criteria.EffectiveMaxStops())
	assert.Equal(t, 0, *criteria.EffectiveMaxStops())
}

func TestParseSearchCriteriaInvalidDate(t *testing.T) {
	args := map[string]any{
		"origin":         "SFO",
		"destination":    "JFK",
		"departure_date": "not-a-date",
	}
	_, err := parseSearchCriteria(args)
	assert.Error(t, err)
}

func TestParseSearchCriteriaInvalidAirport(t *testing.T) {
	departure := time.Now().AddDate(0, 0, 10).Format(dateLayout)
	args := map[string]any{
		"origin":         "S0",
		"destination":    "JFK",
		"departure_date": departure,
	}
	_, err := parseSearchCriteria(args)
	assert.Error(t, err)
}

func TestFormatError(t *testing.T) {
	t.Run("coded error includes code and context", func(t *testing.T) {
		err := domain.NewValidationError("origin", "ZZ", "must be a known airport")
		msg := formatError(err)
		assert.Contains(t, msg, "VALIDATION_ERROR")
		assert.Contains(t, msg, "must be a known airport")
	})

	t.Run("plain error falls back to Error()", func(t *testing.T) {
		err := errors.New("boom")
		assert.Equal(t, "boom", formatError(err))
	})
}
