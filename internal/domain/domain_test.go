package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAirport(t *testing.T) {
	t.Run("valid code is normalized", func(t *testing.T) {
		a, err := NewAirport(" sfo ", "San Francisco Intl", "San Francisco", "US")
		require.NoError(t, err)
		assert.Equal(t, "SFO", a.Code)
	})

	t.Run("wrong length rejected", func(t *testing.T) {
		_, err := NewAirport("SF", "", "", "")
		assert.Error(t, err)
	})

	t.Run("non-alphabetic rejected", func(t *testing.T) {
		_, err := NewAirport("S0O", "", "", "")
		assert.Error(t, err)
	})

	t.Run("equality is code-only", func(t *testing.T) {
		a, _ := NewAirport("SFO", "Name A", "", "")
		b, _ := NewAirport("SFO", "Name B", "", "")
		assert.True(t, a.Equal(b))
	})
}

func TestNewPrice(t *testing.T) {
	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := NewPrice(decimal.NewFromInt(-1), "USD")
		assert.Error(t, err)
	})

	t.Run("rejects more than 2 fractional digits", func(t *testing.T) {
		amount, _ := decimal.NewFromString("10.123")
		_, err := NewPrice(amount, "USD")
		assert.Error(t, err)
	})

	t.Run("rejects malformed currency", func(t *testing.T) {
		_, err := NewPrice(decimal.NewFromInt(10), "us")
		assert.Error(t, err)
	})

	t.Run("LessThan requires same currency", func(t *testing.T) {
		usd, _ := NewPrice(decimal.NewFromInt(10), "USD")
		eur, _ := NewPrice(decimal.NewFromInt(10), "EUR")
		_, err := usd.LessThan(eur)
		assert.Error(t, err)
	})

	t.Run("Mean and AbsDiff", func(t *testing.T) {
		a, _ := NewPrice(decimal.NewFromInt(100), "USD")
		b, _ := NewPrice(decimal.NewFromInt(200), "USD")
		mean, err := a.Mean(b)
		require.NoError(t, err)
		assert.True(t, mean.Equal(decimal.NewFromInt(150)))

		diff, err := a.AbsDiff(b)
		require.NoError(t, err)
		assert.True(t, diff.Equal(decimal.NewFromInt(100)))
	})
}

func TestCabinClassAlias(t *testing.T) {
	cases := map[string]CabinClassType{
		"economy":          CabinEconomy,
		"Premium Economy":  CabinPremiumEconomy,
		"premium_economy":  CabinPremiumEconomy,
		"premium-economy":  CabinPremiumEconomy,
		"BUSINESS":         CabinBusiness,
		"first":            CabinFirst,
		"something-unreal": CabinEconomy,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseCabinClassAlias(raw), "alias %q", raw)
	}
}

func TestNewPassengerConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		p, err := NewPassengerConfig(2, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, 4, p.TotalPassengers())
		assert.True(t, p.HasChildrenOrInfants())
	})

	t.Run("lap-infant rule", func(t *testing.T) {
		_, err := NewPassengerConfig(1, 0, 2)
		assert.Error(t, err)
	})

	t.Run("total exceeds nine", func(t *testing.T) {
		_, err := NewPassengerConfig(9, 0, 1)
		assert.Error(t, err)
	})

	t.Run("zero adults rejected", func(t *testing.T) {
		_, err := NewPassengerConfig(0, 0, 0)
		assert.Error(t, err)
	})
}

func TestNewFlight(t *testing.T) {
	origin, _ := NewAirport("SFO", "", "", "")
	dest, _ := NewAirport("JFK", "", "", "")
	price, _ := NewPrice(decimal.NewFromInt(300), "USD")
	cabin, _ := NewCabinClass(CabinEconomy)
	dep := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	t.Run("valid flight", func(t *testing.T) {
		f, err := NewFlight("f1", origin, dest, dep, dep.Add(5*time.Hour), price, cabin, 0, "aa", "American", "", "AA100", "")
		require.NoError(t, err)
		assert.Equal(t, "AA", f.Airline)
		assert.True(t, f.IsNonStop())
		assert.Equal(t, 300, f.DurationMinutes())
	})

	t.Run("same origin and destination rejected", func(t *testing.T) {
		_, err := NewFlight("f1", origin, origin, dep, dep.Add(time.Hour), price, cabin, 0, "AA", "", "", "", "")
		assert.Error(t, err)
	})

	t.Run("arrival before departure rejected", func(t *testing.T) {
		_, err := NewFlight("f1", origin, dest, dep, dep.Add(-time.Hour), price, cabin, 0, "AA", "", "", "", "")
		assert.Error(t, err)
	})

	t.Run("duration of 24h or more rejected", func(t *testing.T) {
		_, err := NewFlight("f1", origin, dest, dep, dep.Add(24*time.Hour), price, cabin, 0, "AA", "", "", "", "")
		assert.Error(t, err)
	})

	t.Run("stops out of range rejected", func(t *testing.T) {
		_, err := NewFlight("f1", origin, dest, dep, dep.Add(time.Hour), price, cabin, 6, "AA", "", "", "", "")
		assert.Error(t, err)
	})

	t.Run("equality is ID only", func(t *testing.T) {
		a, _ := NewFlight("f1", origin, dest, dep, dep.Add(time.Hour), price, cabin, 0, "AA", "", "", "", "")
		b, _ := NewFlight("f1", dest, origin, dep, dep.Add(time.Hour), price, cabin, 0, "BB", "", "", "", "")
		assert.True(t, a.Equal(b))
	})
}

func TestNewSearchCriteria(t *testing.T) {
	origin, _ := NewAirport("SFO", "", "", "")
	dest, _ := NewAirport("JFK", "", "", "")
	passengers, _ := NewPassengerConfig(1, 0, 0)
	cabin, _ := NewCabinClass(CabinEconomy)
	today := time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)
	departure := today.AddDate(0, 0, 5)

	base := func() SearchCriteriaInput {
		return SearchCriteriaInput{
			Origin: origin, Destination: dest, DepartureDate: departure,
			Passengers: passengers, CabinClass: cabin, Today: today,
		}
	}

	t.Run("valid one-way", func(t *testing.T) {
		c, err := NewSearchCriteria(base())
		require.NoError(t, err)
		assert.True(t, c.IsOneWay())
		assert.Equal(t, 0, c.TripDurationDays())
	})

	t.Run("departure in the past rejected", func(t *testing.T) {
		in := base()
		in.DepartureDate = today.AddDate(0, 0, -1)
		_, err := NewSearchCriteria(in)
		assert.Error(t, err)
	})

	t.Run("return before departure rejected", func(t *testing.T) {
		in := base()
		r := departure.AddDate(0, 0, -1)
		in.ReturnDate = &r
		_, err := NewSearchCriteria(in)
		assert.Error(t, err)
	})

	t.Run("trip exceeding 365 days rejected", func(t *testing.T) {
		in := base()
		r := departure.AddDate(1, 0, 1)
		in.ReturnDate = &r
		_, err := NewSearchCriteria(in)
		assert.Error(t, err)
	})

	t.Run("non_stop_only with positive max_stops rejected", func(t *testing.T) {
		in := base()
		in.NonStopOnly = true
		stops := 1
		in.MaxStops = &stops
		_, err := NewSearchCriteria(in)
		assert.Error(t, err)
	})

	t.Run("flexible dates requires 1-7 day window", func(t *testing.T) {
		in := base()
		in.FlexibleDates = true
		in.DateFlexibilityDays = 0
		_, err := NewSearchCriteria(in)
		assert.Error(t, err)
	})

	t.Run("EffectiveMaxStops forces zero under non_stop_only", func(t *testing.T) {
		in := base()
		in.NonStopOnly = true
		c, err := NewSearchCriteria(in)
		require.NoError(t, err)
		require.NotNil(t, c.EffectiveMaxStops())
		assert.Equal(t, 0, *c.EffectiveMaxStops())
	})
}
