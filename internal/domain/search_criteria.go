package domain

import "time"

// SearchCriteria is the validated, immutable description of a single
// flight search request.
type SearchCriteria struct {
	Origin              Airport
	Destination         Airport
	DepartureDate       time.Time
	ReturnDate          *time.Time
	Passengers          PassengerConfig
	CabinClass          CabinClass
	MaxStops            *int
	NonStopOnly         bool
	FlexibleDates       bool
	DateFlexibilityDays int
}

// SearchCriteriaInput bundles the raw constructor arguments so the
// constructor signature does not balloon into an unreadable parameter
// list.
type SearchCriteriaInput struct {
	Origin              Airport
	Destination         Airport
	DepartureDate       time.Time
	ReturnDate          *time.Time
	Passengers          PassengerConfig
	CabinClass          CabinClass
	MaxStops            *int
	NonStopOnly         bool
	FlexibleDates       bool
	DateFlexibilityDays int
	Today               time.Time
}

// NewSearchCriteria validates and builds a SearchCriteria.
func NewSearchCriteria(in SearchCriteriaInput) (SearchCriteria, error) {
	today := truncateToDate(in.Today)
	departure := truncateToDate(in.DepartureDate)

	if in.Origin.Equal(in.Destination) {
		return SearchCriteria{}, NewValidationError("destination", in.Destination.Code, "destination must differ from origin")
	}
	if departure.Before(today) {
		return SearchCriteria{}, NewValidationError("departure_date", departure, "departure date must not be in the past")
	}

	var returnDate *time.Time
	if in.ReturnDate != nil {
		r := truncateToDate(*in.ReturnDate)
		if r.Before(departure) {
			return SearchCriteria{}, NewValidationError("return_date", r, "return date must not precede departure date")
		}
		if r.Sub(departure) > 365*24*time.Hour {
			return SearchCriteria{}, NewValidationError("return_date", r, "trip must not exceed 365 days")
		}
		returnDate = &r
	}

	if in.NonStopOnly && in.MaxStops != nil && *in.MaxStops > 0 {
		return SearchCriteria{}, NewValidationError("max_stops", *in.MaxStops, "non_stop_only and max_stops > 0 are mutually exclusive")
	}
	if in.MaxStops != nil && (*in.MaxStops < 0 || *in.MaxStops > 5) {
		return SearchCriteria{}, NewValidationError("max_stops", *in.MaxStops, "max_stops must be between 0 and 5")
	}
	if in.FlexibleDates && (in.DateFlexibilityDays < 1 || in.DateFlexibilityDays > 7) {
		return SearchCriteria{}, NewValidationError("date_flexibility_days", in.DateFlexibilityDays, "date_flexibility_days must be between 1 and 7")
	}

	return SearchCriteria{
		Origin:              in.Origin,
		Destination:         in.Destination,
		DepartureDate:       departure,
		ReturnDate:          returnDate,
		Passengers:          in.Passengers,
		CabinClass:          in.CabinClass,
		MaxStops:            in.MaxStops,
		NonStopOnly:         in.NonStopOnly,
		FlexibleDates:       in.FlexibleDates,
		DateFlexibilityDays: in.DateFlexibilityDays,
	}, nil
}

// IsRoundTrip reports whether a return date was given.
func (c SearchCriteria) IsRoundTrip() bool { return c.ReturnDate != nil }

// IsOneWay is the negation of IsRoundTrip.
func (c SearchCriteria) IsOneWay() bool { return c.ReturnDate == nil }

// TripDurationDays returns the one-way/round-trip span in days, or 0
// for a one-way search.
func (c SearchCriteria) TripDurationDays() int {
	if c.ReturnDate == nil {
		return 0
	}
	return int(c.ReturnDate.Sub(c.DepartureDate).Hours()/24) + 1
}

// EffectiveMaxStops is 0 when NonStopOnly, else the configured MaxStops
// (or nil when unset, meaning unlimited).
func (c SearchCriteria) EffectiveMaxStops() *int {
	if c.NonStopOnly {
		zero := 0
		return &zero
	}
	return c.MaxStops
}

// GetDepartureDateRange returns the flexible search window around the
// departure date, clamped to not precede today.
func (c SearchCriteria) GetDepartureDateRange(today time.Time) DateRange {
	if !c.FlexibleDates {
		return DateRange{Start: c.DepartureDate, End: c.DepartureDate}
	}
	today = truncateToDate(today)
	start := c.DepartureDate.AddDate(0, 0, -c.DateFlexibilityDays)
	if start.Before(today) {
		start = today
	}
	end := c.DepartureDate.AddDate(0, 0, c.DateFlexibilityDays)
	return DateRange{Start: start, End: end}
}

// GetReturnDateRange returns the flexible search window around the
// return date, clamped to not precede the departure date. Returns the
// zero DateRange when this is a one-way search.
func (c SearchCriteria) GetReturnDateRange() DateRange {
	if c.ReturnDate == nil {
		return DateRange{}
	}
	if !c.FlexibleDates {
		return DateRange{Start: *c.ReturnDate, End: *c.ReturnDate}
	}
	start := c.ReturnDate.AddDate(0, 0, -c.DateFlexibilityDays)
	if start.Before(c.DepartureDate) {
		start = c.DepartureDate
	}
	end := c.ReturnDate.AddDate(0, 0, c.DateFlexibilityDays)
	return DateRange{Start: start, End: end}
}
