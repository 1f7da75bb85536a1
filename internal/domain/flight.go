package domain

import (
	"strings"
	"time"
)

// Flight is a normalized, canonical flight record produced by a
// provider adapter. Equality and hash are over ID only.
type Flight struct {
	ID            string
	Origin        Airport
	Destination   Airport
	DepartureTime time.Time
	ArrivalTime   time.Time
	Price         Price
	CabinClass    CabinClass
	Stops         int
	Airline       string
	AirlineName   string
	AircraftType  string
	FlightNumber  string
	BookingURL    string
}

// NewFlight validates and builds a Flight.
func NewFlight(
	id string,
	origin, destination Airport,
	departureTime, arrivalTime time.Time,
	price Price,
	cabinClass CabinClass,
	stops int,
	airline, airlineName, aircraftType, flightNumber, bookingURL string,
) (Flight, error) {
	if id == "" {
		return Flight{}, NewValidationError("id", id, "flight id must not be empty")
	}
	if origin.Equal(destination) {
		return Flight{}, NewValidationError("destination", destination.Code, "destination must differ from origin")
	}
	if !arrivalTime.After(departureTime) {
		return Flight{}, NewValidationError("arrival_time", arrivalTime, "arrival time must be after departure time")
	}
	duration := arrivalTime.Sub(departureTime)
	if duration >= 24*time.Hour {
		return Flight{}, NewValidationError("arrival_time", arrivalTime, "duration of 24h or more likely indicates a multi-segment journey")
	}
	if stops < 0 || stops > 5 {
		return Flight{}, NewValidationError("stops", stops, "stops must be between 0 and 5")
	}
	airline = strings.ToUpper(strings.TrimSpace(airline))
	if len(airline) < 2 || len(airline) > 3 || !isAlnum(airline) {
		return Flight{}, NewValidationError("airline", airline, "airline code must be 2-3 alphanumeric characters")
	}

	return Flight{
		ID:            id,
		Origin:        origin,
		Destination:   destination,
		DepartureTime: departureTime,
		ArrivalTime:   arrivalTime,
		Price:         price,
		CabinClass:    cabinClass,
		Stops:         stops,
		Airline:       airline,
		AirlineName:   airlineName,
		AircraftType:  aircraftType,
		FlightNumber:  flightNumber,
		BookingURL:    bookingURL,
	}, nil
}

// DurationMinutes is arrival - departure in whole minutes.
func (f Flight) DurationMinutes() int {
	return int(f.ArrivalTime.Sub(f.DepartureTime).Minutes())
}

// DurationHours is the duration expressed in fractional hours.
func (f Flight) DurationHours() float64 {
	return f.ArrivalTime.Sub(f.DepartureTime).Hours()
}

// IsNonStop reports stops == 0.
func (f Flight) IsNonStop() bool { return f.Stops == 0 }

// IsDirect is an alias for IsNonStop, matching common caller phrasing.
func (f Flight) IsDirect() bool { return f.IsNonStop() }

// Equal compares two flights by ID only.
func (f Flight) Equal(other Flight) bool {
	return f.ID == other.ID
}
