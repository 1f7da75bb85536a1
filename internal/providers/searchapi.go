package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"flight-aggregator/internal/domain"
	"flight-aggregator/internal/httpclient"
	"flight-aggregator/internal/ratelimit"
)

const searchAPIURL = "https://www.searchapi.io/api/v1/search"

// SearchAPIAdapter implements the single-call shape against the
// SearchAPI Google Flights engine, whose itineraries report departure
// times as 12-hour strings with an optional "+N day" offset.
type SearchAPIAdapter struct {
	*baseProvider
	apiKey string
	http   *httpclient.Client
}

// NewSearchAPIAdapter builds the searchapi (google_flights) provider.
func NewSearchAPIAdapter(apiKey string, http *httpclient.Client, limiter *ratelimit.Limiter, logger *zap.Logger) *SearchAPIAdapter {
	a := &SearchAPIAdapter{apiKey: apiKey, http: http}
	a.baseProvider = newBaseProvider("searchapi", limiter, logger, a.performSearch)
	return a
}

func (a *SearchAPIAdapter) performSearch(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Flight, error) {
	params := a.buildQueryParams(criteria)
	headers := map[string]string{"Authorization": "Bearer " + a.apiKey}

	resp, err := a.http.Get(ctx, searchAPIURL, params, headers)
	raw, err := readOrClassify(ctx, resp, err)
	if err != nil {
		return nil, err
	}

	var apiData map[string]any
	if err := json.Unmarshal(raw, &apiData); err != nil {
		return nil, err
	}

	flights := a.mapResponse(apiData, criteria)
	return applyStopsFilterAndSort(flights, criteria), nil
}

func (a *SearchAPIAdapter) buildQueryParams(criteria domain.SearchCriteria) url.Values {
	params := url.Values{}
	params.Set("engine", "google_flights")
	params.Set("departure_id", criteria.Origin.Code)
	params.Set("arrival_id", criteria.Destination.Code)
	params.Set("outbound_date", criteria.DepartureDate.Format("2006-01-02"))
	if criteria.IsRoundTrip() {
		params.Set("return_date", criteria.ReturnDate.Format("2006-01-02"))
		params.Set("flight_type", "round_trip")
	} else {
		params.Set("flight_type", "one_way")
	}
	params.Set("adults", strconv.Itoa(criteria.Passengers.Adults))
	params.Set("children", strconv.Itoa(criteria.Passengers.Children))
	params.Set("infants_in_seat", strconv.Itoa(criteria.Passengers.Infants))
	params.Set("travel_class", mapSearchAPICabinClass(criteria.CabinClass))
	return params
}

func mapSearchAPICabinClass(c domain.CabinClass) string {
	switch c.ClassType {
	case domain.CabinPremiumEconomy:
		return "2"
	case domain.CabinBusiness:
		return "3"
	case domain.CabinFirst:
		return "4"
	default:
		return "1"
	}
}

func (a *SearchAPIAdapter) mapResponse(apiData map[string]any, criteria domain.SearchCriteria) []domain.Flight {
	bestFlights, _ := apiData["best_flights"].([]any)
	otherFlights, _ := apiData["other_flights"].([]any)
	allOptions := append(append([]any{}, bestFlights...), otherFlights...)

	flights := make([]domain.Flight, 0, len(allOptions))
	for i, raw := range allOptions {
		option, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		flight, err := a.mapFlightOption(i, option, criteria.CabinClass, criteria.DepartureDate)
		if err != nil {
			a.logger.Warn("failed_to_map_itinerary", zap.Int("index", i), zap.Error(err))
			continue
		}
		flights = append(flights, flight)
	}
	return flights
}

func (a *SearchAPIAdapter) mapFlightOption(index int, option map[string]any, cabinClass domain.CabinClass, baseDate time.Time) (domain.Flight, error) {
	priceRaw := option["price"]
	if priceRaw == nil {
		return domain.Flight{}, fmt.Errorf("no price")
	}
	amount, err := normalizePrice(fmt.Sprintf("%v", priceRaw))
	if err != nil {
		return domain.Flight{}, err
	}
	price, err := domain.NewPrice(amount, "USD")
	if err != nil {
		return domain.Flight{}, err
	}

	legs, _ := option["flights"].([]any)
	if len(legs) == 0 {
		return domain.Flight{}, fmt.Errorf("no legs")
	}
	firstLeg, _ := legs[0].(map[string]any)
	lastLeg, _ := legs[len(legs)-1].(map[string]any)

	departureAirportData, _ := firstLeg["departure_airport"].(map[string]any)
	arrivalAirportData, _ := lastLeg["arrival_airport"].(map[string]any)

	originCode, _ := departureAirportData["id"].(string)
	destCode, _ := arrivalAirportData["id"].(string)

	origin, err := domain.NewAirport(normalizeAirportCode(originCode), "", "", "")
	if err != nil {
		return domain.Flight{}, err
	}
	destination, err := domain.NewAirport(normalizeAirportCode(destCode), "", "", "")
	if err != nil {
		return domain.Flight{}, err
	}

	departureTimeRaw, _ := departureAirportData["time"].(string)
	departure, err := parseTwelveHourWithOffset(departureTimeRaw, baseDate, nil)
	if err != nil {
		return domain.Flight{}, err
	}

	arrivalTimeRaw, _ := arrivalAirportData["time"].(string)
	arrival, err := parseTwelveHourWithOffset(arrivalTimeRaw, baseDate, &departure)
	if err != nil {
		return domain.Flight{}, err
	}

	airlineName, _ := firstLeg["airline"].(string)
	flightNumber, _ := firstLeg["flight_number"].(string)

	// per SPEC_FULL.md §13 open-question decision: this engine reports
	// per-leg layover counts separately, so the spec's literal
	// "sum(per-segment stops) + (segment_count - 1)" rule applies as
	// written for multi-leg itineraries.
	perLegStops := 0
	for _, l := range legs {
		leg, _ := l.(map[string]any)
		if v, ok := leg["layover_duration_minutes"]; ok && v != nil {
			perLegStops++
		}
	}
	stops := perLegStops
	if len(legs) > 1 {
		stops += len(legs) - 1
	}

	return domain.NewFlight(
		fmt.Sprintf("searchapi_%d", index),
		origin, destination,
		departure, arrival,
		price, cabinClass,
		stops,
		deriveAirlineCode("", flightNumber, airlineName),
		airlineName, "", flightNumber, "",
	)
}
