package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"flight-aggregator/internal/domain"
	"flight-aggregator/internal/httpclient"
	"flight-aggregator/internal/ratelimit"
)

const rapidAPIURL = "https://skyscanner80.p.rapidapi.com/api/v1/flights/search-one-way"

// RapidAPIAdapter implements the single-call shape against the
// RapidAPI-hosted Skyscanner mirror, whose responses carry structured
// {year,month,day,hour,minute} timestamps rather than ISO strings.
type RapidAPIAdapter struct {
	*baseProvider
	apiKey string
	http   *httpclient.Client
}

// NewRapidAPIAdapter builds the rapidapi_skyscanner provider.
func NewRapidAPIAdapter(apiKey string, http *httpclient.Client, limiter *ratelimit.Limiter, logger *zap.Logger) *RapidAPIAdapter {
	a := &RapidAPIAdapter{apiKey: apiKey, http: http}
	a.baseProvider = newBaseProvider("rapidapi_skyscanner", limiter, logger, a.performSearch)
	return a
}

func (a *RapidAPIAdapter) performSearch(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Flight, error) {
	params := a.buildQueryParams(criteria)
	headers := map[string]string{
		"X-RapidAPI-Key":  a.apiKey,
		"X-RapidAPI-Host": "skyscanner80.p.rapidapi.com",
	}

	resp, err := a.http.Get(ctx, rapidAPIURL, params, headers)
	raw, err := readOrClassify(ctx, resp, err)
	if err != nil {
		return nil, err
	}

	var apiData map[string]any
	if err := json.Unmarshal(raw, &apiData); err != nil {
		return nil, err
	}

	flights := a.mapResponse(apiData, criteria.CabinClass)
	return applyStopsFilterAndSort(flights, criteria), nil
}

func (a *RapidAPIAdapter) buildQueryParams(criteria domain.SearchCriteria) url.Values {
	params := url.Values{}
	params.Set("fromEntityId", criteria.Origin.Code)
	params.Set("toEntityId", criteria.Destination.Code)
	params.Set("departDate", criteria.DepartureDate.Format("2006-01-02"))
	if criteria.IsRoundTrip() {
		params.Set("returnDate", criteria.ReturnDate.Format("2006-01-02"))
	}
	params.Set("adults", strconv.Itoa(criteria.Passengers.Adults))
	params.Set("children", strconv.Itoa(criteria.Passengers.Children))
	params.Set("infants", strconv.Itoa(criteria.Passengers.Infants))
	params.Set("cabinClass", mapRapidAPICabinClass(criteria.CabinClass))
	return params
}

func mapRapidAPICabinClass(c domain.CabinClass) string {
	switch c.ClassType {
	case domain.CabinPremiumEconomy:
		return "premium_economy"
	case domain.CabinBusiness:
		return "business"
	case domain.CabinFirst:
		return "first"
	default:
		return "economy"
	}
}

func (a *RapidAPIAdapter) mapResponse(apiData map[string]any, cabinClass domain.CabinClass) []domain.Flight {
	data, _ := apiData["data"].(map[string]any)
	itinerariesRaw, _ := data["itineraries"].([]any)

	flights := make([]domain.Flight, 0, len(itinerariesRaw))
	for _, raw := range itinerariesRaw {
		itin, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		flight, err := a.mapItinerary(itin, cabinClass)
		if err != nil {
			id, _ := itin["id"].(string)
			a.logger.Warn("failed_to_map_itinerary", zap.String("itinerary_id", id), zap.Error(err))
			continue
		}
		flights = append(flights, flight)
	}
	return flights
}

func (a *RapidAPIAdapter) mapItinerary(itinerary map[string]any, cabinClass domain.CabinClass) (domain.Flight, error) {
	id, _ := itinerary["id"].(string)

	priceData, _ := itinerary["price"].(map[string]any)
	rawAmount := priceData["raw"]
	if rawAmount == nil {
		return domain.Flight{}, fmt.Errorf("no price")
	}
	amount, err := normalizePrice(fmt.Sprintf("%v", rawAmount))
	if err != nil {
		return domain.Flight{}, err
	}
	price, err := domain.NewPrice(amount, "USD")
	if err != nil {
		return domain.Flight{}, err
	}

	legs, _ := itinerary["legs"].([]any)
	if len(legs) == 0 {
		return domain.Flight{}, fmt.Errorf("no legs")
	}
	leg, _ := legs[0].(map[string]any)

	originData, _ := leg["origin"].(map[string]any)
	destData, _ := leg["destination"].(map[string]any)
	originCode, _ := originData["displayCode"].(string)
	destCode, _ := destData["displayCode"].(string)

	origin, err := domain.NewAirport(normalizeAirportCode(originCode), "", "", "")
	if err != nil {
		return domain.Flight{}, err
	}
	destination, err := domain.NewAirport(normalizeAirportCode(destCode), "", "", "")
	if err != nil {
		return domain.Flight{}, err
	}

	departureStruct, _ := leg["departureDateTime"].(map[string]any)
	arrivalStruct, _ := leg["arrivalDateTime"].(map[string]any)

	departure := parseStructuredTimestamp(
		structInt(departureStruct, "year"), structInt(departureStruct, "month"), structInt(departureStruct, "day"),
		structInt(departureStruct, "hour"), structInt(departureStruct, "minute"), structInt(departureStruct, "second"),
	)
	arrival := parseStructuredTimestamp(
		structInt(arrivalStruct, "year"), structInt(arrivalStruct, "month"), structInt(arrivalStruct, "day"),
		structInt(arrivalStruct, "hour"), structInt(arrivalStruct, "minute"), structInt(arrivalStruct, "second"),
	)

	segments, _ := leg["segments"].([]any)
	var firstSegment map[string]any
	if len(segments) > 0 {
		firstSegment, _ = segments[0].(map[string]any)
	}
	var airlineCode, airlineName, flightNumber string
	if firstSegment != nil {
		marketingCarrier, _ := firstSegment["marketingCarrier"].(map[string]any)
		airlineCode, _ = marketingCarrier["alternateId"].(string)
		airlineName, _ = marketingCarrier["name"].(string)
		flightNumber, _ = firstSegment["flightNumber"].(string)
	}

	// per SPEC_FULL.md §13 open-question decision: this mirror reports
	// both a stopCount on the leg and individual segments; the spec's
	// literal double-counting rule is applied verbatim since that is
	// this back-end's documented (if redundant) semantics.
	stopCountRaw, _ := leg["stopCount"].(float64)
	stops := int(stopCountRaw)
	if len(segments) > 1 {
		stops += len(segments) - 1
	}

	return domain.NewFlight(
		fmt.Sprintf("rapidapi_skyscanner_%s", id),
		origin, destination,
		departure, arrival,
		price, cabinClass,
		stops,
		deriveAirlineCode(airlineCode, flightNumber, airlineName),
		airlineName, "", flightNumber, "",
	)
}

func structInt(m map[string]any, key string) int {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
