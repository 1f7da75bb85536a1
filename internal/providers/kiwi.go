package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"flight-aggregator/internal/domain"
	"flight-aggregator/internal/httpclient"
	"flight-aggregator/internal/ratelimit"
)

const kiwiSearchURL = "https://api.kiwi.com/v2/search"

// KiwiAdapter implements the single-call shape with a polymorphic
// response: one-way itineraries carry a "sector", round-trip ones carry
// "outbound"/"inbound".
type KiwiAdapter struct {
	*baseProvider
	apiKey string
	http   *httpclient.Client
}

// NewKiwiAdapter builds the kiwi provider.
func NewKiwiAdapter(apiKey string, http *httpclient.Client, limiter *ratelimit.Limiter, logger *zap.Logger) *KiwiAdapter {
	a := &KiwiAdapter{apiKey: apiKey, http: http}
	a.baseProvider = newBaseProvider("kiwi", limiter, logger, a.performSearch)
	return a
}

func (a *KiwiAdapter) performSearch(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Flight, error) {
	params := a.buildQueryParams(criteria)
	headers := map[string]string{"apikey": a.apiKey}

	resp, err := a.http.Get(ctx, kiwiSearchURL, params, headers)
	raw, err := readOrClassify(ctx, resp, err)
	if err != nil {
		return nil, err
	}

	var apiData map[string]any
	if err := json.Unmarshal(raw, &apiData); err != nil {
		return nil, err
	}

	flights := a.mapAPIResponse(apiData, criteria.CabinClass)
	return applyStopsFilterAndSort(flights, criteria), nil
}

func (a *KiwiAdapter) buildQueryParams(criteria domain.SearchCriteria) url.Values {
	params := url.Values{}
	params.Set("fly_from", criteria.Origin.Code)
	params.Set("fly_to", criteria.Destination.Code)
	params.Set("date_from", criteria.DepartureDate.Format("02/01/2006"))
	params.Set("date_to", criteria.DepartureDate.Format("02/01/2006"))
	if criteria.IsRoundTrip() {
		params.Set("return_from", criteria.ReturnDate.Format("02/01/2006"))
		params.Set("return_to", criteria.ReturnDate.Format("02/01/2006"))
	}
	params.Set("adults", strconv.Itoa(criteria.Passengers.Adults))
	params.Set("children", strconv.Itoa(criteria.Passengers.Children))
	params.Set("infants", strconv.Itoa(criteria.Passengers.Infants))
	params.Set("selected_cabins", mapKiwiCabinClass(criteria.CabinClass))
	return params
}

func mapKiwiCabinClass(c domain.CabinClass) string {
	switch c.ClassType {
	case domain.CabinPremiumEconomy:
		return "W"
	case domain.CabinBusiness:
		return "C"
	case domain.CabinFirst:
		return "F"
	default:
		return "M"
	}
}

func (a *KiwiAdapter) mapAPIResponse(apiData map[string]any, cabinClass domain.CabinClass) []domain.Flight {
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

func (a *KiwiAdapter) mapItinerary(itinerary map[string]any, cabinClass domain.CabinClass) (domain.Flight, error) {
	itineraryID, _ := itinerary["id"].(string)
	typeName, _ := itinerary["__typename"].(string)

	priceData, _ := itinerary["price"].(map[string]any)
	rawAmount := priceData["amount"]
	if rawAmount == nil {
		return domain.Flight{}, fmt.Errorf("no price amount")
	}
	amount, err := normalizePrice(fmt.Sprintf("%v", rawAmount))
	if err != nil {
		return domain.Flight{}, err
	}
	price, err := domain.NewPrice(amount, "USD")
	if err != nil {
		return domain.Flight{}, err
	}

	var sectorSegments []any
	if typeName == "ItineraryReturn" {
		outbound, _ := itinerary["outbound"].(map[string]any)
		sectorSegments, _ = outbound["sectorSegments"].([]any)
	} else {
		sector, _ := itinerary["sector"].(map[string]any)
		sectorSegments, _ = sector["sectorSegments"].([]any)
	}
	if len(sectorSegments) == 0 {
		return domain.Flight{}, fmt.Errorf("no sector segments")
	}

	firstSegment, _ := sectorSegments[0].(map[string]any)
	lastSegment, _ := sectorSegments[len(sectorSegments)-1].(map[string]any)
	firstSegmentData, _ := firstSegment["segment"].(map[string]any)
	lastSegmentData, _ := lastSegment["segment"].(map[string]any)

	source, _ := firstSegmentData["source"].(map[string]any)
	destination, _ := lastSegmentData["destination"].(map[string]any)

	originAirport, err := a.extractAirport(source)
	if err != nil {
		return domain.Flight{}, err
	}
	destinationAirport, err := a.extractAirport(destination)
	if err != nil {
		return domain.Flight{}, err
	}

	departureTime := a.parseTimestamp(source)
	arrivalTime := a.parseTimestamp(destination)

	carrier, _ := firstSegmentData["carrier"].(map[string]any)
	airlineCode, _ := carrier["code"].(string)
	airlineName, _ := carrier["name"].(string)
	flightNumber, _ := firstSegmentData["code"].(string)

	// per SPEC_FULL.md §13 open-question decision: kiwi's own stops
	// semantics are "one fewer than the number of sector segments" (this
	// back-end does not separately report per-segment layovers), matching
	// original_source's len(sector_segments) - 1 rule exactly.
	stops := len(sectorSegments) - 1

	bookingURL := a.extractBookingURL(itinerary)

	return domain.NewFlight(
		fmt.Sprintf("kiwi_%s", itineraryID),
		originAirport, destinationAirport,
		departureTime, arrivalTime,
		price, cabinClass,
		stops,
		deriveAirlineCode(airlineCode, flightNumber, airlineName),
		airlineName, "", flightNumber, bookingURL,
	)
}

func (a *KiwiAdapter) extractAirport(location map[string]any) (domain.Airport, error) {
	station, _ := location["station"].(map[string]any)
	code, _ := station["code"].(string)
	name, _ := station["name"].(string)
	cityData, _ := station["city"].(map[string]any)
	city, _ := cityData["name"].(string)
	if name == "" {
		name = "Unknown"
	}
	if city == "" {
		city = "Unknown"
	}
	return domain.NewAirport(normalizeAirportCode(code), name, city, "")
}

func (a *KiwiAdapter) parseTimestamp(location map[string]any) time.Time {
	if utcTime, ok := location["utcTimeIso"].(string); ok && utcTime != "" {
		if t, err := parseBackendTimestamp(strings.Replace(utcTime, "Z", "+00:00", 1)); err == nil {
			return t
		}
	}
	if localTime, ok := location["localTime"].(string); ok && localTime != "" {
		if t, err := parseBackendTimestamp(localTime); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

func (a *KiwiAdapter) extractBookingURL(itinerary map[string]any) string {
	bookingOptions, _ := itinerary["bookingOptions"].(map[string]any)
	edges, _ := bookingOptions["edges"].([]any)
	if len(edges) == 0 {
		return ""
	}
	first, _ := edges[0].(map[string]any)
	node, _ := first["node"].(map[string]any)
	url, _ := node["bookingUrl"].(string)
	return url
}
