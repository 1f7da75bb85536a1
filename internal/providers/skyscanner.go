package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"flight-aggregator/internal/domain"
	"flight-aggregator/internal/httpclient"
	"flight-aggregator/internal/ratelimit"
)

const (
	skyscannerBaseURL        = "https://partners.api.skyscanner.net"
	skyscannerSessionPath    = "/apiservices/v3/flights/live/search/create"
	skyscannerPollPathFormat = "/apiservices/v3/flights/live/search/poll/%s"

	skyscannerMaxPollAttempts    = 10
	skyscannerPollInterval       = 2 * time.Second
	skyscannerStatusComplete     = "RESULT_STATUS_COMPLETE"
	skyscannerStatusInProgress   = "RESULT_STATUS_INCOMPLETE"
	skyscannerStatusFailed       = "RESULT_STATUS_FAILED"
)

// SkyscannerAdapter implements the two-phase poll protocol shape: create
// a search session, then poll until the status is COMPLETE.
type SkyscannerAdapter struct {
	*baseProvider
	apiKey string
	http   *httpclient.Client
}

// NewSkyscannerAdapter builds the skyscanner provider.
func NewSkyscannerAdapter(apiKey string, http *httpclient.Client, limiter *ratelimit.Limiter, logger *zap.Logger) *SkyscannerAdapter {
	a := &SkyscannerAdapter{apiKey: apiKey, http: http}
	a.baseProvider = newBaseProvider("skyscanner", limiter, logger, a.performSearch)
	return a
}

type skyscannerSessionResponse struct {
	SessionToken string `json:"sessionToken"`
	Status       string `json:"status"`
}

func (a *SkyscannerAdapter) performSearch(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Flight, error) {
	session, err := a.createSession(ctx, criteria)
	if err != nil {
		return nil, err
	}

	data, err := a.pollResults(ctx, session.SessionToken)
	if err != nil {
		return nil, err
	}

	flights, err := a.mapResponse(data, criteria.CabinClass)
	if err != nil {
		return nil, err
	}

	return applyStopsFilterAndSort(flights, criteria), nil
}

func (a *SkyscannerAdapter) createSession(ctx context.Context, criteria domain.SearchCriteria) (*skyscannerSessionResponse, error) {
	payload := a.buildSessionPayload(criteria)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{"X-API-Key": a.apiKey}
	resp, err := a.http.PostJSON(ctx, skyscannerBaseURL+skyscannerSessionPath, bytes.NewReader(body), headers)
	raw, err := readOrClassify(ctx, resp, err)
	if err != nil {
		return nil, err
	}

	var session skyscannerSessionResponse
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (a *SkyscannerAdapter) pollResults(ctx context.Context, sessionToken string) (map[string]any, error) {
	url := skyscannerBaseURL + fmt.Sprintf(skyscannerPollPathFormat, sessionToken)
	headers := map[string]string{"X-API-Key": a.apiKey}

	for attempt := 0; attempt < skyscannerMaxPollAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(skyscannerPollInterval):
			}
		}

		resp, err := a.http.Get(ctx, url, nil, headers)
		raw, err := readOrClassify(ctx, resp, err)
		if err != nil {
			return nil, err
		}

		var data map[string]any
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}

		status, _ := data["status"].(string)
		switch status {
		case skyscannerStatusComplete:
			return data, nil
		case skyscannerStatusFailed:
			// per SPEC_FULL.md §13 open-question decision: STATUS_FAILED
			// is an explicit ProviderError, not the generic unknown-status branch
			return nil, domain.NewProviderError(a.name, "skyscanner reported search failure", nil)
		case skyscannerStatusInProgress, "":
			continue
		default:
			return nil, domain.NewProviderError(a.name, "unexpected poll status: "+status, nil)
		}
	}

	return nil, domain.NewTimeoutError(a.name, float64(skyscannerMaxPollAttempts)*skyscannerPollInterval.Seconds())
}

func (a *SkyscannerAdapter) buildSessionPayload(criteria domain.SearchCriteria) map[string]any {
	queryLegs := []map[string]any{
		{
			"originPlaceId":      map[string]string{"iata": criteria.Origin.Code},
			"destinationPlaceId": map[string]string{"iata": criteria.Destination.Code},
			"date": map[string]int{
				"year":  criteria.DepartureDate.Year(),
				"month": int(criteria.DepartureDate.Month()),
				"day":   criteria.DepartureDate.Day(),
			},
		},
	}

	if criteria.IsRoundTrip() {
		queryLegs = append(queryLegs, map[string]any{
			"originPlaceId":      map[string]string{"iata": criteria.Destination.Code},
			"destinationPlaceId": map[string]string{"iata": criteria.Origin.Code},
			"date": map[string]int{
				"year":  criteria.ReturnDate.Year(),
				"month": int(criteria.ReturnDate.Month()),
				"day":   criteria.ReturnDate.Day(),
			},
		})
	}

	return map[string]any{
		"query": map[string]any{
			"market":        "US",
			"locale":        "en-US",
			"currency":      "USD",
			"queryLegs":     queryLegs,
			"adults":        criteria.Passengers.Adults,
			"childrenAges":  repeatInt(8, criteria.Passengers.Children),
			"cabinClass":    mapSkyscannerCabinClass(criteria.CabinClass),
		},
	}
}

func mapSkyscannerCabinClass(c domain.CabinClass) string {
	switch c.ClassType {
	case domain.CabinPremiumEconomy:
		return "CABIN_CLASS_PREMIUM_ECONOMY"
	case domain.CabinBusiness:
		return "CABIN_CLASS_BUSINESS"
	case domain.CabinFirst:
		return "CABIN_CLASS_FIRST"
	default:
		return "CABIN_CLASS_ECONOMY"
	}
}

func repeatInt(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func (a *SkyscannerAdapter) mapResponse(data map[string]any, cabinClass domain.CabinClass) ([]domain.Flight, error) {
	content, _ := data["content"].(map[string]any)
	results, _ := content["results"].(map[string]any)
	itinerariesRaw, _ := results["itineraries"].(map[string]any)

	flights := make([]domain.Flight, 0, len(itinerariesRaw))
	for id, itinRaw := range itinerariesRaw {
		itin, ok := itinRaw.(map[string]any)
		if !ok {
			continue
		}
		flight, err := a.mapItinerary(id, itin, results, cabinClass)
		if err != nil {
			a.logger.Warn("failed_to_map_itinerary", zap.String("itinerary_id", id), zap.Error(err))
			continue
		}
		flights = append(flights, flight)
	}
	return flights, nil
}

func (a *SkyscannerAdapter) mapItinerary(id string, itin map[string]any, results map[string]any, cabinClass domain.CabinClass) (domain.Flight, error) {
	pricingOptions, _ := itin["pricingOptions"].([]any)
	if len(pricingOptions) == 0 {
		return domain.Flight{}, fmt.Errorf("no pricing options")
	}
	firstOption, _ := pricingOptions[0].(map[string]any)
	priceInfo, _ := firstOption["price"].(map[string]any)
	amountRaw, _ := priceInfo["amount"].(string)
	if amountRaw == "" {
		return domain.Flight{}, fmt.Errorf("no price amount")
	}

	amount, err := normalizePrice(amountRaw)
	if err != nil {
		return domain.Flight{}, err
	}
	price, err := domain.NewPrice(amount, "USD")
	if err != nil {
		return domain.Flight{}, err
	}

	legIDs, _ := itin["legIds"].([]any)
	if len(legIDs) == 0 {
		return domain.Flight{}, fmt.Errorf("no legs")
	}
	legsRaw, _ := results["legs"].(map[string]any)
	legID, _ := legIDs[0].(string)
	leg, _ := legsRaw[legID].(map[string]any)
	if leg == nil {
		return domain.Flight{}, fmt.Errorf("leg not found: %s", legID)
	}

	originCode, _ := leg["originPlaceId"].(string)
	destCode, _ := leg["destinationPlaceId"].(string)
	depRaw, _ := leg["departureDateTime"].(string)
	arrRaw, _ := leg["arrivalDateTime"].(string)
	segments, _ := leg["segmentIds"].([]any)
	stopsRaw, _ := leg["stopCount"].(float64)

	origin, err := domain.NewAirport(normalizeAirportCode(originCode), "", "", "")
	if err != nil {
		return domain.Flight{}, err
	}
	destination, err := domain.NewAirport(normalizeAirportCode(destCode), "", "", "")
	if err != nil {
		return domain.Flight{}, err
	}

	departure, err := parseBackendTimestamp(depRaw)
	if err != nil {
		return domain.Flight{}, err
	}
	arrival, err := parseBackendTimestamp(arrRaw)
	if err != nil {
		return domain.Flight{}, err
	}

	carriersRaw, _ := leg["carriers"].(map[string]any)
	marketing, _ := carriersRaw["marketing"].([]any)
	var airlineCode, airlineName string
	if len(marketing) > 0 {
		carrier, _ := marketing[0].(map[string]any)
		airlineCode, _ = carrier["code"].(string)
		airlineName, _ = carrier["name"].(string)
	}

	// per SPEC_FULL.md §13 open-question decision: this back-end reports
	// per-leg stopCount already inclusive of intermediate segments, so
	// the leg's own stopCount is the stops value (no segment-count add-on)
	_ = segments
	stops := int(stopsRaw)

	flight, err := domain.NewFlight(
		fmt.Sprintf("skyscanner_%s", id),
		origin, destination,
		departure, arrival,
		price, cabinClass,
		stops,
		deriveAirlineCode(airlineCode, "", airlineName),
		airlineName, "", "", "",
	)
	if err != nil {
		return domain.Flight{}, err
	}
	return flight, nil
}

