package mcptools

import (
	"errors"
	"fmt"
	"time"

	"flight-aggregator/internal/domain"
)

// parseSearchCriteria converts a raw MCP argument map into a validated
// domain.SearchCriteria, applying the same defaults (adults=1,
// cabin_class=economy) the teacher's tool handlers apply for optional
// fields.
func parseSearchCriteria(args map[string]any) (domain.SearchCriteria, error) {
	originCode, _ := args["origin"].(string)
	destCode, _ := args["destination"].(string)
	origin, err := domain.NewAirport(originCode, "", "", "")
	if err != nil {
		return domain.SearchCriteria{}, err
	}
	destination, err := domain.NewAirport(destCode, "", "", "")
	if err != nil {
		return domain.SearchCriteria{}, err
	}

	departureDateStr, _ := args["departure_date"].(string)
	departureDate, err := time.Parse(dateLayout, departureDateStr)
	if err != nil {
		return domain.SearchCriteria{}, fmt.Errorf("invalid departure_date: %w", err)
	}

	var returnDate *time.Time
	if returnDateStr, _ := args["return_date"].(string); returnDateStr != "" {
		parsed, err := time.Parse(dateLayout, returnDateStr)
		if err != nil {
			return domain.SearchCriteria{}, fmt.Errorf("invalid return_date: %w", err)
		}
		returnDate = &parsed
	}

	adults := intOrDefault(args, "adults", 1)
	children := intOrDefault(args, "children", 0)
	infants := intOrDefault(args, "infants", 0)
	passengers, err := domain.NewPassengerConfig(adults, children, infants)
	if err != nil {
		return domain.SearchCriteria{}, err
	}

	cabinAlias, _ := args["cabin_class"].(string)
	if cabinAlias == "" {
		cabinAlias = "economy"
	}
	cabinClass, err := domain.NewCabinClass(domain.ParseCabinClassAlias(cabinAlias))
	if err != nil {
		return domain.SearchCriteria{}, err
	}

	var maxStops *int
	if raw, ok := args["max_stops"].(float64); ok {
		v := int(raw)
		maxStops = &v
	}
	nonStopOnly, _ := args["non_stop_only"].(bool)
	flexibleDates, _ := args["flexible_dates"].(bool)
	flexibilityDays := intOrDefault(args, "date_flexibility_days", 3)

	return domain.NewSearchCriteria(domain.SearchCriteriaInput{
		Origin:              origin,
		Destination:         destination,
		DepartureDate:       departureDate,
		ReturnDate:          returnDate,
		Passengers:          passengers,
		CabinClass:          cabinClass,
		MaxStops:            maxStops,
		NonStopOnly:         nonStopOnly,
		FlexibleDates:       flexibleDates,
		DateFlexibilityDays: flexibilityDays,
		Today:               time.Now(),
	})
}

func intOrDefault(args map[string]any, key string, def int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return def
}

// formatError renders an error for the MCP text response, dispatching
// on the CodedError taxonomy so callers get the field/provider/
// operation context instead of a bare Go error string.
func formatError(err error) string {
	var coded domain.CodedError
	if errors.As(err, &coded) {
		return fmt.Sprintf("%s: %s (%v)", coded.Code(), err.Error(), coded.Context())
	}
	return err.Error()
}
