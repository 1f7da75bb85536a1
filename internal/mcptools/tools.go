// Package mcptools exposes the search and cache-management use cases
// as MCP tools over stdio, following the same request-argument-map /
// mcp.NewToolResult convention used across the example MCP servers in
// this ecosystem.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"flight-aggregator/internal/common"
	"flight-aggregator/internal/domain"
	"flight-aggregator/internal/money"
	"flight-aggregator/internal/usecase"
)

const dateLayout = "2006-01-02"

// Register wires every tool this server exposes onto s.
func Register(s *server.MCPServer, search *usecase.SearchFlightsUseCase, cacheMgmt *usecase.ManageCacheUseCase, logger *zap.Logger) {
	registerSearchFlights(s, search, logger)
	registerCacheStats(s, cacheMgmt)
	registerClearCache(s, cacheMgmt, logger)
}

func registerSearchFlights(s *server.MCPServer, search *usecase.SearchFlightsUseCase, logger *zap.Logger) {
	tool := mcp.NewTool("search_flights",
		mcp.WithDescription("Search for flights across every configured provider and return a merged, deduplicated, price-sorted list"),
		mcp.WithString("origin", mcp.Description("Origin airport IATA code (e.g., SFO)"), mcp.Required()),
		mcp.WithString("destination", mcp.Description("Destination airport IATA code (e.g., JFK)"), mcp.Required()),
		mcp.WithString("departure_date", mcp.Description("Departure date (YYYY-MM-DD)"), mcp.Required()),
		mcp.WithString("return_date", mcp.Description("Return date (YYYY-MM-DD) for round trips")),
		mcp.WithNumber("adults", mcp.Description("Number of adult passengers (default 1)")),
		mcp.WithNumber("children", mcp.Description("Number of child passengers (default 0)")),
		mcp.WithNumber("infants", mcp.Description("Number of infant passengers (default 0)")),
		mcp.WithString("cabin_class", mcp.Description("economy, premium-economy, business, or first (default economy)")),
		mcp.WithNumber("max_stops", mcp.Description("Maximum stops allowed, 0-5")),
		mcp.WithBoolean("non_stop_only", mcp.Description("Restrict to direct flights only")),
		mcp.WithBoolean("flexible_dates", mcp.Description("Search a window around the given dates")),
		mcp.WithNumber("date_flexibility_days", mcp.Description("Window size in days (1-7) when flexible_dates is set")),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		requestID := uuid.New().String()
		ctx = common.WithRequestID(ctx, requestID)
		requestLogger := logger.With(zap.String("request_id", requestID))

		argsMap, ok := request.Params.Arguments.(map[string]any)
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		criteria, err := parseSearchCriteria(argsMap)
		if err != nil {
			requestLogger.Warn("search_flights_invalid_arguments", zap.Error(err))
			return mcp.NewToolResultError(formatError(err)), nil
		}

		requestLogger.Info("search_flights_invoked", zap.String("origin", criteria.Origin.Code), zap.String("destination", criteria.Destination.Code))

		outcome, err := search.Execute(ctx, criteria)
		if err != nil {
			return mcp.NewToolResultError(formatError(err)), nil
		}

		resp := map[string]any{
			"flights":          toFlightDTOs(outcome.Flights),
			"result_count":     outcome.ResultCount,
			"providers_used":   outcome.ProvidersUsed,
			"providers_failed": outcome.ProvidersFailed,
			"elapsed_seconds":  outcome.ElapsedSeconds,
			"cache_hit":        outcome.CacheHit,
		}
		if priceSummary, ok := formattedPriceRange(outcome.Flights); ok {
			resp["price_range"] = priceSummary
		}
		jsonBytes, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error marshaling response: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func registerCacheStats(s *server.MCPServer, cacheMgmt *usecase.ManageCacheUseCase) {
	tool := mcp.NewTool("get_cache_stats",
		mcp.WithDescription("Report cache size, capacity, and hit/miss counters"),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := cacheMgmt.Stats()
		if err != nil {
			return mcp.NewToolResultError(formatError(err)), nil
		}
		jsonBytes, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error marshaling response: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func registerClearCache(s *server.MCPServer, cacheMgmt *usecase.ManageCacheUseCase, logger *zap.Logger) {
	tool := mcp.NewTool("clear_cache",
		mcp.WithDescription("Evict every cached search result"),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		removed, err := cacheMgmt.Clear()
		if err != nil {
			return mcp.NewToolResultError(formatError(err)), nil
		}
		resp := map[string]any{"entries_removed": removed}
		jsonBytes, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error marshaling response: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// flightDTO is the wire shape for a single flight in a tool response:
// price as a fixed-point string (never a float, to avoid rounding
// surprises across the JSON boundary) and times as RFC3339.
type flightDTO struct {
	ID           string `json:"id"`
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	DepartureAt  string `json:"departure_time"`
	ArrivalAt    string `json:"arrival_time"`
	Price        string `json:"price"`
	Currency     string `json:"currency"`
	CabinClass   string `json:"cabin_class"`
	Stops        int    `json:"stops"`
	Airline      string `json:"airline"`
	AirlineName  string `json:"airline_name"`
	FlightNumber string `json:"flight_number"`
	BookingURL   string `json:"booking_url,omitempty"`
}

func toFlightDTOs(flights []domain.Flight) []flightDTO {
	out := make([]flightDTO, 0, len(flights))
	for _, f := range flights {
		out = append(out, flightDTO{
			ID:           f.ID,
			Origin:       f.Origin.Code,
			Destination:  f.Destination.Code,
			DepartureAt:  f.DepartureTime.Format(time.RFC3339),
			ArrivalAt:    f.ArrivalTime.Format(time.RFC3339),
			Price:        f.Price.Amount.String(),
			Currency:     f.Price.Currency,
			CabinClass:   string(f.CabinClass.ClassType),
			Stops:        f.Stops,
			Airline:      f.Airline,
			AirlineName:  f.AirlineName,
			FlightNumber: f.FlightNumber,
			BookingURL:   f.BookingURL,
		})
	}
	return out
}

// formattedPriceRange renders the min/max of flights (all sharing the
// same currency, since the aggregator only ever produces same-currency
// flight sets) as a human-readable string, or ("", false) when flights
// is empty.
func formattedPriceRange(flights []domain.Flight) (string, bool) {
	if len(flights) == 0 {
		return "", false
	}
	min, max := flights[0].Price, flights[0].Price
	for _, f := range flights[1:] {
		if less, err := f.Price.LessThan(min); err == nil && less {
			min = f.Price
		}
		if less, err := max.LessThan(f.Price); err == nil && less {
			max = f.Price
		}
	}
	return money.FormatRange(money.Range{Min: min.Amount, Max: max.Amount, Currency: min.Currency}), true
}
