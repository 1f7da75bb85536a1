// Package providers implements the provider abstraction (spec §4.5),
// the cache wrapper (§4.7), the registry/factory (§4.9), and the four
// concrete back-end adapters (§4.6).
package providers

import (
	"context"

	"flight-aggregator/internal/common"
	"flight-aggregator/internal/domain"
)

// Provider is the explicit capability every back-end adapter, the
// cache wrapper, and the aggregator itself all satisfy (spec Design
// Note §9: "duck-typed provider interface → explicit capability set").
type Provider interface {
	Name() string
	Search(ctx context.Context, criteria domain.SearchCriteria) common.Result[[]domain.Flight]
	IsAvailable() bool
}
