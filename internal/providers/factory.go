package providers

import (
	"time"

	"go.uber.org/zap"

	"flight-aggregator/internal/aggregator"
	"flight-aggregator/internal/cache"
	"flight-aggregator/internal/httpclient"
	"flight-aggregator/internal/ratelimit"
	"flight-aggregator/pkg/config"
)

// backendDefault carries the rate limit, aggregation priority, and
// registry weight for one back-end, values documented in
// SPEC_FULL.md §12 (skyscanner 1/3s priority 90, searchapi 1/2s
// priority 80, rapidapi 1/3s priority 70, kiwi 1/2s priority 75).
// Weight is part of the registration record spec §3.4 documents but,
// like the reference registry, nothing currently blends on it.
type backendDefault struct {
	rate     int
	per      float64
	priority int
	weight   float64
}

var backendDefaults = map[string]backendDefault{
	"skyscanner": {rate: 1, per: 3, priority: 90, weight: 1.0},
	"searchapi":  {rate: 1, per: 2, priority: 80, weight: 1.0},
	"rapidapi":   {rate: 1, per: 3, priority: 70, weight: 1.0},
	"kiwi":       {rate: 1, per: 2, priority: 75, weight: 1.0},
}

// Factory builds the provider registry and top-level aggregator from
// configuration, holding onto the shared HTTP client and cache so
// Shutdown can release them cleanly.
type Factory struct {
	cfg      config.Config
	logger   *zap.Logger
	http     *httpclient.Client
	cache    *cache.Cache
	registry *Registry
}

// NewFactory wires the shared HTTP client and cache and builds an
// empty registry; call Build to populate it from cfg.ProviderKeys.
func NewFactory(cfg config.Config, logger *zap.Logger) *Factory {
	httpCfg := httpclient.DefaultConfig()
	httpCfg.TimeoutSeconds = cfg.HTTP.TimeoutSeconds
	httpCfg.MaxRetries = cfg.HTTP.MaxRetries

	return &Factory{
		cfg:      cfg,
		logger:   logger,
		http:     httpclient.New(httpCfg, logger),
		cache:    cache.New(cfg.Cache.MaxSize, time.Duration(cfg.Cache.TTLSeconds)*time.Second),
		registry: NewRegistry(logger),
	}
}

// Build constructs and registers one adapter per configured API key,
// each wrapped in the shared cache when caching is enabled, and
// returns the populated registry.
func (f *Factory) Build() *Registry {
	if key := f.cfg.ProviderKeys.SkyscannerAPIKey; key != "" {
		f.register("skyscanner", NewSkyscannerAdapter(key, f.http, f.limiterFor("skyscanner"), f.logger))
	}
	if key := f.cfg.ProviderKeys.SearchAPIKey; key != "" {
		f.register("searchapi", NewSearchAPIAdapter(key, f.http, f.limiterFor("searchapi"), f.logger))
	}
	if key := f.cfg.ProviderKeys.RapidAPIKey; key != "" {
		f.register("rapidapi", NewRapidAPIAdapter(key, f.http, f.limiterFor("rapidapi"), f.logger))
	}
	if key := f.cfg.ProviderKeys.KiwiAPIKey; key != "" {
		f.register("kiwi", NewKiwiAdapter(key, f.http, f.limiterFor("kiwi"), f.logger))
	}
	return f.registry
}

func (f *Factory) limiterFor(name string) *ratelimit.Limiter {
	d := backendDefaults[name]
	return ratelimit.New(d.rate, d.per)
}

func (f *Factory) register(name string, adapter Provider) {
	var p Provider = adapter
	if f.cfg.Cache.Enabled {
		ttl := time.Duration(f.cfg.Cache.TTLSeconds) * time.Second
		p = NewCacheWrapper(adapter, f.cache, ttl, f.logger)
	}
	f.registry.Register(p, backendDefaults[name].priority, backendDefaults[name].weight)
}

// CreateAggregator builds the aggregator over every enabled provider
// in the registry, ordered by descending priority.
func (f *Factory) CreateAggregator() *aggregator.Aggregator {
	enabled := f.registry.Enabled(0)
	members := make([]aggregator.Provider, 0, len(enabled))
	for _, p := range enabled {
		members = append(members, p)
	}
	return aggregator.New(members, f.logger)
}

// Registry exposes the populated registry, e.g. for cache-management
// and status-reporting tools.
func (f *Factory) Registry() *Registry { return f.registry }

// Cache exposes the shared cache for stats/clear tooling.
func (f *Factory) Cache() *cache.Cache { return f.cache }

// Shutdown releases the shared HTTP client's pooled connections.
func (f *Factory) Shutdown() {
	f.http.Close()
}
