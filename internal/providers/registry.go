package providers

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// registration pairs a Provider with the static priority used to order
// aggregator fan-out and enablement state, both mutable at runtime via
// Enable/Disable (spec §5's "operators can toggle a back-end without a
// restart").
type registration struct {
	provider Provider
	priority int
	enabled  bool
	weight   float64
}

// Registry is a name-keyed, concurrency-safe collection of providers.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*registration
	order  []string // insertion order, for deterministic iteration
	logger *zap.Logger
}

// NewRegistry builds an empty Registry, logging duplicate-registration
// warnings through logger.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{byName: make(map[string]*registration), logger: logger}
}

// Register adds the provider under its own Name(), enabled by default,
// at the given priority (higher runs first when the aggregator ranks
// by priority) and weight (spec §3.4's per-provider blend factor,
// carried on the registration record; nothing currently consumes it).
// The first registration of a name wins: a duplicate Register call is
// logged and ignored, matching the reference registry's
// "provider_already_registered" warning rather than silently replacing
// the existing entry.
func (r *Registry) Register(p Provider, priority int, weight float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.byName[name]; exists {
		r.logger.Warn("provider_already_registered", zap.String("provider", name))
		return
	}
	r.order = append(r.order, name)
	r.byName[name] = &registration{provider: p, priority: priority, enabled: true, weight: weight}
}

// Get returns the provider registered under name, or (nil, false).
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return reg.provider, true
}

// All returns every registered provider in registration order.
func (r *Registry) All() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Provider, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name].provider)
	}
	return out
}

// Enabled returns the enabled providers ordered by descending priority,
// ties broken by registration order. Passing top > 0 truncates the
// result to the top N.
func (r *Registry) Enabled(top int) []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	regs := make([]*registration, 0, len(r.order))
	for _, name := range r.order {
		reg := r.byName[name]
		if reg.enabled {
			regs = append(regs, reg)
		}
	}
	sort.SliceStable(regs, func(i, j int) bool {
		return regs[i].priority > regs[j].priority
	})

	if top > 0 && top < len(regs) {
		regs = regs[:top]
	}

	out := make([]Provider, 0, len(regs))
	for _, reg := range regs {
		out = append(out, reg.provider)
	}
	return out
}

// Enable flips the enabled flag for name, reporting whether name was
// registered.
func (r *Registry) Enable(name string) bool {
	return r.setEnabled(name, true)
}

// Disable flips the enabled flag for name, reporting whether name was
// registered.
func (r *Registry) Disable(name string) bool {
	return r.setEnabled(name, false)
}

func (r *Registry) setEnabled(name string, enabled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.byName[name]
	if !ok {
		return false
	}
	reg.enabled = enabled
	return true
}

// Status is a point-in-time snapshot of one registered provider's
// runtime state.
type Status struct {
	Name      string
	Priority  int
	Enabled   bool
	Available bool
	Weight    float64
}

// StatusSnapshot reports Status for every registered provider, in
// registration order.
func (r *Registry) StatusSnapshot() []Status {
	r.mu.RLock()
	regs := make([]*registration, 0, len(r.order))
	names := make([]string, len(r.order))
	copy(names, r.order)
	for _, name := range names {
		regs = append(regs, r.byName[name])
	}
	r.mu.RUnlock()

	out := make([]Status, 0, len(regs))
	for _, reg := range regs {
		out = append(out, Status{
			Name:      reg.provider.Name(),
			Priority:  reg.priority,
			Enabled:   reg.enabled,
			Available: reg.provider.IsAvailable(),
			Weight:    reg.weight,
		})
	}
	return out
}
