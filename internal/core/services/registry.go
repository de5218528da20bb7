package services

import (
	"fmt"

	"github.com/paritel/osm-search/internal/core/domain"
	"github.com/paritel/osm-search/internal/core/ports/driven"
)

// Ensure SourceRegistry implements the interface.
var _ driven.SourceRegistry = (*SourceRegistry)(nil)

// SourceRegistry holds the configured source queriers, one per result
// type, and resolves the active set for a search.
type SourceRegistry struct {
	queriers map[domain.ResultType]driven.SourceQuerier
	order    []domain.ResultType
}

// NewSourceRegistry creates a registry over the given queriers.
// A nil querier is skipped so callers can wire an optional source
// (e.g., the local library mirror) without branching.
func NewSourceRegistry(queriers ...driven.SourceQuerier) *SourceRegistry {
	r := &SourceRegistry{
		queriers: make(map[domain.ResultType]driven.SourceQuerier),
	}
	for _, q := range queriers {
		if q == nil {
			continue
		}
		if _, exists := r.queriers[q.Type()]; !exists {
			r.order = append(r.order, q.Type())
		}
		r.queriers[q.Type()] = q
	}
	return r
}

// Querier returns the querier for a single type.
func (r *SourceRegistry) Querier(t domain.ResultType) (driven.SourceQuerier, error) {
	q, ok := r.queriers[t]
	if !ok {
		return nil, fmt.Errorf("%w: no source for %q", domain.ErrUnsupportedType, t)
	}
	return q, nil
}

// Resolve returns the queriers for the given filter in registration
// order. An empty filter resolves to every registered querier; types
// with no registered querier are ignored, matching the contract that a
// missing source contributes nothing rather than failing the search.
func (r *SourceRegistry) Resolve(types []domain.ResultType) []driven.SourceQuerier {
	if len(types) == 0 {
		active := make([]driven.SourceQuerier, 0, len(r.order))
		for _, t := range r.order {
			active = append(active, r.queriers[t])
		}
		return active
	}

	wanted := make(map[domain.ResultType]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	var active []driven.SourceQuerier
	for _, t := range r.order {
		if wanted[t] {
			active = append(active, r.queriers[t])
		}
	}
	return active
}
