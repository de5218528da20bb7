package driven

import (
	"context"

	"github.com/paritel/osm-search/internal/core/domain"
)

// SourceQuerier retrieves raw matching rows of one result type from the
// backing store. Implementations match the term as a case-insensitive
// substring across a fixed, type-specific field set (tenders: market
// name, organization, lot number; products: name, reference,
// description; documents: file name).
//
// Queriers are stateless and independent of each other; the aggregator
// may invoke any subset of them concurrently.
type SourceQuerier interface {
	// Type returns the result type this querier serves.
	Type() domain.ResultType

	// Search returns the rows matching term. The term is non-empty and
	// trimmed; the facade guarantees that before fan-out. An error
	// means the backend is unavailable; the aggregator logs it and
	// treats the source as having contributed zero results.
	Search(ctx context.Context, term string) ([]domain.RawRecord, error)
}

// SourceRegistry resolves the set of active queriers for a search.
type SourceRegistry interface {
	// Querier returns the querier for a single type.
	Querier(t domain.ResultType) (SourceQuerier, error)

	// Resolve returns the queriers for the given filter, in a stable
	// order. An empty filter resolves to every registered querier.
	Resolve(types []domain.ResultType) []SourceQuerier
}
