package driving

import (
	"context"

	"github.com/paritel/osm-search/internal/core/domain"
)

// SearchService provides federated search capabilities to external actors.
type SearchService interface {
	// Search fans out to the enabled sources, merges and ranks their
	// results, and returns the requested page plus the total count.
	// A blank term yields an empty page without querying any source.
	// A failing source contributes zero results; Search never fails
	// because a backend did.
	Search(ctx context.Context, term string, opts domain.SearchOptions) (domain.SearchPage, error)
}
