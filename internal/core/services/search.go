package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/paritel/osm-search/internal/core/domain"
	"github.com/paritel/osm-search/internal/core/ports/driven"
	"github.com/paritel/osm-search/internal/core/ports/driving"
	"github.com/paritel/osm-search/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService aggregates results from the configured source queriers.
// It is the externally consumed search facade: fan-out, merge, rank,
// paginate.
type SearchService struct {
	registry driven.SourceRegistry
}

// NewSearchService creates a new search service over the registry.
func NewSearchService(registry driven.SourceRegistry) *SearchService {
	return &SearchService{registry: registry}
}

// sourceOutput carries one querier's settled contribution through the
// fan-out join.
type sourceOutput struct {
	sourceType domain.ResultType
	records    []domain.RawRecord
	err        error
}

// Search fans out the term to the active queriers, normalises and
// ranks everything they return, and slices the requested page.
//
// A failing or timed-out source contributes zero results; the
// aggregate never fails because a backend did. Callers therefore
// cannot distinguish "nothing matched" from "every source failed".
func (s *SearchService) Search(
	ctx context.Context, term string, opts domain.SearchOptions,
) (domain.SearchPage, error) {
	logger.Section("Search Execution")
	logger.Debug("Term: %q", term)

	// Blank term is vacuous, not an error: no source is queried.
	term = strings.TrimSpace(term)
	if term == "" {
		logger.Debug("Empty term, returning no results")
		return domain.SearchPage{Results: []domain.SearchResult{}}, nil
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	pageSize := opts.PageSize
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	timeout := opts.SourceTimeout
	if timeout <= 0 {
		timeout = domain.DefaultSourceTimeout
	}
	logger.Debug("Page: %d, PageSize: %d, Timeout: %s", page, pageSize, timeout)

	active := s.registry.Resolve(opts.Types)
	logger.Debug("Active sources: %d", len(active))

	results := s.collect(ctx, term, active, timeout)

	rank(results, term)

	total := len(results)
	logger.Info("Ranked results: %d", total)

	return domain.SearchPage{
		Results: slicePage(results, page, pageSize),
		Count:   total,
	}, nil
}

// collect runs the active queriers concurrently, joins them, and
// normalises every returned row into a flat result sequence. The
// queriers share no state and completion order never affects output;
// the join waits for every source to settle rather than racing.
func (s *SearchService) collect(
	ctx context.Context, term string, active []driven.SourceQuerier, timeout time.Duration,
) []domain.SearchResult {
	ch := make(chan sourceOutput, len(active))
	var wg sync.WaitGroup

	for _, q := range active {
		wg.Add(1)
		go func(q driven.SourceQuerier) {
			defer wg.Done()

			qctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			records, err := q.Search(qctx, term)
			ch <- sourceOutput{sourceType: q.Type(), records: records, err: err}
		}(q)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	// Gather contributions keyed by type so the flat sequence does not
	// depend on goroutine completion order. Ordering is imposed by the
	// rank step, but determinism is cheaper to reason about when the
	// input sequence is already fixed.
	byType := make(map[domain.ResultType][]domain.RawRecord, len(active))
	for out := range ch {
		if out.err != nil {
			// One bad source doesn't sink the search: log and move on.
			logger.Warn("Source %s failed: %v", out.sourceType, out.err)
			continue
		}
		logger.Debug("Source %s: %d rows", out.sourceType, len(out.records))
		byType[out.sourceType] = append(byType[out.sourceType], out.records...)
	}

	var results []domain.SearchResult
	for _, t := range domain.AllResultTypes() {
		for _, rec := range byType[t] {
			result, err := Normalise(rec)
			if err != nil {
				logger.Warn("Skipping record from %s: %v", t, err)
				continue
			}
			results = append(results, result)
		}
	}

	return results
}

// rank orders the combined sequence with a three-level comparator:
// title-substring match first, then relevance score descending, then
// recency descending. Type and ID break any remaining ties so repeated
// searches over unchanged data produce identical output.
func rank(results []domain.SearchResult, term string) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]

		aTitle, bTitle := a.TitleMatches(term), b.TitleMatches(term)
		if aTitle != bTitle {
			return aTitle
		}

		if a.Score != b.Score {
			return a.Score > b.Score
		}

		aTime, bTime := a.RecencyKey(), b.RecencyKey()
		if !aTime.Equal(bTime) {
			return aTime.After(bTime)
		}

		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.ID < b.ID
	})
}

// slicePage cuts the 1-indexed page out of the sorted sequence.
// A page beyond the available range yields an empty slice, not an error.
func slicePage(results []domain.SearchResult, page, pageSize int) []domain.SearchResult {
	offset := (page - 1) * pageSize
	if offset >= len(results) {
		return []domain.SearchResult{}
	}

	end := offset + pageSize
	if end > len(results) {
		end = len(results)
	}

	return results[offset:end]
}
