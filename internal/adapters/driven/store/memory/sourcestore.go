// Package memory provides in-memory source queriers. They back unit
// tests and the seed/dev mode where no backend is reachable.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/paritel/osm-search/internal/core/domain"
	"github.com/paritel/osm-search/internal/core/ports/driven"
)

// Ensure SourceStore queriers implement the interface.
var _ driven.SourceQuerier = (*Querier)(nil)

// SourceStore holds raw records per result type and serves them
// through source queriers with the same case-insensitive substring
// semantics as the remote backend.
type SourceStore struct {
	mu      sync.RWMutex
	records map[domain.ResultType][]domain.RawRecord
}

// NewSourceStore creates an empty in-memory source store.
func NewSourceStore() *SourceStore {
	return &SourceStore{
		records: make(map[domain.ResultType][]domain.RawRecord),
	}
}

// Seed replaces the records for a type.
func (s *SourceStore) Seed(t domain.ResultType, records ...domain.RawRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[t] = append([]domain.RawRecord(nil), records...)
}

// Querier returns a source querier serving t.
func (s *SourceStore) Querier(t domain.ResultType) *Querier {
	return &Querier{store: s, sourceType: t}
}

// Queriers returns one querier per result type, in display order.
func (s *SourceStore) Queriers() []driven.SourceQuerier {
	types := domain.AllResultTypes()
	queriers := make([]driven.SourceQuerier, len(types))
	for i, t := range types {
		queriers[i] = s.Querier(t)
	}
	return queriers
}

// Querier serves one result type from the store.
type Querier struct {
	store      *SourceStore
	sourceType domain.ResultType
}

// Type returns the result type this querier serves.
func (q *Querier) Type() domain.ResultType { return q.sourceType }

// Search returns the seeded records matching term.
func (q *Querier) Search(_ context.Context, term string) ([]domain.RawRecord, error) {
	q.store.mu.RLock()
	defer q.store.mu.RUnlock()

	needle := strings.ToLower(term)

	var matches []domain.RawRecord
	for _, rec := range q.store.records[q.sourceType] {
		if recordMatches(rec, needle) {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

// recordMatches applies the per-type field set from the search
// contract: tenders match on market name, organization and lot number;
// products on name, reference and description; documents on file name.
func recordMatches(rec domain.RawRecord, needle string) bool {
	var fields []string
	switch {
	case rec.Tender != nil:
		fields = []string{rec.Tender.MarketName, rec.Tender.Organization, rec.Tender.LotNumber}
	case rec.Product != nil:
		fields = []string{rec.Product.Name, rec.Product.Reference, rec.Product.Description}
	case rec.Document != nil:
		fields = []string{rec.Document.FileName}
	}

	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
