package domain

import (
	"fmt"
	"strings"
	"time"
)

// ResultType identifies which kind of entity a search result came from.
type ResultType string

const (
	// TypeTender is a sales opportunity (tender/offer).
	TypeTender ResultType = "tender"
	// TypeProduct is a catalog product or service.
	TypeProduct ResultType = "product_service"
	// TypeTenderDocument is a file attached to a tender.
	TypeTenderDocument ResultType = "tender_document"
	// TypeProductDocument is a file attached to a catalog product.
	TypeProductDocument ResultType = "product_document"
	// TypeLibraryDocument is a file from the shared document library.
	TypeLibraryDocument ResultType = "library_document"
)

// TypeFilterDocument is a filter alias that expands to all three
// document variants. It is never the type of a result, only a
// convenience value accepted by the facade.
const TypeFilterDocument = "document"

// AllResultTypes lists every concrete result type in display order.
func AllResultTypes() []ResultType {
	return []ResultType{
		TypeTender,
		TypeProduct,
		TypeTenderDocument,
		TypeProductDocument,
		TypeLibraryDocument,
	}
}

// Label returns the human-readable name for the type.
func (t ResultType) Label() string {
	switch t {
	case TypeTender:
		return "Tender"
	case TypeProduct:
		return "Product / Service"
	case TypeTenderDocument:
		return "Tender document"
	case TypeProductDocument:
		return "Product document"
	case TypeLibraryDocument:
		return "Library document"
	default:
		return string(t)
	}
}

// Icon returns the glyph shown next to results of this type in the
// CLI and TUI.
func (t ResultType) Icon() string {
	switch t {
	case TypeTender:
		return "◆"
	case TypeProduct:
		return "◈"
	case TypeTenderDocument, TypeProductDocument, TypeLibraryDocument:
		return "▤"
	default:
		return "·"
	}
}

// IsDocument reports whether the type is one of the document variants.
func (t ResultType) IsDocument() bool {
	switch t {
	case TypeTenderDocument, TypeProductDocument, TypeLibraryDocument:
		return true
	default:
		return false
	}
}

// ParseResultType converts a string into a concrete ResultType.
// The "document" alias is rejected here; it is only meaningful inside
// a filter set (see ExpandTypeFilter).
func ParseResultType(s string) (ResultType, error) {
	t := ResultType(strings.TrimSpace(strings.ToLower(s)))
	for _, known := range AllResultTypes() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: result type %q", ErrUnsupportedType, s)
}

// ExpandTypeFilter converts the caller's filter values into a set of
// concrete result types. The "document" alias expands to the three
// document variants; unknown values produce an error; duplicates are
// collapsed. An empty input means no filter (all types).
func ExpandTypeFilter(values []string) ([]ResultType, error) {
	if len(values) == 0 {
		return nil, nil
	}

	seen := make(map[ResultType]bool)
	var expanded []ResultType

	add := func(t ResultType) {
		if !seen[t] {
			seen[t] = true
			expanded = append(expanded, t)
		}
	}

	for _, v := range values {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "" {
			continue
		}
		if v == TypeFilterDocument {
			add(TypeTenderDocument)
			add(TypeProductDocument)
			add(TypeLibraryDocument)
			continue
		}
		t, err := ParseResultType(v)
		if err != nil {
			return nil, err
		}
		add(t)
	}

	return expanded, nil
}

// SearchResult is a single normalised search hit.
// It is a read-only value object: constructed by the normaliser,
// never mutated, discarded once the page is returned to the caller.
type SearchResult struct {
	// ID is unique within the result's source type, not globally.
	ID string

	// Type identifies the source that produced the result.
	Type ResultType

	// Title is the primary display string.
	Title string

	// Description is an optional secondary string, possibly truncated.
	Description string

	// Link is the deep-link locator to the entity's detail view.
	Link string

	// CreatedAt and UpdatedAt are optional; they are used only for
	// tie-break ordering.
	CreatedAt *time.Time
	UpdatedAt *time.Time

	// Score is a source-type-derived relevance prior. Primary entities
	// score above their document attachments. Used as a sort key only,
	// never persisted.
	Score float64

	// Raw is the original record, passed through opaquely for
	// consumers needing extra fields.
	Raw map[string]any
}

// RecencyKey returns the timestamp used for recency ordering:
// UpdatedAt, falling back to CreatedAt, falling back to the zero time.
func (r SearchResult) RecencyKey() time.Time {
	if r.UpdatedAt != nil {
		return *r.UpdatedAt
	}
	if r.CreatedAt != nil {
		return *r.CreatedAt
	}
	return time.Time{}
}

// TitleMatches reports whether the result's title contains term as a
// case-insensitive substring.
func (r SearchResult) TitleMatches(term string) bool {
	return strings.Contains(strings.ToLower(r.Title), strings.ToLower(term))
}

// DefaultPageSize is the page size used when the caller does not set one.
const DefaultPageSize = 10

// DefaultSourceTimeout bounds each source query so one slow backend
// cannot stall the whole aggregation.
const DefaultSourceTimeout = 10 * time.Second

// SearchOptions configures a search invocation.
type SearchOptions struct {
	// Types restricts the search to the given result types.
	// Empty means all types.
	Types []ResultType

	// Page is the 1-indexed page number. Values below 1 default to 1.
	Page int

	// PageSize is the number of results per page. Values below 1
	// default to DefaultPageSize.
	PageSize int

	// SourceTimeout bounds each source query. Zero means
	// DefaultSourceTimeout.
	SourceTimeout time.Duration
}

// SearchPage is one page of results plus the pre-pagination total.
type SearchPage struct {
	// Results is the requested slice of the sorted combined sequence.
	Results []SearchResult

	// Count is the total number of matches before pagination.
	Count int
}

// TotalPages returns the number of pages for the given page size.
func (p SearchPage) TotalPages(pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return (p.Count + pageSize - 1) / pageSize
}
