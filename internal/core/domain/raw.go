package domain

import "time"

// RawRecord is the tagged union a source querier hands to the core.
// Exactly one payload pointer matching Type is set. It is the only
// loosely-typed shape allowed past the adapter boundary; the
// normaliser converts it into a SearchResult before anything else
// touches it.
type RawRecord struct {
	// Type tags which payload is populated.
	Type ResultType

	Tender   *RawTender
	Product  *RawProduct
	Document *RawDocument
}

// RawTender is a row from the tenders table.
type RawTender struct {
	ID           string
	MarketName   string
	Organization string
	LotNumber    string
	CreatedAt    *time.Time
	UpdatedAt    *time.Time

	// Fields carries the remaining row columns for pass-through.
	Fields map[string]any
}

// RawProduct is a row from the products/services table.
type RawProduct struct {
	ID          string
	Name        string
	Reference   string
	Description string
	CreatedAt   *time.Time
	UpdatedAt   *time.Time

	Fields map[string]any
}

// RawDocument is a row from one of the document tables. It covers all
// three document variants; attachment kinds carry the parent entity.
type RawDocument struct {
	ID       string
	FileName string
	FileType string

	// ParentID and ParentName identify the owning tender or product
	// for attachment kinds. Empty for library documents.
	ParentID   string
	ParentName string

	CreatedAt *time.Time
	UpdatedAt *time.Time

	Fields map[string]any
}
