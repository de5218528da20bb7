package services

import (
	"fmt"

	"github.com/paritel/osm-search/internal/core/domain"
)

// placeholder renders absent optional fields. Results never carry an
// empty description segment in its place.
const placeholder = "N/A"

// Relevance priors per source type. Primary entities rank above their
// document attachments; the score is a sort key only.
const (
	scorePrimary  = 1.0
	scoreDocument = 0.8
)

// descriptionLimit caps a product description used as fallback text.
const descriptionLimit = 100

// Normalise converts a raw row into a SearchResult. It is a pure
// function and the single boundary where loosely-typed adapter output
// becomes a strongly-typed result. Missing optional fields render as a
// placeholder; a missing payload or identifier is a malformed record.
func Normalise(rec domain.RawRecord) (domain.SearchResult, error) {
	switch rec.Type {
	case domain.TypeTender:
		return normaliseTender(rec.Tender)
	case domain.TypeProduct:
		return normaliseProduct(rec.Product)
	case domain.TypeTenderDocument, domain.TypeProductDocument, domain.TypeLibraryDocument:
		return normaliseDocument(rec.Type, rec.Document)
	default:
		return domain.SearchResult{}, fmt.Errorf("%w: result type %q", domain.ErrUnsupportedType, rec.Type)
	}
}

func normaliseTender(raw *domain.RawTender) (domain.SearchResult, error) {
	if raw == nil || raw.ID == "" {
		return domain.SearchResult{}, fmt.Errorf("%w: tender without payload or id", domain.ErrMalformedRecord)
	}

	lot := raw.LotNumber
	if lot == "" {
		lot = placeholder
	}
	organization := raw.Organization
	if organization == "" {
		organization = placeholder
	}

	return domain.SearchResult{
		ID:          raw.ID,
		Type:        domain.TypeTender,
		Title:       raw.MarketName,
		Description: fmt.Sprintf("%s - Lot: %s", organization, lot),
		Link:        "/tenders/" + raw.ID,
		CreatedAt:   raw.CreatedAt,
		UpdatedAt:   raw.UpdatedAt,
		Score:       scorePrimary,
		Raw:         rawFields(raw.Fields, "id", raw.ID, "market_name", raw.MarketName, "organization", raw.Organization, "lot_number", raw.LotNumber),
	}, nil
}

func normaliseProduct(raw *domain.RawProduct) (domain.SearchResult, error) {
	if raw == nil || raw.ID == "" {
		return domain.SearchResult{}, fmt.Errorf("%w: product without payload or id", domain.ErrMalformedRecord)
	}

	description := raw.Reference
	if description == "" {
		description = truncate(raw.Description, descriptionLimit)
	}
	if description == "" {
		description = placeholder
	}

	return domain.SearchResult{
		ID:          raw.ID,
		Type:        domain.TypeProduct,
		Title:       raw.Name,
		Description: description,
		Link:        "/catalog/products/" + raw.ID,
		CreatedAt:   raw.CreatedAt,
		UpdatedAt:   raw.UpdatedAt,
		Score:       scorePrimary,
		Raw:         rawFields(raw.Fields, "id", raw.ID, "name", raw.Name, "reference", raw.Reference, "description", raw.Description),
	}, nil
}

func normaliseDocument(t domain.ResultType, raw *domain.RawDocument) (domain.SearchResult, error) {
	if raw == nil || raw.ID == "" {
		return domain.SearchResult{}, fmt.Errorf("%w: %s without payload or id", domain.ErrMalformedRecord, t)
	}

	fileType := raw.FileType
	if fileType == "" {
		fileType = placeholder
	}
	parent := raw.ParentName
	if parent == "" {
		parent = placeholder
	}

	var description, link string
	switch t {
	case domain.TypeTenderDocument:
		description = fmt.Sprintf("Tender document: %s - Type: %s", parent, fileType)
		link = "/tenders/" + raw.ParentID + "/documents"
	case domain.TypeProductDocument:
		description = fmt.Sprintf("Product document: %s - Type: %s", parent, fileType)
		link = "/catalog/products/" + raw.ParentID + "/documents"
	default:
		description = fmt.Sprintf("Library document - Type: %s", fileType)
		link = "/library/" + raw.ID
	}

	return domain.SearchResult{
		ID:          raw.ID,
		Type:        t,
		Title:       raw.FileName,
		Description: description,
		Link:        link,
		CreatedAt:   raw.CreatedAt,
		UpdatedAt:   raw.UpdatedAt,
		Score:       scoreDocument,
		Raw:         rawFields(raw.Fields, "id", raw.ID, "file_name", raw.FileName, "file_type", raw.FileType, "parent_id", raw.ParentID, "parent_name", raw.ParentName),
	}, nil
}

// rawFields merges the typed columns back into the pass-through map so
// consumers see one flat record. Extra columns from the store win over
// nothing, but the typed columns win over stale duplicates.
func rawFields(extra map[string]any, pairs ...any) map[string]any {
	merged := make(map[string]any, len(extra)+len(pairs)/2)
	for k, v := range extra {
		merged[k] = v
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		if s, isStr := pairs[i+1].(string); isStr && s == "" {
			continue
		}
		merged[key] = pairs[i+1]
	}
	return merged
}

// truncate shortens s to at most n runes, appending an ellipsis when
// anything was cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
