package rest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/paritel/osm-search/internal/core/domain"
	"github.com/paritel/osm-search/internal/core/ports/driven"
)

// Ensure the document queriers implement the interface.
var (
	_ driven.SourceQuerier = (*AttachmentQuerier)(nil)
	_ driven.SourceQuerier = (*LibraryQuerier)(nil)
)

// attachmentTable describes one of the two attachment tables. The
// parent entity is joined in via PostgREST embedding so the normaliser
// can render "{Document kind}: {parent name}".
type attachmentTable struct {
	resultType  domain.ResultType
	table       string
	parentKey   string // embedded object key in the select list
	parentIDCol string
	parentCol   string // display column inside the embedded object
	selectList  string
}

var tenderDocuments = attachmentTable{
	resultType:  domain.TypeTenderDocument,
	table:       "tender_documents",
	parentKey:   "tender",
	parentIDCol: "tender_id",
	parentCol:   "market_name",
	selectList:  "*,tender:tenders(market_name)",
}

var productDocuments = attachmentTable{
	resultType:  domain.TypeProductDocument,
	table:       "product_documents",
	parentKey:   "product",
	parentIDCol: "product_id",
	parentCol:   "name",
	selectList:  "*,product:products(name)",
}

// AttachmentQuerier searches one of the entity-attachment document
// tables (tender_documents, product_documents). Both tables share a
// shape; only the parent join differs.
type AttachmentQuerier struct {
	client *Client
	table  attachmentTable
}

// NewTenderDocumentQuerier creates a querier over tender attachments.
func NewTenderDocumentQuerier(client *Client) *AttachmentQuerier {
	return &AttachmentQuerier{client: client, table: tenderDocuments}
}

// NewProductDocumentQuerier creates a querier over product attachments.
func NewProductDocumentQuerier(client *Client) *AttachmentQuerier {
	return &AttachmentQuerier{client: client, table: productDocuments}
}

// Type returns the result type this querier serves.
func (q *AttachmentQuerier) Type() domain.ResultType { return q.table.resultType }

// Search returns the attachments whose file name matches term.
func (q *AttachmentQuerier) Search(ctx context.Context, term string) ([]domain.RawRecord, error) {
	query := url.Values{
		"select":    {q.table.selectList},
		"file_name": {"ilike.*" + sanitizeTerm(term) + "*"},
	}

	rows, err := q.client.rows(ctx, q.table.table, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", q.table.table, err)
	}

	records := make([]domain.RawRecord, 0, len(rows))
	for _, row := range rows {
		parentName := ""
		if parent := rowEmbedded(row, q.table.parentKey); parent != nil {
			parentName = rowString(parent, q.table.parentCol)
		}

		records = append(records, domain.RawRecord{
			Type: q.table.resultType,
			Document: &domain.RawDocument{
				ID:         rowString(row, "id"),
				FileName:   rowString(row, "file_name"),
				FileType:   rowString(row, "file_type"),
				ParentID:   rowString(row, q.table.parentIDCol),
				ParentName: parentName,
				CreatedAt:  rowTime(row, "created_at"),
				UpdatedAt:  rowTime(row, "updated_at"),
				Fields:     row,
			},
		})
	}
	return records, nil
}

// LibraryQuerier searches the shared document library table.
type LibraryQuerier struct {
	client *Client
}

// NewLibraryQuerier creates a querier over the document library.
func NewLibraryQuerier(client *Client) *LibraryQuerier {
	return &LibraryQuerier{client: client}
}

// Type returns the result type this querier serves.
func (q *LibraryQuerier) Type() domain.ResultType { return domain.TypeLibraryDocument }

// Search returns the library documents whose file name matches term.
func (q *LibraryQuerier) Search(ctx context.Context, term string) ([]domain.RawRecord, error) {
	query := url.Values{
		"select":    {"*"},
		"file_name": {"ilike.*" + sanitizeTerm(term) + "*"},
	}

	rows, err := q.client.rows(ctx, "library_documents", query)
	if err != nil {
		return nil, fmt.Errorf("library_documents: %w", err)
	}

	records := make([]domain.RawRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.RawRecord{
			Type: domain.TypeLibraryDocument,
			Document: &domain.RawDocument{
				ID:        rowString(row, "id"),
				FileName:  rowString(row, "file_name"),
				FileType:  rowString(row, "file_type"),
				CreatedAt: rowTime(row, "created_at"),
				UpdatedAt: rowTime(row, "updated_at"),
				Fields:    row,
			},
		})
	}
	return records, nil
}

// AllQueriers returns the five source queriers over one shared client,
// in display order, ready to hand to the source registry.
func AllQueriers(client *Client) []driven.SourceQuerier {
	return []driven.SourceQuerier{
		NewTenderQuerier(client),
		NewProductQuerier(client),
		NewTenderDocumentQuerier(client),
		NewProductDocumentQuerier(client),
		NewLibraryQuerier(client),
	}
}
