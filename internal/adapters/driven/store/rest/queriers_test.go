package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paritel/osm-search/internal/core/domain"
)

// tableServer serves canned JSON per table path, capturing the query
// string for assertions.
func tableServer(t *testing.T, responses map[string]string) (*Client, *map[string]string) {
	t.Helper()

	queries := make(map[string]string)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		table := r.URL.Path[len("/rest/v1/"):]
		queries[table] = r.URL.RawQuery

		body, ok := responses[table]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)
	return client, &queries
}

func TestTenderQuerier_Search(t *testing.T) {
	client, queries := tableServer(t, map[string]string{
		"tenders": `[{
			"id": "t1",
			"market_name": "Hotel Majestic Contract",
			"organization": "Acme",
			"lot_number": "3",
			"status": "open",
			"created_at": "2024-01-01T00:00:00Z",
			"updated_at": "2024-01-15T10:30:00Z"
		}]`,
	})

	q := NewTenderQuerier(client)
	assert.Equal(t, domain.TypeTender, q.Type())

	records, err := q.Search(context.Background(), "hotel")
	require.NoError(t, err)
	require.Len(t, records, 1)

	tender := records[0].Tender
	require.NotNil(t, tender)
	assert.Equal(t, "t1", tender.ID)
	assert.Equal(t, "Hotel Majestic Contract", tender.MarketName)
	assert.Equal(t, "Acme", tender.Organization)
	assert.Equal(t, "3", tender.LotNumber)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), *tender.UpdatedAt)
	assert.Equal(t, "open", tender.Fields["status"])

	// The filter ORs an ilike over the tender field set.
	assert.Contains(t, (*queries)["tenders"], "market_name.ilike.%2Ahotel%2A")
	assert.Contains(t, (*queries)["tenders"], "organization.ilike.%2Ahotel%2A")
	assert.Contains(t, (*queries)["tenders"], "lot_number.ilike.%2Ahotel%2A")
}

func TestProductQuerier_Search(t *testing.T) {
	client, _ := tableServer(t, map[string]string{
		"products": `[{
			"id": "p1",
			"name": "Hotel Wifi Bundle",
			"reference": "REF-042",
			"description": "Managed wifi",
			"updated_at": "2024-02-01T00:00:00Z"
		}]`,
	})

	records, err := NewProductQuerier(client).Search(context.Background(), "hotel")
	require.NoError(t, err)
	require.Len(t, records, 1)

	product := records[0].Product
	require.NotNil(t, product)
	assert.Equal(t, "p1", product.ID)
	assert.Equal(t, "Hotel Wifi Bundle", product.Name)
	assert.Equal(t, "REF-042", product.Reference)
}

func TestTenderDocumentQuerier_Search(t *testing.T) {
	client, queries := tableServer(t, map[string]string{
		"tender_documents": `[{
			"id": "td1",
			"file_name": "hotel-floorplan.pdf",
			"file_type": "pdf",
			"tender_id": "t1",
			"tender": {"market_name": "Hotel Majestic Contract"}
		}]`,
	})

	q := NewTenderDocumentQuerier(client)
	assert.Equal(t, domain.TypeTenderDocument, q.Type())

	records, err := q.Search(context.Background(), "hotel")
	require.NoError(t, err)
	require.Len(t, records, 1)

	doc := records[0].Document
	require.NotNil(t, doc)
	assert.Equal(t, "td1", doc.ID)
	assert.Equal(t, "hotel-floorplan.pdf", doc.FileName)
	assert.Equal(t, "t1", doc.ParentID)
	assert.Equal(t, "Hotel Majestic Contract", doc.ParentName)

	// The parent entity rides along via an embedded select.
	assert.Contains(t, (*queries)["tender_documents"], "tender%3Atenders%28market_name%29")
}

func TestProductDocumentQuerier_Search(t *testing.T) {
	client, _ := tableServer(t, map[string]string{
		"product_documents": `[{
			"id": "pd1",
			"file_name": "datasheet.pdf",
			"product_id": "p1",
			"product": {"name": "Hotel Wifi Bundle"}
		}]`,
	})

	q := NewProductDocumentQuerier(client)
	assert.Equal(t, domain.TypeProductDocument, q.Type())

	records, err := q.Search(context.Background(), "datasheet")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Hotel Wifi Bundle", records[0].Document.ParentName)
}

func TestLibraryQuerier_Search(t *testing.T) {
	client, _ := tableServer(t, map[string]string{
		"library_documents": `[{
			"id": "ld1",
			"file_name": "brand-charter.docx",
			"file_type": "docx"
		}]`,
	})

	q := NewLibraryQuerier(client)
	assert.Equal(t, domain.TypeLibraryDocument, q.Type())

	records, err := q.Search(context.Background(), "brand")
	require.NoError(t, err)
	require.Len(t, records, 1)

	doc := records[0].Document
	assert.Equal(t, "ld1", doc.ID)
	assert.Empty(t, doc.ParentID)
}

func TestQuerier_BackendFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := NewTenderQuerier(client).Search(context.Background(), "hotel")
	assert.Error(t, err)
}

func TestAllQueriers_CoversEveryType(t *testing.T) {
	client, _ := tableServer(t, nil)

	queriers := AllQueriers(client)
	require.Len(t, queriers, len(domain.AllResultTypes()))

	for i, expected := range domain.AllResultTypes() {
		assert.Equal(t, expected, queriers[i].Type())
	}
}
