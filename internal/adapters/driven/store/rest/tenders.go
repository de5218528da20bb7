package rest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/paritel/osm-search/internal/core/domain"
	"github.com/paritel/osm-search/internal/core/ports/driven"
)

// Ensure TenderQuerier implements the interface.
var _ driven.SourceQuerier = (*TenderQuerier)(nil)

// tenderFields are the columns a tender search matches against.
var tenderFields = []string{"market_name", "organization", "lot_number"}

// TenderQuerier searches the tenders table.
type TenderQuerier struct {
	client *Client
}

// NewTenderQuerier creates a tender querier over the shared client.
func NewTenderQuerier(client *Client) *TenderQuerier {
	return &TenderQuerier{client: client}
}

// Type returns the result type this querier serves.
func (q *TenderQuerier) Type() domain.ResultType { return domain.TypeTender }

// Search returns the tenders matching term.
func (q *TenderQuerier) Search(ctx context.Context, term string) ([]domain.RawRecord, error) {
	query := url.Values{
		"select": {"*"},
		"or":     {ilikeFilter(term, tenderFields...)},
	}

	rows, err := q.client.rows(ctx, "tenders", query)
	if err != nil {
		return nil, fmt.Errorf("tenders: %w", err)
	}

	records := make([]domain.RawRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.RawRecord{
			Type: domain.TypeTender,
			Tender: &domain.RawTender{
				ID:           rowString(row, "id"),
				MarketName:   rowString(row, "market_name"),
				Organization: rowString(row, "organization"),
				LotNumber:    rowString(row, "lot_number"),
				CreatedAt:    rowTime(row, "created_at"),
				UpdatedAt:    rowTime(row, "updated_at"),
				Fields:       row,
			},
		})
	}
	return records, nil
}
