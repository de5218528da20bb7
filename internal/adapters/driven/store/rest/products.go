package rest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/paritel/osm-search/internal/core/domain"
	"github.com/paritel/osm-search/internal/core/ports/driven"
)

// Ensure ProductQuerier implements the interface.
var _ driven.SourceQuerier = (*ProductQuerier)(nil)

// productFields are the columns a product search matches against.
var productFields = []string{"name", "reference", "description"}

// ProductQuerier searches the products table.
type ProductQuerier struct {
	client *Client
}

// NewProductQuerier creates a product querier over the shared client.
func NewProductQuerier(client *Client) *ProductQuerier {
	return &ProductQuerier{client: client}
}

// Type returns the result type this querier serves.
func (q *ProductQuerier) Type() domain.ResultType { return domain.TypeProduct }

// Search returns the products matching term.
func (q *ProductQuerier) Search(ctx context.Context, term string) ([]domain.RawRecord, error) {
	query := url.Values{
		"select": {"*"},
		"or":     {ilikeFilter(term, productFields...)},
	}

	rows, err := q.client.rows(ctx, "products", query)
	if err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}

	records := make([]domain.RawRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.RawRecord{
			Type: domain.TypeProduct,
			Product: &domain.RawProduct{
				ID:          rowString(row, "id"),
				Name:        rowString(row, "name"),
				Reference:   rowString(row, "reference"),
				Description: rowString(row, "description"),
				CreatedAt:   rowTime(row, "created_at"),
				UpdatedAt:   rowTime(row, "updated_at"),
				Fields:      row,
			},
		})
	}
	return records, nil
}
