package mcp

import (
	"context"

	"github.com/paritel/osm-search/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	page domain.SearchPage
	opts domain.SearchOptions
	err  error
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) (domain.SearchPage, error) {
	m.opts = opts
	return m.page, m.err
}
