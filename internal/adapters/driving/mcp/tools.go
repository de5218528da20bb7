package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/paritel/osm-search/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query    string   `json:"query" jsonschema:"the search term to match against tenders, products and documents"`
	Types    []string `json:"types,omitempty" jsonschema:"restrict to result types; 'document' covers all document sources"`
	Page     int      `json:"page,omitempty" jsonschema:"1-indexed page number (default 1)"`
	PageSize int      `json:"page_size,omitempty" jsonschema:"results per page (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results    []SearchResultOutput `json:"results"`
	Count      int                  `json:"count"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"total_pages"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Link        string  `json:"link"`
	Score       float64 `json:"score"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search tenders, catalog products and document stores of the OSM back office",
	}, s.handleSearch)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	types, err := domain.ExpandTypeFilter(input.Types)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	opts := domain.SearchOptions{
		Types:    types,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	page, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	pageSize := opts.PageSize
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	pageNum := opts.Page
	if pageNum < 1 {
		pageNum = 1
	}

	output := SearchOutput{
		Results:    make([]SearchResultOutput, len(page.Results)),
		Count:      page.Count,
		Page:       pageNum,
		TotalPages: page.TotalPages(pageSize),
	}

	for i, r := range page.Results {
		output.Results[i] = SearchResultOutput{
			ID:          r.ID,
			Type:        string(r.Type),
			Title:       r.Title,
			Description: r.Description,
			Link:        r.Link,
			Score:       r.Score,
		}
	}

	return nil, output, nil
}
