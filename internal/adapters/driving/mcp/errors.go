// Package mcp provides an MCP (Model Context Protocol) server adapter
// for osm-search. It lets AI assistants query the back office search.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
