package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/paritel/osm-search/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for osm-search resources.
	uriScheme = "osm-search://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource describing the searchable source types.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "source-types",
		Name:        "source-types",
		Description: "The result types the search tool can filter on",
		MIMEType:    "application/json",
	}, s.handleSourceTypesResource)
}

// handleSourceTypesResource returns the concrete result types plus the
// "document" filter alias.
func (s *Server) handleSourceTypesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type typeInfo struct {
		Type       string `json:"type"`
		Label      string `json:"label"`
		IsDocument bool   `json:"is_document"`
	}

	infos := make([]typeInfo, 0, len(domain.AllResultTypes())+1)
	for _, t := range domain.AllResultTypes() {
		infos = append(infos, typeInfo{
			Type:       string(t),
			Label:      t.Label(),
			IsDocument: t.IsDocument(),
		})
	}
	infos = append(infos, typeInfo{
		Type:       domain.TypeFilterDocument,
		Label:      "All document sources (filter alias)",
		IsDocument: true,
	})

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling source types: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
