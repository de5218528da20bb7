// Package tui provides the interactive terminal interface for osm-search.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/paritel/osm-search/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides federated search capabilities.
	Search driving.SearchService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
