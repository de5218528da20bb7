// Package domain defines the core business entities for osm-search.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ResultType: The closed set of searchable entity kinds
//   - SearchResult: A single normalised search hit
//   - RawRecord: A tagged union of raw rows fetched by a source querier
//   - SearchOptions / SearchPage: The facade's input and output shapes
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
