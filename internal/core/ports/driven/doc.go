// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SourceQuerier: Fetches raw matching rows for one result type
//   - SourceRegistry: Resolves the querier set for a type filter
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - SnapshotStore: Local persistence of remote rows for offline search
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
