// Package services implements the driving port interfaces.
// Services contain the core business logic: normalising raw rows into
// search results and orchestrating the fan-out, merge, rank and
// pagination over the source queriers.
//
// Services are pure Go with no external dependencies.
package services
