package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown result type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrMalformedRecord indicates a raw record that cannot be
	// normalised (missing identifier or payload). The aggregator skips
	// such records rather than aborting the search.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrSourceUnavailable indicates a source querier's backend call
	// failed. Contained at the adapter boundary; a failing source
	// contributes zero results instead of surfacing an error.
	ErrSourceUnavailable = errors.New("source unavailable")

	// Authentication errors.

	// ErrAuthRequired indicates the backend requires authentication but
	// none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the backend rejected the credentials.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the backend rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrSnapshotEmpty indicates an offline search was attempted before
	// any snapshot was taken.
	ErrSnapshotEmpty = errors.New("snapshot empty")
)
