// Package rest implements the source querier ports against the hosted
// OSM backend's REST API.
//
// The backend exposes each table under /rest/v1/{table} with
// PostgREST-style query parameters; matching uses case-insensitive
// ilike filters OR-ed across the per-type field sets. Requests carry
// the project API key plus a bearer token obtained from /auth/v1/token.
//
// All queriers share one Client, which owns the HTTP client, the token
// source and a token-bucket rate limiter so a burst of fan-out queries
// stays inside the backend's request quota.
package rest
