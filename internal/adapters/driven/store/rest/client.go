package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/paritel/osm-search/internal/core/domain"
	"github.com/paritel/osm-search/internal/logger"
)

// DefaultRateLimit keeps the five-way fan-out inside the backend's
// request quota. The backend allows considerably more; this is a
// conservative client-side ceiling.
var DefaultRateLimit = RateLimitConfig{RequestsPerSecond: 10.0, BurstSize: 10}

// RateLimitConfig holds rate limiting configuration for the backend.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// Config configures a Client.
type Config struct {
	// BaseURL is the backend project URL, e.g. https://osm.paritel.example.
	BaseURL string

	// APIKey is the project API key, sent on every request.
	APIKey string

	// Tokens supplies the bearer token. Optional; when nil the API key
	// alone authenticates (anonymous role).
	Tokens oauth2.TokenSource

	// HTTPClient overrides the default client. Optional.
	HTTPClient *http.Client

	// RateLimit overrides DefaultRateLimit. Optional.
	RateLimit *RateLimitConfig
}

// Client issues table queries against the backend REST API.
// It is safe for concurrent use; the source queriers share one
// instance across the search fan-out.
type Client struct {
	baseURL string
	apiKey  string
	tokens  oauth2.TokenSource
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a backend client from the configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: backend URL is required", domain.ErrInvalidInput)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: backend API key is required", domain.ErrAuthRequired)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	limit := DefaultRateLimit
	if cfg.RateLimit != nil {
		limit = *cfg.RateLimit
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		tokens:  cfg.Tokens,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(limit.RequestsPerSecond), limit.BurstSize),
	}, nil
}

// rows fetches the matching rows of one table. The query carries the
// select list and the ilike filter built by the caller.
func (c *Client) rows(ctx context.Context, table string, query url.Values) ([]map[string]any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + "/rest/v1/" + table + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("fetching token: %w", err)
		}
		token.SetAuthHeader(req)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("querying %s: %w", table, domain.ErrAuthInvalid)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("querying %s: %w", table, domain.ErrRateLimited)
	default:
		return nil, fmt.Errorf("querying %s: backend returned HTTP %d", table, resp.StatusCode)
	}

	var rows []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", table, err)
	}

	logger.Debug("Backend %s: %d rows", table, len(rows))
	return rows, nil
}

// ilikeFilter builds the PostgREST or=() parameter matching term as a
// case-insensitive substring across fields.
func ilikeFilter(term string, fields ...string) string {
	pattern := "*" + sanitizeTerm(term) + "*"
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ".ilike." + pattern
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// sanitizeTerm strips characters that are structural in PostgREST
// filter syntax so user input cannot break out of the ilike pattern.
func sanitizeTerm(term string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', '(', ')', '*', '%':
			return -1
		default:
			return r
		}
	}, term)
}
