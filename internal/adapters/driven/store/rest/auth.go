package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/paritel/osm-search/internal/core/domain"
	"github.com/paritel/osm-search/internal/logger"
)

// expirySkew refreshes tokens slightly before the backend would reject
// them, so a token never expires mid fan-out.
const expirySkew = 30 * time.Second

// Credentials identify a backend user for the password grant.
type Credentials struct {
	Email    string
	Password string
}

// PasswordTokenSource obtains access tokens from the backend's
// /auth/v1/token endpoint using the password grant and caches them
// until shortly before expiry. It implements oauth2.TokenSource and is
// safe for concurrent use.
type PasswordTokenSource struct {
	baseURL string
	apiKey  string
	creds   Credentials
	http    *http.Client

	mu    sync.Mutex
	token *oauth2.Token
}

// NewPasswordTokenSource creates a token source for the credentials.
func NewPasswordTokenSource(baseURL, apiKey string, creds Credentials, httpClient *http.Client) *PasswordTokenSource {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &PasswordTokenSource{
		baseURL: baseURL,
		apiKey:  apiKey,
		creds:   creds,
		http:    httpClient,
	}
}

// Token returns a valid access token, refreshing if needed.
func (ts *PasswordTokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != nil && ts.token.Expiry.After(time.Now().Add(expirySkew)) {
		return ts.token, nil
	}

	token, err := ts.fetch(context.Background())
	if err != nil {
		return nil, err
	}
	ts.token = token
	return token, nil
}

func (ts *PasswordTokenSource) fetch(ctx context.Context) (*oauth2.Token, error) {
	logger.Debug("Requesting backend token for %s", ts.creds.Email)

	body, err := json.Marshal(map[string]string{
		"email":    ts.creds.Email,
		"password": ts.creds.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding token request: %w", err)
	}

	reqURL := ts.baseURL + "/auth/v1/token?grant_type=password"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("apikey", ts.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting token: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("requesting token: %w", domain.ErrAuthInvalid)
	default:
		return nil, fmt.Errorf("requesting token: backend returned HTTP %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}
	if payload.AccessToken == "" {
		return nil, fmt.Errorf("decoding token response: %w", domain.ErrAuthInvalid)
	}

	tokenType := payload.TokenType
	if tokenType == "" {
		tokenType = "bearer"
	}

	return &oauth2.Token{
		AccessToken: payload.AccessToken,
		TokenType:   tokenType,
		Expiry:      time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second),
	}, nil
}

// StaticTokenSource wraps a pre-issued access token, e.g. one persisted
// by the login command.
func StaticTokenSource(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "bearer"})
}
