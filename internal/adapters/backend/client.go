package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// refreshLeeway triggers a token refresh slightly before actual expiry
// so in-flight requests don't race the clock.
const refreshLeeway = 30 * time.Second

// Config wires a Client.
type Config struct {
	// BaseURL is the root endpoint of the hosted service.
	BaseURL string

	// APIKey is the public key sent as the apikey header. Optional.
	APIKey string

	// SessionFile is where tokens persist between runs. Empty disables
	// persistence (tests).
	SessionFile string

	// HTTPClient overrides the transport. Defaults to a 15s-timeout
	// client.
	HTTPClient *http.Client

	Logger *zap.Logger
}

// Client talks to the hosted backend service: the auth surface plus
// table-scoped CRUD through the query builder. It is the single
// outbound dependency of the application.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	store   *tokenStore
	logger  *zap.Logger

	mu     sync.RWMutex
	tokens *Tokens
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend: base URL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    httpClient,
		store:   newTokenStore(cfg.SessionFile),
		logger:  logger,
	}
	tokens, err := c.store.Load()
	if err != nil {
		logger.Warn("could not load stored session, starting signed out", zap.Error(err))
	}
	c.tokens = tokens
	return c, nil
}

// BaseURL returns the configured endpoint.
func (c *Client) BaseURL() string { return c.baseURL }

// HasSession reports whether token material is present. It says nothing
// about validity; CurrentUser decides that.
func (c *Client) HasSession() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens != nil
}

func (c *Client) setTokens(t *Tokens) {
	c.mu.Lock()
	c.tokens = t
	c.mu.Unlock()
	if t == nil {
		if err := c.store.Clear(); err != nil {
			c.logger.Warn("could not clear stored session", zap.Error(err))
		}
		return
	}
	if err := c.store.Save(t); err != nil {
		c.logger.Warn("could not persist session", zap.Error(err))
	}
}

func (c *Client) currentTokens() *Tokens {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens
}

// adoptSession installs tokens from an auth response, deriving expiry
// from the access token itself.
func (c *Client) adoptSession(access, refresh string) {
	c.setTokens(&Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    tokenExpiry(access),
	})
}

// ensureFresh refreshes the access token when it is about to expire.
// Failure clears the session rather than leaving half-valid state.
func (c *Client) ensureFresh(ctx context.Context) {
	t := c.currentTokens()
	if t == nil || !t.expiringSoon(refreshLeeway) || t.RefreshToken == "" {
		return
	}
	var out struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/v1/token",
		url.Values{"grant_type": []string{"refresh_token"}},
		map[string]string{"refresh_token": t.RefreshToken}, &out, nil)
	if err != nil {
		c.logger.Warn("token refresh failed, clearing session", zap.Error(err))
		c.setTokens(nil)
		return
	}
	c.adoptSession(out.AccessToken, out.RefreshToken)
}

// do performs one JSON round trip. Non-2xx answers decode into
// *APIError carrying the service's message verbatim.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, header http.Header) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if t := c.currentTokens(); t != nil {
		req.Header.Set("Authorization", "Bearer "+t.AccessToken)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: decode response: %w", err)
	}
	return nil
}

// authed is do with a preceding freshness check, for calls that need
// the bearer token to be valid.
func (c *Client) authed(ctx context.Context, method, path string, query url.Values, body, out any, header http.Header) error {
	c.ensureFresh(ctx)
	return c.do(ctx, method, path, query, body, out, header)
}
