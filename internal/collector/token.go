package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// TokenClient obtains bearer credentials from an authentication endpoint.
// It implements session.TokenProvider and, when the endpoint reports a
// username, session.IdentityProvider. The credential string is opaque to
// the rest of the engine.
type TokenClient struct {
	tokenURL string
	client   *http.Client
	timeout  time.Duration

	mu       sync.Mutex
	token    string
	username string
}

// TokenOption customises a TokenClient.
type TokenOption func(*TokenClient)

// WithTokenHTTPClient replaces the underlying HTTP client.
func WithTokenHTTPClient(client *http.Client) TokenOption {
	return func(t *TokenClient) {
		if client != nil {
			t.client = client
		}
	}
}

// WithTokenTimeout caps each token request.
func WithTokenTimeout(timeout time.Duration) TokenOption {
	return func(t *TokenClient) { t.timeout = timeout }
}

// NewTokenClient constructs a TokenClient for the given token endpoint.
func NewTokenClient(tokenURL string, options ...TokenOption) (*TokenClient, error) {
	if tokenURL == "" {
		return nil, errors.New("collector: token url is required")
	}
	t := &TokenClient{
		tokenURL: tokenURL,
		client:   &http.Client{},
		timeout:  defaultTimeout,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
	}
	return t, nil
}

// Token returns the cached credential, fetching one on first use.
func (t *TokenClient) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.token != "" {
		return t.token, nil
	}
	return t.fetchLocked(ctx)
}

// Refresh discards the cached credential and fetches a new one.
func (t *TokenClient) Refresh(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = ""
	return t.fetchLocked(ctx)
}

// Username reports the identity the endpoint associated with the current
// credential, or an empty string before the first fetch.
func (t *TokenClient) Username() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.username
}

func (t *TokenClient) fetchLocked(ctx context.Context) (string, error) {
	reqCtx := ctx
	var cancel context.CancelFunc = func() {}
	if t.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, t.timeout)
	}
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, t.tokenURL, nil)
	if err != nil {
		return "", fmt.Errorf("collector: build token request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("collector: fetch token: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("collector: fetch token: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("collector: read token response: %w", err)
	}

	var parsed struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("collector: parse token response: %w", err)
	}
	if parsed.Token == "" {
		return "", errors.New("collector: token response missing token")
	}

	t.token = parsed.Token
	if parsed.Username != "" {
		t.username = parsed.Username
	}
	return t.token, nil
}
