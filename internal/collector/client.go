// Package collector implements the HTTP collaborators of a form session:
// schema source, prior-answer source, and submission sink, all against a
// single collector service base URL.
package collector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
)

// ForwardHeader names the response header carrying the forward directive:
// the name of the next form to load after a successful submission.
const ForwardHeader = "X-Forward-Form"

const defaultTimeout = 15 * time.Second

// Client talks to a collector service. It implements session.SchemaSource,
// session.AnswerSource, and session.Collector.
type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithTimeout caps each request. Zero disables the per-request deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// New constructs a Client for the given collector base URL.
func New(baseURL string, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("collector: base url is required")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		timeout: defaultTimeout,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Schema fetches and parses the schema document for a form.
func (c *Client) Schema(ctx context.Context, formName string) (schema.Document, error) {
	body, status, _, err := c.get(ctx, c.formURL(formName, "schema"))
	if err != nil {
		return schema.Document{}, fmt.Errorf("collector: fetch schema for %q: %w", formName, err)
	}
	if status < 200 || status >= 300 {
		return schema.Document{}, fmt.Errorf("collector: fetch schema for %q: unexpected status %d", formName, status)
	}

	doc, err := schema.ParseDocument(body)
	if err != nil {
		return schema.Document{}, fmt.Errorf("collector: parse schema for %q: %w", formName, err)
	}
	return doc, nil
}

// Answers fetches a previously saved answer set. A 404 means the user has
// not answered this form before and yields an empty set, not an error.
func (c *Client) Answers(ctx context.Context, formName string) (map[string]any, error) {
	body, status, _, err := c.get(ctx, c.formURL(formName, "answers"))
	if err != nil {
		return nil, fmt.Errorf("collector: fetch answers for %q: %w", formName, err)
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("collector: fetch answers for %q: unexpected status %d", formName, status)
	}

	var payload struct {
		Answers map[string]any `json:"answers"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("collector: parse answers for %q: %w", formName, err)
	}
	return payload.Answers, nil
}

// Submit posts a submission envelope. The bearer token is attached when
// present. Non-2xx responses become a *session.StatusError carrying any
// structured message the server supplied.
func (c *Client) Submit(ctx context.Context, env session.Envelope, token string) (session.Result, error) {
	payload, err := json.Marshal(env)
	if err != nil {
		return session.Result{}, fmt.Errorf("collector: encode envelope: %w", err)
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+"/submissions", bytes.NewReader(payload))
	if err != nil {
		return session.Result{}, fmt.Errorf("collector: build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return session.Result{}, fmt.Errorf("collector: submit: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return session.Result{}, fmt.Errorf("collector: read submit response: %w", err)
	}

	header, messages := parseMessages(body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return session.Result{}, &session.StatusError{
			StatusCode:    resp.StatusCode,
			MessageHeader: header,
			Messages:      messages,
		}
	}

	return session.Result{
		MessageHeader: header,
		Messages:      messages,
		NextForm:      resp.Header.Get(ForwardHeader),
	}, nil
}

// parseMessages extracts the optional structured message body. Absent or
// unparsable bodies yield empty values so callers fall back to their
// generic text.
func parseMessages(body []byte) (string, []string) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", nil
	}
	var parsed struct {
		MessageHeader string   `json:"messageHeader"`
		Messages      []string `json:"messages"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", nil
	}
	return parsed.MessageHeader, parsed.Messages
}

func (c *Client) formURL(formName, resource string) string {
	return c.baseURL + "/forms/" + url.PathEscape(formName) + "/" + resource
}

func (c *Client) get(ctx context.Context, target string) ([]byte, int, http.Header, error) {
	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, nil, err
	}
	return body, resp.StatusCode, resp.Header, nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}
