package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// SchemaSource fetches the schema document for a named form: the schema
// tree, its version, and the UI-hint metadata tree.
type SchemaSource interface {
	Schema(ctx context.Context, formName string) (schema.Document, error)
}

// AnswerSource fetches previously collected answers for a named form.
// Implementations treat absence (a 404-equivalent) as empty answers, not an
// error.
type AnswerSource interface {
	Answers(ctx context.Context, formName string) (map[string]any, error)
}

// Collector accepts submission envelopes. The returned Result carries any
// server messages plus the forward directive naming the next form in a
// multi-step chain. A 403 response surfaces as an error satisfying
// IsAccessDenied.
type Collector interface {
	Submit(ctx context.Context, env Envelope, token string) (Result, error)
}

// TokenProvider supplies the opaque bearer credential attached to outgoing
// requests. Refresh is invoked at most once per submission, after a 403.
// Providers that know the authenticated user's name can additionally
// implement IdentityProvider.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// IdentityProvider optionally exposes the username stamped into submission
// envelopes.
type IdentityProvider interface {
	Username() string
}

// Envelope is the submission payload sent to the collector. It is built at
// submit time and never stored between sessions.
type Envelope struct {
	Username    string         `json:"username"`
	FormName    string         `json:"formFname"`
	FormVersion string         `json:"formVersion"`
	Timestamp   string         `json:"timestamp"`
	Answers     map[string]any `json:"answers"`
}

// Result is the collector's reply to a successful submission.
type Result struct {
	// Messages are optional server-supplied strings shown in the success
	// notice.
	Messages []string
	// MessageHeader is an optional heading for those messages.
	MessageHeader string
	// NextForm carries the forward directive: the name of the form to load
	// immediately, replacing the current session. Empty means the chain
	// ends here.
	NextForm string
}

// StatusError reports a non-2xx collector response. Message text prefers
// the server-supplied header and body strings when present.
type StatusError struct {
	StatusCode    int
	MessageHeader string
	Messages      []string
}

func (e *StatusError) Error() string {
	if e.MessageHeader != "" {
		return fmt.Sprintf("session: collector returned %d: %s", e.StatusCode, e.MessageHeader)
	}
	return fmt.Sprintf("session: collector returned %d", e.StatusCode)
}

// IsAccessDenied reports whether the error is a 403 collector response,
// the trigger for the bounded refresh-and-retry path.
func IsAccessDenied(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == 403
}
