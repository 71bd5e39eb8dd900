// Package session owns the live form tuple (schema, UI hints, answers,
// field errors, form name and version) and drives the submission state
// machine around it. A session is created on initial load or when a forward
// directive replaces the previous form, and is discarded wholesale rather
// than merged.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-formflow/pkg/answers"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/uihints"
	"github.com/goliatone/go-formflow/pkg/validate"
	"github.com/goliatone/go-formflow/pkg/view"
)

// State enumerates the submission machine states.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateError      State = "error"
)

// NoticeKind classifies the banner shown above the form controls.
type NoticeKind string

const (
	NoticeValidation NoticeKind = "validation"
	NoticeSuccess    NoticeKind = "success"
	NoticeError      NoticeKind = "error"
)

// Notice is the user-facing banner for the current state: a validation
// summary before the first field, a success message, or a submission
// failure.
type Notice struct {
	Kind     NoticeKind
	Header   string
	Messages []string
}

// Events carries the callbacks emitted to the embedding caller.
type Events struct {
	// OnSubmitSuccess fires after the collector accepts an envelope.
	OnSubmitSuccess func(Envelope)
	// OnSubmitError fires when a submission fails terminally for this
	// attempt.
	OnSubmitError func(error)
}

// Option customises a Session.
type Option func(*Session)

// WithCollector wires the submission sink.
func WithCollector(collector Collector) Option {
	return func(s *Session) { s.collector = collector }
}

// WithTokenProvider wires the authentication collaborator. Without one, a
// 403 response surfaces the generic submission failure immediately.
func WithTokenProvider(tokens TokenProvider) Option {
	return func(s *Session) { s.tokens = tokens }
}

// WithSources wires the schema and answer sources used when a forward
// directive replaces the session.
func WithSources(schemas SchemaSource, priors AnswerSource) Option {
	return func(s *Session) {
		s.schemas = schemas
		s.priors = priors
	}
}

// WithEvents registers the emitted-event callbacks.
func WithEvents(events Events) Option {
	return func(s *Session) { s.events = events }
}

// WithDefaultIdentity overrides the placeholder username stamped into
// envelopes when no identity provider is configured. This is policy, not an
// invariant; the default is "unknown".
func WithDefaultIdentity(username string) Option {
	return func(s *Session) {
		if username != "" {
			s.defaultIdentity = username
		}
	}
}

// WithValidator injects a configured validator.
func WithValidator(v *validate.Validator) Option {
	return func(s *Session) {
		if v != nil {
			s.validator = v
		}
	}
}

// WithViewBuilder injects a configured view builder.
func WithViewBuilder(b *view.Builder) Option {
	return func(s *Session) {
		if b != nil {
			s.builder = b
		}
	}
}

// WithClock overrides the timestamp source for envelopes. Tests use this to
// pin submission timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// Session is the active form session. Methods are safe for concurrent use;
// the answer structure is replaced copy-on-write so a render pass holding a
// previous snapshot never observes a torn write.
type Session struct {
	mu sync.Mutex

	doc         schema.Document
	hints       *uihints.Tree
	answers     map[string]any
	fieldErrors map[string]string
	formName    string

	state  State
	notice *Notice

	inFlight atomic.Bool

	collector       Collector
	tokens          TokenProvider
	schemas         SchemaSource
	priors          AnswerSource
	events          Events
	validator       *validate.Validator
	builder         *view.Builder
	defaultIdentity string
	now             func() time.Time
}

// New constructs a Session for an already loaded schema document and prior
// answers. Most callers use Load instead.
func New(formName string, doc schema.Document, prior map[string]any, options ...Option) *Session {
	s := &Session{
		doc:             doc,
		hints:           uihints.FromMetadata(doc.Metadata),
		answers:         prior,
		fieldErrors:     make(map[string]string),
		formName:        formName,
		state:           StateIdle,
		validator:       validate.New(),
		builder:         view.New(),
		defaultIdentity: "unknown",
		now:             time.Now,
	}
	if s.answers == nil {
		s.answers = make(map[string]any)
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Load fetches the schema document and prior answers concurrently, waiting
// for both before the session counts as loaded, and constructs the session.
// A schema failure is fatal; a missing answer set is empty, and answer
// sources are optional entirely.
func Load(ctx context.Context, formName string, schemas SchemaSource, priors AnswerSource, options ...Option) (*Session, error) {
	if schemas == nil {
		return nil, fmt.Errorf("session: schema source is required")
	}

	type schemaResult struct {
		doc schema.Document
		err error
	}
	type answerResult struct {
		prior map[string]any
		err   error
	}

	schemaCh := make(chan schemaResult, 1)
	answerCh := make(chan answerResult, 1)

	go func() {
		doc, err := schemas.Schema(ctx, formName)
		schemaCh <- schemaResult{doc: doc, err: err}
	}()
	go func() {
		if priors == nil {
			answerCh <- answerResult{}
			return
		}
		prior, err := priors.Answers(ctx, formName)
		answerCh <- answerResult{prior: prior, err: err}
	}()

	schemaRes := <-schemaCh
	answerRes := <-answerCh

	if schemaRes.err != nil {
		return nil, fmt.Errorf("session: load schema for %q: %w", formName, schemaRes.err)
	}
	if answerRes.err != nil {
		return nil, fmt.Errorf("session: load answers for %q: %w", formName, answerRes.err)
	}

	options = append(options, WithSources(schemas, priors))
	return New(formName, schemaRes.doc, answerRes.prior, options...), nil
}

// FormName returns the active form's name.
func (s *Session) FormName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formName
}

// FormVersion returns the active form's version string.
func (s *Session) FormVersion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Version
}

// State returns the current submission state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Notice returns the current banner, or nil when none is shown.
func (s *Session) Notice() *Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// Value resolves a dotted path against the current answers.
func (s *Session) Value(path string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return answers.Get(s.answers, path)
}

// SetValue binds an edited value at the dotted path. The field's error is
// cleared synchronously, before any subsequent async work can observe it,
// and an Error state falls back to Idle so the form is editable again.
func (s *Session) SetValue(path string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.answers = answers.Set(s.answers, path, value)
	if _, ok := s.fieldErrors[path]; ok {
		cleared := make(map[string]string, len(s.fieldErrors))
		for key, message := range s.fieldErrors {
			if key == path {
				continue
			}
			cleared[key] = message
		}
		s.fieldErrors = cleared
	}
	if s.state == StateError {
		s.state = StateIdle
		s.notice = nil
	}
}

// Answers returns the current answer snapshot. Callers must treat it as
// read-only; edits go through SetValue.
func (s *Session) Answers() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers
}

// FieldErrors returns the current error map snapshot.
func (s *Session) FieldErrors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.fieldErrors))
	for key, message := range s.fieldErrors {
		out[key] = message
	}
	return out
}

// SchemaAt resolves a dotted path within the active schema tree.
func (s *Session) SchemaAt(path string) *schema.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return schema.AtPath(s.doc.Schema, path)
}

// ValidateForm rebuilds the whole field-error map from the current answers
// and reports whether the form is valid. The previous map is replaced, not
// accumulated into.
func (s *Session) ValidateForm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked()
}

func (s *Session) validateLocked() bool {
	s.fieldErrors = s.validator.Validate(s.doc.Schema, s.answers)
	return len(s.fieldErrors) == 0
}

// Reset discards all answers and errors and returns the session to Idle.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = make(map[string]any)
	s.fieldErrors = make(map[string]string)
	s.state = StateIdle
	s.notice = nil
}

// View builds the render tree for the current session state. Terminal
// success hides the controls; the renderer consults State for that.
func (s *Session) View() view.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builder.Build(s.doc.Schema, s.hints, s.answers, s.fieldErrors)
}

// replaceLocked swaps the whole form tuple for a forwarded session. The
// previous answers and errors are discarded, never merged.
func (s *Session) replaceLocked(formName string, doc schema.Document, prior map[string]any) {
	s.doc = doc
	s.hints = uihints.FromMetadata(doc.Metadata)
	s.answers = prior
	if s.answers == nil {
		s.answers = make(map[string]any)
	}
	s.fieldErrors = make(map[string]string)
	s.formName = formName
}
