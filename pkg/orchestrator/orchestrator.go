package orchestrator

import (
	"context"
	"errors"
	"fmt"

	internalcollector "github.com/goliatone/go-formflow/internal/collector"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
	"github.com/goliatone/go-formflow/pkg/renderers/vanilla"
	"github.com/goliatone/go-formflow/pkg/session"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithSchemaSource injects a custom schema source.
func WithSchemaSource(schemas session.SchemaSource) Option {
	return func(o *Orchestrator) {
		o.schemas = schemas
	}
}

// WithAnswerSource injects a custom prior-answer source.
func WithAnswerSource(priors session.AnswerSource) Option {
	return func(o *Orchestrator) {
		o.priors = priors
	}
}

// WithCollector injects a custom submission sink.
func WithCollector(collector session.Collector) Option {
	return func(o *Orchestrator) {
		o.collector = collector
	}
}

// WithTokenProvider injects the authentication collaborator.
func WithTokenProvider(tokens session.TokenProvider) Option {
	return func(o *Orchestrator) {
		o.tokens = tokens
	}
}

// WithCollectorBaseURL wires the schema source, answer source, and
// submission sink to a single collector service.
func WithCollectorBaseURL(baseURL string, options ...internalcollector.Option) Option {
	return func(o *Orchestrator) {
		client, err := internalcollector.New(baseURL, options...)
		if err != nil {
			o.initialiseErr = err
			return
		}
		o.schemas = client
		o.priors = client
		o.collector = client
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit renderer name.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithSessionOptions forwards extra options to every session the
// orchestrator starts, for example a pinned clock or event callbacks.
func WithSessionOptions(options ...session.Option) Option {
	return func(o *Orchestrator) {
		o.sessionOptions = append(o.sessionOptions, options...)
	}
}

// Orchestrator coordinates the full pipeline: load a form into a session,
// render it through a named renderer, and hand the session back for edits
// and submission. Missing dependencies are initialised with the built-in
// implementations so callers can start with a single constructor call.
type Orchestrator struct {
	schemas         session.SchemaSource
	priors          session.AnswerSource
	collector       session.Collector
	tokens          session.TokenProvider
	registry        *render.Registry
	defaultRenderer string
	sessionOptions  []session.Option
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.registry != nil {
		return
	}

	registry := render.NewRegistry()

	html, err := vanilla.New()
	if err != nil {
		if o.initialiseErr == nil {
			o.initialiseErr = fmt.Errorf("orchestrator: initialise vanilla renderer: %w", err)
		}
		return
	}
	registry.MustRegister(html)
	registry.MustRegister(tui.New())

	o.registry = registry
}

// Start loads the named form into a fresh session wired to the
// orchestrator's collaborators.
func (o *Orchestrator) Start(ctx context.Context, formName string) (*session.Session, error) {
	if o.initialiseErr != nil {
		return nil, o.initialiseErr
	}
	if o.schemas == nil {
		return nil, errors.New("orchestrator: schema source is required")
	}

	options := make([]session.Option, 0, len(o.sessionOptions)+2)
	if o.collector != nil {
		options = append(options, session.WithCollector(o.collector))
	}
	if o.tokens != nil {
		options = append(options, session.WithTokenProvider(o.tokens))
	}
	options = append(options, o.sessionOptions...)

	return session.Load(ctx, formName, o.schemas, o.priors, options...)
}

// Render draws the current session state through the named renderer. An
// empty name selects the default renderer.
func (o *Orchestrator) Render(ctx context.Context, sess *session.Session, rendererName string, options render.RenderOptions) ([]byte, error) {
	if o.initialiseErr != nil {
		return nil, o.initialiseErr
	}
	if sess == nil {
		return nil, errors.New("orchestrator: session is required")
	}

	name := rendererName
	if name == "" {
		name = o.defaultRenderer
	}
	renderer, err := o.registry.Get(name)
	if err != nil {
		return nil, err
	}

	return renderer.Render(ctx, render.Snapshot(sess), options)
}

// Renderers exposes the configured registry, for callers that want to
// register additional surfaces.
func (o *Orchestrator) Renderers() *render.Registry {
	return o.registry
}
