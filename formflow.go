// Package formflow exposes the schema-driven form engine through a small
// convenience surface: load a form into a session, render it, submit it.
// Advanced callers wire the subpackages directly.
package formflow

import (
	"context"

	"github.com/goliatone/go-formflow/pkg/orchestrator"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/session"
)

// RenderOptions describes per-request overrides renderers can use.
type RenderOptions = render.RenderOptions

// HiddenField is a hidden input emitted alongside the visible controls.
type HiddenField = render.HiddenField

// Session is the active form session.
type Session = session.Session

// State enumerates the submission machine states.
type State = session.State

// Notice is the user-facing banner for the current session state.
type Notice = session.Notice

// Envelope is the submission payload.
type Envelope = session.Envelope

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// WithCollectorBaseURL wires every collaborator to one collector service.
func WithCollectorBaseURL(baseURL string) orchestrator.Option {
	return orchestrator.WithCollectorBaseURL(baseURL)
}

// RenderHTML loads the named form and renders it with the built-in vanilla
// renderer. It is the simplest entry point for callers that just want HTML
// output; the returned session accepts edits and submission afterwards.
func RenderHTML(ctx context.Context, formName string, options ...orchestrator.Option) ([]byte, *session.Session, error) {
	gen := orchestrator.New(options...)
	sess, err := gen.Start(ctx, formName)
	if err != nil {
		return nil, nil, err
	}
	out, err := gen.Render(ctx, sess, "", render.RenderOptions{})
	if err != nil {
		return nil, nil, err
	}
	return out, sess, nil
}
