// Package render defines the renderer contract shared by every output
// surface (vanilla HTML, TUI) and the registry used to discover them by
// name.
package render

import (
	"context"

	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/view"
)

// Form is the immutable snapshot a renderer consumes: the resolved render
// tree plus the session state that decides which chrome to draw around it.
type Form struct {
	Name    string
	Version string
	State   session.State
	Notice  *session.Notice
	Tree    view.Tree
}

// Snapshot captures the current session as a renderable form.
func Snapshot(s *session.Session) Form {
	return Form{
		Name:    s.FormName(),
		Version: s.FormVersion(),
		State:   s.State(),
		Notice:  s.Notice(),
		Tree:    s.View(),
	}
}

// Terminal reports whether the form reached terminal success, in which case
// renderers hide the controls and show only the success notice.
func (f Form) Terminal() bool {
	return f.State == session.StateSuccess
}

// Renderer converts a form snapshot into a byte representation (HTML,
// terminal output, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form Form, options RenderOptions) ([]byte, error)
}
