package render

// RenderOptions describe per-request data that renderers can use to
// customise their output without touching the session.
type RenderOptions struct {
	// Action is the URL the emitted form posts to. Renderers that do not
	// emit a form element (the TUI) ignore it.
	Action string
	// Method overrides the HTTP method of the emitted form. Defaults to
	// POST when empty.
	Method string
	// Hidden appends extra hidden inputs after the form name and version
	// fields, for example a CSRF token.
	Hidden []HiddenField
}
