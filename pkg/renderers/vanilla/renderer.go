// Package vanilla renders a form session as dependency-free HTML. The
// markup carries data attributes for the field paths so a thin client
// runtime can bind edits back to the session without a framework.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formflow/pkg/render"
	rendertemplate "github.com/goliatone/go-formflow/pkg/render/template"
	gotemplate "github.com/goliatone/go-formflow/pkg/render/template/gotemplate"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	descriptions     *bluemonday.Policy
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithDescriptionPolicy overrides the sanitizer applied to schema-supplied
// titles and descriptions. Schema authors may use simple inline markup;
// everything else is stripped before the text reaches the page.
func WithDescriptionPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.descriptions = policy
		}
	}
}

// Renderer emits the built-in HTML surface.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	descriptions *bluemonday.Policy
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:   TemplatesFS(),
		descriptions: bluemonday.UGCPolicy(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, descriptions: cfg.descriptions}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render emits the whole form: notice banner, hidden envelope fields, then
// the field controls. Terminal success renders the notice alone; an
// informational form renders title and description with no controls or
// submit affordance.
func (r *Renderer) Render(_ context.Context, form render.Form, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	fields := newFieldRenderer(r.descriptions)

	var fieldsHTML string
	if !form.Terminal() && !form.Tree.Informational {
		fieldsHTML = fields.renderAll(form.Tree.Children)
	}

	method := options.Method
	if method == "" {
		method = "POST"
	}

	hidden := make([]map[string]string, 0, 4)
	for _, field := range render.MergeHidden(form, options.Hidden...) {
		hidden = append(hidden, map[string]string{"name": field.Name, "value": field.Value})
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", map[string]any{
		"title":         r.descriptions.Sanitize(form.Tree.Title),
		"description":   r.descriptions.Sanitize(form.Tree.Description),
		"informational": form.Tree.Informational,
		"terminal":      form.Terminal(),
		"notice":        noticeContext(form),
		"action":        options.Action,
		"method":        method,
		"hidden":        hidden,
		"fields":        fieldsHTML,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func noticeContext(form render.Form) map[string]any {
	if form.Notice == nil {
		return nil
	}
	return map[string]any{
		"kind":     string(form.Notice.Kind),
		"header":   form.Notice.Header,
		"messages": form.Notice.Messages,
	}
}
