// Package template defines the renderer-agnostic template engine contract
// plus the adapters that satisfy it. Renderers that emit markup depend on
// the TemplateRenderer seam rather than a concrete engine.
package template
