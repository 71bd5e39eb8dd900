package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/view"
	"github.com/goliatone/go-formflow/pkg/widgets"
)

// Renderer emits a read-only text rendering of the form: the notice, then
// each field with its current value and any validation error. The
// interactive counterpart is Filler.
type Renderer struct{}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the text renderer.
func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string {
	return "tui"
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, form render.Form, _ render.RenderOptions) ([]byte, error) {
	var builder strings.Builder

	if form.Notice != nil {
		fmt.Fprintf(&builder, "[%s] %s\n", form.Notice.Kind, form.Notice.Header)
		for _, message := range form.Notice.Messages {
			fmt.Fprintf(&builder, "  - %s\n", message)
		}
		builder.WriteByte('\n')
	}

	if title := strings.TrimSpace(form.Tree.Title); title != "" {
		builder.WriteString(title)
		builder.WriteByte('\n')
		builder.WriteString(strings.Repeat("=", len(title)))
		builder.WriteByte('\n')
	}
	if desc := strings.TrimSpace(form.Tree.Description); desc != "" {
		builder.WriteString(desc)
		builder.WriteString("\n\n")
	}

	if form.Terminal() || form.Tree.Informational {
		return []byte(builder.String()), nil
	}

	writeNodes(&builder, form.Tree.Children, 0)
	return []byte(builder.String()), nil
}

func writeNodes(builder *strings.Builder, nodes []view.Node, indent int) {
	prefix := strings.Repeat("  ", indent)
	for _, node := range nodes {
		if node.Group {
			fmt.Fprintf(builder, "%s%s\n", prefix, node.Title)
			writeNodes(builder, node.Children, indent+1)
			continue
		}
		writeField(builder, node, prefix)
	}
}

func writeField(builder *strings.Builder, node view.Node, prefix string) {
	label := node.Title
	if node.Required {
		label += " *"
	}

	value := ""
	switch node.Widget {
	case widgets.KindStatic:
		if len(node.Choices) > 0 {
			value = node.Choices[0].Label
		}
	case widgets.KindMultiSelect, widgets.KindCheckboxGroup:
		var selected []string
		for _, choice := range node.Choices {
			if choice.Selected {
				selected = append(selected, choice.Label)
			}
		}
		value = strings.Join(selected, ", ")
	default:
		value = currentString(node.Value)
	}

	fmt.Fprintf(builder, "%s%s: %s\n", prefix, label, value)
	if node.Error != "" {
		fmt.Fprintf(builder, "%s  ! %s\n", prefix, node.Error)
	}
}
