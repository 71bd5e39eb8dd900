package vanilla

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formflow/pkg/view"
	"github.com/goliatone/go-formflow/pkg/widgets"
)

type fieldRenderer struct {
	descriptions *bluemonday.Policy
}

func newFieldRenderer(descriptions *bluemonday.Policy) *fieldRenderer {
	if descriptions == nil {
		descriptions = bluemonday.UGCPolicy()
	}
	return &fieldRenderer{descriptions: descriptions}
}

func (r *fieldRenderer) renderAll(nodes []view.Node) string {
	var builder strings.Builder
	for _, node := range nodes {
		r.renderNode(&builder, node)
	}
	return builder.String()
}

func (r *fieldRenderer) renderNode(builder *strings.Builder, node view.Node) {
	if node.Group {
		r.renderGroup(builder, node)
		return
	}
	r.renderField(builder, node)
}

func (r *fieldRenderer) renderGroup(builder *strings.Builder, node view.Node) {
	builder.WriteString(`<fieldset class="ff-group" data-path="`)
	builder.WriteString(html.EscapeString(node.Path))
	builder.WriteString("\">\n")

	if title := strings.TrimSpace(node.Title); title != "" {
		builder.WriteString(`    <legend>`)
		builder.WriteString(html.EscapeString(title))
		builder.WriteString("</legend>\n")
	}
	if desc := strings.TrimSpace(node.Description); desc != "" {
		builder.WriteString(`    <p class="ff-group-description">`)
		builder.WriteString(r.descriptions.Sanitize(desc))
		builder.WriteString("</p>\n")
	}
	for _, child := range node.Children {
		r.renderNode(builder, child)
	}
	builder.WriteString("</fieldset>\n")
}

func (r *fieldRenderer) renderField(builder *strings.Builder, node view.Node) {
	builder.WriteString(`<div class="ff-field`)
	if node.Error != "" {
		builder.WriteString(" ff-field-invalid")
	}
	builder.WriteString(`" data-path="`)
	builder.WriteString(html.EscapeString(node.Path))
	builder.WriteString(`" data-widget="`)
	builder.WriteString(html.EscapeString(string(node.Widget)))
	builder.WriteString("\">\n")

	if !node.LabelHidden && node.Widget != widgets.KindCheckbox && node.Widget != widgets.KindStatic {
		r.renderLabel(builder, node)
	}

	switch node.Widget {
	case widgets.KindTextarea:
		r.renderTextarea(builder, node)
	case widgets.KindCheckbox:
		r.renderCheckbox(builder, node)
	case widgets.KindSelect, widgets.KindMultiSelect:
		r.renderSelect(builder, node)
	case widgets.KindRadioGroup, widgets.KindCheckboxGroup:
		r.renderChoiceGroup(builder, node)
	case widgets.KindStatic:
		r.renderStatic(builder, node)
	default:
		r.renderInput(builder, node)
	}

	if desc := strings.TrimSpace(node.Description); desc != "" {
		builder.WriteString(`    <small class="ff-description">`)
		builder.WriteString(r.descriptions.Sanitize(desc))
		builder.WriteString("</small>\n")
	}
	if node.Error != "" {
		builder.WriteString(`    <p class="ff-error" role="alert">`)
		builder.WriteString(html.EscapeString(node.Error))
		builder.WriteString("</p>\n")
	}

	builder.WriteString("</div>\n")
}

func (r *fieldRenderer) renderLabel(builder *strings.Builder, node view.Node) {
	builder.WriteString(`    <label for="`)
	builder.WriteString(controlID(node.Path))
	builder.WriteString(`">`)
	builder.WriteString(html.EscapeString(node.Title))
	if node.Required {
		builder.WriteString(` <span class="ff-required" aria-hidden="true">*</span>`)
	}
	builder.WriteString("</label>\n")
}

func (r *fieldRenderer) renderInput(builder *strings.Builder, node view.Node) {
	inputType := "text"
	switch node.Widget {
	case widgets.KindEmail:
		inputType = "email"
	case widgets.KindDate:
		inputType = "date"
	case widgets.KindNumber:
		inputType = "number"
	}

	builder.WriteString(`    <input type="`)
	builder.WriteString(inputType)
	builder.WriteString(`" id="`)
	builder.WriteString(controlID(node.Path))
	builder.WriteString(`" name="`)
	builder.WriteString(html.EscapeString(node.Path))
	builder.WriteString(`"`)
	if value := valueString(node.Value); value != "" {
		builder.WriteString(` value="`)
		builder.WriteString(html.EscapeString(value))
		builder.WriteString(`"`)
	}
	if node.Widget == widgets.KindNumber && node.Step != "" {
		builder.WriteString(` step="`)
		builder.WriteString(node.Step)
		builder.WriteString(`"`)
	}
	writeValidityAttrs(builder, node)
	builder.WriteString(">\n")
}

func (r *fieldRenderer) renderTextarea(builder *strings.Builder, node view.Node) {
	builder.WriteString(`    <textarea id="`)
	builder.WriteString(controlID(node.Path))
	builder.WriteString(`" name="`)
	builder.WriteString(html.EscapeString(node.Path))
	builder.WriteString(`"`)
	writeValidityAttrs(builder, node)
	builder.WriteString(">")
	builder.WriteString(html.EscapeString(valueString(node.Value)))
	builder.WriteString("</textarea>\n")
}

func (r *fieldRenderer) renderCheckbox(builder *strings.Builder, node view.Node) {
	builder.WriteString(`    <label class="ff-checkbox"><input type="checkbox" id="`)
	builder.WriteString(controlID(node.Path))
	builder.WriteString(`" name="`)
	builder.WriteString(html.EscapeString(node.Path))
	builder.WriteString(`"`)
	if checked, ok := node.Value.(bool); ok && checked {
		builder.WriteString(" checked")
	}
	writeValidityAttrs(builder, node)
	builder.WriteString("> ")
	builder.WriteString(html.EscapeString(node.Title))
	if node.Required {
		builder.WriteString(` <span class="ff-required" aria-hidden="true">*</span>`)
	}
	builder.WriteString("</label>\n")
}

func (r *fieldRenderer) renderSelect(builder *strings.Builder, node view.Node) {
	builder.WriteString(`    <select id="`)
	builder.WriteString(controlID(node.Path))
	builder.WriteString(`" name="`)
	builder.WriteString(html.EscapeString(node.Path))
	builder.WriteString(`"`)
	if node.Widget == widgets.KindMultiSelect {
		builder.WriteString(" multiple")
	}
	writeValidityAttrs(builder, node)
	builder.WriteString(">\n")

	if node.Widget == widgets.KindSelect {
		builder.WriteString("        <option value=\"\"></option>\n")
	}
	for _, choice := range node.Choices {
		builder.WriteString(`        <option value="`)
		builder.WriteString(html.EscapeString(choice.Value))
		builder.WriteString(`"`)
		if choice.Selected {
			builder.WriteString(" selected")
		}
		builder.WriteString(">")
		builder.WriteString(html.EscapeString(choice.Label))
		builder.WriteString("</option>\n")
	}
	builder.WriteString("    </select>\n")
}

// renderChoiceGroup draws radio and checkbox groups as a fieldset whose
// legend stands in for the suppressed field label.
func (r *fieldRenderer) renderChoiceGroup(builder *strings.Builder, node view.Node) {
	inputType := "radio"
	if node.Widget == widgets.KindCheckboxGroup {
		inputType = "checkbox"
	}

	builder.WriteString(`    <fieldset class="ff-choices`)
	if node.Inline {
		builder.WriteString(" ff-inline")
	}
	builder.WriteString("\">\n")
	builder.WriteString(`        <legend>`)
	builder.WriteString(html.EscapeString(node.Title))
	if node.Required {
		builder.WriteString(` <span class="ff-required" aria-hidden="true">*</span>`)
	}
	builder.WriteString("</legend>\n")

	for i, choice := range node.Choices {
		builder.WriteString(`        <label><input type="`)
		builder.WriteString(inputType)
		builder.WriteString(`" name="`)
		builder.WriteString(html.EscapeString(node.Path))
		builder.WriteString(`" id="`)
		builder.WriteString(choiceID(node.Path, i))
		builder.WriteString(`" value="`)
		builder.WriteString(html.EscapeString(choice.Value))
		builder.WriteString(`"`)
		if choice.Selected {
			builder.WriteString(" checked")
		}
		builder.WriteString("> ")
		builder.WriteString(html.EscapeString(choice.Label))
		builder.WriteString("</label>\n")
	}
	builder.WriteString("    </fieldset>\n")
}

// renderStatic shows a single-value enum as a plain text label carrying the
// field title. No input control is emitted, no label element points at one,
// and nothing is bound into the answers. The fixed value rides along as a
// data attribute.
func (r *fieldRenderer) renderStatic(builder *strings.Builder, node view.Node) {
	builder.WriteString(`    <p class="ff-static" data-path="`)
	builder.WriteString(html.EscapeString(node.Path))
	builder.WriteString(`"`)
	if len(node.Choices) > 0 {
		builder.WriteString(` data-value="`)
		builder.WriteString(html.EscapeString(node.Choices[0].Value))
		builder.WriteString(`"`)
	}
	builder.WriteString(">")
	builder.WriteString(html.EscapeString(node.Title))
	builder.WriteString("</p>\n")
}

func writeValidityAttrs(builder *strings.Builder, node view.Node) {
	if node.Required {
		builder.WriteString(" required")
	}
	if node.Error != "" {
		builder.WriteString(` aria-invalid="true" data-validation="error"`)
	}
}
