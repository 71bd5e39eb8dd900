package widgets

import (
	"testing"

	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/uihints"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		node *schema.Node
		hint uihints.Hint
		want Kind
	}{
		{
			name: "plain string falls back to text",
			node: &schema.Node{Type: "string"},
			want: KindText,
		},
		{
			name: "email format",
			node: &schema.Node{Type: "string", Format: "email"},
			want: KindEmail,
		},
		{
			name: "email format is case insensitive",
			node: &schema.Node{Type: "string", Format: "Email"},
			want: KindEmail,
		},
		{
			name: "date format",
			node: &schema.Node{Type: "string", Format: "date"},
			want: KindDate,
		},
		{
			name: "textarea hint",
			node: &schema.Node{Type: "string"},
			hint: uihints.Hint{Widget: uihints.WidgetTextarea},
			want: KindTextarea,
		},
		{
			name: "number",
			node: &schema.Node{Type: "number"},
			want: KindNumber,
		},
		{
			name: "integer",
			node: &schema.Node{Type: "integer"},
			want: KindNumber,
		},
		{
			name: "boolean",
			node: &schema.Node{Type: "boolean"},
			want: KindCheckbox,
		},
		{
			name: "enum defaults to select",
			node: &schema.Node{Type: "string", Enum: []any{"s", "m", "l"}},
			want: KindSelect,
		},
		{
			name: "enum with radio hint",
			node: &schema.Node{Type: "string", Enum: []any{"s", "m", "l"}},
			hint: uihints.Hint{Widget: uihints.WidgetRadio},
			want: KindRadioGroup,
		},
		{
			name: "single member enum is static even with radio hint",
			node: &schema.Node{Type: "string", Enum: []any{"standard"}},
			hint: uihints.Hint{Widget: uihints.WidgetRadio},
			want: KindStatic,
		},
		{
			name: "enum array defaults to multiselect",
			node: &schema.Node{
				Type:  "array",
				Items: &schema.Node{Type: "string", Enum: []any{"mon", "tue"}},
			},
			want: KindMultiSelect,
		},
		{
			name: "enum array with checkboxes hint",
			node: &schema.Node{
				Type:  "array",
				Items: &schema.Node{Type: "string", Enum: []any{"mon", "tue"}},
			},
			hint: uihints.Hint{Widget: uihints.WidgetCheckboxes},
			want: KindCheckboxGroup,
		},
		{
			name: "array without enum items falls back to text",
			node: &schema.Node{Type: "array", Items: &schema.Node{Type: "string"}},
			want: KindText,
		},
		{
			name: "unknown hint on enum keeps select",
			node: &schema.Node{Type: "string", Enum: []any{"s", "m"}},
			hint: uihints.Hint{Widget: "slider"},
			want: KindSelect,
		},
		{
			name: "nil node resolves to text",
			node: nil,
			want: KindText,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Resolve(tc.node, tc.hint); got != tc.want {
				t.Errorf("Resolve = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRegisterOverridesBuiltins(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Kind("slider"), 200, func(node *schema.Node, hint uihints.Hint) bool {
		return node.Type == "number" && hint.Widget == "slider"
	})

	node := &schema.Node{Type: "number"}
	if got := reg.Resolve(node, uihints.Hint{Widget: "slider"}); got != Kind("slider") {
		t.Errorf("custom rule should win, got %q", got)
	}
	if got := reg.Resolve(node, uihints.Hint{}); got != KindNumber {
		t.Errorf("built-in should still apply without the hint, got %q", got)
	}
}

func TestRegisterTieBreaksByOrder(t *testing.T) {
	reg := NewRegistry()
	always := func(node *schema.Node, hint uihints.Hint) bool { return true }
	reg.Register(Kind("first"), 150, always)
	reg.Register(Kind("second"), 150, always)

	if got := reg.Resolve(&schema.Node{Type: "string"}, uihints.Hint{}); got != Kind("first") {
		t.Errorf("earlier registration should win a priority tie, got %q", got)
	}
}

func TestKindPredicates(t *testing.T) {
	if !KindRadioGroup.Grouped() || !KindCheckboxGroup.Grouped() {
		t.Error("radio-group and checkbox-group should be grouped")
	}
	if KindSelect.Grouped() {
		t.Error("select should not be grouped")
	}
	if KindStatic.Interactive() {
		t.Error("static should not be interactive")
	}
	if !KindCheckboxGroup.Multi() || !KindMultiSelect.Multi() {
		t.Error("checkbox-group and multiselect should bind lists")
	}
	if KindRadioGroup.Multi() {
		t.Error("radio-group should bind a scalar")
	}
}

func TestStep(t *testing.T) {
	if got := Step(&schema.Node{Type: "integer"}); got != "1" {
		t.Errorf("Step(integer) = %q, want 1", got)
	}
	if got := Step(&schema.Node{Type: "number"}); got != "" {
		t.Errorf("Step(number) = %q, want empty", got)
	}
	if got := Step(nil); got != "" {
		t.Errorf("Step(nil) = %q, want empty", got)
	}
}
