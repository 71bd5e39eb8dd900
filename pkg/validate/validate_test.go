package validate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/schema"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func profileSchema() *schema.Node {
	return &schema.Node{
		Type:     "object",
		Required: []string{"name", "email"},
		Properties: map[string]*schema.Node{
			"name": {
				Type:      "string",
				MinLength: intPtr(2),
				MaxLength: intPtr(10),
			},
			"email": {
				Type:   "string",
				Format: "email",
			},
			"age": {
				Type:    "integer",
				Minimum: floatPtr(18),
				Maximum: floatPtr(120),
			},
			"address": {
				Type:     "object",
				Required: []string{"city"},
				Properties: map[string]*schema.Node{
					"street": {Type: "string"},
					"city":   {Type: "string", MinLength: intPtr(2)},
				},
			},
		},
	}
}

func TestValidateRequired(t *testing.T) {
	root := profileSchema()

	errs := Validate(root, map[string]any{
		"email":   "ada@example.com",
		"address": map[string]any{"city": "Turin"},
	})

	want := map[string]string{
		"name": "This field is required",
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateRequiredIsNodeLocal(t *testing.T) {
	root := profileSchema()

	// address.city is required by the address node, not the root, so it
	// only fires once the address branch is visited.
	errs := Validate(root, map[string]any{
		"name":    "Ada",
		"email":   "ada@example.com",
		"address": map[string]any{"street": "Via Po"},
	})

	want := map[string]string{
		"address.city": "This field is required",
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateEmptyValuesSkipLeafRules(t *testing.T) {
	root := profileSchema()

	// Optional fields left empty never fail format or bound checks.
	errs := Validate(root, map[string]any{
		"name":    "Ada",
		"email":   "ada@example.com",
		"age":     nil,
		"address": map[string]any{"city": "Turin", "street": ""},
	})
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateLeafRules(t *testing.T) {
	tests := []struct {
		name  string
		node  *schema.Node
		value any
		want  string
	}{
		{
			name:  "email format",
			node:  &schema.Node{Type: "string", Format: "email"},
			value: "not-an-email",
			want:  "Invalid email address",
		},
		{
			name:  "email passes",
			node:  &schema.Node{Type: "string", Format: "email"},
			value: "ada@example.com",
			want:  "",
		},
		{
			name:  "pattern",
			node:  &schema.Node{Type: "string", Pattern: "^[a-z]+$"},
			value: "Ada",
			want:  "Invalid format",
		},
		{
			name:  "pattern error message override",
			node:  &schema.Node{Type: "string", Pattern: "^[a-z]+$", PatternErrorMessage: "lowercase only"},
			value: "Ada",
			want:  "lowercase only",
		},
		{
			name:  "invalid pattern is skipped",
			node:  &schema.Node{Type: "string", Pattern: "(["},
			value: "anything",
			want:  "",
		},
		{
			name:  "number type",
			node:  &schema.Node{Type: "number"},
			value: "not a number",
			want:  "Must be a number",
		},
		{
			name:  "number string coerces",
			node:  &schema.Node{Type: "number", Minimum: floatPtr(1)},
			value: "2.5",
			want:  "",
		},
		{
			name:  "minimum",
			node:  &schema.Node{Type: "integer", Minimum: floatPtr(18)},
			value: float64(12),
			want:  "Must be at least 18",
		},
		{
			name:  "maximum",
			node:  &schema.Node{Type: "integer", Maximum: floatPtr(120)},
			value: float64(200),
			want:  "Must be at most 120",
		},
		{
			name:  "fractional bound formats as typed",
			node:  &schema.Node{Type: "number", Minimum: floatPtr(0.5)},
			value: float64(0.1),
			want:  "Must be at least 0.5",
		},
		{
			name:  "minLength",
			node:  &schema.Node{Type: "string", MinLength: intPtr(3)},
			value: "ab",
			want:  "Must be at least 3 characters",
		},
		{
			name:  "minLength counts runes",
			node:  &schema.Node{Type: "string", MinLength: intPtr(3)},
			value: "héé",
			want:  "",
		},
		{
			name:  "maxLength",
			node:  &schema.Node{Type: "string", MaxLength: intPtr(3)},
			value: "abcd",
			want:  "Must be at most 3 characters",
		},
	}

	v := New()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := &schema.Node{
				Type:       "object",
				Properties: map[string]*schema.Node{"field": tc.node},
			}
			got := v.validateLeaf(tc.node, root, "field", tc.value)
			if got != tc.want {
				t.Errorf("validateLeaf = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidateRuleOrderFirstFailureWins(t *testing.T) {
	// A value violating both the email format and the length bound reports
	// only the format failure.
	node := &schema.Node{
		Type:      "string",
		Format:    "email",
		MaxLength: intPtr(3),
	}
	root := &schema.Node{
		Type:       "object",
		Properties: map[string]*schema.Node{"email": node},
	}

	errs := Validate(root, map[string]any{"email": "definitely-not-an-email"})
	want := map[string]string{"email": "Invalid email address"}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateRequiredShadowsLeafRules(t *testing.T) {
	root := &schema.Node{
		Type:     "object",
		Required: []string{"name"},
		Properties: map[string]*schema.Node{
			"name": {Type: "string", MinLength: intPtr(2)},
		},
	}

	errs := Validate(root, map[string]any{"name": ""})
	want := map[string]string{"name": "This field is required"}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestCustomMessage(t *testing.T) {
	root := &schema.Node{
		Type: "object",
		Properties: map[string]*schema.Node{
			"address": {
				Type: "object",
				Properties: map[string]*schema.Node{
					"city": {
						Type:     "string",
						Messages: map[string]string{"required": "We need your city"},
					},
				},
			},
		},
	}

	if got := CustomMessage(root, "address.city", RuleRequired); got != "We need your city" {
		t.Errorf("CustomMessage = %q", got)
	}
	if got := CustomMessage(root, "address.city", RulePattern); got != "" {
		t.Errorf("unknown rule should resolve empty, got %q", got)
	}
	if got := CustomMessage(root, "address.zip", RuleRequired); got != "" {
		t.Errorf("missing path should resolve empty, got %q", got)
	}
}

func TestValidateUsesCustomMessages(t *testing.T) {
	root := &schema.Node{
		Type:     "object",
		Required: []string{"name"},
		Properties: map[string]*schema.Node{
			"name": {
				Type:     "string",
				Messages: map[string]string{"required": "Tell us your name"},
			},
			"email": {
				Type:     "string",
				Format:   "email",
				Messages: map[string]string{"email": "That address looks off"},
			},
		},
	}

	errs := Validate(root, map[string]any{"email": "nope"})
	want := map[string]string{
		"name":  "Tell us your name",
		"email": "That address looks off",
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateDepthCeiling(t *testing.T) {
	// Build a chain three objects deep with a required leaf at the bottom.
	leaf := &schema.Node{
		Type:     "object",
		Required: []string{"value"},
		Properties: map[string]*schema.Node{
			"value": {Type: "string"},
		},
	}
	mid := &schema.Node{
		Type:       "object",
		Properties: map[string]*schema.Node{"inner": leaf},
	}
	root := &schema.Node{
		Type:       "object",
		Properties: map[string]*schema.Node{"outer": mid},
	}

	var warnedPath string
	var warnedDepth int
	v := New(
		WithMaxDepth(2),
		WithDepthWarning(func(path string, depth int) {
			warnedPath = path
			warnedDepth = depth
		}),
	)

	errs := v.Validate(root, map[string]any{})
	if len(errs) != 0 {
		t.Errorf("abandoned branch should carry no errors, got %v", errs)
	}
	if warnedPath != "outer.inner" || warnedDepth != 2 {
		t.Errorf("warning = (%q, %d), want (outer.inner, 2)", warnedPath, warnedDepth)
	}
}

func TestValidateNilSchema(t *testing.T) {
	errs := Validate(nil, map[string]any{"name": "Ada"})
	if len(errs) != 0 {
		t.Errorf("nil schema should validate cleanly, got %v", errs)
	}
}
