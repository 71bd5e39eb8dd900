package schema

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const contactDocument = `{
	"version": "3",
	"schema": {
		"type": "object",
		"title": "Contact",
		"required": ["name"],
		"properties": {
			"name": {"type": "string", "title": "Name", "minLength": 2},
			"email": {"type": "string", "format": "email"},
			"address": {
				"type": "object",
				"required": ["city"],
				"properties": {
					"street": {"type": "string"},
					"city": {"type": "string"}
				}
			}
		}
	},
	"metadata": {"uiHints": {"email": {"widget": "email"}}}
}`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(contactDocument))
	if err != nil {
		t.Fatalf("ParseDocument returned error: %v", err)
	}

	if doc.Version != "3" {
		t.Errorf("Version = %q, want %q", doc.Version, "3")
	}
	if doc.Schema == nil || doc.Schema.Title != "Contact" {
		t.Fatalf("Schema root not parsed: %+v", doc.Schema)
	}
	if _, ok := doc.Metadata["uiHints"]; !ok {
		t.Errorf("Metadata missing uiHints key: %v", doc.Metadata)
	}

	wantOrder := []string{"name", "email", "address"}
	if diff := cmp.Diff(wantOrder, doc.Schema.Order); diff != "" {
		t.Errorf("root property order mismatch (-want +got):\n%s", diff)
	}

	address := doc.Schema.Properties["address"]
	if address == nil {
		t.Fatal("address node missing")
	}
	if diff := cmp.Diff([]string{"street", "city"}, address.Order); diff != "" {
		t.Errorf("nested property order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"city"}, address.Required); diff != "" {
		t.Errorf("nested required mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDocumentNumericVersion(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"version": 7, "schema": {"type": "object", "properties": {"a": {"type": "string"}}}}`))
	if err != nil {
		t.Fatalf("ParseDocument returned error: %v", err)
	}
	if doc.Version != "7" {
		t.Errorf("Version = %q, want %q", doc.Version, "7")
	}
}

func TestParseDocumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{name: "empty payload", raw: "", wantErr: "document is empty"},
		{name: "not json", raw: "{", wantErr: "decode document"},
		{name: "missing schema", raw: `{"version": "1"}`, wantErr: "has no schema"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tc.raw))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tc.wantErr)
			}
		})
	}
}

func TestFromMapReadsConstraints(t *testing.T) {
	node, err := FromMap(map[string]any{
		"type":                "string",
		"title":               "  Headline  ",
		"pattern":             "^[a-z]+$",
		"patternErrorMessage": "lowercase only",
		"minLength":           float64(2),
		"maxLength":           float64(8),
		"messages": map[string]any{
			"required": "say something",
		},
	}, "headline")
	if err != nil {
		t.Fatalf("FromMap returned error: %v", err)
	}

	if node.Title != "Headline" {
		t.Errorf("Title = %q, want trimmed %q", node.Title, "Headline")
	}
	if node.MinLength == nil || *node.MinLength != 2 {
		t.Errorf("MinLength = %v, want 2", node.MinLength)
	}
	if node.MaxLength == nil || *node.MaxLength != 8 {
		t.Errorf("MaxLength = %v, want 8", node.MaxLength)
	}
	if node.PatternErrorMessage != "lowercase only" {
		t.Errorf("PatternErrorMessage = %q", node.PatternErrorMessage)
	}
	if got := node.Messages["required"]; got != "say something" {
		t.Errorf("Messages[required] = %q", got)
	}
}

func TestFromMapNumberBounds(t *testing.T) {
	node, err := FromMap(map[string]any{
		"type":    "number",
		"minimum": float64(1.5),
		"maximum": 10,
	}, "price")
	if err != nil {
		t.Fatalf("FromMap returned error: %v", err)
	}
	if node.Minimum == nil || *node.Minimum != 1.5 {
		t.Errorf("Minimum = %v, want 1.5", node.Minimum)
	}
	if node.Maximum == nil || *node.Maximum != 10 {
		t.Errorf("Maximum = %v, want 10", node.Maximum)
	}
}

func TestFromMapRejectsMalformedNodes(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		wantErr string
	}{
		{
			name:    "unknown type",
			payload: map[string]any{"type": "null"},
			wantErr: `unsupported type "null"`,
		},
		{
			name:    "enum not array",
			payload: map[string]any{"type": "string", "enum": "a"},
			wantErr: "enum must be an array",
		},
		{
			name:    "required not array",
			payload: map[string]any{"type": "object", "required": "name"},
			wantErr: "required must be an array",
		},
		{
			name:    "required entry blank",
			payload: map[string]any{"type": "object", "required": []any{" "}},
			wantErr: "required[0] must be a string",
		},
		{
			name:    "minLength fractional",
			payload: map[string]any{"type": "string", "minLength": 1.5},
			wantErr: "minLength must be an integer",
		},
		{
			name:    "messages value not string",
			payload: map[string]any{"type": "string", "messages": map[string]any{"required": 7}},
			wantErr: "messages.required must be a string",
		},
		{
			name:    "property not object",
			payload: map[string]any{"type": "object", "properties": map[string]any{"a": "nope"}},
			wantErr: `property "a" must be an object`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromMap(tc.payload, "root")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tc.wantErr)
			}
			if !strings.Contains(err.Error(), `"root"`) {
				t.Errorf("error %q does not name the failing path", err)
			}
		})
	}
}

func TestParseRecordsItemsOrder(t *testing.T) {
	node, err := Parse([]byte(`{
		"type": "array",
		"items": {
			"type": "object",
			"properties": {
				"zeta": {"type": "string"},
				"alpha": {"type": "string"}
			}
		}
	}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if node.Items == nil {
		t.Fatal("Items not parsed")
	}
	if diff := cmp.Diff([]string{"zeta", "alpha"}, node.Items.Order); diff != "" {
		t.Errorf("items property order mismatch (-want +got):\n%s", diff)
	}
}

func TestAtPath(t *testing.T) {
	doc, err := ParseDocument([]byte(contactDocument))
	if err != nil {
		t.Fatalf("ParseDocument returned error: %v", err)
	}
	root := doc.Schema

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "empty path returns root", path: "", want: "Contact"},
		{name: "direct child", path: "name", want: "Name"},
		{name: "nested child", path: "address.city", want: ""},
		{name: "empty segments dropped", path: ".address..city.", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			node := AtPath(root, tc.path)
			if node == nil {
				t.Fatalf("AtPath(%q) = nil", tc.path)
			}
			if node.Title != tc.want {
				t.Errorf("AtPath(%q).Title = %q, want %q", tc.path, node.Title, tc.want)
			}
		})
	}

	if node := AtPath(root, "address.zip"); node != nil {
		t.Errorf("AtPath(missing segment) = %+v, want nil", node)
	}
	if node := AtPath(root, "name.deeper"); node != nil {
		t.Errorf("AtPath(through leaf) = %+v, want nil", node)
	}
	if node := AtPath(nil, "name"); node != nil {
		t.Errorf("AtPath(nil root) = %+v, want nil", node)
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{path: "", want: nil},
		{path: "a", want: []string{"a"}},
		{path: "a.b.c", want: []string{"a", "b", "c"}},
		{path: ".a..b.", want: []string{"a", "b"}},
		{path: "...", want: []string{}},
	}

	for _, tc := range tests {
		got := SplitPath(tc.path)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("SplitPath(%q) mismatch (-want +got):\n%s", tc.path, diff)
		}
	}
}

func TestJoinPath(t *testing.T) {
	if got := JoinPath("", "name"); got != "name" {
		t.Errorf("JoinPath(\"\", name) = %q", got)
	}
	if got := JoinPath("address", "city"); got != "address.city" {
		t.Errorf("JoinPath(address, city) = %q", got)
	}
}

func TestPropertyNamesFallsBackToLexicalOrder(t *testing.T) {
	node := &Node{
		Type: "object",
		Properties: map[string]*Node{
			"zeta":  {Type: "string"},
			"alpha": {Type: "string"},
		},
	}
	if diff := cmp.Diff([]string{"alpha", "zeta"}, node.PropertyNames()); diff != "" {
		t.Errorf("fallback order mismatch (-want +got):\n%s", diff)
	}

	node.Order = []string{"zeta", "alpha"}
	if diff := cmp.Diff([]string{"zeta", "alpha"}, node.PropertyNames()); diff != "" {
		t.Errorf("document order mismatch (-want +got):\n%s", diff)
	}
}

func TestRequiredSet(t *testing.T) {
	node := &Node{Required: []string{"name", "email"}}
	set := node.RequiredSet()
	if _, ok := set["name"]; !ok {
		t.Error("RequiredSet missing name")
	}
	if _, ok := set["phone"]; ok {
		t.Error("RequiredSet contains phone")
	}
	if (&Node{}).RequiredSet() != nil {
		t.Error("empty required should yield nil set")
	}
	var nilNode *Node
	if nilNode.RequiredSet() != nil {
		t.Error("nil node should yield nil set")
	}
}

func TestObjectKeysHandlesEscapesAndNesting(t *testing.T) {
	keys, err := objectKeys([]byte(`{
		"a \"quoted\" key": {"nested": {"deep": [1, "}", 2]}},
		"plain": "va,lue",
		"last": true
	}`))
	if err != nil {
		t.Fatalf("objectKeys returned error: %v", err)
	}
	want := []string{`a "quoted" key`, "plain", "last"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectKeysRejectsTruncatedInput(t *testing.T) {
	if _, err := objectKeys([]byte(`{"a": {`)); err == nil {
		t.Error("expected error for truncated object")
	}
	if _, err := objectKeys([]byte(`[1, 2]`)); err == nil {
		t.Error("expected error for non-object input")
	}
}
