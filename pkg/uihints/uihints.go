// Package uihints resolves the schema-adjacent metadata tree that selects
// non-default widgets or display options for individual fields. The tree
// mirrors the schema's shape; absence of an entry means the widget is
// inferred from the schema node alone.
package uihints

import (
	"fmt"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Widget names understood by the hint resolver.
const (
	WidgetTextarea   = "textarea"
	WidgetRadio      = "radio"
	WidgetCheckboxes = "checkboxes"
)

// Options carries per-widget display options.
type Options struct {
	// Inline lays out radio or checkbox groups horizontally.
	Inline bool
}

// Hint is the resolved UI hint for a single field.
type Hint struct {
	Widget  string
	Options Options
}

// Tree wraps the raw metadata mapping returned by a schema source. It is
// immutable after construction and safe for concurrent readers.
type Tree struct {
	root map[string]any
}

// FromMetadata wraps a decoded metadata mapping. When the mapping nests the
// hints under a "uiHints" key, that subtree becomes the root; otherwise the
// whole mapping is treated as the hint tree. A nil mapping yields an empty
// tree that resolves no hints.
func FromMetadata(metadata map[string]any) *Tree {
	if nested, ok := metadata["uiHints"].(map[string]any); ok {
		return &Tree{root: nested}
	}
	return &Tree{root: metadata}
}

// Parse decodes a hint document from raw bytes. Files named *.yaml or *.yml
// decode as YAML; everything else decodes as JSON.
func Parse(raw []byte, name string) (*Tree, error) {
	if len(raw) == 0 {
		return &Tree{}, nil
	}

	var payload map[string]any
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("uihints: parse %s: %w", name, err)
		}
	default:
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("uihints: parse %s: %w", name, err)
		}
	}
	return FromMetadata(payload), nil
}

// Lookup walks the tree using the same dotted segments as the schema and
// answer paths. The second return reports whether an entry with a widget
// name exists at that location.
func (t *Tree) Lookup(path string) (Hint, bool) {
	if t == nil || t.root == nil {
		return Hint{}, false
	}

	current := t.root
	for _, segment := range splitPath(path) {
		child, ok := current[segment].(map[string]any)
		if !ok {
			return Hint{}, false
		}
		current = child
	}

	widget, _ := current["widget"].(string)
	widget = strings.TrimSpace(widget)
	if widget == "" {
		return Hint{}, false
	}

	hint := Hint{Widget: widget}
	if options, ok := current["options"].(map[string]any); ok {
		if inline, ok := options["inline"].(bool); ok {
			hint.Options.Inline = inline
		}
	}
	return hint, true
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		segments = append(segments, part)
	}
	return segments
}
