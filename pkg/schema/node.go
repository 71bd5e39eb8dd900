package schema

import (
	"sort"
	"strings"
)

// MaxDepth bounds recursive traversal over schema trees. Descent stops at
// this depth so an accidentally self-nested document cannot exhaust the
// stack; consumers surface a warning instead of failing the whole form.
const MaxDepth = 10

// Node is a single node of the practical JSON Schema subset consumed by the
// form engine. Object nodes own their children through Properties; the
// Required list is scoped to the object node that declares it, never
// inherited from an ancestor.
type Node struct {
	Type        string           `json:"type,omitempty"`
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	Properties  map[string]*Node `json:"properties,omitempty"`
	Required    []string         `json:"required,omitempty"`

	// Order preserves the document order of Properties keys, which Go maps
	// discard. Renderers walk children in this order.
	Order     []string `json:"-"`
	Enum      []any    `json:"enum,omitempty"`
	Items     *Node    `json:"items,omitempty"`
	Format    string   `json:"format,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`

	// Messages maps a rule name (required, pattern, min, max, minLength,
	// maxLength, type, email) to an author-supplied override for the
	// engine's default error message.
	Messages map[string]string `json:"messages,omitempty"`

	// PatternErrorMessage is the legacy single-rule override honoured ahead
	// of Messages["pattern"].
	PatternErrorMessage string `json:"patternErrorMessage,omitempty"`
}

// IsObject reports whether the node is an object with at least one child.
func (n *Node) IsObject() bool {
	return n != nil && n.Type == "object" && len(n.Properties) > 0
}

// RequiredSet returns the node-local required names as a set for membership
// checks during validation.
func (n *Node) RequiredSet() map[string]struct{} {
	if n == nil || len(n.Required) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(n.Required))
	for _, name := range n.Required {
		set[name] = struct{}{}
	}
	return set
}

// PropertyNames returns the child names in document order, falling back to
// lexical order for trees built without one.
func (n *Node) PropertyNames() []string {
	if n == nil || len(n.Properties) == 0 {
		return nil
	}
	if len(n.Order) == len(n.Properties) {
		return n.Order
	}
	names := make([]string, 0, len(n.Properties))
	for name := range n.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AtPath walks the schema tree following dotted property names. Empty
// segments produced by leading, trailing, or doubled dots are dropped before
// traversal, so "a..b" and ".a.b." resolve like "a.b". An empty or
// all-empty path returns the root. The result is nil when any segment is
// missing or traversal would have to continue through a non-object leaf.
func AtPath(root *Node, path string) *Node {
	if root == nil {
		return nil
	}
	segments := SplitPath(path)
	current := root
	for _, segment := range segments {
		if len(current.Properties) == 0 {
			return nil
		}
		next, ok := current.Properties[segment]
		if !ok || next == nil {
			return nil
		}
		current = next
	}
	return current
}

// SplitPath splits a dotted path into its non-empty segments.
func SplitPath(path string) []string {
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

// JoinPath appends a child segment to a base path.
func JoinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}
