// Package view turns a schema, its UI hints, the current answers, and the
// current field errors into a renderer-facing tree of groups and fields.
// Group boundaries are purely visual; field paths stay flat dotted strings
// addressed exactly like the answer structure.
package view

import (
	"fmt"
	"log/slog"

	"github.com/goliatone/go-formflow/pkg/answers"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/uihints"
	"github.com/goliatone/go-formflow/pkg/widgets"
)

// Tree is the root of a built form view.
type Tree struct {
	Title       string
	Description string

	// Informational marks a form whose root schema has no properties: the
	// view shows title and description only, with no controls and no
	// submit or reset affordances.
	Informational bool

	Children []Node
}

// Node is a single entry of the view tree: either a nested group carrying
// its own title and children, or a leaf field bound to a widget.
type Node struct {
	Name        string
	Path        string
	Title       string
	Description string

	Group    bool
	Children []Node

	Widget      widgets.Kind
	Required    bool
	Value       any
	Choices     []Choice
	Inline      bool
	Step        string
	Error       string
	LabelHidden bool
}

// Choice is one selectable option of an enum-backed widget.
type Choice struct {
	Value    string
	Label    string
	Selected bool
}

// Option customises a Builder.
type Option func(*Builder)

// WithRegistry injects a custom widget registry.
func WithRegistry(registry *widgets.Registry) Option {
	return func(b *Builder) {
		if registry != nil {
			b.registry = registry
		}
	}
}

// WithMaxDepth overrides the recursion ceiling shared with the validator.
func WithMaxDepth(depth int) Option {
	return func(b *Builder) {
		if depth > 0 {
			b.maxDepth = depth
		}
	}
}

// WithDepthWarning installs the hook invoked when a branch is abandoned at
// the depth ceiling.
func WithDepthWarning(fn func(path string, depth int)) Option {
	return func(b *Builder) {
		if fn != nil {
			b.warnDepth = fn
		}
	}
}

// Builder constructs view trees. The zero value is not usable; call New.
type Builder struct {
	registry  *widgets.Registry
	maxDepth  int
	warnDepth func(path string, depth int)
}

// New constructs a Builder applying any provided options.
func New(options ...Option) *Builder {
	b := &Builder{
		registry: widgets.NewRegistry(),
		maxDepth: schema.MaxDepth,
		warnDepth: func(path string, depth int) {
			slog.Warn("view: recursion depth ceiling reached, abandoning branch", "path", path, "depth", depth)
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Build assembles the view tree for the current session state.
func (b *Builder) Build(root *schema.Node, hints *uihints.Tree, ans map[string]any, errs map[string]string) Tree {
	tree := Tree{}
	if root == nil {
		tree.Informational = true
		return tree
	}

	tree.Title = root.Title
	tree.Description = root.Description
	if len(root.Properties) == 0 {
		tree.Informational = true
		return tree
	}

	tree.Children = b.buildChildren(root, hints, ans, errs, "", 0)
	return tree
}

// Build assembles a view tree with a default Builder.
func Build(root *schema.Node, hints *uihints.Tree, ans map[string]any, errs map[string]string) Tree {
	return New().Build(root, hints, ans, errs)
}

func (b *Builder) buildChildren(node *schema.Node, hints *uihints.Tree, ans map[string]any, errs map[string]string, basePath string, depth int) []Node {
	if depth >= b.maxDepth {
		b.warnDepth(basePath, depth)
		return nil
	}

	required := node.RequiredSet()
	children := make([]Node, 0, len(node.Properties))

	for _, name := range node.PropertyNames() {
		child := node.Properties[name]
		if child == nil {
			continue
		}
		path := schema.JoinPath(basePath, name)

		if child.IsObject() {
			group := Node{
				Name:        name,
				Path:        path,
				Title:       child.Title,
				Description: child.Description,
				Group:       true,
				Children:    b.buildChildren(child, hints, ans, errs, path, depth+1),
			}
			children = append(children, group)
			continue
		}

		children = append(children, b.buildField(child, hints, ans, errs, name, path, required))
	}
	return children
}

func (b *Builder) buildField(node *schema.Node, hints *uihints.Tree, ans map[string]any, errs map[string]string, name, path string, required map[string]struct{}) Node {
	hint, _ := hints.Lookup(path)
	kind := b.registry.Resolve(node, hint)
	value, _ := answers.Get(ans, path)

	field := Node{
		Name:        name,
		Path:        path,
		Title:       node.Title,
		Description: node.Description,
		Widget:      kind,
		Value:       value,
		Inline:      hint.Options.Inline,
		Error:       errs[path],
		LabelHidden: kind.Grouped(),
	}
	if _, ok := required[name]; ok {
		field.Required = true
	}
	if field.Title == "" {
		field.Title = name
	}
	if kind == widgets.KindNumber {
		field.Step = widgets.Step(node)
	}
	field.Choices = buildChoices(node, kind, value)
	return field
}

func buildChoices(node *schema.Node, kind widgets.Kind, value any) []Choice {
	values := node.Enum
	if kind == widgets.KindCheckboxGroup || kind == widgets.KindMultiSelect {
		if node.Items != nil {
			values = node.Items.Enum
		}
	}
	if len(values) == 0 {
		return nil
	}

	selected := selectedSet(kind, value)
	choices := make([]Choice, 0, len(values))
	for _, raw := range values {
		str := stringify(raw)
		_, isSelected := selected[str]
		choices = append(choices, Choice{
			Value:    str,
			Label:    str,
			Selected: isSelected,
		})
	}
	return choices
}

func selectedSet(kind widgets.Kind, value any) map[string]struct{} {
	selected := make(map[string]struct{})
	if value == nil {
		return selected
	}
	if !kind.Multi() {
		selected[stringify(value)] = struct{}{}
		return selected
	}

	switch typed := value.(type) {
	case []any:
		for _, item := range typed {
			selected[stringify(item)] = struct{}{}
		}
	case []string:
		for _, item := range typed {
			selected[item] = struct{}{}
		}
	}
	return selected
}

func stringify(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		if typed == float64(int64(typed)) {
			return fmt.Sprintf("%d", int64(typed))
		}
		return fmt.Sprintf("%v", typed)
	default:
		return fmt.Sprintf("%v", typed)
	}
}
