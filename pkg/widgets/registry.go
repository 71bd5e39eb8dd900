// Package widgets decides which input representation renders a given schema
// node. Selection is a closed, ordered rule list with a plain-text fallback
// so every leaf node resolves to exactly one widget kind.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/uihints"
)

// Kind enumerates the render shapes a leaf field can take.
type Kind string

const (
	KindText          Kind = "text"
	KindEmail         Kind = "email"
	KindDate          Kind = "date"
	KindTextarea      Kind = "textarea"
	KindNumber        Kind = "number"
	KindCheckbox      Kind = "checkbox"
	KindSelect        Kind = "select"
	KindRadioGroup    Kind = "radio-group"
	KindCheckboxGroup Kind = "checkbox-group"
	KindMultiSelect   Kind = "multiselect"
	// KindStatic renders a non-interactive informational label: the widget
	// for single-member enums, which state a fixed fact rather than offer a
	// decision.
	KindStatic Kind = "static"
)

// Grouped reports whether the kind renders one input per choice inside a
// fieldset. Grouped widgets suppress the per-field label in favour of the
// fieldset legend.
func (k Kind) Grouped() bool {
	return k == KindRadioGroup || k == KindCheckboxGroup
}

// Interactive reports whether the kind produces a focusable control.
func (k Kind) Interactive() bool {
	return k != KindStatic
}

// Multi reports whether the kind binds a list of values rather than a
// scalar.
func (k Kind) Multi() bool {
	return k == KindCheckboxGroup || k == KindMultiSelect
}

// Matcher decides whether a rule applies to the supplied node and hint.
type Matcher func(node *schema.Node, hint uihints.Hint) bool

type rule struct {
	kind     Kind
	priority int
	match    Matcher
	order    int
}

// Registry resolves widget kinds for leaf schema nodes. Higher priority
// wins; ties fall back to registration order. A fresh registry always
// resolves because the fallback text rule matches everything.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher for the given kind. Higher priority values take
// precedence over the built-ins.
func (r *Registry) Register(kind Kind, priority int, matcher Matcher) {
	if r == nil || matcher == nil || kind == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		kind:     kind,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget kind for a leaf schema node. Object nodes with
// children never reach this function; the view builder renders them as
// nested groups instead.
func (r *Registry) Resolve(node *schema.Node, hint uihints.Hint) Kind {
	if node == nil {
		return KindText
	}
	if r == nil {
		return defaultRegistry.Resolve(node, hint)
	}

	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})

	for _, entry := range rules {
		if entry.match(node, hint) {
			return entry.kind
		}
	}
	return KindText
}

var defaultRegistry = NewRegistry()

// Resolve applies the default registry.
func Resolve(node *schema.Node, hint uihints.Hint) Kind {
	return defaultRegistry.Resolve(node, hint)
}

func (r *Registry) registerBuiltins() {
	r.Register(KindCheckboxGroup, 100, func(node *schema.Node, hint uihints.Hint) bool {
		return isEnumArray(node) && hint.Widget == uihints.WidgetCheckboxes
	})

	r.Register(KindMultiSelect, 90, func(node *schema.Node, hint uihints.Hint) bool {
		return isEnumArray(node)
	})

	r.Register(KindStatic, 80, func(node *schema.Node, hint uihints.Hint) bool {
		return len(node.Enum) == 1
	})

	r.Register(KindRadioGroup, 70, func(node *schema.Node, hint uihints.Hint) bool {
		return len(node.Enum) > 0 && hint.Widget == uihints.WidgetRadio
	})

	r.Register(KindSelect, 60, func(node *schema.Node, hint uihints.Hint) bool {
		return len(node.Enum) > 0
	})

	r.Register(KindCheckbox, 50, func(node *schema.Node, hint uihints.Hint) bool {
		return node.Type == "boolean"
	})

	r.Register(KindEmail, 40, func(node *schema.Node, hint uihints.Hint) bool {
		return node.Type == "string" && strings.EqualFold(node.Format, "email")
	})

	r.Register(KindDate, 40, func(node *schema.Node, hint uihints.Hint) bool {
		return node.Type == "string" && strings.EqualFold(node.Format, "date")
	})

	r.Register(KindTextarea, 40, func(node *schema.Node, hint uihints.Hint) bool {
		return node.Type == "string" && hint.Widget == uihints.WidgetTextarea
	})

	r.Register(KindNumber, 30, func(node *schema.Node, hint uihints.Hint) bool {
		return node.Type == "number" || node.Type == "integer"
	})

	// Fallback: plain text input for strings and anything unrecognised.
	r.Register(KindText, 0, func(node *schema.Node, hint uihints.Hint) bool {
		return true
	})
}

func isEnumArray(node *schema.Node) bool {
	return node.Type == "array" && node.Items != nil && len(node.Items.Enum) > 0
}

// Step returns the numeric step attribute for a node resolved to
// KindNumber: "1" for integers, "" (unconstrained) for numbers.
func Step(node *schema.Node) string {
	if node != nil && node.Type == "integer" {
		return "1"
	}
	return ""
}
