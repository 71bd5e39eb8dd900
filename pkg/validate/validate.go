// Package validate walks a schema tree against the current answers and
// produces a flat map of dotted path to error message. The map is rebuilt
// in full on every pass; an empty map means the submission is valid.
package validate

import (
	"log/slog"
	"regexp"
	"sort"
	"strconv"

	"github.com/goliatone/go-formflow/pkg/answers"
	"github.com/goliatone/go-formflow/pkg/schema"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Option customises a Validator.
type Option func(*Validator)

// WithMaxDepth overrides the recursion ceiling. Values below one fall back
// to schema.MaxDepth.
func WithMaxDepth(depth int) Option {
	return func(v *Validator) {
		if depth > 0 {
			v.maxDepth = depth
		}
	}
}

// WithDepthWarning installs the hook invoked when traversal abandons a
// branch at the depth ceiling. The default logs through slog.
func WithDepthWarning(fn func(path string, depth int)) Option {
	return func(v *Validator) {
		if fn != nil {
			v.warnDepth = fn
		}
	}
}

// Validator applies the practical JSON Schema subset rules: node-local
// required lists plus per-leaf format, pattern, bound, and length checks
// with a single message per field.
type Validator struct {
	maxDepth  int
	warnDepth func(path string, depth int)
}

// New constructs a Validator applying any provided options.
func New(options ...Option) *Validator {
	v := &Validator{
		maxDepth: schema.MaxDepth,
		warnDepth: func(path string, depth int) {
			slog.Warn("validate: recursion depth ceiling reached, abandoning branch", "path", path, "depth", depth)
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	return v
}

// Validate walks the schema against the answers and returns the full field
// error map. Fields never visited because an ancestor path is absent are
// implicitly valid.
func (v *Validator) Validate(root *schema.Node, ans map[string]any) map[string]string {
	errs := make(map[string]string)
	if root == nil {
		return errs
	}
	v.validateNode(root, ans, root, "", 0, errs)
	return errs
}

// Validate applies a default Validator.
func Validate(root *schema.Node, ans map[string]any) map[string]string {
	return New().Validate(root, ans)
}

func (v *Validator) validateNode(node *schema.Node, ans map[string]any, root *schema.Node, basePath string, depth int, errs map[string]string) {
	if depth >= v.maxDepth {
		v.warnDepth(basePath, depth)
		return
	}

	for _, name := range node.Required {
		path := schema.JoinPath(basePath, name)
		if answers.IsEmpty(answers.Get(ans, path)) {
			errs[path] = messageOrDefault(root, path, RuleRequired, msgRequired)
		}
	}

	names := make([]string, 0, len(node.Properties))
	for name := range node.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		child := node.Properties[name]
		if child == nil {
			continue
		}
		path := schema.JoinPath(basePath, name)

		if child.IsObject() {
			v.validateNode(child, ans, root, path, depth+1, errs)
			continue
		}

		if _, exists := errs[path]; exists {
			continue
		}
		value, ok := answers.Get(ans, path)
		if answers.IsEmpty(value, ok) {
			continue
		}
		if message := v.validateLeaf(child, root, path, value); message != "" {
			errs[path] = message
		}
	}
}

// validateLeaf applies the leaf rules in fixed order and returns the first
// failure, so a field carries at most one message per pass.
func (v *Validator) validateLeaf(node *schema.Node, root *schema.Node, path string, value any) string {
	if node.Type == "string" && node.Format == "email" {
		if str, ok := value.(string); ok && !emailPattern.MatchString(str) {
			return messageOrDefault(root, path, RuleEmail, msgEmail)
		}
	}

	if node.Pattern != "" {
		if str, ok := value.(string); ok {
			re, err := regexp.Compile(node.Pattern)
			if err == nil && !re.MatchString(str) {
				if node.PatternErrorMessage != "" {
					return node.PatternErrorMessage
				}
				return messageOrDefault(root, path, RulePattern, msgPattern)
			}
		}
	}

	if node.Type == "number" || node.Type == "integer" {
		number, ok := coerceNumber(value)
		if !ok {
			return messageOrDefault(root, path, RuleType, msgNumber)
		}
		if node.Minimum != nil && number < *node.Minimum {
			return messageOrDefault(root, path, RuleMin, minimumMessage(*node.Minimum))
		}
		if node.Maximum != nil && number > *node.Maximum {
			return messageOrDefault(root, path, RuleMax, maximumMessage(*node.Maximum))
		}
		return ""
	}

	if str, ok := value.(string); ok {
		if node.MinLength != nil && len([]rune(str)) < *node.MinLength {
			return messageOrDefault(root, path, RuleMinLength, minLengthMessage(*node.MinLength))
		}
		if node.MaxLength != nil && len([]rune(str)) > *node.MaxLength {
			return messageOrDefault(root, path, RuleMaxLength, maxLengthMessage(*node.MaxLength))
		}
	}

	return ""
}

func coerceNumber(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		parsed, err := strconv.ParseFloat(typed, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
