package validate

import (
	"fmt"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Rule names recognised by schema-embedded message overrides.
const (
	RuleRequired  = "required"
	RuleEmail     = "email"
	RulePattern   = "pattern"
	RuleType      = "type"
	RuleMin       = "min"
	RuleMax       = "max"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
)

// Default messages used when the schema carries no override for a rule.
const (
	msgRequired = "This field is required"
	msgEmail    = "Invalid email address"
	msgPattern  = "Invalid format"
	msgNumber   = "Must be a number"
)

// CustomMessage resolves a schema-embedded override for the given answer
// path and rule. The answer path addresses the schema by descending through
// each node's properties, the typed equivalent of interleaving "properties"
// into the dotted path. It returns "" when any segment is missing, the node
// has no messages, or the rule key is absent; callers fall back to the
// engine default in that case.
func CustomMessage(root *schema.Node, fieldPath, rule string) string {
	node := schema.AtPath(root, fieldPath)
	if node == nil || len(node.Messages) == 0 {
		return ""
	}
	return node.Messages[rule]
}

func messageOrDefault(root *schema.Node, fieldPath, rule, fallback string) string {
	if custom := CustomMessage(root, fieldPath, rule); custom != "" {
		return custom
	}
	return fallback
}

func minimumMessage(bound float64) string {
	return fmt.Sprintf("Must be at least %s", formatBound(bound))
}

func maximumMessage(bound float64) string {
	return fmt.Sprintf("Must be at most %s", formatBound(bound))
}

func minLengthMessage(bound int) string {
	return fmt.Sprintf("Must be at least %d characters", bound)
}

func maxLengthMessage(bound int) string {
	return fmt.Sprintf("Must be at most %d characters", bound)
}

func formatBound(bound float64) string {
	if bound == float64(int64(bound)) {
		return fmt.Sprintf("%d", int64(bound))
	}
	return fmt.Sprintf("%v", bound)
}
