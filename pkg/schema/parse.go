package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

var allowedTypes = map[string]struct{}{
	"object":  {},
	"string":  {},
	"number":  {},
	"integer": {},
	"boolean": {},
	"array":   {},
}

// Document is the payload served by a schema source: the schema tree itself,
// the form version used in submission envelopes, and the UI-hint metadata
// tree consumed as-is by the hint resolver.
type Document struct {
	Version  string
	Schema   *Node
	Metadata map[string]any
}

// ParseDocument decodes a collector schema payload. Version may arrive as a
// string or a number; both normalise to the string form carried in the
// submission envelope.
func ParseDocument(raw []byte) (Document, error) {
	if len(raw) == 0 {
		return Document{}, fmt.Errorf("schema: document is empty")
	}

	var payload struct {
		Version  any             `json:"version"`
		Schema   json.RawMessage `json:"schema"`
		Metadata map[string]any  `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Document{}, fmt.Errorf("schema: decode document: %w", err)
	}
	if len(payload.Schema) == 0 {
		return Document{}, fmt.Errorf("schema: document has no schema")
	}

	node, err := Parse(payload.Schema)
	if err != nil {
		return Document{}, err
	}

	return Document{
		Version:  versionString(payload.Version),
		Schema:   node,
		Metadata: payload.Metadata,
	}, nil
}

// Parse decodes a bare schema node from raw JSON, preserving the document
// order of each object's properties.
func Parse(raw []byte) (*Node, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("schema: decode: %w", err)
	}
	node, err := FromMap(payload, "")
	if err != nil {
		return nil, err
	}
	if err := applyOrder(node, raw); err != nil {
		return nil, err
	}
	return node, nil
}

// FromMap converts a decoded JSON object into the canonical node tree. The
// path argument locates errors for nested nodes ("address.city").
func FromMap(payload map[string]any, path string) (*Node, error) {
	if payload == nil {
		return nil, fmt.Errorf("schema: node is nil at %q", path)
	}

	node := &Node{
		Type:                strings.TrimSpace(readString(payload, "type")),
		Title:               strings.TrimSpace(readString(payload, "title")),
		Description:         strings.TrimSpace(readString(payload, "description")),
		Format:              strings.TrimSpace(readString(payload, "format")),
		Pattern:             readString(payload, "pattern"),
		PatternErrorMessage: strings.TrimSpace(readString(payload, "patternErrorMessage")),
	}

	if node.Type != "" {
		if _, ok := allowedTypes[node.Type]; !ok {
			return nil, fmt.Errorf("schema: unsupported type %q at %q", node.Type, path)
		}
	}

	if enumRaw, ok := payload["enum"]; ok {
		list, ok := enumRaw.([]any)
		if !ok {
			return nil, fmt.Errorf("schema: enum must be an array at %q", path)
		}
		node.Enum = append([]any(nil), list...)
	}

	if requiredRaw, ok := payload["required"]; ok {
		list, ok := requiredRaw.([]any)
		if !ok {
			return nil, fmt.Errorf("schema: required must be an array at %q", path)
		}
		required := make([]string, 0, len(list))
		for idx, item := range list {
			name, ok := item.(string)
			if !ok || strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("schema: required[%d] must be a string at %q", idx, path)
			}
			required = append(required, name)
		}
		node.Required = required
	}

	var err error
	if node.Minimum, err = readFloat(payload, "minimum", path); err != nil {
		return nil, err
	}
	if node.Maximum, err = readFloat(payload, "maximum", path); err != nil {
		return nil, err
	}
	if node.MinLength, err = readInt(payload, "minLength", path); err != nil {
		return nil, err
	}
	if node.MaxLength, err = readInt(payload, "maxLength", path); err != nil {
		return nil, err
	}

	if messagesRaw, ok := payload["messages"]; ok {
		mapped, ok := messagesRaw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("schema: messages must be an object at %q", path)
		}
		messages := make(map[string]string, len(mapped))
		for rule, value := range mapped {
			text, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("schema: messages.%s must be a string at %q", rule, path)
			}
			messages[rule] = text
		}
		node.Messages = messages
	}

	if itemsRaw, ok := payload["items"]; ok {
		mapped, ok := itemsRaw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("schema: items must be an object at %q", path)
		}
		items, err := FromMap(mapped, JoinPath(path, "items"))
		if err != nil {
			return nil, err
		}
		node.Items = items
	}

	if propsRaw, ok := payload["properties"]; ok {
		mapped, ok := propsRaw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("schema: properties must be an object at %q", path)
		}
		properties := make(map[string]*Node, len(mapped))
		for name, value := range mapped {
			childMap, ok := value.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("schema: property %q must be an object at %q", name, path)
			}
			child, err := FromMap(childMap, JoinPath(path, name))
			if err != nil {
				return nil, err
			}
			properties[name] = child
		}
		node.Properties = properties
	}

	return node, nil
}

func readString(payload map[string]any, key string) string {
	value, ok := payload[key]
	if !ok {
		return ""
	}
	str, _ := value.(string)
	return str
}

func readFloat(payload map[string]any, key, path string) (*float64, error) {
	value, ok := payload[key]
	if !ok {
		return nil, nil
	}
	number, ok := toFloat(value)
	if !ok {
		return nil, fmt.Errorf("schema: %s must be a number at %q", key, path)
	}
	return &number, nil
}

func readInt(payload map[string]any, key, path string) (*int, error) {
	value, ok := payload[key]
	if !ok {
		return nil, nil
	}
	number, ok := toFloat(value)
	if !ok || number != math.Trunc(number) {
		return nil, fmt.Errorf("schema: %s must be an integer at %q", key, path)
	}
	out := int(number)
	return &out, nil
}

func toFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case json.Number:
		parsed, err := typed.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func versionString(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(typed)
	case float64:
		if typed == math.Trunc(typed) {
			return strconv.FormatInt(int64(typed), 10)
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", typed)
	}
}
