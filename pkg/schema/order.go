package schema

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// applyOrder walks the raw document alongside an already parsed node tree
// and records the key order of every properties object, which the map-based
// decode discards.
func applyOrder(node *Node, raw json.RawMessage) error {
	if node == nil || len(raw) == 0 {
		return nil
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("schema: decode for ordering: %w", err)
	}

	if itemsRaw, ok := payload["items"]; ok && node.Items != nil {
		if err := applyOrder(node.Items, itemsRaw); err != nil {
			return err
		}
	}

	propsRaw, ok := payload["properties"]
	if !ok || len(node.Properties) == 0 {
		return nil
	}

	keys, err := objectKeys(propsRaw)
	if err != nil {
		return err
	}
	node.Order = keys

	var children map[string]json.RawMessage
	if err := json.Unmarshal(propsRaw, &children); err != nil {
		return fmt.Errorf("schema: decode properties for ordering: %w", err)
	}
	for name, childRaw := range children {
		if child := node.Properties[name]; child != nil {
			if err := applyOrder(child, childRaw); err != nil {
				return err
			}
		}
	}
	return nil
}

// objectKeys scans a raw JSON object and returns its top-level keys in
// document order. Nested values are skipped structurally, tracking string
// and escape state so braces inside strings do not confuse the scan.
func objectKeys(raw []byte) ([]string, error) {
	i := skipSpace(raw, 0)
	if i >= len(raw) || raw[i] != '{' {
		return nil, fmt.Errorf("schema: properties is not an object")
	}
	i++

	var keys []string
	for {
		i = skipSpace(raw, i)
		if i >= len(raw) {
			return nil, fmt.Errorf("schema: truncated properties object")
		}
		if raw[i] == '}' {
			return keys, nil
		}
		if raw[i] == ',' {
			i++
			continue
		}

		key, next, err := scanString(raw, i)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		i = skipSpace(raw, next)
		if i >= len(raw) || raw[i] != ':' {
			return nil, fmt.Errorf("schema: malformed properties object near %q", key)
		}
		i, err = skipValue(raw, i+1)
		if err != nil {
			return nil, err
		}
	}
}

func skipSpace(raw []byte, i int) int {
	for i < len(raw) {
		switch raw[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

func scanString(raw []byte, i int) (string, int, error) {
	if i >= len(raw) || raw[i] != '"' {
		return "", i, fmt.Errorf("schema: expected string at offset %d", i)
	}
	start := i
	i++
	for i < len(raw) {
		switch raw[i] {
		case '\\':
			i += 2
		case '"':
			var key string
			if err := json.Unmarshal(raw[start:i+1], &key); err != nil {
				return "", i, fmt.Errorf("schema: decode key: %w", err)
			}
			return key, i + 1, nil
		default:
			i++
		}
	}
	return "", i, fmt.Errorf("schema: unterminated string at offset %d", start)
}

func skipValue(raw []byte, i int) (int, error) {
	i = skipSpace(raw, i)
	if i >= len(raw) {
		return i, fmt.Errorf("schema: truncated value at offset %d", i)
	}

	switch raw[i] {
	case '"':
		_, next, err := scanString(raw, i)
		return next, err
	case '{', '[':
		depth := 0
		for i < len(raw) {
			switch raw[i] {
			case '{', '[':
				depth++
				i++
			case '}', ']':
				depth--
				i++
				if depth == 0 {
					return i, nil
				}
			case '"':
				_, next, err := scanString(raw, i)
				if err != nil {
					return i, err
				}
				i = next
			default:
				i++
			}
		}
		return i, fmt.Errorf("schema: unbalanced value at offset %d", i)
	default:
		for i < len(raw) {
			switch raw[i] {
			case ',', '}', ']', ' ', '\t', '\n', '\r':
				return i, nil
			}
			i++
		}
		return i, nil
	}
}
