package vanilla

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// controlID derives a stable DOM id from a dotted field path.
func controlID(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	return html.EscapeString("ff-" + strings.ReplaceAll(trimmed, ".", "-"))
}

func choiceID(path string, index int) string {
	base := controlID(path)
	if base == "" {
		return ""
	}
	return base + "-" + strconv.Itoa(index)
}

func valueString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
