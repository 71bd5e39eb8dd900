package render

import (
	"fmt"
	"strings"
)

// HiddenField is a hidden input emitted alongside the visible controls.
// The form name and version travel as hidden fields so a plain HTML post
// round-trips the tuple the engine needs to rebuild the session.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying the provided token. Callers
// supply the input name their backend expects, for example "_csrf".
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// EnvelopeFields returns the hidden fields every rendered form carries:
// the form name and its schema version.
func EnvelopeFields(form Form) []HiddenField {
	return []HiddenField{
		Hidden("formFname", form.Name),
		Hidden("formVersion", form.Version),
	}
}

// MergeHidden concatenates the envelope fields with the caller-supplied
// extras. Empty names are dropped; later fields win on name collisions.
func MergeHidden(form Form, extras ...HiddenField) []HiddenField {
	fields := EnvelopeFields(form)
	for _, extra := range extras {
		if strings.TrimSpace(extra.Name) == "" {
			continue
		}
		replaced := false
		for i := range fields {
			if fields[i].Name == extra.Name {
				fields[i] = extra
				replaced = true
				break
			}
		}
		if !replaced {
			fields = append(fields, extra)
		}
	}
	return fields
}
