package answers

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGetNestedPath(t *testing.T) {
	root := map[string]any{
		"address": map[string]any{
			"city": "London",
		},
	}

	got, ok := Get(root, "address.city")
	if !ok || got != "London" {
		t.Errorf("Get(address.city) = %v, %v", got, ok)
	}

	if _, ok := Get(root, "address.street"); ok {
		t.Error("Get(address.street) resolved a missing leaf")
	}
	if _, ok := Get(root, "address.city.zip"); ok {
		t.Error("Get traversed through a scalar")
	}
}

func TestGetFiltersEmptySegments(t *testing.T) {
	root := map[string]any{
		"address": map[string]any{"city": "London"},
	}

	for _, path := range []string{"address..city", ".address.city", "address.city."} {
		got, ok := Get(root, path)
		if !ok || got != "London" {
			t.Errorf("Get(%q) = %v, %v", path, got, ok)
		}
	}
}

func TestSetCopiesSpineOnly(t *testing.T) {
	sibling := map[string]any{"zip": "E1"}
	tags := []any{"a", "b"}
	root := map[string]any{
		"address": map[string]any{
			"city":  "London",
			"extra": sibling,
		},
		"tags": tags,
	}

	next := Set(root, "address.city", "Paris")

	if got, _ := Get(next, "address.city"); got != "Paris" {
		t.Errorf("updated value = %v", got)
	}
	if got, _ := Get(root, "address.city"); got != "London" {
		t.Errorf("original mutated: %v", got)
	}

	// Untouched branches keep their identity.
	nextAddress := next["address"].(map[string]any)
	if got := nextAddress["extra"]; !sameMap(got.(map[string]any), sibling) {
		t.Error("sibling map was cloned")
	}
	if got := next["tags"]; !sameSlice(got.([]any), tags) {
		t.Error("sibling slice was cloned")
	}
}

func TestSetCreatesIntermediateMaps(t *testing.T) {
	next := Set(map[string]any{}, "profile.contact.email", "ada@example.com")

	if got, _ := Get(next, "profile.contact.email"); got != "ada@example.com" {
		t.Errorf("Get after deep Set = %v", got)
	}
}

func TestSetReplacesNonMapIntermediates(t *testing.T) {
	root := map[string]any{"profile": "legacy"}

	next := Set(root, "profile.email", "ada@example.com")
	if got, _ := Get(next, "profile.email"); got != "ada@example.com" {
		t.Errorf("Get = %v", got)
	}
	if root["profile"] != "legacy" {
		t.Error("original scalar replaced in place")
	}
}

func TestSetEmptyPathIsNoOp(t *testing.T) {
	root := map[string]any{"name": "Ada"}
	next := Set(root, "", "ignored")
	if diff := cmp.Diff(root, next); diff != "" {
		t.Errorf("empty path changed the structure (-want +got):\n%s", diff)
	}
}

func TestDelete(t *testing.T) {
	root := map[string]any{
		"address": map[string]any{"city": "London", "zip": "E1"},
	}

	next := Delete(root, "address.city")

	if _, ok := Get(next, "address.city"); ok {
		t.Error("deleted key still resolves")
	}
	if got, _ := Get(next, "address.zip"); got != "E1" {
		t.Errorf("sibling lost: %v", got)
	}
	if _, ok := Get(root, "address.city"); !ok {
		t.Error("original mutated by delete")
	}
}

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		name  string
		value any
		ok    bool
		want  bool
	}{
		{"unresolved", nil, false, true},
		{"nil value", nil, true, true},
		{"empty string", "", true, true},
		{"zero number", float64(0), true, false},
		{"false boolean", false, true, false},
		{"string", "x", true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsEmpty(tc.value, tc.ok); got != tc.want {
				t.Errorf("IsEmpty(%v, %v) = %v, want %v", tc.value, tc.ok, got, tc.want)
			}
		})
	}
}

func sameMap(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	// Identity check through a sentinel write.
	a["__sentinel"] = true
	_, shared := b["__sentinel"]
	delete(a, "__sentinel")
	return shared
}

func sameSlice(a, b []any) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}
