// Package answers implements dotted-path addressing over the nested answer
// structure owned by a form session. Reads are plain traversals; writes are
// copy-on-write so a render pass holding the previous root never observes a
// partially applied mutation.
package answers

import "strings"

// Get resolves a dotted path against the nested answer map. Empty segments
// from leading, trailing, or doubled dots are dropped before traversal. The
// second return reports whether the full path resolved; an empty or
// all-empty path never resolves.
func Get(root map[string]any, path string) (any, bool) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil, false
	}

	var current any = root
	for _, segment := range segments {
		mapped, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = mapped[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Set writes value at the dotted path and returns the new root. Only the
// spine from the root to the leaf is cloned; sibling branches are shared
// with the input. Missing intermediates become fresh maps, and an existing
// intermediate that is not a map is overwritten with one. An empty or
// all-empty path is a no-op returning the input unchanged.
func Set(root map[string]any, path string, value any) map[string]any {
	segments := splitPath(path)
	if len(segments) == 0 {
		return root
	}

	newRoot := cloneShallow(root)
	current := newRoot
	for _, segment := range segments[:len(segments)-1] {
		child, ok := current[segment].(map[string]any)
		if !ok {
			child = nil
		}
		cloned := cloneShallow(child)
		current[segment] = cloned
		current = cloned
	}
	current[segments[len(segments)-1]] = value
	return newRoot
}

// Delete removes the leaf at the dotted path, cloning the spine like Set.
// Missing paths are a no-op returning the input unchanged.
func Delete(root map[string]any, path string) map[string]any {
	segments := splitPath(path)
	if len(segments) == 0 {
		return root
	}
	if _, ok := Get(root, path); !ok {
		return root
	}

	newRoot := cloneShallow(root)
	current := newRoot
	for _, segment := range segments[:len(segments)-1] {
		child, ok := current[segment].(map[string]any)
		if !ok {
			return root
		}
		cloned := cloneShallow(child)
		current[segment] = cloned
		current = cloned
	}
	delete(current, segments[len(segments)-1])
	return newRoot
}

// IsEmpty reports whether a value counts as absent for required-field
// checks: nil, the empty string, or an unresolved lookup.
func IsEmpty(value any, ok bool) bool {
	if !ok || value == nil {
		return true
	}
	str, isString := value.(string)
	return isString && str == ""
}

func cloneShallow(src map[string]any) map[string]any {
	if src == nil {
		return make(map[string]any)
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}

func splitPath(path string) []string {
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
