package merge

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultKeyField is the field that identifies elements of a keyed list.
const DefaultKeyField = "name"

// Element is one (key, patch) pair for a plural keyed patch.
type Element struct {
	Key   string
	Patch any
}

// Label derives the element label used in error messages from the list field
// that holds it: "containers" is "Container", "env" is "Env". Words ending
// in "ss" or "us" are already singular; "sses" and "uses" drop "es".
func Label(field string) string {
	singular := field
	switch {
	case strings.HasSuffix(field, "sses"), strings.HasSuffix(field, "uses"):
		singular = strings.TrimSuffix(field, "es")
	case strings.HasSuffix(field, "ss"), strings.HasSuffix(field, "us"):
	case len(field) > 1 && strings.HasSuffix(field, "s"):
		singular = strings.TrimSuffix(field, "s")
	}
	r, size := utf8.DecodeRuneInString(singular)
	if r == utf8.RuneError {
		return singular
	}
	return string(unicode.ToUpper(r)) + singular[size:]
}

// PatchElement merges patch into the element of list whose keyField equals key.
// The other elements keep their positions. A missing element is an error.
func PatchElement(list []any, keyField, key, label string, patch any) ([]any, error) {
	return updateElement(list, keyField, key, label, func(elem any) (any, error) {
		return Merge(elem, patch)
	})
}

// PatchElements applies each element patch in order and stops at the first
// key that cannot be resolved.
func PatchElements(list []any, keyField, label string, elems []Element) ([]any, error) {
	cur := list
	for _, e := range elems {
		next, err := PatchElement(cur, keyField, e.Key, label, e.Patch)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// FindElement returns the index of the element whose keyField equals key, or -1.
// Two matching elements are reported as a DuplicateElementError.
func FindElement(list []any, keyField, key, label string) (int, error) {
	found := -1
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if k, ok := keyString(m[keyField]); !ok || k != key {
			continue
		}
		if found >= 0 {
			return -1, &DuplicateElementError{Label: label, Key: key}
		}
		found = i
	}
	return found, nil
}

// updateElement replaces the addressed element with fn(element) in a copy of list.
func updateElement(list []any, keyField, key, label string, fn func(any) (any, error)) ([]any, error) {
	idx, err := FindElement(list, keyField, key, label)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, &ElementNotFoundError{Label: label, Key: key}
	}

	updated, err := fn(list[idx])
	if err != nil {
		return nil, err
	}

	result := make([]any, len(list))
	for i, item := range list {
		if i == idx {
			result[i] = updated
			continue
		}
		c, err := DeepCopy(item)
		if err != nil {
			return nil, err
		}
		result[i] = c
	}
	return result, nil
}

// keyString renders a key field value for comparison. Only strings and
// numbers can identify an element.
func keyString(v any) (string, bool) {
	switch k := v.(type) {
	case string:
		return k, true
	case nil, map[string]any, []any:
		return "", false
	default:
		return fmt.Sprint(k), true
	}
}
