// Package diff summarizes the difference between a base manifest and its
// patched form.
package diff

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/pmezard/go-difflib/difflib"
)

// Compact returns a zero-context line diff of left and right. Removed lines
// are prefixed with [L] and added lines with [R], so that a diff of two
// diffs stays readable. Hunk headers are dropped. Identical inputs yield "".
func Compact(left, right string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:       difflib.SplitLines(left),
		B:       difflib.SplitLines(right),
		Context: 0,
	}
	str, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("diff: %w", err)
	}

	var lines []string
	for _, l := range strings.Split(str, "\n") {
		switch {
		case strings.HasPrefix(l, "@@"):
			continue
		case strings.HasPrefix(l, "-"):
			l = "[L]" + l[1:]
		case strings.HasPrefix(l, "+"):
			l = "[R]" + l[1:]
		}
		lines = append(lines, l)
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n"), nil
}

// MergePatch returns the RFC 7396 merge patch that turns base into patched.
func MergePatch(base, patched any) ([]byte, error) {
	a, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("marshal base: %w", err)
	}
	b, err := json.Marshal(patched)
	if err != nil {
		return nil, fmt.Errorf("marshal patched: %w", err)
	}
	out, err := jsonpatch.CreateMergePatch(a, b)
	if err != nil {
		return nil, fmt.Errorf("create merge patch: %w", err)
	}
	return out, nil
}
