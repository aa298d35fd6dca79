package manifest

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrMissingVariable indicates a ${var} placeholder has no value.
var ErrMissingVariable = errors.New("missing variables")

// varPattern matches ${varname} placeholders.
var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][\w.-]*)\}`)

// Interpolate replaces ${var} placeholders with values from the variables map.
// Returns an error naming every referenced variable that is missing.
// This function operates on raw text BEFORE parsing, so a variable may carry
// a whole YAML document.
func Interpolate(template string, variables map[string]string) (string, error) {
	missing := map[string]bool{}

	result := varPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := varPattern.FindStringSubmatch(match)[1]

		value, ok := variables[key]
		if !ok {
			missing[key] = true
			return match
		}
		return value
	})

	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for k := range missing {
			names = append(names, k)
		}
		sort.Strings(names)
		return "", fmt.Errorf("%w: ${%s}", ErrMissingVariable, strings.Join(names, "}, ${"))
	}

	return result, nil
}

// ParseVars turns "key=value" pairs into a variable map. Later pairs win.
func ParseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid variable %q: expected key=value", p)
		}
		vars[k] = v
	}
	return vars, nil
}
