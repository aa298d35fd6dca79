package merge

import (
	"fmt"
	"strconv"
	"strings"
)

// Step is one segment of a Path. A step with a Key selects an element of
// the keyed list stored under Field; a step without one descends into Field.
type Step struct {
	Field string

	// Key selects a keyed-list element when Keyed is set.
	Key   string
	Keyed bool

	// KeyField overrides the key field for this step only.
	KeyField string

	// Label overrides the element label used in errors.
	Label string
}

// Field returns a plain field step.
func Field(name string) Step {
	return Step{Field: name}
}

// Keyed returns a step selecting the element named key in list field.
func Keyed(field, key string) Step {
	return Step{Field: field, Key: key, Keyed: true}
}

func (s Step) label() string {
	if s.Label != "" {
		return s.Label
	}
	return Label(s.Field)
}

func (s Step) keyField(def string) string {
	if s.KeyField != "" {
		return s.KeyField
	}
	return def
}

// Path addresses a position inside a document.
type Path []Step

// Fields builds a path of plain field steps.
func Fields(names ...string) Path {
	p := make(Path, len(names))
	for i, n := range names {
		p[i] = Field(n)
	}
	return p
}

// Append returns a new path with steps added; p is not modified.
func (p Path) Append(steps ...Step) Path {
	out := make(Path, 0, len(p)+len(steps))
	out = append(out, p...)
	return append(out, steps...)
}

func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(quoteSegment(s.Field))
		if s.Keyed {
			b.WriteByte('[')
			if s.KeyField != "" {
				b.WriteString(quoteSegment(s.KeyField))
				b.WriteByte('=')
			}
			b.WriteString(quoteSegment(s.Key))
			b.WriteByte(']')
		}
	}
	return b.String()
}

func quoteSegment(s string) string {
	if s == "" || strings.ContainsAny(s, `.[]="`) {
		return strconv.Quote(s)
	}
	return s
}

// ParsePath parses the textual form of a path, for example
//
//	spec.template.spec.containers[main].env[foo]
//	metadata.annotations."iam.amazonaws.com/role"
//	spec.template.spec.containers[name=main]
//
// Segments and keys containing '.', '[', ']', '=' or '"' must be double quoted.
func ParsePath(s string) (Path, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	sc := &pathScanner{src: s}
	var p Path
	for {
		field, err := sc.segment(".[")
		if err != nil {
			return nil, err
		}
		step := Step{Field: field}

		if sc.peek() == '[' {
			sc.pos++
			first, err := sc.segment("]=")
			if err != nil {
				return nil, err
			}
			if sc.peek() == '=' {
				sc.pos++
				key, err := sc.segment("]")
				if err != nil {
					return nil, err
				}
				step.KeyField, step.Key = first, key
			} else {
				step.Key = first
			}
			if sc.peek() != ']' {
				return nil, sc.errorf("expected ']'")
			}
			sc.pos++
			step.Keyed = true
		}
		p = append(p, step)

		switch sc.peek() {
		case 0:
			return p, nil
		case '.':
			sc.pos++
		default:
			return nil, sc.errorf("unexpected %q", sc.peek())
		}
	}
}

type pathScanner struct {
	src string
	pos int
}

func (sc *pathScanner) peek() byte {
	if sc.pos >= len(sc.src) {
		return 0
	}
	return sc.src[sc.pos]
}

func (sc *pathScanner) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d in %q", ErrInvalidPath, fmt.Sprintf(format, args...), sc.pos, sc.src)
}

// segment reads a bare or quoted segment ending before any byte in stop.
func (sc *pathScanner) segment(stop string) (string, error) {
	if sc.peek() == '"' {
		rest := sc.src[sc.pos:]
		quoted, err := strconv.QuotedPrefix(rest)
		if err != nil {
			return "", sc.errorf("unterminated quote")
		}
		v, err := strconv.Unquote(quoted)
		if err != nil {
			return "", sc.errorf("bad quoted segment")
		}
		sc.pos += len(quoted)
		return v, nil
	}

	start := sc.pos
	for sc.pos < len(sc.src) && !strings.ContainsRune(stop+".[]=", rune(sc.src[sc.pos])) {
		sc.pos++
	}
	if sc.pos == start {
		return "", sc.errorf("empty segment")
	}
	return sc.src[start:sc.pos], nil
}

// PatchSpec describes where to merge a partial value into a document.
// It is treated as immutable once built.
type PatchSpec struct {
	Path  Path
	Value any

	// Replace puts Value at Path instead of merging it.
	Replace bool
}

// Apply merges spec.Value at spec.Path inside doc and returns the new document.
// Keyed steps fail when the addressed element does not exist. A nil value is
// a no-op.
func Apply(doc any, spec PatchSpec, keyField string) (any, error) {
	if spec.Value == nil {
		return DeepCopy(doc)
	}
	if keyField == "" {
		keyField = DefaultKeyField
	}
	return applyAt(doc, spec, spec.Path, keyField, 0)
}

// ApplyAll applies specs left to right; the first failure aborts and no
// partial result is returned.
func ApplyAll(doc any, specs []PatchSpec, keyField string) (any, error) {
	cur := doc
	for _, spec := range specs {
		next, err := Apply(cur, spec, keyField)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func applyAt(node any, spec PatchSpec, steps Path, keyField string, depth int) (any, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}
	if len(steps) == 0 {
		if spec.Replace {
			return DeepCopy(spec.Value)
		}
		return Merge(node, spec.Value)
	}

	var m map[string]any
	switch ShapeOf(node) {
	case Null:
		m = map[string]any{}
	case Map:
		m = node.(map[string]any)
	default:
		return nil, fmt.Errorf("%w: cannot descend into %s at %q", ErrNotAMap, ShapeOf(node), steps[0].Field)
	}

	step, rest := steps[0], steps[1:]
	child := m[step.Field]

	var updated any
	if step.Keyed {
		var list []any
		switch ShapeOf(child) {
		case Null:
		case List:
			list = child.([]any)
		default:
			return nil, fmt.Errorf("%w: %q holds a %s", ErrNotAList, step.Field, ShapeOf(child))
		}
		newList, err := updateElement(list, step.keyField(keyField), step.Key, step.label(), func(elem any) (any, error) {
			return applyAt(elem, spec, rest, keyField, depth+1)
		})
		if err != nil {
			return nil, err
		}
		updated = newList
	} else {
		c, err := applyAt(child, spec, rest, keyField, depth+1)
		if err != nil {
			return nil, err
		}
		updated = c
	}

	return replaceField(m, step.Field, updated)
}

// Get resolves path inside doc. Keyed steps that match nothing fail the
// same way Apply does; a missing plain field resolves to nil.
func Get(doc any, path Path, keyField string) (any, error) {
	if keyField == "" {
		keyField = DefaultKeyField
	}

	cur := doc
	for _, step := range path {
		var m map[string]any
		switch ShapeOf(cur) {
		case Null:
		case Map:
			m = cur.(map[string]any)
		default:
			return nil, fmt.Errorf("%w: cannot descend into %s at %q", ErrNotAMap, ShapeOf(cur), step.Field)
		}
		child := m[step.Field]

		if !step.Keyed {
			cur = child
			continue
		}

		var list []any
		switch ShapeOf(child) {
		case Null:
		case List:
			list = child.([]any)
		default:
			return nil, fmt.Errorf("%w: %q holds a %s", ErrNotAList, step.Field, ShapeOf(child))
		}
		idx, err := FindElement(list, step.keyField(keyField), step.Key, step.label())
		if err != nil {
			return nil, err
		}
		if idx < 0 {
			return nil, &ElementNotFoundError{Label: step.label(), Key: step.Key}
		}
		cur = list[idx]
	}
	return cur, nil
}

// replaceField copies m with key set to v.
func replaceField(m map[string]any, key string, v any) (map[string]any, error) {
	result := make(map[string]any, len(m)+1)
	for k, item := range m {
		if k == key {
			continue
		}
		c, err := DeepCopy(item)
		if err != nil {
			return nil, err
		}
		result[k] = c
	}
	result[key] = v
	return result, nil
}
