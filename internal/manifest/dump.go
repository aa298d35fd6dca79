package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"
)

// documentSeparator starts every document written by Dump.
const documentSeparator = "---\n"

// jsonIndent is the per-level indentation of ManifestJSON.
const jsonIndent = "   "

// Dump writes docs as a YAML stream with sorted keys and normalized
// whitespace. Each document is preceded by a separator.
func Dump(docs []any) ([]byte, error) {
	var buf bytes.Buffer
	for i, doc := range docs {
		b, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("marshal document %d: %w", i, err)
		}
		buf.WriteString(documentSeparator)
		buf.Write(b)
	}
	return buf.Bytes(), nil
}

// DumpValue writes a result as YAML: a list becomes one document per element,
// anything else a single document.
func DumpValue(v any) ([]byte, error) {
	if list, ok := v.([]any); ok {
		return Dump(list)
	}
	return Dump([]any{v})
}

// Canonicalize loads, keys and re-dumps data. Running it on its own output
// returns identical bytes.
func Canonicalize(data []byte) ([]byte, error) {
	set, err := ParseAsSet(data)
	if err != nil {
		return nil, err
	}
	return Dump(set.List)
}

// ManifestJSON renders v as indented JSON with sorted keys. Empty lists and
// maps are written as "[ ]" and "{ }" so they stay distinct from null.
func ManifestJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any, level int) error {
	pad := strings.Repeat(jsonIndent, level+1)
	closePad := strings.Repeat(jsonIndent, level)

	switch val := v.(type) {
	case map[string]any:
		if len(val) == 0 {
			buf.WriteString("{ }")
			return nil
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteString("{\n")
		for i, k := range keys {
			buf.WriteString(pad)
			if err := writeScalar(buf, k); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := writeJSON(buf, val[k], level+1); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			if i < len(keys)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(closePad)
		buf.WriteByte('}')
		return nil
	case []any:
		if len(val) == 0 {
			buf.WriteString("[ ]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range val {
			buf.WriteString(pad)
			if err := writeJSON(buf, item, level+1); err != nil {
				return err
			}
			if i < len(val)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(closePad)
		buf.WriteByte(']')
		return nil
	default:
		return writeScalar(buf, val)
	}
}

func writeScalar(buf *bytes.Buffer, v any) error {
	var sb bytes.Buffer
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %T: %w", v, err)
	}
	buf.Write(bytes.TrimSuffix(sb.Bytes(), []byte("\n")))
	return nil
}
