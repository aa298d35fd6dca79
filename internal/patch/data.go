package patch

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/cameronsjo/patchlib/internal/merge"
)

// PatchMetadata merges obj into the top-level metadata of any document.
func PatchMetadata(doc any, obj map[string]any) (any, error) {
	return merge.Apply(doc, merge.PatchSpec{Path: merge.Fields("metadata"), Value: obj}, "")
}

// PatchData merges data into a ConfigMap's data, converting each value to
// its string form.
func PatchData(doc any, data map[string]any) (any, error) {
	return patchStrings(doc, "data", data, nil)
}

// PatchSecretData merges data into a Secret's data, base64 encoding each
// value's string form.
func PatchSecretData(doc any, data map[string]any) (any, error) {
	return patchStrings(doc, "data", data, func(s string) string {
		return base64.StdEncoding.EncodeToString([]byte(s))
	})
}

// PatchStringData merges data into a Secret's stringData.
func PatchStringData(doc any, data map[string]any) (any, error) {
	return patchStrings(doc, "stringData", data, nil)
}

func patchStrings(doc any, field string, data map[string]any, encode func(string) string) (any, error) {
	body := make(map[string]any, len(data))
	for k, v := range data {
		if v == nil {
			continue
		}
		s, err := dataString(v)
		if err != nil {
			return nil, fmt.Errorf("%s key %q: %w", field, k, err)
		}
		if encode != nil {
			s = encode(s)
		}
		body[k] = s
	}
	return merge.Apply(doc, merge.PatchSpec{Path: merge.Fields(field), Value: body}, "")
}

func dataString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidData, merge.ShapeOf(v))
	}
}
