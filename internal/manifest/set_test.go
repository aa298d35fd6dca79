package manifest

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlDupKeys = `
apiVersion: v1
kind: ConfigMap
metadata:
    name: cm
data:
  foo: bar
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: cm
data:
  foo: YmFy
`

const yamlNoMetadata = `
apiVersion: v1
kind: ConfigMap
data:
  foo: bar
`

const yamlNoName = `
apiVersion: v1
kind: ConfigMap
metadata:
  namespace: foo
data:
  foo: bar
`

const yamlNoKind = `
apiVersion: v1
metadata:
  name: foo
data:
  foo: bar
`

const yamlSameNameDifferentKinds = `
kind: ConfigMap
metadata:
  name: app
---
kind: Secret
metadata:
  name: app
---
kind: ConfigMap
metadata:
  name: app
  namespace: other
`

func TestParseAsSetNegative(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		msg     string
		wantErr error
	}{
		{
			name:    "dup-keys",
			yaml:    yamlDupKeys,
			msg:     "Duplicate element cm.ConfigMap in list",
			wantErr: ErrDuplicateKey,
		},
		{
			name:    "no-meta",
			yaml:    yamlNoMetadata,
			msg:     "No metadata attribute for keyed object",
			wantErr: ErrMissingField,
		},
		{
			name:    "no-name",
			yaml:    yamlNoName,
			msg:     "No name attribute in metadata for keyed object",
			wantErr: ErrMissingField,
		},
		{
			name:    "no-kind",
			yaml:    yamlNoKind,
			msg:     "No kind attribute for keyed object",
			wantErr: ErrMissingField,
		},
		{
			name:    "namespace is not part of the key",
			yaml:    yamlSameNameDifferentKinds,
			msg:     "Duplicate element app.ConfigMap in list",
			wantErr: ErrDuplicateKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAsSet([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestKeyOfCheckOrder(t *testing.T) {
	tests := []struct {
		name  string
		doc   any
		field string
	}{
		{name: "not a map", doc: []any{1}, field: FieldKind},
		{name: "nothing at all", doc: map[string]any{}, field: FieldKind},
		{name: "kind not a string", doc: map[string]any{"kind": 1.0, "metadata": "x"}, field: FieldKind},
		{name: "metadata not a map", doc: map[string]any{"kind": "A", "metadata": "x"}, field: FieldMetadata},
		{name: "empty name", doc: map[string]any{"kind": "A", "metadata": map[string]any{"name": ""}}, field: FieldName},
		{name: "numeric name", doc: map[string]any{"kind": "A", "metadata": map[string]any{"name": 3.0}}, field: FieldName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := KeyOf(tt.doc, 4)
			var mf *MissingFieldError
			require.True(t, errors.As(err, &mf))
			assert.Equal(t, tt.field, mf.Field)
			assert.Equal(t, 4, mf.Document)
			assert.Contains(t, err.Error(), "(document 4)")
		})
	}
}

func TestCanonicalSetUniqueKeys(t *testing.T) {
	var docs []any
	for i := 0; i < 5; i++ {
		docs = append(docs, map[string]any{
			"kind":     "ConfigMap",
			"metadata": map[string]any{"name": fmt.Sprintf("cm-%d", i)},
		})
	}
	docs = append(docs, map[string]any{
		"kind":     "Secret",
		"metadata": map[string]any{"name": "cm-0"},
	})

	set, err := NewCanonicalSet(docs)
	require.NoError(t, err)
	assert.Equal(t, len(docs), set.Len())
	assert.Len(t, set.Map, len(docs))
	assert.Equal(t, Key{Kind: "ConfigMap", Name: "cm-0"}, set.Keys()[0])
	assert.Equal(t, Key{Kind: "Secret", Name: "cm-0"}, set.Keys()[5])

	doc, ok := set.Get("Secret", "cm-0")
	require.True(t, ok)
	assert.Equal(t, docs[5], doc)

	_, ok = set.Get("Secret", "cm-1")
	assert.False(t, ok)
}

func TestCanonicalSetReplace(t *testing.T) {
	set, err := ParseAsSet([]byte("kind: ConfigMap\nmetadata:\n  name: app\n---\nkind: Secret\nmetadata:\n  name: app\n"))
	require.NoError(t, err)

	key := Key{Kind: "Secret", Name: "app"}
	updated := map[string]any{
		"kind":     "Secret",
		"metadata": map[string]any{"name": "app"},
		"data":     map[string]any{"a": "Yg=="},
	}

	next, err := set.Replace(key, updated)
	require.NoError(t, err)
	assert.Equal(t, updated, next.List[1])
	assert.Equal(t, updated, next.Map[key])
	assert.NotContains(t, set.Map[key].(map[string]any), "data", "original set must not change")

	_, err = set.Replace(Key{Kind: "Secret", Name: "missing"}, updated)
	require.Error(t, err)

	renamed := map[string]any{"kind": "Secret", "metadata": map[string]any{"name": "other"}}
	_, err = set.Replace(key, renamed)
	require.Error(t, err)
}

func TestEmptySet(t *testing.T) {
	set := EmptySet()
	assert.Equal(t, 0, set.Len())

	out, err := ManifestJSON(set.List)
	require.NoError(t, err)
	assert.Equal(t, "[ ]\n", string(out))
}
