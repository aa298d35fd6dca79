package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompact(t *testing.T) {
	tests := []struct {
		name  string
		left  string
		right string
		want  string
	}{
		{
			name:  "identical",
			left:  "a: 1\nb: 2\n",
			right: "a: 1\nb: 2\n",
			want:  "",
		},
		{
			name:  "changed line",
			left:  "spec:\n  replicas: 1\n  selector: {}\n",
			right: "spec:\n  replicas: 3\n  selector: {}\n",
			want:  "[L]  replicas: 1\n[R]  replicas: 3",
		},
		{
			name:  "added lines",
			left:  "data:\n  foo: bar\nkind: ConfigMap\n",
			right: "data:\n  bar: baz\n  foo: bar\nkind: ConfigMap\n",
			want:  "[R]  bar: baz",
		},
		{
			name:  "removed line",
			left:  "a: 1\nb: 2\nc: 3\n",
			right: "a: 1\nc: 3\n",
			want:  "[L]b: 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compact(tt.left, tt.right)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergePatch(t *testing.T) {
	base := map[string]any{
		"kind": "Deployment",
		"spec": map[string]any{"replicas": 1.0, "paused": false},
	}
	patched := map[string]any{
		"kind": "Deployment",
		"spec": map[string]any{"replicas": 3.0},
	}

	out, err := MergePatch(base, patched)
	require.NoError(t, err)
	assert.JSONEq(t, `{"spec": {"paused": null, "replicas": 3}}`, string(out))

	same, err := MergePatch(base, base)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(same))
}
