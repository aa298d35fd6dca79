package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name      string
		template  string
		variables map[string]string
		want      string
		wantErr   string
	}{
		{
			name:      "simple variable replacement",
			template:  "image: ${image}",
			variables: map[string]string{"image": "nginx:stable"},
			want:      "image: nginx:stable",
		},
		{
			name:     "multiple variables in one string",
			template: "image: ${registry}/${image}:${tag}",
			variables: map[string]string{
				"registry": "ghcr.io",
				"image":    "myapp",
				"tag":      "latest",
			},
			want: "image: ghcr.io/myapp:latest",
		},
		{
			name:      "whole document injected",
			template:  "${yaml}",
			variables: map[string]string{"yaml": "kind: ConfigMap\nmetadata:\n  name: cm\n"},
			want:      "kind: ConfigMap\nmetadata:\n  name: cm\n",
		},
		{
			name:      "dotted variable names",
			template:  "${app.name}-${app-env}",
			variables: map[string]string{"app.name": "web", "app-env": "prod"},
			want:      "web-prod",
		},
		{
			name:      "no variables returns unchanged",
			template:  "No variables here",
			variables: map[string]string{},
			want:      "No variables here",
		},
		{
			name:      "dollar sign without braces preserved",
			template:  "$name and ${actual}",
			variables: map[string]string{"actual": "value"},
			want:      "$name and value",
		},
		{
			name:      "missing variables are sorted and deduplicated",
			template:  "${foo} and ${bar} and ${baz} and ${foo}",
			variables: map[string]string{"bar": "present"},
			wantErr:   "missing variables: ${baz}, ${foo}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interpolate(tt.template, tt.variables)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMissingVariable)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVars(t *testing.T) {
	vars, err := ParseVars([]string{"a=1", "b=x=y", "a=2", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "2", "b": "x=y", "empty": ""}, vars)

	_, err = ParseVars([]string{"novalue"})
	require.Error(t, err)

	_, err = ParseVars([]string{"=x"})
	require.Error(t, err)
}
