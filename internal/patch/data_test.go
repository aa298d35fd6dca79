package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configMap() map[string]any {
	return map[string]any{
		"kind":     "ConfigMap",
		"metadata": map[string]any{"name": "cm"},
		"data":     map[string]any{"foo": "bar"},
	}
}

func TestPatchData(t *testing.T) {
	got, err := PatchData(configMap(), map[string]any{
		"foo": "bar2",
		"one": 1.0,
		"two": 2,
		"on":  true,
	})
	require.NoError(t, err)

	data := got.(map[string]any)["data"]
	assert.Equal(t, map[string]any{"foo": "bar2", "one": "1", "two": "2", "on": "true"}, data)
}

func TestPatchSecretData(t *testing.T) {
	secret := map[string]any{
		"kind":     "Secret",
		"metadata": map[string]any{"name": "s"},
		"data":     map[string]any{"foo": "LWIgYmFyCg=="},
	}

	got, err := PatchSecretData(secret, map[string]any{"foo": "bar2", "bar": "baz", "one": 1.0})
	require.NoError(t, err)

	data := got.(map[string]any)["data"]
	assert.Equal(t, map[string]any{"foo": "YmFyMg==", "bar": "YmF6", "one": "MQ=="}, data)
	assert.Equal(t, "LWIgYmFyCg==", secret["data"].(map[string]any)["foo"])
}

func TestPatchStringData(t *testing.T) {
	got, err := PatchStringData(map[string]any{"kind": "Secret"}, map[string]any{"token": "abc"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"token": "abc"}, got.(map[string]any)["stringData"])
}

func TestPatchDataRejectsNested(t *testing.T) {
	_, err := PatchData(configMap(), map[string]any{"foo": map[string]any{"a": "b"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidData)
	assert.Contains(t, err.Error(), `data key "foo"`)
}

func TestPatchMetadata(t *testing.T) {
	got, err := PatchMetadata(configMap(), map[string]any{"annotations": map[string]any{"a": "b"}})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"name":        "cm",
		"annotations": map[string]any{"a": "b"},
	}, got.(map[string]any)["metadata"])
}
