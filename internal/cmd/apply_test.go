package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"
)

func TestApplyCmd(t *testing.T) {
	dir := t.TempDir()
	base := writeTestFile(t, dir, "base.yaml", testDeployment)
	patchFile := writeTestFile(t, dir, "patch.yaml", testPatch)
	varFile := writeTestFile(t, dir, "vars.yaml", "image: nginx:from-file\n")

	t.Run("applies with variables", func(t *testing.T) {
		stdout, _, err := executeCmd(t, "apply", base, "-p", patchFile, "--var", "image=nginx:stable")
		require.NoError(t, err)
		assert.Contains(t, stdout, "replicas: 3")
		assert.Contains(t, stdout, "image: nginx:stable")
		assert.NotContains(t, stdout, "nginx:latest")
	})

	t.Run("var flag wins over var file", func(t *testing.T) {
		stdout, _, err := executeCmd(t, "apply", base, "-p", patchFile, "--var-file", varFile)
		require.NoError(t, err)
		assert.Contains(t, stdout, "image: nginx:from-file")

		stdout, _, err = executeCmd(t, "apply", base, "-p", patchFile, "--var-file", varFile, "--var", "image=nginx:flag")
		require.NoError(t, err)
		assert.Contains(t, stdout, "image: nginx:flag")
	})

	t.Run("json output", func(t *testing.T) {
		stdout, _, err := executeCmd(t, "apply", base, "-p", patchFile, "--var", "image=x", "-o", "json")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(stdout, "[\n   {\n"))

		var docs []map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(stdout), &docs))
		require.Len(t, docs, 1)
		assert.Equal(t, "web", docs[0]["metadata"].(map[string]any)["name"])
	})

	t.Run("base from stdin", func(t *testing.T) {
		stdout, _, err := executeCmdWithInput(t, strings.NewReader(testDeployment), "apply", "-", "-p", patchFile, "--var", "image=x")
		require.NoError(t, err)
		assert.Contains(t, stdout, "image: x")
	})

	t.Run("patch files apply in order", func(t *testing.T) {
		second := writeTestFile(t, dir, "second.yaml", `
apiVersion: patchlib.io/v1
kind: PatchSet
patches:
  - target: {kind: Deployment, name: web}
    replicas: 5
`)
		stdout, stderr, err := executeCmd(t, "apply", base, "-p", patchFile, "-p", second, "--var", "image=x")
		require.NoError(t, err)
		assert.Contains(t, stdout, "replicas: 5")
		assert.Contains(t, stdout, "image: x")
		assert.Contains(t, stderr, "[2] "+second+": 1 patches applied")
	})

	t.Run("missing container aborts without output", func(t *testing.T) {
		bad := writeTestFile(t, dir, "bad.yaml", `
apiVersion: patchlib.io/v1
kind: PatchSet
patches:
  - target: {kind: Deployment, name: web}
    containers:
      - {name: main2, image: x}
`)
		stdout, _, err := executeCmd(t, "apply", base, "-p", bad)
		require.Error(t, err)
		assert.Empty(t, stdout)
		assert.Contains(t, err.Error(), "Container with name main2 not found")
	})

	t.Run("requires a patch", func(t *testing.T) {
		_, _, err := executeCmd(t, "apply", base)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "patch")
	})

	t.Run("debug logging goes to stderr", func(t *testing.T) {
		stdout, stderr, err := executeCmd(t, "--log-level", "debug", "apply", base, "-p", patchFile, "--var", "image=x")
		require.NoError(t, err)
		assert.Contains(t, stderr, "Applying patch")
		assert.NotContains(t, stdout, "Applying patch")
	})
}

func TestDiffCmd(t *testing.T) {
	dir := t.TempDir()
	base := writeTestFile(t, dir, "base.yaml", testDeployment)
	patchFile := writeTestFile(t, dir, "patch.yaml", testPatch)

	t.Run("compact diff", func(t *testing.T) {
		stdout, _, err := executeCmd(t, "diff", base, "-p", patchFile, "--var", "image=nginx:stable")
		require.NoError(t, err)
		assert.Contains(t, stdout, "[L]  replicas: 1\n[R]  replicas: 3\n")
		assert.Contains(t, stdout, "[L]        image: nginx:latest\n[R]        image: nginx:stable\n")
	})

	t.Run("merge patch", func(t *testing.T) {
		stdout, _, err := executeCmd(t, "diff", base, "-p", patchFile, "--var", "image=nginx:stable", "--merge-patch")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(stdout, "--- # web.Deployment\n"))
		assert.Contains(t, stdout, "replicas: 3")
		// lists are replaced whole by a merge patch
		assert.Contains(t, stdout, "containers:")
	})

	t.Run("no changes", func(t *testing.T) {
		noop := writeTestFile(t, dir, "noop.yaml", `
apiVersion: patchlib.io/v1
kind: PatchSet
patches:
  - target: {kind: Deployment, name: web}
    replicas: 1
`)
		stdout, stderr, err := executeCmd(t, "diff", base, "-p", noop)
		require.NoError(t, err)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "No changes")
	})
}
