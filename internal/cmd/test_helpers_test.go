package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag of cmd and its children to its default so
// that values don't leak between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// executeCmd executes the root command with the given args and returns
// stdout and stderr separately.
func executeCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeCmdWithInput(t, strings.NewReader(""), args...)
}

// executeCmdWithInput is executeCmd with stdin read from in.
func executeCmdWithInput(t *testing.T, in io.Reader, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	if args == nil {
		// nil args make cobra fall back to os.Args
		args = []string{}
	}
	t.Setenv("PATCHLIB_CONFIG", "")

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	// Important: Set args BEFORE setting output buffers
	rootCmd.SetArgs(args)
	rootCmd.SetIn(in)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeTestFile writes content to name inside a fresh temp dir.
func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const testDeployment = `
apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
spec:
  replicas: 1
  template:
    spec:
      containers:
        - name: main
          image: nginx:latest
          env:
            - name: foo
              value: bar
`

const testPatch = `
apiVersion: patchlib.io/v1
kind: PatchSet
patches:
  - target: {kind: Deployment, name: web}
    replicas: 3
    containers:
      - name: main
        image: ${image}
`
