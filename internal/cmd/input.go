package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/cameronsjo/patchlib/internal/fileutil"
	"github.com/cameronsjo/patchlib/internal/manifest"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

var outputFormats = []string{formatYAML, formatJSON}

// errInteractiveStdin is returned when "-" is given but stdin is a terminal.
var errInteractiveStdin = errors.New("refusing to read manifests from an interactive terminal; pipe input or pass a file")

// readInput reads a file argument, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	in := cmd.InOrStdin()
	if path == fileutil.StdinPath {
		if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return nil, errInteractiveStdin
		}
	}
	return fileutil.ReadInput(path, in, manifest.MaxInputBytes)
}

// loadDocuments reads and decodes every file in order.
func loadDocuments(cmd *cobra.Command, paths []string) ([]any, error) {
	docs := []any{}
	for _, p := range paths {
		data, err := readInput(cmd, p)
		if err != nil {
			return nil, err
		}
		loaded, err := manifest.Load(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		log.WithField("file", p).WithField("documents", len(loaded)).Debug("Loaded manifests")
		docs = append(docs, loaded...)
	}
	return docs, nil
}

// loadSet reads files into one canonical set; keys must be unique across files.
func loadSet(cmd *cobra.Command, paths ...string) (*manifest.CanonicalSet, error) {
	docs, err := loadDocuments(cmd, paths)
	if err != nil {
		return nil, err
	}
	return manifest.NewCanonicalSet(docs)
}

// render formats documents as canonical YAML or as a JSON list.
func render(docs []any, format string) ([]byte, error) {
	switch format {
	case formatYAML:
		return manifest.Dump(docs)
	case formatJSON:
		return manifest.ManifestJSON(docs)
	default:
		return nil, fmt.Errorf("unknown output format %q (want yaml or json)", format)
	}
}

// writeOutput writes data to outFile, or to stdout when outFile is empty.
func writeOutput(cmd *cobra.Command, data []byte, outFile string) error {
	if outFile == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := fileutil.WriteFile(outFile, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outFile, err)
	}
	log.WithField("file", outFile).Info("Wrote output")
	return nil
}

// loadVars merges variable files and key=value pairs; pairs win.
func loadVars(cmd *cobra.Command, pairs, files []string) (map[string]string, error) {
	vars := map[string]string{}
	for _, f := range files {
		data, err := readInput(cmd, f)
		if err != nil {
			return nil, err
		}
		var fileVars map[string]string
		if err := yaml.Unmarshal(data, &fileVars); err != nil {
			return nil, fmt.Errorf("parse var file %s: %w", f, err)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}

	flagVars, err := manifest.ParseVars(pairs)
	if err != nil {
		return nil, err
	}
	for k, v := range flagVars {
		vars[k] = v
	}

	if len(vars) > 0 {
		names := make([]string, 0, len(vars))
		for k := range vars {
			names = append(names, k)
		}
		sort.Strings(names)
		log.WithField("vars", names).Debug("Variables set")
	}
	return vars, nil
}
