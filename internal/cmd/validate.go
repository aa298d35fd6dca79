package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/patchlib/internal/manifest"
	"github.com/cameronsjo/patchlib/internal/patchfile"
	"github.com/cameronsjo/patchlib/internal/ui"
)

var (
	validatePatches []string
	validateVars    []string
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Check manifests and patch files",
	Long: `Validate manifests and patch files without changing anything.

Each manifest file must decode, and each document must have a kind, a
metadata map and a metadata.name. Keys must be unique within a file. Patch
files must decode with known fields only and name a kind and name for every
target.

Examples:
  patchlib validate base.yaml
  patchlib validate base.yaml -p prod.yaml --var image=nginx:stable`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringArrayVarP(&validatePatches, "patch", "p", nil, "Patch file to check (repeatable)")
	validateCmd.Flags().StringArrayVar(&validateVars, "var", nil, "Patch file variable key=value (repeatable)")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	var errors int

	ui.Header("Manifests")
	for _, path := range args {
		data, err := readInput(cmd, path)
		if err != nil {
			ui.Error("%s: %v", path, err)
			errors++
			continue
		}
		set, err := manifest.ParseAsSet(data)
		if err != nil {
			ui.Error("%s: %v", path, err)
			errors++
			continue
		}
		if set.Len() == 0 {
			ui.Warning("%s: no documents", path)
			continue
		}
		ui.Success("%s: %d documents", path, set.Len())
	}

	vars, err := manifest.ParseVars(validateVars)
	if err != nil {
		return err
	}
	if len(validatePatches) > 0 {
		ui.Header("Patch files")
	}
	for _, path := range validatePatches {
		f, err := patchfile.ReadFile(path, vars)
		if err != nil {
			ui.Error("%v", err)
			errors++
			continue
		}
		ui.Success("%s: %d patches", path, len(f.Patches))
	}

	if errors > 0 {
		return fmt.Errorf("validation failed: %d file(s) invalid", errors)
	}
	return nil
}
