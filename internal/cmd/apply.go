package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/patchlib/internal/manifest"
	"github.com/cameronsjo/patchlib/internal/patchfile"
	"github.com/cameronsjo/patchlib/internal/ui"
)

// patchOptions are the flags shared by apply and diff.
type patchOptions struct {
	patches  []string
	vars     []string
	varFiles []string
}

func (o *patchOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&o.patches, "patch", "p", nil, "Patch file, applied in order (repeatable)")
	cmd.Flags().StringArrayVar(&o.vars, "var", nil, "Patch file variable key=value (repeatable)")
	cmd.Flags().StringArrayVar(&o.varFiles, "var-file", nil, "YAML map of patch file variables (repeatable)")
	cmd.MarkFlagRequired("patch")
}

// run loads base and applies every patch file to it.
func (o *patchOptions) run(cmd *cobra.Command, base string) (before, after *manifest.CanonicalSet, err error) {
	before, err = loadSet(cmd, base)
	if err != nil {
		return nil, nil, err
	}

	vars, err := loadVars(cmd, o.vars, o.varFiles)
	if err != nil {
		return nil, nil, err
	}

	applier := patchfile.NewApplier(cfg, log)
	after = before
	for i, p := range o.patches {
		data, err := readInput(cmd, p)
		if err != nil {
			return nil, nil, err
		}
		f, err := patchfile.Parse(data, vars)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", p, err)
		}
		log.WithField("file", p).WithField("patches", len(f.Patches)).Debug("Loaded patch file")

		after, err = applier.Apply(after, f)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", p, err)
		}
		if len(o.patches) > 1 {
			ui.Step(i+1, "%s: %d patches applied", p, len(f.Patches))
		}
	}
	return before, after, nil
}

var (
	applyOpts    patchOptions
	applyOutput  string
	applyOutFile string
)

// applyCmd applies patch files to a base manifest.
var applyCmd = &cobra.Command{
	Use:   "apply BASE -p PATCH...",
	Short: "Apply patch files and print the result",
	Long: `Apply one or more patch files to the manifests in BASE and print the
patched documents. Patch files are applied in order; any failure aborts
without output.

Examples:
  patchlib apply base.yaml -p prod.yaml
  patchlib apply base.yaml -p prod.yaml --var image=nginx:1.27 -o json
  patchlib apply base.yaml -p prod.yaml --var-file vars.yaml --out out.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	applyOpts.register(applyCmd)
	applyCmd.Flags().StringVarP(&applyOutput, "output", "o", formatYAML, "Output format: yaml or json")
	applyCmd.Flags().StringVar(&applyOutFile, "out", "", "Write to a file instead of stdout")

	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	_, after, err := applyOpts.run(cmd, args[0])
	if err != nil {
		return err
	}

	out, err := render(after.List, applyOutput)
	if err != nil {
		return err
	}
	return writeOutput(cmd, out, applyOutFile)
}
