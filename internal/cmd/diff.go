package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/cameronsjo/patchlib/internal/diff"
	"github.com/cameronsjo/patchlib/internal/manifest"
	"github.com/cameronsjo/patchlib/internal/ui"
)

var (
	diffOpts       patchOptions
	diffMergePatch bool
)

// diffCmd shows what patch files change.
var diffCmd = &cobra.Command{
	Use:   "diff BASE -p PATCH...",
	Short: "Show what patch files change",
	Long: `Apply patch files to BASE and print the difference between the canonical
base and the result. Removed lines are marked [L] and added lines [R].

With --merge-patch, print one RFC 7396 merge patch per changed document
instead.

Examples:
  patchlib diff base.yaml -p prod.yaml
  patchlib diff base.yaml -p prod.yaml --merge-patch`,
	Args: cobra.ExactArgs(1),
	RunE: runDiff,
}

func init() {
	diffOpts.register(diffCmd)
	diffCmd.Flags().BoolVar(&diffMergePatch, "merge-patch", false, "Print RFC 7396 merge patches per document")

	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	before, after, err := diffOpts.run(cmd, args[0])
	if err != nil {
		return err
	}

	if diffMergePatch {
		return printMergePatches(cmd, before, after)
	}

	left, err := manifest.Dump(before.List)
	if err != nil {
		return err
	}
	right, err := manifest.Dump(after.List)
	if err != nil {
		return err
	}
	text, err := diff.Compact(string(left), string(right))
	if err != nil {
		return err
	}

	if text == "" {
		ui.Info("No changes")
		return nil
	}
	ui.Diff(cmd.OutOrStdout(), text)
	return nil
}

// printMergePatches writes a YAML merge patch for every document that changed.
func printMergePatches(cmd *cobra.Command, before, after *manifest.CanonicalSet) error {
	changed := 0
	for _, key := range after.Keys() {
		base := before.Map[key]
		patched := after.Map[key]

		mp, err := diff.MergePatch(base, patched)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if string(mp) == "{}" {
			continue
		}

		out, err := yaml.JSONToYAML(mp)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "--- # %s\n%s", key, out)
		changed++
	}

	if changed == 0 {
		ui.Info("No changes")
	}
	return nil
}
