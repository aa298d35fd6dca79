package cmd

import (
	"github.com/spf13/cobra"
)

var (
	canonOutput  string
	canonOutFile string
)

// canonCmd prints manifests in canonical form.
var canonCmd = &cobra.Command{
	Use:   "canon FILE...",
	Short: "Print manifests in canonical form",
	Long: `Load one or more manifest files, check that every document carries a
kind and metadata.name and that (kind, name) pairs are unique, and print
them with sorted keys and normalized whitespace.

Examples:
  patchlib canon deploy.yaml
  patchlib canon -o json a.yaml b.yaml
  kubectl get deploy web -o yaml | patchlib canon -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCanon,
}

func init() {
	canonCmd.Flags().StringVarP(&canonOutput, "output", "o", formatYAML, "Output format: yaml or json")
	canonCmd.Flags().StringVar(&canonOutFile, "out", "", "Write to a file instead of stdout")

	rootCmd.AddCommand(canonCmd)
}

func runCanon(cmd *cobra.Command, args []string) error {
	set, err := loadSet(cmd, args...)
	if err != nil {
		return err
	}

	out, err := render(set.List, canonOutput)
	if err != nil {
		return err
	}
	return writeOutput(cmd, out, canonOutFile)
}
