package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// shapesCmd lists the workload kinds the patcher knows.
var shapesCmd = &cobra.Command{
	Use:   "shapes",
	Short: "List workload kinds and their pod spec paths",
	Long: `List the workload kinds that container, volume, pod spec and replica
patches can target, with the path of each kind's pod spec. Kinds are added
or changed in the config file under [shapes].`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tPOD SPEC\tREPLICAS")
		for _, kind := range cfg.Kinds() {
			s := cfg.Shapes[kind]
			replicas := "no"
			if s.Replicas {
				replicas = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", kind, s.PodSpecPath, replicas)
		}
		return w.Flush()
	},
}

// versionCmd prints the version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "patchlib version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(shapesCmd)
	rootCmd.AddCommand(versionCmd)
}
