// Package cmd provides the CLI commands for patchlib.
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cameronsjo/patchlib/internal/config"
	"github.com/cameronsjo/patchlib/internal/ui"
)

var version = "0.1.0"

var (
	configPath string
	logLevel   string

	// cfg is loaded before every command runs.
	cfg = config.Default()
	log = logrus.New()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "patchlib",
	Short: "Declarative patching for Kubernetes manifests",
	Long: `patchlib - declarative patching for Kubernetes manifests

Patch a named container, env entry or volume, change replicas, merge
ConfigMap and Secret data, or add annotations without restating the whole
document. Lookups are strict: patching an element that does not exist is
an error, never an insert.

MANIFEST COMMANDS
  canon FILE...           Print manifests in canonical form (sorted keys)
    --output, -o json     Print a JSON list instead of YAML
  validate FILE...        Check manifests and patch files
    --patch, -p FILE      Also check a patch file

PATCH COMMANDS
  apply BASE -p PATCH     Apply patch files and print the result
    --var k=v             Set a ${k} placeholder in the patch file
    --var-file FILE       Read placeholders from a YAML map
  diff BASE -p PATCH      Show what a patch file changes
    --merge-patch         Print RFC 7396 merge patches per document

CONFIGURATION
  shapes                  List workload kinds and their pod spec paths
  --config FILE           Config file (.toml or .yaml), or $PATCHLIB_CONFIG
  --log-level LEVEL       Diagnostic log level on stderr

Use - as FILE to read from stdin.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// setup loads the configuration and points logging and messages at stderr.
func setup(cmd *cobra.Command, args []string) error {
	ui.Output = cmd.ErrOrStderr()

	c, err := config.Discover(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c

	level := cfg.Level()
	if logLevel != "" {
		level, err = logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
	}

	log.SetOutput(cmd.ErrOrStderr())
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(level)

	if cfg.Path != "" {
		log.WithField("path", cfg.Path).Debug("Loaded config")
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $PATCHLIB_CONFIG or nearest .patchlib.toml/.patchlib.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warning, error")

	// Version template
	rootCmd.SetVersionTemplate("patchlib version {{.Version}}\n")
}
