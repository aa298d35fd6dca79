package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

// manifestExtensions are the file types offered for manifest and patch arguments.
var manifestExtensions = []string{"yaml", "yml", "json"}

// completeManifestFiles completes manifest file arguments.
func completeManifestFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return manifestExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// completeBaseFile completes the single BASE argument of apply and diff.
func completeBaseFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Don't complete if we already have an argument
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return manifestExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// completeOutputFormats completes the --output flag.
func completeOutputFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, f := range outputFormats {
		if strings.HasPrefix(f, toComplete) {
			names = append(names, f)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeLogLevels completes the --log-level flag.
func completeLogLevels(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	levels := []string{"trace", "debug", "info", "warning", "error"}
	var names []string
	for _, l := range levels {
		if strings.HasPrefix(l, toComplete) {
			names = append(names, l)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeConfigFiles completes the --config flag.
func completeConfigFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"toml", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}

// registerCompletions registers all dynamic completions for commands.
func registerCompletions() {
	canonCmd.ValidArgsFunction = completeManifestFiles
	validateCmd.ValidArgsFunction = completeManifestFiles
	applyCmd.ValidArgsFunction = completeBaseFile
	diffCmd.ValidArgsFunction = completeBaseFile

	// Registering twice fails; completions are optional so errors are ignored.
	for _, c := range []*cobra.Command{canonCmd, applyCmd} {
		_ = c.RegisterFlagCompletionFunc("output", completeOutputFormats)
	}
	for _, c := range []*cobra.Command{validateCmd, applyCmd, diffCmd} {
		_ = c.RegisterFlagCompletionFunc("patch", completeManifestFiles)
	}
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", completeLogLevels)
	_ = rootCmd.RegisterFlagCompletionFunc("config", completeConfigFiles)
}

func init() {
	// Use a deferred registration via cobra.OnInitialize to ensure
	// all commands are registered before we add completions
	cobra.OnInitialize(registerCompletions)
}
