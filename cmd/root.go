/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/fulmenhq/episodemerge/internal/ops"
	"github.com/fulmenhq/episodemerge/pkg/buildinfo"
	"github.com/fulmenhq/episodemerge/pkg/episode"
	"github.com/fulmenhq/episodemerge/pkg/exitcode"
	"github.com/fulmenhq/episodemerge/pkg/logger"
	"github.com/spf13/cobra"
)

// newRootCommand creates a fresh root command instance with all subcommands.
// Tests use it to get isolated command trees without shared flag state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "episodemerge",
		Short: "Merge JAXB episode files of a multi-module build",
		Long: `Episodemerge combines the sun-jaxb.episode files produced by schema compilation
into one binding document and rewires the build's resources so only the merged
file is packaged.

Examples:
   episodemerge merge -C .              # Merge target/**/sun-jaxb.episode
   episodemerge merge --manifest res.yaml
   episodemerge locate --base-dir target/generated-sources
   episodemerge resources res.yaml      # Show a resource manifest`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initializeLogger(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cmd.Version = buildinfo.Version()
	cmd.SetVersionTemplate("episodemerge {{.Version}}\n")

	reg := ops.NewRegistry()
	registerSubcommands(cmd, reg)

	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd.HasParent() {
			cmd.Print(cmd.Long + "\n\n" + cmd.UsageString())
			return
		}
		cmd.Println(cmd.Long)
		cmd.Println()
		for _, g := range ops.Groups() {
			cmd.Println(g.Title() + ":")
			for _, c := range reg.GetCommandsByGroup(g) {
				cmd.Printf("  %-12s %s\n", c.Name, c.Description)
			}
			cmd.Println()
		}
		cmd.Println("Flags:")
		cmd.Print(cmd.UsageString())
	})

	return cmd
}

// registerSubcommands adds all subcommands to the root command and classifies
// them for the grouped help.
func registerSubcommands(cmd *cobra.Command, reg *ops.Registry) {
	subcommands := []struct {
		group ops.CommandGroup
		cmd   *cobra.Command
	}{
		{ops.GroupBuild, newMergeCommand()},
		{ops.GroupBuild, newLocateCommand()},
		{ops.GroupBuild, newResourcesCommand()},
		{ops.GroupSupport, newVersionCommand()},
	}
	for _, s := range subcommands {
		cmd.AddCommand(s.cmd)
		if err := reg.Register(s.group, s.cmd); err != nil {
			panic(fmt.Sprintf("Failed to register %s command: %v", s.cmd.Name(), err))
		}
	}
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute runs the root command and exits with the code matching the error kind.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an error to the process exit code
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case episode.IsConfigurationError(err):
		return exitcode.ConfigError
	case episode.IsParseError(err), episode.IsValidationError(err):
		return exitcode.ValidationError
	case episode.IsIOError(err):
		return exitcode.FileSystemError
	default:
		return exitcode.GeneralError
	}
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) error {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "episodemerge",
	}
	if err := logger.Initialize(config); err != nil {
		return &episode.ConfigurationError{Field: "log-level", Message: err.Error()}
	}
	return nil
}
