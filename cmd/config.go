package cmd

import (
	"fmt"
	"strings"

	"github.com/fulmenhq/episodemerge/pkg/config"
	"github.com/fulmenhq/episodemerge/pkg/episode"
	"github.com/spf13/cobra"
)

// addConfigFlags registers the configuration flags shared by the build commands
func addConfigFlags(cmd *cobra.Command) {
	config.RegisterFlags(cmd.Flags())
	cmd.Flags().String("config", "", "Configuration file (default <project-dir>/"+config.ConfigName+".{yaml,toml,json})")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	return config.Load(config.LoadOptions{Flags: cmd.Flags(), ConfigFile: file})
}

// outputFormat reads the --format flag and checks it against allowed
func outputFormat(cmd *cobra.Command, allowed ...string) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(strings.TrimSpace(format))
	for _, a := range allowed {
		if format == a {
			return format, nil
		}
	}
	return "", &episode.ConfigurationError{
		Field:   "format",
		Message: fmt.Sprintf("unsupported format %q (use %s)", format, strings.Join(allowed, ", ")),
	}
}
