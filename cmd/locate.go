package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/fulmenhq/episodemerge/pkg/episode"
	"github.com/spf13/cobra"
)

func newLocateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "List the episode files a merge would combine",
		Long: `Locate applies the configured episode patterns and the implicit excludes to the
base directory and prints the matching files in merge order. Nothing is written.`,
		Args: cobra.NoArgs,
		RunE: runLocate,
	}
	addConfigFlags(cmd)
	cmd.Flags().String("format", "text", "Output format: text|json")
	return cmd
}

func runLocate(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd, "text", "json")
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	req, err := cfg.Request()
	if err != nil {
		return err
	}

	files, err := episode.Locate(req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		payload := map[string]interface{}{
			"base":      req.BaseDirectory,
			"include":   req.Include,
			"exclude":   append(append([]string{}, req.Exclude...), episode.ImplicitExcludes()...),
			"files":     files,
			"output":    episode.OutputPath(req.BuildDirectory),
			"mergeable": len(files) > 1,
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	for _, f := range files {
		fmt.Fprintln(out, f)
	}
	return nil
}
