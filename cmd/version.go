/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/fulmenhq/episodemerge/pkg/buildinfo"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the episodemerge version",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().Bool("extended", false, "Show detailed build information")
	cmd.Flags().String("format", "text", "Output format: text|json")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd, "text", "json")
	if err != nil {
		return err
	}
	extended, _ := cmd.Flags().GetBool("extended")
	out := cmd.OutOrStdout()

	version := buildinfo.Version()
	module := buildinfo.ModuleVersion()
	if module == "" {
		module = "unknown"
	}

	if format == "json" {
		versionInfo := map[string]interface{}{
			"version":   version,
			"goVersion": runtime.Version(),
			"platform":  runtime.GOOS,
			"arch":      runtime.GOARCH,
		}
		if extended {
			versionInfo["moduleVersion"] = module
		}
		jsonData, err := json.MarshalIndent(versionInfo, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %v", err)
		}
		fmt.Fprintln(out, string(jsonData))
		return nil
	}

	fmt.Fprintf(out, "episodemerge %s\n", version)
	if extended {
		fmt.Fprintf(out, "Module version: %s\n", module)
		fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
		fmt.Fprintf(out, "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	}
	return nil
}
