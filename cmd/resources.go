package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fulmenhq/episodemerge/pkg/ascii"
	"github.com/fulmenhq/episodemerge/pkg/episode"
	"github.com/fulmenhq/episodemerge/pkg/resources"
	"github.com/spf13/cobra"
)

func newResourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources [manifest|pom.xml]",
		Short: "Show a resource list, optionally as reconciled by merge",
		Long: `Resources prints the packaging resources of a manifest (.yaml, .toml, .json) or
a Maven POM. Without an argument the configured manifest or POM is used. With
--reconcile the list is shown as merge would rewrite it; nothing is written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runResources,
	}
	addConfigFlags(cmd)
	cmd.Flags().String("format", "table", "Output format: table|yaml|toml|json")
	cmd.Flags().Bool("reconcile", false, "Apply the merge rewiring before printing")
	return cmd
}

func runResources(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd, "table", "yaml", "toml", "json")
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var list []resources.Resource
	switch {
	case len(args) == 1:
		list, err = loadResourceFile(args[0])
	case cfg.HasResources():
		list, err = loadResourceList(cfg)
	default:
		err = &episode.ConfigurationError{Field: "resources.manifest", Message: "no manifest or POM given"}
	}
	if err != nil {
		return err
	}

	if reconcile, _ := cmd.Flags().GetBool("reconcile"); reconcile {
		if _, err := resources.Reconcile(&list, episode.OutputPath(cfg.BuildDirectory), cfg.Verbose); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if format == "table" {
		fmt.Fprint(out, resourceTable(list))
		return nil
	}
	data, err := resources.EncodeManifest(&resources.Manifest{Resources: list}, resources.Format(format))
	if err != nil {
		return fmt.Errorf("failed to encode resources: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func loadResourceFile(path string) ([]resources.Resource, error) {
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return resources.LoadPOM(path)
	}
	m, err := resources.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	return m.Resources, nil
}

func resourceTable(list []resources.Resource) string {
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		rows = append(rows, []string{
			r.Directory,
			strings.Join(r.Includes, ","),
			strings.Join(r.Excludes, ","),
			r.TargetPath,
			strconv.FormatBool(r.Filtering),
		})
	}
	return ascii.Table([]string{"DIRECTORY", "INCLUDES", "EXCLUDES", "TARGET", "FILTERING"}, rows, 60)
}
