package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulmenhq/episodemerge/pkg/ascii"
	"github.com/fulmenhq/episodemerge/pkg/config"
	"github.com/fulmenhq/episodemerge/pkg/episode"
	"github.com/fulmenhq/episodemerge/pkg/logger"
	"github.com/fulmenhq/episodemerge/pkg/resources"
	"github.com/spf13/cobra"
)

func newMergeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge episode files and reconcile packaged resources",
		Long: `Merge locates the episode files below the base directory, combines them into
<build-dir>/merged-jaxb-episode/sun-jaxb.episode and, when a resource manifest
or POM is configured, rewrites the resource list so that only the merged file
is packaged. With fewer than two episode files nothing is written.`,
		Args: cobra.NoArgs,
		RunE: runMerge,
	}
	addConfigFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "Print the merged document instead of writing it")
	cmd.Flags().String("format", "text", "Summary format: text|json")
	return cmd
}

// mergeSummary is the JSON form of a merge outcome
type mergeSummary struct {
	Sources   []string         `json:"sources"`
	Skipped   bool             `json:"skipped"`
	Output    string           `json:"output,omitempty"`
	Strategy  string           `json:"strategy,omitempty"`
	Namespace string           `json:"namespace,omitempty"`
	Resources *resourceSummary `json:"resources,omitempty"`
}

type resourceSummary struct {
	Manifest string `json:"manifest"`
	Removed  int    `json:"removed"`
	Stripped int    `json:"stripped"`
	Narrowed int    `json:"narrowed"`
	Total    int    `json:"total"`
}

func runMerge(cmd *cobra.Command, _ []string) error {
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
	if cfg.ConfigFile != "" {
		logger.Debug("Loaded configuration", logger.Path(cfg.ConfigFile))
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		return previewMerge(cmd, req)
	}

	res, err := episode.Run(req)
	if err != nil {
		return err
	}
	summary := mergeSummary{Sources: res.Sources, Skipped: res.Skipped}
	if !res.Skipped {
		summary.Output = res.OutputPath
		summary.Strategy = string(res.Document.Strategy)
		summary.Namespace = res.Document.Namespace.URI

		if cfg.HasResources() {
			rs, err := reconcileResources(cfg, res.OutputPath)
			if err != nil {
				return err
			}
			summary.Resources = rs
		}
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if summary.Skipped {
		fmt.Fprintf(out, "Nothing to merge: found %d episode file(s)\n", len(summary.Sources))
		return nil
	}
	lines := []string{
		fmt.Sprintf("Merged %d episode files", len(summary.Sources)),
		"Output:    " + summary.Output,
		"Strategy:  " + summary.Strategy,
		"Namespace: " + summary.Namespace,
	}
	if rs := summary.Resources; rs != nil {
		lines = append(lines,
			"Resources: "+rs.Manifest,
			fmt.Sprintf("           %d removed, %d stripped, %d narrowed, %d total", rs.Removed, rs.Stripped, rs.Narrowed, rs.Total),
		)
	}
	fmt.Fprint(out, ascii.Box(lines))
	return nil
}

// previewMerge merges in memory and prints the document
func previewMerge(cmd *cobra.Command, req episode.Request) error {
	files, err := episode.Locate(req)
	if err != nil {
		return err
	}
	if len(files) <= 1 {
		logger.Warn(fmt.Sprintf("Found %d episode files - nothing to merge", len(files)))
		return nil
	}
	doc, err := episode.Merge(req, files)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(doc.Bytes)
	return err
}

// reconcileResources loads the configured resource list, rewires it for the
// merged file at outputPath and saves it
func reconcileResources(cfg *config.Config, outputPath string) (*resourceSummary, error) {
	list, err := loadResourceList(cfg)
	if err != nil {
		return nil, err
	}
	report, err := resources.Reconcile(&list, outputPath, cfg.Verbose)
	if err != nil {
		return nil, err
	}
	if err := resources.SaveManifest(cfg.Resources.Output, &resources.Manifest{Resources: list}); err != nil {
		return nil, err
	}
	logger.Info("Wrote reconciled resources", logger.Path(cfg.Resources.Output), logger.Int("count", len(list)))
	return &resourceSummary{
		Manifest: cfg.Resources.Output,
		Removed:  len(report.Removed),
		Stripped: len(report.Stripped),
		Narrowed: len(report.Narrowed),
		Total:    len(list),
	}, nil
}

// loadResourceList reads the manifest when it exists and otherwise seeds the
// list from the POM
func loadResourceList(cfg *config.Config) ([]resources.Resource, error) {
	if cfg.Resources.Manifest != "" {
		_, statErr := os.Stat(cfg.Resources.Manifest)
		if statErr == nil || cfg.Resources.POM == "" {
			m, err := resources.LoadManifest(cfg.Resources.Manifest)
			if err != nil {
				return nil, err
			}
			return m.Resources, nil
		}
		logger.Info("Manifest not found, seeding from POM", logger.Path(cfg.Resources.Manifest))
	}
	return resources.LoadPOM(cfg.Resources.POM)
}
