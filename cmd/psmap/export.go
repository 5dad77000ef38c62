package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/opensante/psmap/internal/dataset"
	"github.com/opensante/psmap/internal/export"
	"github.com/opensante/psmap/internal/filter"
	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <category>",
		Short: "Export a filtered dataset to CSV, JSON or Markdown",
		Long: `Export loads a category, applies the selection flags and writes
the rows in the requested format.

CSV reproduces the tabular shape of the source extract plus the
computed department and coordinate columns. JSON carries the rows with
provenance and a statistical summary. Markdown renders a report with
rankings and a civility breakdown chart.

Examples:
  # Print the physicians of Lyon as CSV
  psmap export medecin --city LYON

  # Write a JSON file
  psmap export medecin --format json -o medecins.json

  # Render a Markdown report for one department
  psmap export infirmier --department 13 --format markdown -o rapport.md`,
		Args: cobra.ExactArgs(1),
		RunE: runExportCmd,
	}

	addCacheFlags(cmd)
	addFilterFlags(cmd)
	cmd.Flags().StringP("format", "F", "csv", "Output format: csv, json or markdown")
	cmd.Flags().StringP("output", "o", "", "Write to the given file instead of stdout")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	criteria, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)

	ctx := cmd.Context()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	loader, err := newLoader(cfg, store, dataset.WithLogger(logger))
	if err != nil {
		return err
	}

	ds, err := loader.Load(ctx, args[0])
	if err != nil {
		return err
	}
	ds = filter.Apply(ds, criteria)

	output := cmd.OutOrStdout()
	if outputPath != "" {
		dir := filepath.Dir(outputPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var writer export.Writer
	switch format {
	case "csv":
		writer = export.NewCSVWriter(output)
	case "json":
		writer = export.NewJSONWriter(output, export.WithPrettyPrint())
	case "markdown", "md":
		writer = export.NewMarkdownWriter(output)
	default:
		return fmt.Errorf("unsupported format %q (csv, json or markdown)", format)
	}

	if _, err := writer.Write(ds); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if outputPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", ds.Len(), outputPath)
	}
	return nil
}
