package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/opensante/psmap/internal/dataset"
	"github.com/opensante/psmap/internal/filter"
	"github.com/opensante/psmap/internal/stats"
	"github.com/spf13/cobra"
)

// Ranking lengths of the text output.
const (
	statsTopSpecialties = 10
	statsTopCities      = 10
	statsTopDepartments = 10
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <category>",
		Short: "Summarize a dataset category",
		Long: `Stats loads a category, applies the selection flags and prints
row counts, coverage and the most frequent specialties, cities and
departments.

Examples:
  # Summarize the physicians extract
  psmap stats medecin

  # Only general practitioners in Paris
  psmap stats medecin --specialty "Médecin généraliste" --department 75

  # Machine-readable output
  psmap stats medecin --json`,
		Args: cobra.ExactArgs(1),
		RunE: runStatsCmd,
	}

	addCacheFlags(cmd)
	addFilterFlags(cmd)
	cmd.Flags().BoolP("json", "j", false, "Output the summary as JSON")

	return cmd
}

// statsOutput is the JSON shape of the stats command.
type statsOutput struct {
	Category       string             `json:"category"`
	Summary        stats.Summary      `json:"summary"`
	TopSpecialties []stats.ValueCount `json:"top_specialties"`
	TopCities      []stats.ValueCount `json:"top_cities"`
	Departments    []stats.ValueCount `json:"departments"`
}

// runStatsCmd executes the stats command.
func runStatsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	criteria, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
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

	out := statsOutput{
		Category:       ds.Category,
		Summary:        stats.Summarize(ds),
		TopSpecialties: stats.TopValues(ds, stats.FieldSpecialty, statsTopSpecialties),
		TopCities:      stats.TopValues(ds, stats.FieldCity, statsTopCities),
		Departments:    stats.CountByDepartment(ds),
	}

	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Category: %s (%s)\n", ds.Category, ds.Source)
	fmt.Fprintf(w, "Fetched:  %s", ds.FetchedAt.Format("2006-01-02 15:04:05"))
	if ds.FromCache {
		fmt.Fprint(w, " (cached)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Rows:     %d (%d located, %d source rows skipped)\n",
		out.Summary.Total, out.Summary.Located, out.Summary.SkippedRows)
	fmt.Fprintf(w, "Unique:   %d specialties, %d cities\n\n",
		out.Summary.UniqueSpecialties, out.Summary.UniqueCities)

	printRanking(w, "Top specialties", out.TopSpecialties)
	printRanking(w, "Top cities", out.TopCities)
	if len(out.Departments) > statsTopDepartments {
		printRanking(w, "Top departments", out.Departments[:statsTopDepartments])
	} else {
		printRanking(w, "Departments", out.Departments)
	}
	return nil
}

// printRanking prints one value/count table.
func printRanking(w io.Writer, title string, values []stats.ValueCount) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, v := range values {
		fmt.Fprintf(w, "  %-40s %8d  (%.1f%%)\n", v.Value, v.Count, v.Share*100)
	}
	fmt.Fprintln(w)
}
