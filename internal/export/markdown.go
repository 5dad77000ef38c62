package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/opensante/psmap/internal/model"
	"github.com/opensante/psmap/internal/stats"
)

// How many ranked values the markdown summary shows, matching the
// dashboard's bar charts.
const (
	topSpecialties = 15
	topCities      = 20
)

// MarkdownWriter outputs a snapshot summary as a GitHub-flavored
// Markdown document: provenance, headline counts, the civility
// breakdown as a mermaid pie chart, and the top specialty and city
// rankings. It summarizes rather than dumps; row-level exports are the
// CSV and JSON writers' job.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the snapshot summary in Markdown format.
func (w *MarkdownWriter) Write(ds *model.Dataset) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := stats.Summarize(ds)

	w.writeHeader(md, ds)
	w.writeSummary(md, ds, summary)
	w.writeCivilities(md, summary)
	w.writeRanking(md, "Top specialties", "Specialty",
		stats.TopValues(ds, stats.FieldSpecialty, topSpecialties))
	w.writeRanking(md, "Top cities", "City",
		stats.TopValues(ds, stats.FieldCity, topCities))

	return len(md.String()), md.Build()
}

// writeHeader writes the title and provenance table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, ds *model.Dataset) {
	md.H1("Health professionals dataset")
	md.PlainText("")

	fetched := ""
	if !ds.FetchedAt.IsZero() {
		fetched = ds.FetchedAt.Format("2006-01-02 15:04:05 MST")
	}
	origin := "origin"
	if ds.FromCache {
		origin = "cache"
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Category", "`" + ds.Category + "`"},
			{"Source", ds.Source},
			{"Fetched", fetched},
			{"Served from", origin},
		},
	})
	md.PlainText("")
}

// writeSummary writes the headline counts.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, ds *model.Dataset, s stats.Summary) {
	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Rows", strconv.Itoa(s.Total)},
			{"Located rows", strconv.Itoa(s.Located)},
			{"Skipped source lines", strconv.Itoa(s.SkippedRows)},
			{"Distinct cities", strconv.Itoa(s.UniqueCities)},
			{"Distinct specialties", strconv.Itoa(s.UniqueSpecialties)},
		},
	})
	md.PlainText("")
}

// writeCivilities writes the civility breakdown with a pie chart.
func (w *MarkdownWriter) writeCivilities(md *markdown.Markdown, s stats.Summary) {
	if len(s.Civilities) == 0 {
		return
	}

	md.H2("Civility breakdown")
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Civility distribution"),
		piechart.WithShowData(true),
	)
	rows := make([][]string, 0, len(s.Civilities))
	for _, vc := range s.Civilities {
		chart.LabelAndIntValue(vc.Value, uint64(vc.Count)) //nolint:gosec // counts are non-negative
		rows = append(rows, []string{
			vc.Value,
			strconv.Itoa(vc.Count),
			fmt.Sprintf("%.1f%%", vc.Share*100),
		})
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Civility", "Count", "Share"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeRanking writes one top-N table.
func (w *MarkdownWriter) writeRanking(md *markdown.Markdown, title, column string, values []stats.ValueCount) {
	if len(values) == 0 {
		return
	}

	md.H2(title)
	md.PlainText("")

	rows := make([][]string, 0, len(values))
	for i, vc := range values {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			vc.Value,
			strconv.Itoa(vc.Count),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", column, "Count"},
		Rows:   rows,
	})
	md.PlainText("")
}
