package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/wikicrawl/internal/model"
)

// MarkdownWriter outputs results in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the crawl result in Markdown format.
func (w *MarkdownWriter) Write(result *model.CrawlResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	// Header
	w.writeHeader(md, result)

	// Summary
	w.writeSummary(md, result)

	// Visited links
	w.writeLinks(md, result)

	// Footer
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.CrawlResult) {
	md.H1("Wikipedia Crawl Report")
	md.PlainText("")

	// Run info table
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed URL", "`" + truncateString(result.SeedURL, 80) + "`"},
			{"Base URL", "`" + result.BaseURL + "`"},
			{"Run ID", "`" + result.RunID + "`"},
			{"Started", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", result.Elapsed.Round(time.Millisecond).String()},
			{"Max Depth", strconv.Itoa(result.MaxDepth)},
			{"Workers", strconv.Itoa(result.WorkerCount)},
		},
	})
	md.PlainText("")
}

// writeSummary writes the crawl summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result *model.CrawlResult) {
	md.H2("Crawl Summary")
	md.PlainText("")

	// Summary table
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Pages fetched", strconv.Itoa(result.PagesFetched)},
			{"Fetch failures", strconv.Itoa(result.FetchFailures)},
			{"New links", strconv.Itoa(result.LinksDiscovered)},
			{"**Total links**", "**" + strconv.Itoa(result.TotalLinks()) + "**"},
		},
	})
	md.PlainText("")

	// Add pie chart if any fetches were attempted
	if result.PagesFetched+result.FetchFailures > 0 {
		w.writePieChart(md, result)
	}

	// Add alert based on fetch outcomes
	w.writeAlert(md, result)
}

// writePieChart writes a mermaid pie chart of fetch outcomes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, result *model.CrawlResult) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Fetch Outcomes"),
		piechart.WithShowData(true),
	)

	if result.PagesFetched > 0 {
		chart.LabelAndIntValue("Fetched", uint64(result.PagesFetched))
	}
	if result.FetchFailures > 0 {
		chart.LabelAndIntValue("Failed", uint64(result.FetchFailures))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on fetch outcomes.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.CrawlResult) {
	if result.FetchFailures > 0 {
		md.Warningf(
			"%d page fetch(es) failed. The visited set may be incomplete.",
			result.FetchFailures,
		)
	} else {
		md.Tip("Every page reachable within the depth bound was fetched.")
	}
	md.PlainText("")
}

// writeLinks writes the visited link list.
func (w *MarkdownWriter) writeLinks(md *markdown.Markdown, result *model.CrawlResult) {
	md.H2("Visited Links")
	md.PlainText("")

	if len(result.Links) == 0 {
		md.PlainText("No links recorded.")
		md.PlainText("")
		return
	}

	md.BulletList(result.Links...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [wikicrawl](https://github.com/nao1215/wikicrawl)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
