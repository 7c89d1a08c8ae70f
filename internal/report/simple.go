package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/wikicrawl/internal/model"
)

// SimpleWriter outputs plain-text results. The default output is the
// visited set, one URL per line and nothing else, so it pipes cleanly
// into tools like grep, sort, and wc.
type SimpleWriter struct {
	baseWriter

	// summary controls whether a run summary block follows the link list.
	summary bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithSummary appends a run summary block after the link list.
func WithSummary(summary bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.summary = summary
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		summary:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the visited set, one URL per line. When the summary
// option is set, a run summary block follows the links.
func (w *SimpleWriter) Write(result *model.CrawlResult) (int, error) {
	var sb strings.Builder

	for _, link := range result.Links {
		sb.WriteString(link)
		sb.WriteString("\n")
	}

	if w.summary {
		w.writeSummary(&sb, result)
	}

	return w.output.Write([]byte(sb.String()))
}

// writeSummary writes the run summary block.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, result *model.CrawlResult) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CRAWL SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Seed URL:       %s\n", result.SeedURL))
	sb.WriteString(fmt.Sprintf("  Base URL:       %s\n", result.BaseURL))
	sb.WriteString(fmt.Sprintf("  Max Depth:      %d\n", result.MaxDepth))
	sb.WriteString(fmt.Sprintf("  Workers:        %d\n", result.WorkerCount))
	sb.WriteString(fmt.Sprintf("  Started:        %s\n", result.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("  Elapsed:        %s\n", result.Elapsed.Round(time.Millisecond)))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  Pages Fetched:  %d\n", result.PagesFetched))
	sb.WriteString(fmt.Sprintf("  Fetch Failures: %d\n", result.FetchFailures))
	sb.WriteString(fmt.Sprintf("  New Links:      %d\n", result.LinksDiscovered))
	sb.WriteString(fmt.Sprintf("  Total Links:    %d\n", result.TotalLinks()))
}
