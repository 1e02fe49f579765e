package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/mdtrans/internal/model"
)

// SimpleWriter outputs human-readable text summaries.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.RunSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeDocuments(&sb, summary)
	w.writeWarnings(&sb, summary)
	w.writeFooter(&sb, summary)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the summary header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.RunSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      TRANSLATION RUN SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Backend:     %s\n", summary.Backend))
	sb.WriteString(fmt.Sprintf("Finished:    %s\n", summary.FinishedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Documents:   %d translated, %d skipped, %d failed\n",
		summary.Translated(), summary.Skipped(), summary.Failed()))
	sb.WriteString("\n")
}

// writeDocuments writes the per-document results section.
func (w *SimpleWriter) writeDocuments(sb *strings.Builder, summary *model.RunSummary) {
	if len(summary.Documents) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("DOCUMENTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(summary.Documents) == 0 {
		sb.WriteString("  No documents processed\n")
	} else {
		for _, doc := range summary.Documents {
			sb.WriteString(fmt.Sprintf("  [%s] %s -> %s\n",
				w.statusIndicator(doc.Status), doc.SourceName, doc.TargetName))
		}
	}
	sb.WriteString("\n")
}

// statusIndicator returns a short marker for a document status.
func (w *SimpleWriter) statusIndicator(status model.DocumentStatus) string {
	switch status {
	case model.StatusTranslated:
		return "+"
	case model.StatusSkipped:
		return "="
	case model.StatusDryRun:
		return "~"
	case model.StatusFailed:
		return "!"
	default:
		return "?"
	}
}

// writeWarnings writes the validation warning section.
func (w *SimpleWriter) writeWarnings(sb *strings.Builder, summary *model.RunSummary) {
	warnings := summary.AllWarnings()
	if len(warnings) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("WARNINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(warnings) == 0 {
		sb.WriteString("  No warnings\n")
	} else {
		for _, warning := range warnings {
			sb.WriteString(fmt.Sprintf("  * %s\n", warning))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the summary footer with character accounting.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, summary *model.RunSummary) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Characters sent to backend: %d\n", summary.CharsUsed))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
