package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/mdtrans/internal/model"
)

// MarkdownWriter outputs run summaries in Markdown format.
// This format is designed for documentation and sharing, for example as a
// commit comment or CI artifact.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeDocuments(md, summary)
	w.writeWarnings(md, summary)
	w.writeFooter(md, summary)

	return len(md.String()), md.Build()
}

// writeHeader writes the summary header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.RunSummary) {
	md.H1("Translation Run Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Backend", "`" + summary.Backend + "`"},
			{"Finished", summary.FinishedAt.Format("2006-01-02 15:04:05 MST")},
			{"Translated", strconv.Itoa(summary.Translated())},
			{"Skipped", strconv.Itoa(summary.Skipped())},
			{"Failed", strconv.Itoa(summary.Failed())},
		},
	})
	md.PlainText("")

	w.writeAlert(md, summary)
}

// writeAlert writes an appropriate alert based on the run outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.RunSummary) {
	switch {
	case summary.Failed() > 0:
		md.Cautionf(
			"%d document(s) failed to translate. Check the logs and re-run.",
			summary.Failed(),
		)
	case len(summary.AllWarnings()) > 0:
		md.Warningf(
			"%d validation warning(s) were raised. Review the translated output manually.",
			len(summary.AllWarnings()),
		)
	case summary.Translated() > 0:
		md.Tip("All documents translated cleanly.")
	default:
		md.Note("No documents needed translation.")
	}
	md.PlainText("")
}

// writeDocuments writes the per-document results table.
func (w *MarkdownWriter) writeDocuments(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Documents")
	md.PlainText("")

	if len(summary.Documents) == 0 {
		md.PlainText("No documents were processed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(summary.Documents))
	for _, doc := range summary.Documents {
		rows = append(rows, []string{
			"`" + doc.SourceName + "`",
			"`" + doc.TargetName + "`",
			w.getStatusText(doc.Status),
			strconv.Itoa(len(doc.Warnings)),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Source", "Target", "Status", "Warnings"},
		Rows:   rows,
	})
	md.PlainText("")
}

// getStatusText returns the status text for a document outcome.
func (w *MarkdownWriter) getStatusText(status model.DocumentStatus) string {
	switch status {
	case model.StatusTranslated:
		return "✅ Translated"
	case model.StatusSkipped:
		return "⏭️ Skipped (unchanged)"
	case model.StatusDryRun:
		return "🔍 Dry Run"
	case model.StatusFailed:
		return "❌ Failed"
	default:
		return string(status)
	}
}

// writeWarnings writes the validation warnings section.
func (w *MarkdownWriter) writeWarnings(md *markdown.Markdown, summary *model.RunSummary) {
	warnings := summary.AllWarnings()
	if len(warnings) == 0 {
		return
	}

	md.H2("Validation Warnings")
	md.PlainText("")
	md.BulletList(warnings...)
	md.PlainText("")
}

// writeFooter writes the summary footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, summary *model.RunSummary) {
	md.HorizontalRule()
	md.PlainTextf("Characters sent to backend: %d", summary.CharsUsed)
	md.PlainText("")
}
