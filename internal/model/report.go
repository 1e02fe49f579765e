package model

import "time"

// DocumentReport carries one document's state through the translation
// pipeline. Each pipeline step reads the fields produced by its
// predecessors and fills in its own.
//
// Design decision: Like the scan-report pattern, a single accumulating
// struct keeps step signatures uniform and makes the pipeline easy to
// extend. A fresh report is created per document; no report is reused.
type DocumentReport struct {
	// SourceName is the source file name (e.g. "01-arquitectura.md").
	SourceName string

	// TargetName is the output file name (e.g. "01-architecture.md").
	TargetName string

	// SourceContent is the full source text, retained for validation and
	// anchor remapping against the output.
	SourceContent string

	// Lines is the source split into physical lines.
	Lines []string

	// Classes holds one LineClass per entry in Lines.
	Classes []LineClass

	// Segments holds the translatable units extracted from Lines.
	Segments []*Segment

	// OutputLines is the reconstructed document, same length as Lines.
	OutputLines []string

	// Output is the final document text after reconstruction, link
	// rewriting, and anchor remapping.
	Output string

	// Warnings collects validation findings. Warnings never abort the
	// document; they are surfaced for manual review.
	Warnings []string

	// CharsTranslated counts source characters sent to the backend.
	CharsTranslated int

	// PerformedSteps records the names of executed pipeline steps.
	PerformedSteps []string

	// StartedAt is when the document's pipeline began.
	StartedAt time.Time

	// Cancelled is set when the pipeline was cancelled via context
	// before all steps completed.
	Cancelled bool

	// Error holds the first fatal step error, if any.
	Error error

	// ErrorMessage is Error's text, kept separately so the report stays
	// serializable.
	ErrorMessage string
}

// NewDocumentReport creates a report for one source document.
func NewDocumentReport(sourceName, targetName, content string) *DocumentReport {
	return &DocumentReport{
		SourceName:    sourceName,
		TargetName:    targetName,
		SourceContent: content,
		StartedAt:     time.Now(),
	}
}

// AddWarning appends a validation warning to the report.
func (r *DocumentReport) AddWarning(warning string) {
	r.Warnings = append(r.Warnings, warning)
}

// DocumentStatus describes the outcome of one document in a run.
type DocumentStatus string

const (
	// StatusTranslated means the document was translated and written.
	StatusTranslated DocumentStatus = "translated"

	// StatusSkipped means the fingerprint cache reported no change.
	StatusSkipped DocumentStatus = "skipped"

	// StatusDryRun means the document would have been translated.
	StatusDryRun DocumentStatus = "dry-run"

	// StatusFailed means a fatal step error aborted the document.
	StatusFailed DocumentStatus = "failed"
)

// DocumentResult summarizes one document for the run summary.
type DocumentResult struct {
	// SourceName is the source file name.
	SourceName string

	// TargetName is the output file name.
	TargetName string

	// Status is the document outcome.
	Status DocumentStatus

	// Warnings holds the document's validation warnings.
	Warnings []string
}

// RunSummary aggregates the results of one translation run for reporting.
type RunSummary struct {
	// Backend is the name of the translation backend used.
	Backend string

	// Documents holds per-document results in processing order.
	Documents []DocumentResult

	// CharsUsed is the total number of source characters sent to the
	// backend during this run.
	CharsUsed int

	// FinishedAt is when the run completed.
	FinishedAt time.Time
}

// Translated returns the number of documents that were translated.
func (s *RunSummary) Translated() int {
	return s.countStatus(StatusTranslated)
}

// Skipped returns the number of documents skipped via the cache.
func (s *RunSummary) Skipped() int {
	return s.countStatus(StatusSkipped)
}

// Failed returns the number of documents aborted by a fatal error.
func (s *RunSummary) Failed() int {
	return s.countStatus(StatusFailed)
}

// AllWarnings returns every document warning in processing order.
func (s *RunSummary) AllWarnings() []string {
	var warnings []string
	for _, doc := range s.Documents {
		warnings = append(warnings, doc.Warnings...)
	}
	return warnings
}

func (s *RunSummary) countStatus(status DocumentStatus) int {
	n := 0
	for _, doc := range s.Documents {
		if doc.Status == status {
			n++
		}
	}
	return n
}
