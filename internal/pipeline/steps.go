package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/mdtrans/internal/markdown"
	"github.com/nao1215/mdtrans/internal/model"
	"github.com/nao1215/mdtrans/internal/translator"
)

// ClassifyStep splits the source document into lines and classifies each
// one as code, pass-through, or translatable.
//
// Design decision: Splitting happens here rather than at report creation
// so the pipeline owns the whole transformation and the report carries
// raw content in, final content out.
type ClassifyStep struct{}

// NewClassifyStep creates a new classification step.
func NewClassifyStep() *ClassifyStep {
	return &ClassifyStep{}
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return "classify"
}

// Do executes the classification step.
func (s *ClassifyStep) Do(_ context.Context, report *model.DocumentReport) error {
	report.Lines = strings.Split(report.SourceContent, "\n")
	report.Classes = markdown.ClassifyLines(report.Lines)
	return nil
}

// ExtractStep extracts translatable segments from the classified lines,
// stripping structural prefixes and protecting inline markup.
type ExtractStep struct{}

// NewExtractStep creates a new extraction step.
func NewExtractStep() *ExtractStep {
	return &ExtractStep{}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do executes the extraction step.
func (s *ExtractStep) Do(_ context.Context, report *model.DocumentReport) error {
	if len(report.Lines) == 0 || len(report.Lines) != len(report.Classes) {
		return fmt.Errorf("extract: document not classified")
	}
	report.Segments = markdown.ExtractSegments(report.Lines, report.Classes)
	return nil
}

// TranslateStep sends the protected segment bodies to a translation
// backend and attaches the results positionally.
//
// Design decision: The step holds a translator.Translator rather than
// backend configuration, so backend selection and quota fallback stay in
// the command layer and the step stays testable with a fake.
type TranslateStep struct {
	// translator is the backend the protected texts are sent to.
	translator translator.Translator

	// logger for structured logging.
	logger *slog.Logger
}

// TranslateStepOption configures a TranslateStep.
type TranslateStepOption func(*TranslateStep)

// WithTranslateLogger sets a custom logger for the translate step.
func WithTranslateLogger(logger *slog.Logger) TranslateStepOption {
	return func(s *TranslateStep) {
		s.logger = logger
	}
}

// NewTranslateStep creates a new translation step using the given backend.
func NewTranslateStep(t translator.Translator, opts ...TranslateStepOption) *TranslateStep {
	s := &TranslateStep{
		translator: t,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *TranslateStep) Name() string {
	return "translate"
}

// Do executes the translation step. A result-count mismatch from the
// backend is a contract violation and aborts the document; results are
// never zipped silently against the wrong segments.
func (s *TranslateStep) Do(ctx context.Context, report *model.DocumentReport) error {
	texts := markdown.CollectTexts(report.Segments)
	if len(texts) == 0 {
		s.logger.Debug("no translatable segments", "file", report.SourceName)
		return nil
	}

	before := s.translator.CharsUsed()
	results, err := s.translator.Translate(ctx, texts)
	if err != nil {
		return fmt.Errorf("translate %s: %w", report.SourceName, err)
	}
	report.CharsTranslated = s.translator.CharsUsed() - before

	if err := markdown.ApplyTranslations(report.Segments, results); err != nil {
		return fmt.Errorf("translate %s: %w", report.SourceName, err)
	}

	s.logger.Debug("translated segments",
		"file", report.SourceName,
		"segments", len(texts),
		"chars", report.CharsTranslated,
	)
	return nil
}

// ReconstructStep reassembles the output document from the classified
// lines and translated segments.
type ReconstructStep struct{}

// NewReconstructStep creates a new reconstruction step.
func NewReconstructStep() *ReconstructStep {
	return &ReconstructStep{}
}

// Name returns the step name.
func (s *ReconstructStep) Name() string {
	return "reconstruct"
}

// Do executes the reconstruction step.
func (s *ReconstructStep) Do(_ context.Context, report *model.DocumentReport) error {
	report.OutputLines = markdown.Reconstruct(report.Lines, report.Segments)
	report.Output = strings.Join(report.OutputLines, "\n")
	return nil
}

// CrossRefStep rewrites inter-document links to their translated
// counterparts and adjusts relative link prefixes.
type CrossRefStep struct {
	// files maps source document names to translated names.
	files map[string]string

	// prefixes maps link path prefixes to replacements.
	prefixes map[string]string
}

// NewCrossRefStep creates a new cross-reference rewriting step.
func NewCrossRefStep(files, prefixes map[string]string) *CrossRefStep {
	return &CrossRefStep{files: files, prefixes: prefixes}
}

// Name returns the step name.
func (s *CrossRefStep) Name() string {
	return "crossref"
}

// Do executes the cross-reference step.
func (s *CrossRefStep) Do(_ context.Context, report *model.DocumentReport) error {
	report.Output = markdown.RewriteCrossReferences(report.Output, s.files)
	report.Output = markdown.RewriteLinkPrefixes(report.Output, s.prefixes)
	return nil
}

// AnchorStep remaps intra-document anchor links whose heading slugs
// changed under translation.
type AnchorStep struct{}

// NewAnchorStep creates a new anchor remapping step.
func NewAnchorStep() *AnchorStep {
	return &AnchorStep{}
}

// Name returns the step name.
func (s *AnchorStep) Name() string {
	return "anchor"
}

// Do executes the anchor remapping step.
func (s *AnchorStep) Do(_ context.Context, report *model.DocumentReport) error {
	report.Output = markdown.FixHeadingAnchors(report.SourceContent, report.Output)
	return nil
}

// ValidateStep compares the output document against the source and
// records structural drift as warnings. Warnings never abort a document.
type ValidateStep struct{}

// NewValidateStep creates a new validation step.
func NewValidateStep() *ValidateStep {
	return &ValidateStep{}
}

// Name returns the step name.
func (s *ValidateStep) Name() string {
	return "validate"
}

// Do executes the validation step.
func (s *ValidateStep) Do(_ context.Context, report *model.DocumentReport) error {
	for _, warning := range markdown.Validate(report.SourceContent, report.Output, report.SourceName) {
		report.AddWarning(warning)
	}
	return nil
}
