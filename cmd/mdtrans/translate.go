package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/nao1215/mdtrans/internal/cache"
	"github.com/nao1215/mdtrans/internal/config"
	"github.com/nao1215/mdtrans/internal/log"
	"github.com/nao1215/mdtrans/internal/markdown"
	"github.com/nao1215/mdtrans/internal/model"
	"github.com/nao1215/mdtrans/internal/pipeline"
	"github.com/nao1215/mdtrans/internal/report"
	"github.com/nao1215/mdtrans/internal/translator"
	"github.com/spf13/cobra"
)

// NewTranslateCmd creates the translate command.
func NewTranslateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate the configured markdown documents",
		Long: `Translate runs the translation pipeline over the documents configured in
.mdtrans.yaml.

For each document it classifies lines, protects inline markup behind
placeholder tokens, sends the translatable text to the backend, and
reconstructs the document with links, anchors, and tables intact.
Documents whose content fingerprint is unchanged since the last run are
skipped.

Backends read their credentials from the environment:
  DEEPL_API_KEY   for deepl
  OPENAI_API_KEY  for openai
The google backend needs no key. When the DeepL quota is exhausted
mid-run, the remaining documents fall back to OpenAI (if a key is set)
and then to Google.

Examples:
  # Translate everything .mdtrans.yaml lists
  mdtrans translate

  # Retranslate even unchanged documents
  mdtrans translate --force

  # Show what would be translated without calling any backend
  mdtrans translate --dry-run

  # Use a specific backend and write a markdown summary to a file
  mdtrans translate -b openai -m -o summary.md`,
		RunE: runTranslateCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .mdtrans.yaml in current or home directory)")
	cmd.Flags().BoolP("force", "f", false,
		"Retranslate documents even when the cache reports them unchanged")
	cmd.Flags().BoolP("dry-run", "n", false,
		"Classify and extract only; no backend calls, nothing written")
	cmd.Flags().StringP("backend", "b", "",
		"Translation backend: deepl, openai, or google (default from config file)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Write the run summary as GitHub Flavored Markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write the run summary to the specified file instead of stdout")
	cmd.Flags().String("cache-dir", "",
		"Directory for the fingerprint cache database (default: XDG data directory)")

	return cmd
}

// runTranslateCmd executes the translate command.
func runTranslateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runTranslate(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the project file and cobra flags.
// Flag values are applied after the file so explicit flags always win.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if not
	// found. Otherwise a missing file just means flag-only configuration.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.ApplyTo(cfg)
		cfg.ConfigFilePath = configPath
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.Force, err = cmd.Flags().GetBool("force")
	if err != nil {
		return nil, err
	}

	cfg.DryRun, err = cmd.Flags().GetBool("dry-run")
	if err != nil {
		return nil, err
	}

	backend, err := cmd.Flags().GetString("backend")
	if err != nil {
		return nil, err
	}
	if backend != "" {
		cfg.Backend = backend
	}

	cfg.MarkdownSummary, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.SummaryFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cacheDir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, err
	}
	if cacheDir != "" {
		cfg.CacheDir = cacheDir
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// newTranslator constructs the backend named by cfg.Backend.
// Credentials come from the environment, never from the project file.
func newTranslator(cfg *config.Config, logger *slog.Logger) (translator.Translator, error) {
	client := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Backend {
	case config.BackendDeepL:
		return translator.NewDeepL(
			os.Getenv("DEEPL_API_KEY"),
			strings.ToUpper(cfg.SourceLang),
			strings.ToUpper(cfg.TargetLang),
			translator.WithDeepLHTTPClient(client),
			translator.WithDeepLRetry(cfg.RetryAttempts, cfg.RetryDelay),
			translator.WithDeepLBatchLimit(cfg.MaxBatchChars),
			translator.WithDeepLLogger(logger),
		)
	case config.BackendOpenAI:
		return translator.NewOpenAI(
			os.Getenv("OPENAI_API_KEY"),
			cfg.SourceLang,
			cfg.TargetLang,
			translator.WithOpenAIHTTPClient(client),
			translator.WithOpenAIRetry(cfg.RetryAttempts, cfg.RetryDelay),
			translator.WithOpenAILogger(logger),
		)
	case config.BackendGoogle:
		return translator.NewGoogle(
			cfg.SourceLang,
			cfg.TargetLang,
			translator.WithGoogleHTTPClient(client),
			translator.WithGoogleRetry(cfg.RetryAttempts, cfg.RetryDelay),
			translator.WithGoogleLogger(logger),
		), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}

// fallbackTranslator returns the next backend in the quota fallback chain
// deepl -> openai -> google, or nil when the chain is exhausted. OpenAI is
// skipped when no API key is configured.
func fallbackTranslator(cfg *config.Config, current string, logger *slog.Logger) translator.Translator {
	if current == config.BackendDeepL && os.Getenv("OPENAI_API_KEY") != "" {
		next := *cfg
		next.Backend = config.BackendOpenAI
		tr, err := newTranslator(&next, logger)
		if err == nil {
			return tr
		}
	}
	if current == config.BackendGoogle {
		return nil
	}

	next := *cfg
	next.Backend = config.BackendGoogle
	tr, err := newTranslator(&next, logger)
	if err != nil {
		return nil
	}
	return tr
}

// runTranslate executes the translation run.
func runTranslate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting translation run",
		"backend", cfg.Backend,
		"sourceLang", cfg.SourceLang,
		"targetLang", cfg.TargetLang,
		"files", len(cfg.Files),
		"dryRun", cfg.DryRun,
	)

	store, err := cache.Open(cfg.CacheDir, cache.DefaultOptions(getVersion()))
	if err != nil {
		return fmt.Errorf("failed to open fingerprint cache: %w", err)
	}
	defer store.Close() //nolint:errcheck // Best effort close

	var tr translator.Translator
	if !cfg.DryRun {
		tr, err = newTranslator(cfg, logger)
		if err != nil {
			return err
		}
	}

	// Maps carry no order; sort so runs are deterministic.
	names := make([]string, 0, len(cfg.Files))
	for name := range cfg.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	summary := &model.RunSummary{Backend: cfg.Backend}
	var runErr error

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		result, docErr := translateDocument(ctx, cfg, store, tr, name, logger)
		if docErr != nil {
			// Quota exhaustion is not document-specific; switch backends
			// and retry, or abort the remaining documents.
			if errors.Is(docErr, translator.ErrQuotaExceeded) {
				summary.CharsUsed += tr.CharsUsed()
				if next := fallbackTranslator(cfg, tr.Name(), logger); next != nil {
					logger.Warn("backend quota exhausted, falling back",
						"from", tr.Name(),
						"to", next.Name(),
					)
					tr = next
					summary.Backend = cfg.Backend + "+" + next.Name()
					result, docErr = translateDocument(ctx, cfg, store, tr, name, logger)
				} else {
					logger.Error("backend quota exhausted, no fallback available")
					runErr = docErr
				}
			}
			if docErr != nil && runErr == nil {
				logger.Error("document failed", "file", name, "error", docErr)
			}
		}
		summary.Documents = append(summary.Documents, result)
	}

	if tr != nil {
		summary.CharsUsed += tr.CharsUsed()
	}
	summary.FinishedAt = time.Now()

	// Interrupted or aborted runs must not record fingerprints for
	// documents that were never written.
	if !cfg.DryRun && runErr == nil {
		if err := store.Save(ctx); err != nil {
			logger.Error("failed to save fingerprint cache", "error", err)
		}
	}

	if err := writeSummary(cfg, summary); err != nil {
		logger.Error("failed to write run summary", "error", err)
	}

	return runErr
}

// translateDocument runs one document through a fresh pipeline and writes
// the translated output. The cache entry is staged, not saved; Save happens
// once at the end of the run.
func translateDocument(ctx context.Context, cfg *config.Config, store *cache.Store, tr translator.Translator, name string, logger *slog.Logger) (model.DocumentResult, error) {
	targetName := cfg.Files[name]
	result := model.DocumentResult{
		SourceName: name,
		TargetName: targetName,
		Status:     model.StatusFailed,
	}

	content, err := os.ReadFile(cfg.SourcePath(name))
	if err != nil {
		return result, fmt.Errorf("failed to read %s: %w", name, err)
	}

	if !cfg.Force && !cfg.DryRun {
		changed, err := store.IsChanged(ctx, name, content)
		if err != nil {
			return result, fmt.Errorf("cache lookup failed for %s: %w", name, err)
		}
		if !changed {
			logger.Debug("unchanged, skipping", "file", name)
			result.Status = model.StatusSkipped
			return result, nil
		}
	}

	docReport := model.NewDocumentReport(name, targetName, string(content))
	p := buildPipeline(cfg, tr, logger)

	fmt.Printf("Translating %s -> %s...\n", name, targetName)
	startTime := time.Now()

	if err := p.Execute(ctx, docReport); err != nil {
		return result, err
	}
	result.Warnings = docReport.Warnings

	if cfg.DryRun {
		fmt.Printf("  would translate %d segments (%d lines)\n",
			len(docReport.Segments), len(docReport.Lines))
		result.Status = model.StatusDryRun
		return result, nil
	}

	output := docReport.Output
	if cfg.Toggle.Insert {
		output = markdown.InsertLanguageToggle(output, cfg.Toggle.Label, cfg.Toggle.Target)
	}

	outputPath := cfg.OutputPath(targetName)
	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return result, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(output), 0644); err != nil { //nolint:gosec // Documentation output, not sensitive
		return result, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	store.Update(name, content)

	fmt.Printf("  done in %s\n", time.Since(startTime).Round(time.Millisecond))
	result.Status = model.StatusTranslated
	return result, nil
}

// buildPipeline assembles the per-document step chain. Dry runs stop after
// extraction; nothing downstream of the backend call is meaningful then.
func buildPipeline(cfg *config.Config, tr translator.Translator, logger *slog.Logger) *pipeline.Pipeline {
	p := pipeline.New(pipeline.WithLogger(logger))

	p.AddSteps(
		pipeline.NewClassifyStep(),
		pipeline.NewExtractStep(),
	)
	if cfg.DryRun {
		return p
	}

	p.AddSteps(
		pipeline.NewTranslateStep(tr, pipeline.WithTranslateLogger(logger)),
		pipeline.NewReconstructStep(),
		pipeline.NewCrossRefStep(cfg.Files, cfg.LinkPrefixes),
		pipeline.NewAnchorStep(),
		pipeline.NewValidateStep(),
	)
	return p
}

// writeSummary writes the run summary in the configured format and
// destination.
func writeSummary(cfg *config.Config, summary *model.RunSummary) error {
	var output *os.File
	if cfg.SummaryFile != "" {
		if dir := filepath.Dir(cfg.SummaryFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create summary directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.SummaryFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create summary file: %w", err)
		}
		defer f.Close() //nolint:errcheck // Best effort close
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	if cfg.MarkdownSummary {
		writer = report.NewMarkdownWriter(output)
	} else {
		writer = report.NewSimpleWriter(output)
	}

	_, err := writer.Write(summary)
	return err
}
