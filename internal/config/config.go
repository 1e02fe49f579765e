package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"golang.org/x/text/language"
)

// Default configuration values.
// These values match the service limits and retry behavior the backends
// are known to tolerate.
const (
	// DefaultSourceLang is the default source language tag.
	DefaultSourceLang = "es"

	// DefaultTargetLang is the default target language tag.
	DefaultTargetLang = "en"

	// DefaultDocsDir is the directory scanned for source documents when
	// the project file gives relative file names.
	DefaultDocsDir = "docs"

	// DefaultBackend is the default translation backend. DeepL gives the
	// best markdown fidelity of the three and has an explicit free quota,
	// so it is the backend the fallback chain starts from.
	DefaultBackend = BackendDeepL

	// DefaultTimeout is the per-request HTTP timeout. Translation of a
	// large batch can take a while on the provider side, so this should
	// be generous.
	DefaultTimeout = 120 * time.Second

	// DefaultRetryAttempts is the number of attempts for a failing
	// translation request before the document is abandoned.
	DefaultRetryAttempts = 3

	// DefaultRetryDelay is the base delay between retry attempts.
	// Attempt n waits n times this value, so transient rate limits get
	// progressively more room.
	DefaultRetryDelay = 3 * time.Second

	// DefaultMaxBatchChars is the character cap per DeepL request. The
	// free API rejects requests beyond roughly 50,000 characters; 40,000
	// leaves headroom for request framing.
	DefaultMaxBatchChars = 40000

	// AppName is the application name used for XDG directory paths.
	AppName = "mdtrans"
)

// Supported translation backends.
const (
	BackendDeepL  = "deepl"
	BackendOpenAI = "openai"
	BackendGoogle = "google"
)

// Toggle configures the language toggle blockquote inserted after the
// first H1 of a translated document.
type Toggle struct {
	// Insert enables toggle insertion.
	Insert bool `yaml:"insert,omitempty"`

	// Label is the link text, e.g. "Versión en español".
	Label string `yaml:"label,omitempty"`

	// Target is the link destination, usually the counterpart document.
	Target string `yaml:"target,omitempty"`
}

// Config holds all configuration options for a translation run.
// This struct is populated from the project file and CLI flags and passed
// through the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// SourceLang is the source language as a BCP 47 tag (e.g. "es").
	SourceLang string

	// TargetLang is the target language as a BCP 47 tag (e.g. "en").
	TargetLang string

	// DocsDir is the directory containing the source documents. File
	// names in Files are resolved relative to it unless absolute.
	DocsDir string

	// OutputDir is the directory translated documents are written to.
	// When empty, translations are written next to their sources.
	OutputDir string

	// Files maps source document names to translated document names,
	// e.g. "README.md" -> "README.en.md". The map also drives
	// cross-reference rewriting so inter-document links point at the
	// translated counterparts.
	Files map[string]string

	// LinkPrefixes maps link path prefixes to replacements, adjusting
	// relative links for documents whose translation lives at a
	// different directory depth. Applied to `](prefix` occurrences.
	LinkPrefixes map[string]string

	// Toggle configures the language toggle inserted after the first H1.
	Toggle Toggle

	// Backend selects the translation backend: deepl, openai, or google.
	Backend string

	// Force retranslates documents even when the cache says they are
	// unchanged.
	Force bool

	// DryRun runs classification and extraction but skips translation
	// and writes nothing.
	DryRun bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool

	// CacheDir is the directory holding the fingerprint cache database.
	// Defaults to the XDG data directory.
	CacheDir string

	// MarkdownSummary switches the run summary from plain text to
	// GitHub Flavored Markdown.
	MarkdownSummary bool

	// SummaryFile is the output file path for the run summary.
	// When empty, the summary is written to stdout.
	SummaryFile string

	// ConfigFilePath is the path to the project file. If empty, the tool
	// searches for .mdtrans.yaml in the current directory and then in
	// the user's home directory.
	ConfigFilePath string

	// Timeout is the HTTP timeout for each translation request.
	Timeout time.Duration

	// RetryAttempts is the attempt count for failing requests.
	RetryAttempts int

	// RetryDelay is the base delay between retry attempts.
	RetryDelay time.Duration

	// MaxBatchChars caps the characters per DeepL batch request.
	MaxBatchChars int
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, retry
// counts). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		SourceLang:    DefaultSourceLang,
		TargetLang:    DefaultTargetLang,
		DocsDir:       DefaultDocsDir,
		Backend:       DefaultBackend,
		CacheDir:      XDGDataDir(),
		Timeout:       DefaultTimeout,
		RetryAttempts: DefaultRetryAttempts,
		RetryDelay:    DefaultRetryDelay,
		MaxBatchChars: DefaultMaxBatchChars,
	}
}

// XDGDataDir returns the XDG data directory for mdtrans.
// On Linux: ~/.local/share/mdtrans
// On macOS: ~/Library/Application Support/mdtrans
// On Windows: %LOCALAPPDATA%\mdtrans
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for mdtrans.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any translation begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Files) == 0 {
		return ErrNoFiles
	}

	if _, err := language.Parse(c.SourceLang); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, c.SourceLang)
	}
	if _, err := language.Parse(c.TargetLang); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, c.TargetLang)
	}

	// Translating a language into itself is always a configuration
	// mistake, not a request.
	if strings.EqualFold(c.SourceLang, c.TargetLang) {
		return ErrSameLanguage
	}

	switch c.Backend {
	case BackendDeepL, BackendOpenAI, BackendGoogle:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBackend, c.Backend)
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.RetryAttempts <= 0 {
		return ErrInvalidRetryAttempts
	}

	if c.MaxBatchChars <= 0 {
		return ErrInvalidMaxBatchChars
	}

	return nil
}

// SourcePath returns the filesystem path of a source document name.
func (c *Config) SourcePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DocsDir, name)
}

// OutputPath returns the filesystem path the translated document is
// written to.
func (c *Config) OutputPath(translatedName string) string {
	if filepath.IsAbs(translatedName) {
		return translatedName
	}
	if c.OutputDir != "" {
		return filepath.Join(c.OutputDir, translatedName)
	}
	return filepath.Join(c.DocsDir, translatedName)
}
