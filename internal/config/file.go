package config

import "time"

// File represents the structure of the .mdtrans.yaml project file.
// All fields are optional; absent fields leave the corresponding Config
// value untouched so flag and built-in defaults survive.
type File struct {
	// SourceLang is the source language tag, e.g. "es".
	SourceLang string `yaml:"sourceLang,omitempty"`

	// TargetLang is the target language tag, e.g. "en".
	TargetLang string `yaml:"targetLang,omitempty"`

	// DocsDir is the directory containing the source documents.
	DocsDir string `yaml:"docsDir,omitempty"`

	// OutputDir is the directory translated documents are written to.
	OutputDir string `yaml:"outputDir,omitempty"`

	// Files maps source document names to translated names.
	Files map[string]string `yaml:"files,omitempty"`

	// LinkPrefixes maps link path prefixes to replacements.
	LinkPrefixes map[string]string `yaml:"linkPrefixes,omitempty"`

	// Toggle configures the language toggle blockquote.
	Toggle Toggle `yaml:"toggle,omitempty"`

	// Backend selects the translation backend.
	Backend string `yaml:"backend,omitempty"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// RetryAttempts is the attempt count for failing requests.
	RetryAttempts int `yaml:"retryAttempts,omitempty"`

	// RetryDelay is the base delay between retry attempts.
	RetryDelay time.Duration `yaml:"retryDelay,omitempty"`

	// MaxBatchChars caps the characters per batch request.
	MaxBatchChars int `yaml:"maxBatchChars,omitempty"`
}

// ApplyTo copies the file's non-zero settings onto the config. Flags that
// the caller sets after loading still win because the command applies the
// file first and explicit flags second.
func (f *File) ApplyTo(c *Config) {
	if f.SourceLang != "" {
		c.SourceLang = f.SourceLang
	}
	if f.TargetLang != "" {
		c.TargetLang = f.TargetLang
	}
	if f.DocsDir != "" {
		c.DocsDir = f.DocsDir
	}
	if f.OutputDir != "" {
		c.OutputDir = f.OutputDir
	}
	if len(f.Files) > 0 {
		c.Files = f.Files
	}
	if len(f.LinkPrefixes) > 0 {
		c.LinkPrefixes = f.LinkPrefixes
	}
	if f.Toggle.Insert || f.Toggle.Label != "" || f.Toggle.Target != "" {
		c.Toggle = f.Toggle
	}
	if f.Backend != "" {
		c.Backend = f.Backend
	}
	if f.Timeout > 0 {
		c.Timeout = f.Timeout
	}
	if f.RetryAttempts > 0 {
		c.RetryAttempts = f.RetryAttempts
	}
	if f.RetryDelay > 0 {
		c.RetryDelay = f.RetryDelay
	}
	if f.MaxBatchChars > 0 {
		c.MaxBatchChars = f.MaxBatchChars
	}
}
