package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// validConfig returns a config that passes Validate.
func validConfig() *Config {
	c := NewConfig()
	c.Files = map[string]string{"README.md": "README.en.md"}
	return c
}

// TestNewConfig verifies that NewConfig returns a Config with all expected
// default values, so changes to defaults are intentional.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	t.Run("default languages are es to en", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		if c.SourceLang != "es" || c.TargetLang != "en" {
			t.Errorf("unexpected defaults: %q -> %q", c.SourceLang, c.TargetLang)
		}
	})

	t.Run("default Timeout is 120 seconds", func(t *testing.T) {
		t.Parallel()

		if got := NewConfig().Timeout; got != 120*time.Second {
			t.Errorf("expected 120s, got %v", got)
		}
	})

	t.Run("default Backend is deepl", func(t *testing.T) {
		t.Parallel()

		if got := NewConfig().Backend; got != BackendDeepL {
			t.Errorf("expected deepl, got %q", got)
		}
	})

	t.Run("default MaxBatchChars is 40000", func(t *testing.T) {
		t.Parallel()

		if got := NewConfig().MaxBatchChars; got != 40000 {
			t.Errorf("expected 40000, got %d", got)
		}
	})

	t.Run("default CacheDir is the XDG data dir", func(t *testing.T) {
		t.Parallel()

		if got := NewConfig().CacheDir; got != XDGDataDir() {
			t.Errorf("expected %q, got %q", XDGDataDir(), got)
		}
	})
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()

		if err := validConfig().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("empty file map returns ErrNoFiles", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		if err := c.Validate(); !errors.Is(err, ErrNoFiles) {
			t.Errorf("expected ErrNoFiles, got %v", err)
		}
	})

	t.Run("bad source language tag returns ErrInvalidLanguage", func(t *testing.T) {
		t.Parallel()

		c := validConfig()
		c.SourceLang = "not a tag"
		if err := c.Validate(); !errors.Is(err, ErrInvalidLanguage) {
			t.Errorf("expected ErrInvalidLanguage, got %v", err)
		}
	})

	t.Run("bad target language tag returns ErrInvalidLanguage", func(t *testing.T) {
		t.Parallel()

		c := validConfig()
		c.TargetLang = "???"
		if err := c.Validate(); !errors.Is(err, ErrInvalidLanguage) {
			t.Errorf("expected ErrInvalidLanguage, got %v", err)
		}
	})

	t.Run("identical language pair returns ErrSameLanguage", func(t *testing.T) {
		t.Parallel()

		c := validConfig()
		c.SourceLang = "en"
		c.TargetLang = "EN"
		if err := c.Validate(); !errors.Is(err, ErrSameLanguage) {
			t.Errorf("expected ErrSameLanguage, got %v", err)
		}
	})

	t.Run("unknown backend returns ErrInvalidBackend", func(t *testing.T) {
		t.Parallel()

		c := validConfig()
		c.Backend = "bing"
		if err := c.Validate(); !errors.Is(err, ErrInvalidBackend) {
			t.Errorf("expected ErrInvalidBackend, got %v", err)
		}
	})

	t.Run("zero timeout returns ErrInvalidTimeout", func(t *testing.T) {
		t.Parallel()

		c := validConfig()
		c.Timeout = 0
		if err := c.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("zero retry attempts returns ErrInvalidRetryAttempts", func(t *testing.T) {
		t.Parallel()

		c := validConfig()
		c.RetryAttempts = 0
		if err := c.Validate(); !errors.Is(err, ErrInvalidRetryAttempts) {
			t.Errorf("expected ErrInvalidRetryAttempts, got %v", err)
		}
	})

	t.Run("zero max batch chars returns ErrInvalidMaxBatchChars", func(t *testing.T) {
		t.Parallel()

		c := validConfig()
		c.MaxBatchChars = 0
		if err := c.Validate(); !errors.Is(err, ErrInvalidMaxBatchChars) {
			t.Errorf("expected ErrInvalidMaxBatchChars, got %v", err)
		}
	})

	t.Run("all backends are accepted", func(t *testing.T) {
		t.Parallel()

		for _, backend := range []string{BackendDeepL, BackendOpenAI, BackendGoogle} {
			c := validConfig()
			c.Backend = backend
			if err := c.Validate(); err != nil {
				t.Errorf("backend %q: unexpected error: %v", backend, err)
			}
		}
	})
}

// TestConfigPaths tests source and output path resolution.
func TestConfigPaths(t *testing.T) {
	t.Parallel()

	t.Run("relative source resolves under docs dir", func(t *testing.T) {
		t.Parallel()

		c := validConfig()
		c.DocsDir = "docs"
		if got := c.SourcePath("guide.md"); got != filepath.Join("docs", "guide.md") {
			t.Errorf("unexpected path: %q", got)
		}
	})

	t.Run("absolute source is used as-is", func(t *testing.T) {
		t.Parallel()

		c := validConfig()
		abs := filepath.Join(string(filepath.Separator), "tmp", "guide.md")
		if got := c.SourcePath(abs); got != abs {
			t.Errorf("unexpected path: %q", got)
		}
	})

	t.Run("output dir overrides docs dir", func(t *testing.T) {
		t.Parallel()

		c := validConfig()
		c.DocsDir = "docs"
		c.OutputDir = filepath.Join("docs", "en")
		if got := c.OutputPath("guide.en.md"); got != filepath.Join("docs", "en", "guide.en.md") {
			t.Errorf("unexpected path: %q", got)
		}
	})

	t.Run("output falls back to docs dir", func(t *testing.T) {
		t.Parallel()

		c := validConfig()
		c.DocsDir = "docs"
		if got := c.OutputPath("guide.en.md"); got != filepath.Join("docs", "guide.en.md") {
			t.Errorf("unexpected path: %q", got)
		}
	})
}

// TestLoadConfigFile tests project file loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		content := `
sourceLang: es
targetLang: en
docsDir: docs
outputDir: docs/en
backend: openai
maxBatchChars: 20000
files:
  README.md: README.en.md
  guide.md: guide.en.md
linkPrefixes:
  "../src/": "../../src/"
toggle:
  insert: true
  label: "Versión en español"
  target: "../README.md"
`
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if cf.SourceLang != "es" || cf.TargetLang != "en" {
			t.Errorf("unexpected languages: %q -> %q", cf.SourceLang, cf.TargetLang)
		}
		if cf.Backend != "openai" {
			t.Errorf("unexpected backend: %q", cf.Backend)
		}
		if got := cf.Files["README.md"]; got != "README.en.md" {
			t.Errorf("unexpected file mapping: %q", got)
		}
		if got := cf.LinkPrefixes["../src/"]; got != "../../src/" {
			t.Errorf("unexpected link prefix: %q", got)
		}
		if !cf.Toggle.Insert || cf.Toggle.Label != "Versión en español" {
			t.Errorf("unexpected toggle: %+v", cf.Toggle)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("files: [unbalanced"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFileApplyTo tests merging the project file into a config.
func TestFileApplyTo(t *testing.T) {
	t.Parallel()

	t.Run("non-zero fields override defaults", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		f := &File{
			SourceLang:    "ja",
			TargetLang:    "en",
			DocsDir:       "manual",
			Backend:       BackendGoogle,
			RetryAttempts: 5,
			Files:         map[string]string{"a.md": "a.en.md"},
		}
		f.ApplyTo(c)

		if c.SourceLang != "ja" || c.DocsDir != "manual" {
			t.Errorf("file values not applied: %+v", c)
		}
		if c.Backend != BackendGoogle || c.RetryAttempts != 5 {
			t.Errorf("file values not applied: %+v", c)
		}
	})

	t.Run("zero fields leave defaults untouched", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		(&File{}).ApplyTo(c)

		if c.Timeout != DefaultTimeout || c.MaxBatchChars != DefaultMaxBatchChars {
			t.Errorf("defaults were clobbered: %+v", c)
		}
		if c.Backend != DefaultBackend {
			t.Errorf("default backend was clobbered: %q", c.Backend)
		}
	})
}

// TestFindConfigFile tests project file discovery.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("files: {}"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})

	t.Run("finds file in current directory", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(path, []byte("files: {}"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		oldWD, err := os.Getwd()
		if err != nil {
			t.Fatalf("failed to get working directory: %v", err)
		}
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("failed to change directory: %v", err)
		}
		t.Cleanup(func() {
			if err := os.Chdir(oldWD); err != nil {
				t.Errorf("failed to restore working directory: %v", err)
			}
		})

		got := FindConfigFile("")
		// macOS may report the temp dir through a symlink, so compare by
		// the directory's base name rather than the full path.
		if filepath.Base(got) != DefaultConfigFile || !strings.Contains(got, filepath.Base(dir)) {
			t.Errorf("expected config in %q, got %q", dir, got)
		}
	})
}

// TestXDGDirs tests XDG directory construction.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	t.Run("data dir ends with app name", func(t *testing.T) {
		t.Parallel()

		if got := XDGDataDir(); filepath.Base(got) != AppName {
			t.Errorf("unexpected data dir: %q", got)
		}
	})

	t.Run("config dir ends with app name", func(t *testing.T) {
		t.Parallel()

		if got := XDGConfigDir(); filepath.Base(got) != AppName {
			t.Errorf("unexpected config dir: %q", got)
		}
	})
}
