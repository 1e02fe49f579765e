package markdown

import (
	"strings"
	"testing"
)

// TestValidate tests structural validation between source and output.
func TestValidate(t *testing.T) {
	t.Parallel()

	wellFormed := strings.Join([]string{
		"# Título",
		"",
		"Texto con [enlace](x.md).",
		"```",
		"code",
		"```",
		"## Sección",
		"Más texto.",
	}, "\n")

	t.Run("identity output yields no warnings", func(t *testing.T) {
		t.Parallel()

		if warnings := Validate(wellFormed, wellFormed, "doc.md"); len(warnings) != 0 {
			t.Errorf("expected no warnings, got %v", warnings)
		}
	})

	t.Run("detects fence count mismatch", func(t *testing.T) {
		t.Parallel()

		translated := strings.Replace(wellFormed, "```\ncode\n```", "code", 1)
		warnings := Validate(wellFormed, translated, "doc.md")

		if !containsWarning(warnings, "code block count mismatch") {
			t.Errorf("expected fence warning, got %v", warnings)
		}
	})

	t.Run("detects heading count mismatch", func(t *testing.T) {
		t.Parallel()

		translated := strings.Replace(wellFormed, "## Sección", "Sección", 1)
		warnings := Validate(wellFormed, translated, "doc.md")

		if !containsWarning(warnings, "heading count mismatch") {
			t.Errorf("expected heading warning, got %v", warnings)
		}
	})

	t.Run("detects link count mismatch", func(t *testing.T) {
		t.Parallel()

		translated := strings.Replace(wellFormed, "[enlace](x.md)", "enlace", 1)
		warnings := Validate(wellFormed, translated, "doc.md")

		if !containsWarning(warnings, "link count mismatch") {
			t.Errorf("expected link warning, got %v", warnings)
		}
	})

	t.Run("detects line count ratio out of band", func(t *testing.T) {
		t.Parallel()

		translated := wellFormed + strings.Repeat("\nextra", 10)
		warnings := Validate(wellFormed, translated, "doc.md")

		if !containsWarning(warnings, "line count ratio") {
			t.Errorf("expected ratio warning, got %v", warnings)
		}
	})

	t.Run("detects unrestored placeholder", func(t *testing.T) {
		t.Parallel()

		translated := strings.Replace(wellFormed, "Más texto.", "Más "+Placeholder(3)+" texto.", 1)
		warnings := Validate(wellFormed, translated, "doc.md")

		if !containsWarning(warnings, "unrestored placeholders") {
			t.Errorf("expected placeholder warning, got %v", warnings)
		}
	})

	t.Run("warning includes document name", func(t *testing.T) {
		t.Parallel()

		warnings := Validate(wellFormed, "", "10-sync.md")
		for _, w := range warnings {
			if !strings.HasPrefix(w, "10-sync.md:") {
				t.Errorf("expected warning prefixed with name, got %q", w)
			}
		}
	})
}

func containsWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}
