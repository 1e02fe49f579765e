package markdown

import (
	"strings"
	"testing"

	"github.com/nao1215/mdtrans/internal/model"
)

// TestClassifyLines tests line classification.
func TestClassifyLines(t *testing.T) {
	t.Parallel()

	t.Run("classifies fenced code region", func(t *testing.T) {
		t.Parallel()

		lines := []string{
			"# Título",
			"```go",
			"func main() {}",
			"```",
			"Texto normal.",
		}
		got := ClassifyLines(lines)
		want := []model.LineClass{
			model.LineTranslatable,
			model.LineCode,
			model.LineCode,
			model.LineCode,
			model.LineTranslatable,
		}

		if len(got) != len(want) {
			t.Fatalf("expected %d classes, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("line %d: expected %s, got %s", i, want[i], got[i])
			}
		}
	})

	t.Run("blank line is pass-through", func(t *testing.T) {
		t.Parallel()

		got := ClassifyLines([]string{"", "   "})
		for i, class := range got {
			if class != model.LinePassThrough {
				t.Errorf("line %d: expected pass-through, got %s", i, class)
			}
		}
	})

	t.Run("table separator is pass-through", func(t *testing.T) {
		t.Parallel()

		got := ClassifyLines([]string{"|---|---|", "| :--- | ---: |"})
		for i, class := range got {
			if class != model.LinePassThrough {
				t.Errorf("line %d: expected pass-through, got %s", i, class)
			}
		}
	})

	t.Run("table data row is translatable", func(t *testing.T) {
		t.Parallel()

		got := ClassifyLines([]string{"| columna | valor |"})
		if got[0] != model.LineTranslatable {
			t.Errorf("expected translatable, got %s", got[0])
		}
	})

	t.Run("indented fence toggles code state", func(t *testing.T) {
		t.Parallel()

		got := ClassifyLines([]string{"  ```", "dentro", "  ```"})
		for i, class := range got {
			if class != model.LineCode {
				t.Errorf("line %d: expected code, got %s", i, class)
			}
		}
	})

	t.Run("unterminated fence leaves rest as code", func(t *testing.T) {
		t.Parallel()

		got := ClassifyLines([]string{"```", "uno", "dos", "tres"})
		for i, class := range got {
			if class != model.LineCode {
				t.Errorf("line %d: expected code, got %s", i, class)
			}
		}
	})
}

// TestIsASCIIArtLine tests diagram line detection.
func TestIsASCIIArtLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want bool
	}{
		{name: "box drawing border", line: "┌────────────┐", want: true},
		{name: "box drawing with label", line: "│ Controller │", want: false},
		{name: "arrow chain", line: "---->", want: true},
		{name: "indented diagram", line: "    +---+---+", want: true},
		{name: "high glyph density", line: "= = = = x", want: true},
		{name: "plain prose", line: "Este es un párrafo normal de texto.", want: false},
		{name: "empty line", line: "", want: false},
		{name: "whitespace only", line: "   ", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsASCIIArtLine(tt.line); got != tt.want {
				t.Errorf("IsASCIIArtLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

// TestClassifyLines_wholeDocument verifies classification over a realistic
// document split into lines.
func TestClassifyLines_wholeDocument(t *testing.T) {
	t.Parallel()

	doc := strings.Join([]string{
		"# Arquitectura",
		"",
		"El sistema usa **capas**.",
		"",
		"| Capa | Descripción |",
		"|------|-------------|",
		"| Web  | Controladores |",
		"",
		"```java",
		"class Servicio {}",
		"```",
	}, "\n")

	lines := strings.Split(doc, "\n")
	classes := ClassifyLines(lines)

	translatable := 0
	for _, class := range classes {
		if class == model.LineTranslatable {
			translatable++
		}
	}
	// heading, paragraph, table header row, table data row
	if translatable != 4 {
		t.Errorf("expected 4 translatable lines, got %d", translatable)
	}
}
