package markdown

import (
	"regexp"
	"strings"

	"github.com/nao1215/mdtrans/internal/model"
)

// fenceMarker delimits fenced code regions. A line whose trimmed content
// starts with this marker toggles the in-code state; language-tagged fences
// ("```go") and longer fences ("````") match the same prefix.
const fenceMarker = "```"

// tableSeparatorRe matches a table separator row: a line composed solely of
// pipes, dashes, colons, and whitespace (e.g. "|---|:---:|").
var tableSeparatorRe = regexp.MustCompile(`^\|[-\s|:]+\|$`)

// asciiArtRe matches lines that, after leading whitespace, start with three
// or more box-drawing or diagram glyphs.
var asciiArtRe = regexp.MustCompile(`^[\s]*[│├└┌┐┘┤┬┴┼─|+\-\\/><=*]{3,}`)

// diagramGlyphs is the glyph set used for the density test in
// IsASCIIArtLine. A trimmed line with more than 40% of its runes in this
// set is treated as diagram content.
const diagramGlyphs = `│├└┌┐┘┤┬┴┼─|+\/><=`

// IsASCIIArtLine reports whether a line is part of an ASCII art diagram.
// Such lines must never reach the translation backend: translators mangle
// box-drawing characters and re-flow the "text" between them.
func IsASCIIArtLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if asciiArtRe.MatchString(line) {
		return true
	}

	runes := []rune(trimmed)
	special := 0
	for _, r := range runes {
		if strings.ContainsRune(diagramGlyphs, r) {
			special++
		}
	}
	return float64(special)/float64(len(runes)) > 0.4
}

// ClassifyLines assigns one LineClass per physical line.
//
// The classifier is a two-state machine over {outside-code, inside-code}.
// The in-code flag toggles on every fence line; the fence lines themselves
// and everything while the flag is set classify as code. An unterminated
// fence at end of document leaves the flag set for the remainder: malformed
// input is preserved, not corrected, and the fence-count validation will
// flag such documents.
func ClassifyLines(lines []string) []model.LineClass {
	classes := make([]model.LineClass, 0, len(lines))
	inCode := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, fenceMarker):
			inCode = !inCode
			classes = append(classes, model.LineCode)
		case inCode:
			classes = append(classes, model.LineCode)
		case trimmed == "":
			classes = append(classes, model.LinePassThrough)
		case tableSeparatorRe.MatchString(trimmed):
			classes = append(classes, model.LinePassThrough)
		case IsASCIIArtLine(line):
			classes = append(classes, model.LinePassThrough)
		default:
			classes = append(classes, model.LineTranslatable)
		}
	}

	return classes
}
