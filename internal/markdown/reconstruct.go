package markdown

import (
	"regexp"
	"strings"

	"github.com/nao1215/mdtrans/internal/model"
)

var (
	// listBoldRe and ordinalBoldRe match a list or ordinal marker glued
	// directly to an opening bold marker, which some backends produce by
	// eating the separating space.
	listBoldRe    = regexp.MustCompile(`^(\s*[-*+])\*\*`)
	ordinalBoldRe = regexp.MustCompile(`^(\s*\d+\.)\*\*`)
)

// Reconstruct rebuilds the output lines from the original lines and the
// segments with attached translations. Lines without a segment are emitted
// verbatim. A segment whose translation is missing falls back to its
// protected original, so a partial backend failure degrades to untranslated
// but structurally intact output.
func Reconstruct(lines []string, segments []*model.Segment) []string {
	output := make([]string, len(lines))
	copy(output, lines)

	for _, seg := range segments {
		if seg.LineIndex < 0 || seg.LineIndex >= len(output) {
			continue
		}
		switch seg.Kind {
		case model.SegmentText:
			body := seg.Protected
			if seg.HasTranslation {
				body = seg.Translated
			}
			output[seg.LineIndex] = seg.Prefix + Restore(body, seg.Placeholders)
		case model.SegmentTableRow:
			output[seg.LineIndex] = reconstructTableRow(seg)
		}
	}

	for i, line := range output {
		output[i] = FixEmphasisSpacing(line)
	}

	return output
}

// reconstructTableRow rebuilds a table row from its restored cells. Each
// non-empty cell is padded with one space on either side; originally empty
// cells stay empty. The row always starts and ends with a pipe, reinserting
// one if the backend stripped it at an edge.
func reconstructTableRow(seg *model.Segment) string {
	rebuilt := make([]string, 0, len(seg.Cells))
	for _, cell := range seg.Cells {
		if cell.Protected == "" {
			rebuilt = append(rebuilt, "")
			continue
		}
		body := cell.Protected
		if cell.HasTranslation {
			body = cell.Translated
		}
		rebuilt = append(rebuilt, " "+Restore(body, cell.Placeholders)+" ")
	}

	row := strings.Join(rebuilt, "|")
	if !strings.HasPrefix(row, "|") {
		row = "|" + row
	}
	if !strings.HasSuffix(row, "|") {
		row += "|"
	}
	return row
}

// FixEmphasisSpacing repairs emphasis-marker spacing on one line.
// Backends frequently shift a space across a bold-marker boundary; opening
// and closing markers cannot be told apart in isolation, so the repair
// matches whole **content** spans and moves internal leading or trailing
// whitespace outside the markers. It then reinserts the space between a
// list or ordinal marker and an opening bold marker. Line-scoped only:
// spans never match across lines.
func FixEmphasisSpacing(line string) string {
	fixed := boldRe.ReplaceAllStringFunc(line, fixBoldSpan)
	fixed = listBoldRe.ReplaceAllString(fixed, "$1 **")
	return ordinalBoldRe.ReplaceAllString(fixed, "$1 **")
}

// fixBoldSpan moves whitespace that ended up inside a single bold span's
// markers to the outside. A span whose content is only whitespace is left
// untouched.
func fixBoldSpan(span string) string {
	content := span[2 : len(span)-2]

	prefix := ""
	suffix := ""
	if content != "" && (content[0] == ' ' || content[0] == '\t') {
		prefix = string(content[0])
		content = strings.TrimLeft(content, " \t")
	}
	if content != "" && (content[len(content)-1] == ' ' || content[len(content)-1] == '\t') {
		suffix = string(content[len(content)-1])
		content = strings.TrimRight(content, " \t")
	}
	if content == "" {
		return span
	}
	return prefix + "**" + content + "**" + suffix
}
