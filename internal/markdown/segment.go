package markdown

import (
	"regexp"
	"strings"

	"github.com/nao1215/mdtrans/internal/model"
)

var (
	// headingPrefixRe matches 1-6 leading '#' characters plus the
	// whitespace that follows them.
	headingPrefixRe = regexp.MustCompile(`^(#{1,6}\s+)`)

	// blockquotePrefixRe matches a blockquote marker with surrounding
	// whitespace.
	blockquotePrefixRe = regexp.MustCompile(`^(\s*>\s*)`)

	// listMarkerRe matches a single bullet or ordinal-dot list marker.
	listMarkerRe = regexp.MustCompile(`^(\s*[-*+]\s+|\s*\d+\.\s+)`)
)

// ExtractSegments produces one segment per translatable line with non-empty
// content after prefix stripping. Lines classified as code or pass-through
// contribute nothing and are re-emitted verbatim by the reconstructor.
func ExtractSegments(lines []string, classes []model.LineClass) []*model.Segment {
	segments := make([]*model.Segment, 0, len(lines))

	for i, line := range lines {
		if i >= len(classes) || classes[i] != model.LineTranslatable {
			continue
		}
		if seg := extractSegment(i, line); seg != nil {
			segments = append(segments, seg)
		}
	}

	return segments
}

// extractSegment strips structural prefixes from one line and builds its
// segment. Prefixes are stripped in a fixed order: heading marker, then
// blockquote marker, then a single list marker. Whatever matched is
// concatenated verbatim, in the order matched, into one prefix string that
// is never translated.
func extractSegment(index int, line string) *model.Segment {
	prefix := ""
	text := line

	if m := headingPrefixRe.FindString(text); m != "" {
		prefix += m
		text = text[len(m):]
	}
	if m := blockquotePrefixRe.FindString(text); m != "" {
		prefix += m
		text = text[len(m):]
	}
	if m := listMarkerRe.FindString(text); m != "" {
		prefix += m
		text = text[len(m):]
	}

	trimmed := strings.TrimSpace(text)

	// A remaining body that both starts and ends with a pipe is a table
	// row: split on pipes and protect each non-empty cell independently.
	// Empty cells (including the edge cells produced by the leading and
	// trailing pipes) pass through and re-emit as empty between pipes.
	if strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") {
		rawCells := strings.Split(text, "|")
		cells := make([]model.Cell, 0, len(rawCells))
		for _, rawCell := range rawCells {
			content := strings.TrimSpace(rawCell)
			if content == "" {
				cells = append(cells, model.Cell{})
				continue
			}
			protected, placeholders := Protect(content)
			cells = append(cells, model.Cell{
				Protected:    protected,
				Placeholders: placeholders,
			})
		}
		return &model.Segment{
			LineIndex: index,
			Kind:      model.SegmentTableRow,
			Prefix:    prefix,
			Cells:     cells,
		}
	}

	if trimmed == "" {
		return nil
	}

	protected, placeholders := Protect(text)
	return &model.Segment{
		LineIndex:    index,
		Kind:         model.SegmentText,
		Prefix:       prefix,
		Protected:    protected,
		Placeholders: placeholders,
	}
}
