package markdown

import (
	"errors"
	"fmt"

	"github.com/nao1215/mdtrans/internal/model"
)

// ErrTranslationMismatch is returned when the translation backend violated
// its contract by returning a different number of results than the work
// list it was given. Mapping misaligned results back onto segments would
// silently corrupt the document, so callers must abort the document
// instead.
var ErrTranslationMismatch = errors.New("translated result count does not match work list")

// workRef locates one work-list entry in its originating segment.
// cell is -1 for text segments.
type workRef struct {
	segment int
	cell    int
}

// collectRefs builds the positional index underlying both CollectTexts and
// ApplyTranslations, guaranteeing the two walk segments in the same order.
func collectRefs(segments []*model.Segment) []workRef {
	refs := make([]workRef, 0, len(segments))
	for i, seg := range segments {
		switch seg.Kind {
		case model.SegmentText:
			refs = append(refs, workRef{segment: i, cell: -1})
		case model.SegmentTableRow:
			for j, cell := range seg.Cells {
				if cell.Protected != "" {
					refs = append(refs, workRef{segment: i, cell: j})
				}
			}
		}
	}
	return refs
}

// CollectTexts flattens every text segment's protected body and every
// non-empty table cell's protected text, in document order, into the
// ordered work list sent to the translation backend.
func CollectTexts(segments []*model.Segment) []string {
	refs := collectRefs(segments)
	texts := make([]string, 0, len(refs))
	for _, ref := range refs {
		seg := segments[ref.segment]
		if ref.cell < 0 {
			texts = append(texts, seg.Protected)
		} else {
			texts = append(texts, seg.Cells[ref.cell].Protected)
		}
	}
	return texts
}

// ApplyTranslations re-attaches each translated string to its originating
// segment or cell by position. The backend contract requires exactly one
// output per input, in order; on a length mismatch no attachment is
// attempted and ErrTranslationMismatch is returned.
func ApplyTranslations(segments []*model.Segment, translated []string) error {
	refs := collectRefs(segments)
	if len(translated) != len(refs) {
		return fmt.Errorf("%w: sent %d texts, received %d", ErrTranslationMismatch, len(refs), len(translated))
	}

	for i, ref := range refs {
		seg := segments[ref.segment]
		if ref.cell < 0 {
			seg.Translated = translated[i]
			seg.HasTranslation = true
			continue
		}
		seg.Cells[ref.cell].Translated = translated[i]
		seg.Cells[ref.cell].HasTranslation = true
	}
	return nil
}
