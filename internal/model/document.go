package model

// LineClass classifies one physical line of a markdown document.
// The classification decides whether a line participates in translation.
type LineClass int

const (
	// LineCode marks lines inside (or delimiting) a fenced code region.
	// Code lines are copied to the output verbatim.
	LineCode LineClass = iota

	// LinePassThrough marks lines outside code that still must not be
	// translated: blank lines, table separator rows, and ASCII-art lines.
	LinePassThrough

	// LineTranslatable marks lines whose prose content is sent to the
	// translation backend after structural protection.
	LineTranslatable
)

// String returns a human-readable name for the line class.
func (c LineClass) String() string {
	switch c {
	case LineCode:
		return "code"
	case LinePassThrough:
		return "pass-through"
	case LineTranslatable:
		return "translatable"
	default:
		return "unknown"
	}
}

// PlaceholderMap maps a placeholder token to the original markup substring
// it replaced. Tokens are unique within one protected body; each body gets
// its own map with a fresh counter, so maps from different segments never
// share keys by construction.
type PlaceholderMap map[string]string

// SegmentKind distinguishes the two segment variants.
type SegmentKind int

const (
	// SegmentText is a plain translatable line body.
	SegmentText SegmentKind = iota

	// SegmentTableRow is a pipe-delimited table row split into cells.
	SegmentTableRow
)

// Cell is one table cell within a table-row segment.
// Empty cells carry no placeholders and re-emit as empty between pipes.
type Cell struct {
	// Protected is the cell text after inline protection.
	// Empty for cells that were blank in the source row.
	Protected string

	// Placeholders holds the reversible substitutions for this cell.
	Placeholders PlaceholderMap

	// Translated is the backend's output for this cell.
	// Valid only when HasTranslation is true.
	Translated string

	// HasTranslation reports whether a translation was attached.
	// Reconstruction falls back to Protected when false, so a backend
	// failure still yields the original (protected then restored) text.
	HasTranslation bool
}

// Segment is the unit of translatable content extracted from one line.
// It carries enough context to be reinserted at its original position.
//
// Invariant: Prefix + the restored body (or the pipe-joined restored cells)
// reconstructs the original line when the translation is the identity.
type Segment struct {
	// LineIndex is the position of the originating line in the document.
	LineIndex int

	// Kind selects between the text and table-row variants.
	Kind SegmentKind

	// Prefix is the structural prefix stripped before protection:
	// heading marks, blockquote marks, and list markers, verbatim and in
	// the order they matched. Never translated.
	Prefix string

	// Protected is the protected line body. Text segments only.
	Protected string

	// Placeholders holds the body's reversible substitutions. Text
	// segments only.
	Placeholders PlaceholderMap

	// Translated is the backend's output for the body. Text segments
	// only; valid when HasTranslation is true.
	Translated string

	// HasTranslation reports whether a translation was attached.
	HasTranslation bool

	// Cells holds the per-cell sub-segments. Table-row segments only.
	Cells []Cell
}
