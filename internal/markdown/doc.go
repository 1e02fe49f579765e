// Package markdown implements the markdown-aware protection, segmentation,
// and reconstruction engine.
//
// The engine decides which spans of a document are eligible for translation,
// shields structural syntax from the translation backend via reversible
// placeholder tokens, reassembles translated output into valid markup, and
// repairs heading-derived link anchors that change after translation.
//
// Processing phases, each a pure function over the previous phase's output:
//   - ClassifyLines: tag each line as code, pass-through, or translatable
//   - ExtractSegments: strip structural prefixes and protect inline markup
//   - CollectTexts / ApplyTranslations: flatten segments into the ordered
//     work list for the backend and map results back by position
//   - Reconstruct: rebuild output lines and repair emphasis spacing
//   - FixHeadingAnchors: remap same-document fragment links
//   - Validate: structural-equality checks between source and output
//
// Design decision: The engine is built on line-oriented regular expressions
// rather than a markdown AST. Parsing and re-rendering through an AST cannot
// guarantee byte-level fidelity for the untranslated parts of a document,
// which the reconstruction invariant requires. All state is local to one
// invocation; nothing persists between documents.
package markdown
