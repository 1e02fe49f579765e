// Package model defines the core data structures used throughout mdtrans.
//
// This package contains the following main types:
//   - LineClass: Per-line classification (code, pass-through, translatable)
//   - Segment: A translatable unit extracted from one line or table cell
//   - PlaceholderMap: Reversible token-to-markup substitutions
//   - DocumentReport: The per-document pipeline state and warnings
//   - RunSummary: Aggregated results for a whole translation run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (markdown, pipeline, report) need to use
// these types, so centralizing them prevents import cycles.
//
// All per-document state is created fresh for each pipeline invocation and
// discarded after output is emitted; nothing in this package survives across
// documents.
package model
