// Package cache provides SQLite-based change detection for translated
// documents.
//
// Each source document gets one row keyed by its name, holding a BLAKE3
// fingerprint of the content that was last translated. Before translating,
// the pipeline asks the cache whether the content changed; unchanged
// documents are skipped unless the run forces retranslation.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of a
// plain JSON file because:
// 1. No external dependencies - the cache is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Batched saves are atomic without hand-rolled file locking
// 4. A meta table carries the cache version for wholesale invalidation
//
// Updates are staged in memory and written by Save in one transaction, so
// an interrupted run never records documents it did not finish.
package cache
