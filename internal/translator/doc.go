// Package translator provides the boundary to external translation
// services.
//
// Three backends are implemented: DeepL (batched), Google Translate's free
// endpoint, and OpenAI chat completions (both one request per text). All
// backends satisfy the Translator interface and share the same hard
// contract: exactly one output string per input string, in the same order.
//
// Design decision: Backends are plain net/http clients rather than vendor
// SDKs. Each backend exposes a single capability (translate an ordered
// batch), and a thin client keeps the retry, quota, and contract handling
// explicit and testable against httptest servers.
//
// Transient failures (rate limits, 5xx, transport errors) are retried a
// bounded number of times with increasing delay. Quota exhaustion is fatal
// to the run and surfaces as ErrQuotaExceeded. A result-count mismatch is a
// contract violation and surfaces as ErrResultCountMismatch without retry.
package translator
