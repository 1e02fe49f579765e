package translator

import (
	"context"
	"errors"
	"time"
)

// Retry defaults shared by all backends. Three attempts with a linearly
// increasing delay rides out short rate-limit windows without stalling a
// run for minutes.
const (
	// DefaultRetryAttempts is the number of attempts per API call.
	DefaultRetryAttempts = 3

	// DefaultRetryDelay is the base delay between attempts; attempt n
	// waits n times this value.
	DefaultRetryDelay = 3 * time.Second
)

// Sentinel errors shared by all backends.
var (
	// ErrQuotaExceeded is returned when the backend reports that its
	// translation quota is exhausted. This condition is fatal to the
	// whole run: retrying cannot succeed until the quota resets.
	ErrQuotaExceeded = errors.New("translation quota exceeded")

	// ErrResultCountMismatch is returned when a backend responds with a
	// different number of translations than texts sent. This is a
	// contract violation, never retried, and must abort the current
	// document rather than allow misaligned reconstruction.
	ErrResultCountMismatch = errors.New("backend returned wrong number of translations")

	// ErrMissingAPIKey is returned when a backend that requires
	// authentication is constructed without a key.
	ErrMissingAPIKey = errors.New("missing API key")
)

// Translator is the external translation capability consumed by the
// pipeline.
//
// Contract: Translate returns exactly one output string per input string,
// in the same order. Inputs may contain placeholder tokens that the
// backend is instructed to pass through unchanged; the engine's
// restoration step tolerates violations via spurious-token cleanup. The
// boundary cannot detect a backend that returns the right count in the
// wrong order; the count check is the strongest integrity guarantee
// available without echoing markers through the backend.
type Translator interface {
	// Translate translates the ordered texts. A nil or empty input
	// returns an empty result and makes no network call.
	Translate(ctx context.Context, texts []string) ([]string, error)

	// Name returns the backend name for logging and summaries.
	Name() string

	// CharsUsed returns the number of source characters sent to the
	// backend so far. Used for run summaries and quota accounting.
	CharsUsed() int
}

// sleepContext waits for the given duration or until the context is
// cancelled, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// sumLen returns the combined length in bytes of the given texts.
func sumLen(texts []string) int {
	total := 0
	for _, text := range texts {
		total += len(text)
	}
	return total
}
