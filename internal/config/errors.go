package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoFiles is returned when the file map is empty. Without at
	// least one source-to-target name pair there is nothing to translate.
	ErrNoFiles = errors.New("no files configured: add a files map to .mdtrans.yaml")

	// ErrInvalidLanguage is returned when a language code does not parse
	// as a BCP 47 tag.
	ErrInvalidLanguage = errors.New("invalid language tag")

	// ErrSameLanguage is returned when source and target language are
	// identical.
	ErrSameLanguage = errors.New("source and target language are identical")

	// ErrInvalidBackend is returned when the backend is not one of
	// deepl, openai, or google.
	ErrInvalidBackend = errors.New("invalid backend")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRetryAttempts is returned when the retry attempt count is
	// not positive. Zero attempts would mean no request is ever made.
	ErrInvalidRetryAttempts = errors.New("invalid retry attempts: must be positive")

	// ErrInvalidMaxBatchChars is returned when the batch character cap is
	// not positive.
	ErrInvalidMaxBatchChars = errors.New("invalid max batch chars: must be positive")
)
