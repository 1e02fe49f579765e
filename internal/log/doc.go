// Package log provides logging with automatic masking of translation
// service credentials, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic masking of credential values (API keys, tokens, auth headers)
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Masking
//
// The MaskingHandler masks credentials in log output:
//   - HTTP headers (Authorization, DeepL-Auth-Key, X-Api-Key)
//   - Values detected by pattern matching (OpenAI sk- keys, DeepL :fx keys,
//     bearer tokens, long raw key strings)
//
// Even in verbose mode, credentials are masked to prevent accidental
// exposure in logs that may be shared or stored.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("request sent",
//	    "authorization", "Bearer abc",  // Will be masked
//	    "file", "README.md",
//	)
//
//	slog.SetDefault(logger)
package log
