package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Google Translate free endpoint defaults.
const (
	// DefaultGoogleAPIURL is the unauthenticated gtx endpoint used as a
	// last-resort fallback when no paid backend is available.
	DefaultGoogleAPIURL = "https://translate.googleapis.com/translate_a/single"

	// DefaultGoogleDelay is the polite delay between consecutive
	// requests; the free endpoint rate-limits aggressively.
	DefaultGoogleDelay = 500 * time.Millisecond
)

// Google translates texts one by one via the free gtx endpoint.
// It requires no API key, which also means no quota guarantees; it exists
// as the fallback of last resort.
type Google struct {
	client        *http.Client
	apiURL        string
	sourceLang    string
	targetLang    string
	retryAttempts int
	retryDelay    time.Duration
	requestDelay  time.Duration
	logger        *slog.Logger
	charsUsed     int
}

// GoogleOption configures a Google backend.
type GoogleOption func(*Google)

// WithGoogleHTTPClient sets a custom HTTP client.
func WithGoogleHTTPClient(client *http.Client) GoogleOption {
	return func(g *Google) {
		g.client = client
	}
}

// WithGoogleEndpoint overrides the API endpoint. Used in tests.
func WithGoogleEndpoint(apiURL string) GoogleOption {
	return func(g *Google) {
		g.apiURL = apiURL
	}
}

// WithGoogleRetry overrides the retry attempt count and base delay.
func WithGoogleRetry(attempts int, delay time.Duration) GoogleOption {
	return func(g *Google) {
		if attempts > 0 {
			g.retryAttempts = attempts
		}
		g.retryDelay = delay
	}
}

// WithGoogleRequestDelay overrides the polite delay between requests.
func WithGoogleRequestDelay(delay time.Duration) GoogleOption {
	return func(g *Google) {
		g.requestDelay = delay
	}
}

// WithGoogleLogger sets a custom logger.
func WithGoogleLogger(logger *slog.Logger) GoogleOption {
	return func(g *Google) {
		g.logger = logger
	}
}

// NewGoogle creates a Google Translate backend for the given language
// pair. Language codes are lower-cased to the gtx convention.
func NewGoogle(sourceLang, targetLang string, opts ...GoogleOption) *Google {
	g := &Google{
		client:        &http.Client{Timeout: 30 * time.Second},
		apiURL:        DefaultGoogleAPIURL,
		sourceLang:    strings.ToLower(sourceLang),
		targetLang:    strings.ToLower(targetLang),
		retryAttempts: DefaultRetryAttempts,
		retryDelay:    DefaultRetryDelay,
		requestDelay:  DefaultGoogleDelay,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the backend name.
func (g *Google) Name() string {
	return "google"
}

// CharsUsed returns the number of source characters sent so far.
func (g *Google) CharsUsed() int {
	return g.charsUsed
}

// Translate translates the ordered texts one request per text, preserving
// order by construction. A polite delay separates consecutive requests.
func (g *Google) Translate(ctx context.Context, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([]string, 0, len(texts))
	for i, text := range texts {
		if i > 0 && g.requestDelay > 0 {
			if err := sleepContext(ctx, g.requestDelay); err != nil {
				return nil, err
			}
		}
		translated, err := g.callAPI(ctx, text)
		if err != nil {
			return nil, err
		}
		results = append(results, translated)
		g.charsUsed += len(text)
	}
	return results, nil
}

// callAPI translates a single text with bounded retries.
func (g *Google) callAPI(ctx context.Context, text string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", g.sourceLang)
	params.Set("tl", g.targetLang)
	params.Set("dt", "t")
	params.Set("q", text)
	requestURL := g.apiURL + "?" + params.Encode()

	var lastErr error
	for attempt := 1; attempt <= g.retryAttempts; attempt++ {
		translated, retryable, err := g.doRequest(ctx, requestURL)
		if err == nil {
			return translated, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}

		g.logger.Warn("Google Translate request failed, retrying",
			"attempt", attempt,
			"maxAttempts", g.retryAttempts,
			"error", err,
		)
		if attempt < g.retryAttempts {
			// Rate limiting on the free endpoint backs off twice as hard.
			if err := sleepContext(ctx, g.retryDelay*time.Duration(attempt)*2); err != nil {
				return "", err
			}
		}
	}
	return "", fmt.Errorf("Google Translate request failed after %d attempts: %w", g.retryAttempts, lastErr)
}

// doRequest performs a single HTTP exchange.
func (g *Google) doRequest(ctx context.Context, requestURL string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", false, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", true, fmt.Errorf("failed to read response: %w", err)
		}
		translated, err := parseGoogleResponse(body)
		if err != nil {
			return "", true, err
		}
		return translated, false, nil

	case http.StatusTooManyRequests:
		return "", true, fmt.Errorf("rate limited (HTTP %d)", resp.StatusCode)

	default:
		return "", true, fmt.Errorf("Google Translate error %d", resp.StatusCode)
	}
}

// parseGoogleResponse extracts the translation from the gtx nested-array
// response. The first element is a list of sentence segments whose first
// field is the translated text; the segments concatenate to the full
// translation.
func parseGoogleResponse(body []byte) (string, error) {
	var outer []json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(outer) == 0 {
		return "", fmt.Errorf("empty response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(outer[0], &segments); err != nil {
		return "", fmt.Errorf("failed to decode segments: %w", err)
	}

	var b strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(segment[0], &part); err != nil {
			return "", fmt.Errorf("failed to decode segment text: %w", err)
		}
		b.WriteString(part)
	}
	return b.String(), nil
}
