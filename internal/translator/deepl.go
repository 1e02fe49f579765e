package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DeepL API defaults. The free-tier endpoints are the defaults because the
// original documentation pipeline runs on a free key; paid keys only need
// the endpoint options.
const (
	// DefaultDeepLAPIURL is the free-tier translate endpoint.
	DefaultDeepLAPIURL = "https://api-free.deepl.com/v2/translate"

	// DefaultDeepLUsageURL is the free-tier usage endpoint.
	DefaultDeepLUsageURL = "https://api-free.deepl.com/v2/usage"

	// MaxBatchChars caps the combined size of one translate request,
	// staying well under DeepL's 128KiB per-request limit. Batching
	// exists purely to reduce call count; calls remain sequential.
	MaxBatchChars = 40000

	// deepLQuotaStatus is DeepL's "quota exceeded" HTTP status.
	deepLQuotaStatus = 456
)

// DeepL translates batches of texts via the DeepL REST API.
type DeepL struct {
	// apiKey authenticates requests via the DeepL-Auth-Key scheme.
	apiKey string

	// client is the HTTP client used for all requests.
	client *http.Client

	// apiURL and usageURL are the REST endpoints.
	apiURL   string
	usageURL string

	// sourceLang and targetLang are DeepL language codes (e.g. "ES", "EN").
	sourceLang string
	targetLang string

	// retryAttempts and retryDelay bound transient-failure retries.
	retryAttempts int
	retryDelay    time.Duration

	// batchLimit caps the combined characters per translate request.
	batchLimit int

	// logger for structured logging.
	logger *slog.Logger

	// charsUsed counts source characters sent so far.
	charsUsed int
}

// DeepLOption configures a DeepL backend.
type DeepLOption func(*DeepL)

// WithDeepLHTTPClient sets a custom HTTP client.
func WithDeepLHTTPClient(client *http.Client) DeepLOption {
	return func(d *DeepL) {
		d.client = client
	}
}

// WithDeepLEndpoints overrides the translate and usage endpoints.
// Used for the paid-tier API host and for tests.
func WithDeepLEndpoints(apiURL, usageURL string) DeepLOption {
	return func(d *DeepL) {
		d.apiURL = apiURL
		d.usageURL = usageURL
	}
}

// WithDeepLRetry overrides the retry attempt count and base delay.
func WithDeepLRetry(attempts int, delay time.Duration) DeepLOption {
	return func(d *DeepL) {
		if attempts > 0 {
			d.retryAttempts = attempts
		}
		d.retryDelay = delay
	}
}

// WithDeepLBatchLimit overrides the character cap per translate request.
func WithDeepLBatchLimit(limit int) DeepLOption {
	return func(d *DeepL) {
		if limit > 0 {
			d.batchLimit = limit
		}
	}
}

// WithDeepLLogger sets a custom logger.
func WithDeepLLogger(logger *slog.Logger) DeepLOption {
	return func(d *DeepL) {
		d.logger = logger
	}
}

// NewDeepL creates a DeepL backend for the given language pair.
func NewDeepL(apiKey, sourceLang, targetLang string, opts ...DeepLOption) (*DeepL, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set DEEPL_API_KEY", ErrMissingAPIKey)
	}

	d := &DeepL{
		apiKey:        apiKey,
		client:        &http.Client{Timeout: 60 * time.Second},
		apiURL:        DefaultDeepLAPIURL,
		usageURL:      DefaultDeepLUsageURL,
		sourceLang:    sourceLang,
		targetLang:    targetLang,
		retryAttempts: DefaultRetryAttempts,
		retryDelay:    DefaultRetryDelay,
		batchLimit:    MaxBatchChars,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Name returns the backend name.
func (d *DeepL) Name() string {
	return "deepl"
}

// CharsUsed returns the number of source characters sent so far.
func (d *DeepL) CharsUsed() int {
	return d.charsUsed
}

// Translate translates the ordered texts, grouping them into requests of
// at most batchLimit combined characters. Requests run strictly in
// sequence; results are concatenated in input order.
func (d *DeepL) Translate(ctx context.Context, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([]string, 0, len(texts))
	batch := make([]string, 0, len(texts))
	batchSize := 0

	for _, text := range texts {
		if batchSize+len(text) > d.batchLimit && len(batch) > 0 {
			translated, err := d.callAPI(ctx, batch)
			if err != nil {
				return nil, err
			}
			results = append(results, translated...)
			batch = batch[:0]
			batchSize = 0
		}
		batch = append(batch, text)
		batchSize += len(text)
	}

	if len(batch) > 0 {
		translated, err := d.callAPI(ctx, batch)
		if err != nil {
			return nil, err
		}
		results = append(results, translated...)
	}

	return results, nil
}

// deepLRequest is the translate request payload.
type deepLRequest struct {
	Text               []string `json:"text"`
	SourceLang         string   `json:"source_lang"`
	TargetLang         string   `json:"target_lang"`
	SplitSentences     string   `json:"split_sentences"`
	PreserveFormatting bool     `json:"preserve_formatting"`
}

// deepLResponse is the translate response payload.
type deepLResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// callAPI performs one translate request with bounded retries.
func (d *DeepL) callAPI(ctx context.Context, texts []string) ([]string, error) {
	payload := deepLRequest{
		Text:       texts,
		SourceLang: d.sourceLang,
		TargetLang: d.targetLang,
		// nonewlines keeps DeepL from splitting at the placeholder
		// tokens embedded mid-sentence.
		SplitSentences:     "nonewlines",
		PreserveFormatting: true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode DeepL request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= d.retryAttempts; attempt++ {
		translated, retryable, err := d.doRequest(ctx, body, len(texts))
		if err == nil {
			d.charsUsed += sumLen(texts)
			return translated, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}

		d.logger.Warn("DeepL request failed, retrying",
			"attempt", attempt,
			"maxAttempts", d.retryAttempts,
			"error", err,
		)
		if attempt < d.retryAttempts {
			if err := sleepContext(ctx, d.retryDelay*time.Duration(attempt)); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("DeepL request failed after %d attempts: %w", d.retryAttempts, lastErr)
}

// doRequest performs a single HTTP exchange. The second return value
// reports whether the error is worth retrying.
func (d *DeepL) doRequest(ctx context.Context, body []byte, wantCount int) ([]string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close

	switch {
	case resp.StatusCode == http.StatusOK:
		var parsed deepLResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return nil, true, fmt.Errorf("failed to decode DeepL response: %w", err)
		}
		if len(parsed.Translations) != wantCount {
			return nil, false, fmt.Errorf("%w: sent %d, received %d",
				ErrResultCountMismatch, wantCount, len(parsed.Translations))
		}
		results := make([]string, len(parsed.Translations))
		for i, tr := range parsed.Translations {
			results[i] = tr.Text
		}
		return results, false, nil

	case resp.StatusCode == deepLQuotaStatus:
		return nil, false, ErrQuotaExceeded

	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("rate limited (HTTP %d)", resp.StatusCode)

	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, true, fmt.Errorf("DeepL error %d: %s", resp.StatusCode, string(detail))
	}
}

// Usage reports the account's character quota state.
type Usage struct {
	// CharacterCount is the number of characters consumed this period.
	CharacterCount int64 `json:"character_count"`

	// CharacterLimit is the period's character quota.
	CharacterLimit int64 `json:"character_limit"`
}

// Exhausted reports whether the quota is fully consumed.
func (u Usage) Exhausted() bool {
	return u.CharacterLimit > 0 && u.CharacterCount >= u.CharacterLimit
}

// Usage queries the DeepL usage endpoint.
func (d *DeepL) Usage(ctx context.Context) (*Usage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.usageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+d.apiKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query DeepL usage: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DeepL usage error %d", resp.StatusCode)
	}

	var usage Usage
	if err := json.NewDecoder(resp.Body).Decode(&usage); err != nil {
		return nil, fmt.Errorf("failed to decode DeepL usage: %w", err)
	}
	return &usage, nil
}
