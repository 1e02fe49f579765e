package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// OpenAI chat-completions defaults.
const (
	// DefaultOpenAIAPIURL is the chat completions endpoint.
	DefaultOpenAIAPIURL = "https://api.openai.com/v1/chat/completions"

	// DefaultOpenAIModel is the default translation model.
	DefaultOpenAIModel = "gpt-5.2"

	// DefaultOpenAIDelay is the small delay between consecutive
	// requests.
	DefaultOpenAIDelay = 300 * time.Millisecond

	// openAITemperature keeps the model close to a literal translation.
	openAITemperature = 0.1
)

// openAISystemPrompt instructs the model to behave as a cooperating
// translation backend: pass placeholder tokens through unchanged and emit
// nothing but the translated text.
const openAISystemPrompt = "You are a professional translator. " +
	"Translate the user's text from %s to %s. " +
	"Rules:\n" +
	"- Preserve ALL placeholder tokens like ⟨0⟩, ⟨1⟩, ⟨2⟩ exactly as they appear\n" +
	"- Preserve all markdown formatting (headings, lists, bold, links, tables)\n" +
	"- Preserve all technical terms (class names, method names, URLs, code)\n" +
	"- Output ONLY the translated text, nothing else: no preamble, no notes\n" +
	"- If the input is a single technical term that doesn't need translation, output it unchanged"

// OpenAI translates texts one by one via the chat completions API.
type OpenAI struct {
	apiKey        string
	client        *http.Client
	apiURL        string
	model         string
	sourceLang    string
	targetLang    string
	retryAttempts int
	retryDelay    time.Duration
	requestDelay  time.Duration
	logger        *slog.Logger
	charsUsed     int
}

// OpenAIOption configures an OpenAI backend.
type OpenAIOption func(*OpenAI)

// WithOpenAIHTTPClient sets a custom HTTP client.
func WithOpenAIHTTPClient(client *http.Client) OpenAIOption {
	return func(o *OpenAI) {
		o.client = client
	}
}

// WithOpenAIEndpoint overrides the API endpoint. Used for compatible
// gateways and tests.
func WithOpenAIEndpoint(apiURL string) OpenAIOption {
	return func(o *OpenAI) {
		o.apiURL = apiURL
	}
}

// WithOpenAIModel overrides the model name.
func WithOpenAIModel(model string) OpenAIOption {
	return func(o *OpenAI) {
		if model != "" {
			o.model = model
		}
	}
}

// WithOpenAIRetry overrides the retry attempt count and base delay.
func WithOpenAIRetry(attempts int, delay time.Duration) OpenAIOption {
	return func(o *OpenAI) {
		if attempts > 0 {
			o.retryAttempts = attempts
		}
		o.retryDelay = delay
	}
}

// WithOpenAIRequestDelay overrides the delay between requests.
func WithOpenAIRequestDelay(delay time.Duration) OpenAIOption {
	return func(o *OpenAI) {
		o.requestDelay = delay
	}
}

// WithOpenAILogger sets a custom logger.
func WithOpenAILogger(logger *slog.Logger) OpenAIOption {
	return func(o *OpenAI) {
		o.logger = logger
	}
}

// NewOpenAI creates an OpenAI chat-completions backend for the given
// language pair. sourceLang and targetLang are human-readable language
// names or codes; they are interpolated into the system prompt.
func NewOpenAI(apiKey, sourceLang, targetLang string, opts ...OpenAIOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set OPENAI_API_KEY", ErrMissingAPIKey)
	}

	o := &OpenAI{
		apiKey:        apiKey,
		client:        &http.Client{Timeout: 120 * time.Second},
		apiURL:        DefaultOpenAIAPIURL,
		model:         DefaultOpenAIModel,
		sourceLang:    sourceLang,
		targetLang:    targetLang,
		retryAttempts: DefaultRetryAttempts,
		retryDelay:    DefaultRetryDelay,
		requestDelay:  DefaultOpenAIDelay,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Name returns the backend name.
func (o *OpenAI) Name() string {
	return "openai"
}

// CharsUsed returns the number of source characters sent so far.
func (o *OpenAI) CharsUsed() int {
	return o.charsUsed
}

// Translate translates the ordered texts one request per text, preserving
// order by construction.
func (o *OpenAI) Translate(ctx context.Context, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([]string, 0, len(texts))
	for i, text := range texts {
		if i > 0 && o.requestDelay > 0 {
			if err := sleepContext(ctx, o.requestDelay); err != nil {
				return nil, err
			}
		}
		translated, err := o.callAPI(ctx, text)
		if err != nil {
			return nil, err
		}
		results = append(results, translated)
		o.charsUsed += len(text)
	}
	return results, nil
}

// chatMessage is one chat completions message.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the chat completions request payload.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// chatResponse is the chat completions response payload.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// callAPI translates a single text with bounded retries.
func (o *OpenAI) callAPI(ctx context.Context, text string) (string, error) {
	payload := chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "developer", Content: fmt.Sprintf(openAISystemPrompt, o.sourceLang, o.targetLang)},
			{Role: "user", Content: text},
		},
		Temperature: openAITemperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode OpenAI request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= o.retryAttempts; attempt++ {
		translated, retryable, err := o.doRequest(ctx, body)
		if err == nil {
			return translated, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}

		o.logger.Warn("OpenAI request failed, retrying",
			"attempt", attempt,
			"maxAttempts", o.retryAttempts,
			"error", err,
		)
		if attempt < o.retryAttempts {
			delay := o.retryDelay * time.Duration(attempt)
			if strings.Contains(err.Error(), "rate limited") {
				delay *= 2
			}
			if err := sleepContext(ctx, delay); err != nil {
				return "", err
			}
		}
	}
	return "", fmt.Errorf("OpenAI request failed after %d attempts: %w", o.retryAttempts, lastErr)
}

// doRequest performs a single HTTP exchange.
func (o *OpenAI) doRequest(ctx context.Context, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close

	switch resp.StatusCode {
	case http.StatusOK:
		var parsed chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return "", true, fmt.Errorf("failed to decode OpenAI response: %w", err)
		}
		if len(parsed.Choices) == 0 {
			return "", true, fmt.Errorf("OpenAI response contains no choices")
		}
		return strings.TrimSpace(parsed.Choices[0].Message.Content), false, nil

	case http.StatusTooManyRequests:
		return "", true, fmt.Errorf("rate limited (HTTP %d)", resp.StatusCode)

	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", true, fmt.Errorf("OpenAI error %d: %s", resp.StatusCode, string(detail))
	}
}
