package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 500 * time.Millisecond
)

// Client talks to an OpenAI-compatible chat completion endpoint.
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	httpClient  *http.Client
}

// NewClient creates a client for the given API key and model.
func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:      apiKey,
		model:       model,
		baseURL:     defaultBaseURL,
		temperature: 0.3,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// NewClientWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewClientWithBaseURL(apiKey, model, baseURL string) *Client {
	c := NewClient(apiKey, model)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Generate sends the messages for completion and returns the assistant
// reply text. Rate limiting is retried with exponential backoff; auth
// failures, server errors, timeouts and exhausted retries are reported
// as *UnavailableError.
func (c *Client) Generate(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	var lastErr error
	for attempt := range maxRetries {
		reply, err := c.doGenerate(ctx, body)
		if err == nil {
			return reply, nil
		}

		if !isRateLimit(err) {
			return "", err
		}

		lastErr = err
		if attempt < maxRetries-1 {
			backoff := time.Duration(float64(initialBackoff) * math.Pow(2, float64(attempt)))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return "", &UnavailableError{Cause: fmt.Errorf("rate limited after %d retries: %w", maxRetries, lastErr)}
}

// rateLimitError is returned on HTTP 429.
type rateLimitError struct {
	status int
}

func (e *rateLimitError) Error() string {
	return fmt.Sprintf("rate limited (HTTP %d)", e.status)
}

func isRateLimit(err error) bool {
	_, ok := err.(*rateLimitError)
	return ok
}

func (c *Client) doGenerate(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
			return "", &UnavailableError{Cause: err}
		}
		return "", &UnavailableError{Cause: fmt.Errorf("executing request: %w", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &rateLimitError{status: resp.StatusCode}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", &UnavailableError{Cause: fmt.Errorf("authentication rejected (HTTP %d)", resp.StatusCode)}
	case resp.StatusCode >= http.StatusInternalServerError:
		return "", &UnavailableError{Cause: fmt.Errorf("server error (HTTP %d)", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &UnavailableError{Cause: fmt.Errorf("decoding response: %w", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &UnavailableError{Cause: errors.New("response has no choices")}
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
