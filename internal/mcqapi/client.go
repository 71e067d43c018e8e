package mcqapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gulfcertify/quiz/internal/domain/mcq"
)

// Fetcher loads question sets. Implementations may call the MCQ API or
// return canned sets (for tests).
type Fetcher interface {
	FetchBySubject(ctx context.Context, subject string) ([]mcq.Question, error)
	FetchByExam(ctx context.Context, year int, month time.Month) ([]mcq.Question, error)
	FetchMockTest(ctx context.Context) ([]mcq.Question, error)
}

// ErrNotAvailable is returned when the API answers with an empty set.
var ErrNotAvailable = errors.New("questions not available yet")

// APIError is returned for non-2xx responses and for error bodies, so the
// caller can show the server's message.
type APIError struct {
	StatusCode int
	Message    string
	Wrapped    error
}

func (e *APIError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Wrapped)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Wrapped
}

// Client calls the /get_mcqs endpoints. Each call is a single attempt.
type Client struct {
	baseURL string       // e.g. "https://gulfcertify.example"
	client  *http.Client // reused across calls
}

// Compile-time check: *Client satisfies the Fetcher interface.
var _ Fetcher = (*Client)(nil)

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchBySubject calls GET /get_mcqs/{subject}.
func (c *Client) FetchBySubject(ctx context.Context, subject string) ([]mcq.Question, error) {
	return c.fetch(ctx, "/get_mcqs/"+url.PathEscape(subject), "Failed to fetch MCQs")
}

// FetchByExam calls GET /get_mcqs/exam/{year}/{month}.
func (c *Client) FetchByExam(ctx context.Context, year int, month time.Month) ([]mcq.Question, error) {
	path := "/get_mcqs/exam/" + strconv.Itoa(year) + "/" + url.PathEscape(month.String())
	return c.fetch(ctx, path, "Failed to fetch MCQs")
}

// FetchMockTest calls GET /get_mcqs/mock_test.
func (c *Client) FetchMockTest(ctx context.Context) ([]mcq.Question, error) {
	return c.fetch(ctx, "/get_mcqs/mock_test", "Failed to fetch mock test MCQs")
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) fetch(ctx context.Context, path, fallback string) ([]mcq.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &APIError{Message: fallback, Wrapped: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: fallback, Wrapped: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body, resp.StatusCode, fallback),
		}
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		// A 2xx carrying {"error": "..."} is still a failure.
		var eb errorBody
		if err := json.Unmarshal(trimmed, &eb); err == nil && eb.Error != "" {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: eb.Error}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "unexpected response shape"}
	}

	var questions []mcq.Question
	if err := json.Unmarshal(trimmed, &questions); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "failed to decode MCQs", Wrapped: err}
	}
	if len(questions) == 0 {
		return nil, ErrNotAvailable
	}
	return questions, nil
}

// errorMessage prefers the body's "error" field, then the status text.
func errorMessage(body []byte, status int, fallback string) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		return eb.Error
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fallback
}
