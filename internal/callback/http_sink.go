package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const responsePreviewBytes = 200

// StatusError is returned for non-2xx callback responses.
type StatusError struct {
	StatusCode int
	Preview    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("callback: unexpected status %d: %s", e.StatusCode, e.Preview)
}

// HTTPSink POSTs reports as JSON to the evaluator endpoint.
type HTTPSink struct {
	url        string
	httpClient *http.Client
}

// HTTPSinkOption configures an HTTPSink.
type HTTPSinkOption func(*HTTPSink)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) HTTPSinkOption {
	return func(s *HTTPSink) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// NewHTTPSink creates a sink for url. timeout bounds the whole request.
func NewHTTPSink(url string, timeout time.Duration, opts ...HTTPSinkOption) *HTTPSink {
	if strings.TrimSpace(url) == "" {
		panic("callback: url cannot be empty")
	}
	s := &HTTPSink{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPSink) Name() string { return "http" }

func (s *HTTPSink) Send(ctx context.Context, report Report) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("callback: marshal report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("callback: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("callback: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, responsePreviewBytes))
		return &StatusError{StatusCode: resp.StatusCode, Preview: string(preview)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
