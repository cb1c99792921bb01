package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Veraticus/transitoria/internal/common"
)

// httpDoer is the part of *http.Client the providers use.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// postJSON sends body to url and decodes a 200 response into out. Rate limits
// and server errors come back as retryable errors, everything else as final.
func postJSON(ctx context.Context, client httpDoer, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &common.RetryableError{Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &common.RetryableError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &common.RetryableError{Err: fmt.Errorf("request failed: %w", err), Retryable: ctx.Err() == nil}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &common.RetryableError{Err: fmt.Errorf("failed to read response: %w", err), Retryable: true}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &common.RetryableError{Err: fmt.Errorf("%w: %s", common.ErrRateLimit, data), Retryable: true}
	case resp.StatusCode >= 500:
		return &common.RetryableError{Err: fmt.Errorf("API error (status %d): %s", resp.StatusCode, data), Retryable: true}
	case resp.StatusCode != http.StatusOK:
		return &common.RetryableError{Err: fmt.Errorf("API error (status %d): %s", resp.StatusCode, data)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &common.RetryableError{Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return nil
}
