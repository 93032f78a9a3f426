package source

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// ErrSourceTooLarge is returned when a remote table exceeds the size limit.
var ErrSourceTooLarge = errors.New("remote source exceeds size limit")

// RetryPolicy defines retry behavior for remote sources.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
	MaxSizeKb         int     `yaml:"max_size_kb"`
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       3,
		InitialDelayMs:    500,
		MaxDelayMs:        30000,
		BackoffMultiplier: 2.0,
		TimeoutSec:        30,
		MaxSizeKb:         10240,
	}
}

// GetRetryDelay calculates the exponential backoff delay before attempt.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 2; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the per-request timeout.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// IsRemote reports whether location is an http or https URL.
func IsRemote(location string) bool {
	lower := strings.ToLower(location)

	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Fetcher downloads remote tables with retries.
type Fetcher struct {
	client *http.Client
	policy RetryPolicy
}

// NewFetcher creates a fetcher for policy.
func NewFetcher(policy RetryPolicy) *Fetcher {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	return &Fetcher{
		client: &http.Client{Timeout: policy.GetTimeout()},
		policy: policy,
	}
}

// Fetch returns the body of url and the number of attempts it took.
// Only transport errors and temporary statuses are retried.
func (f *Fetcher) Fetch(url string) ([]byte, int, error) {
	var lastErr error

	for attempt := 1; attempt <= f.policy.MaxAttempts; attempt++ {
		if delay := f.policy.GetRetryDelay(attempt); delay > 0 {
			time.Sleep(delay)
		}

		body, retry, err := f.get(url)
		if err == nil {
			return body, attempt, nil
		}

		lastErr = fmt.Errorf("attempt %d/%d: %w", attempt, f.policy.MaxAttempts, err)

		if !retry {
			return nil, attempt, lastErr
		}
	}

	return nil, f.policy.MaxAttempts, lastErr
}

func (f *Fetcher) get(url string) ([]byte, bool, error) {
	req, err := http.NewRequest(http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, fmt.Errorf("%w: %s", ErrSourceNotFound, url)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, isRetryableStatus(resp.StatusCode), fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	limit := int64(f.policy.MaxSizeKb) * 1024
	if limit <= 0 {
		limit = int64(DefaultRetryPolicy().MaxSizeKb) * 1024
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(body)) > limit {
		return nil, false, fmt.Errorf("%w: %d KB", ErrSourceTooLarge, f.policy.MaxSizeKb)
	}

	return body, false, nil
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusTooManyRequests,
		http.StatusRequestTimeout:
		return true
	}

	return false
}
