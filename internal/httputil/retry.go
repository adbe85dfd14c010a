// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the completion clients.
package httputil

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RetryBaseDelay is the first backoff interval after a throttled response.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxRetryDelay caps both computed backoff and server-sent Retry-After values.
const maxRetryDelay = 30 * time.Second

const defaultMaxRetries = 3

// DoWithRetry sends req and retries while the server answers 429 (Too Many
// Requests) or 503 (Service Unavailable). The wait starts at RetryBaseDelay
// and doubles each attempt unless the response carries a Retry-After header
// in seconds, which takes precedence. Both are capped at 30s.
//
// Request bodies are replayed through req.GetBody, so requests built with
// http.NewRequestWithContext over a bytes.Reader or strings.Reader retry
// safely. When maxRetries is 0 the default (3) is used. After the last
// attempt the throttled response is returned unread so the caller can
// report its status.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewinding request body: %w", err)
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// ReadErrorBody returns up to 1 KiB of the response body for error messages.
func ReadErrorBody(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return strings.TrimSpace(string(data))
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil && secs >= 0 {
		return min(time.Duration(secs)*time.Second, maxRetryDelay)
	}
	d := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
	return min(d, maxRetryDelay)
}
