package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const maxAttempts = 3

// retryable reports whether an HTTP status is worth retrying.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests ||
		status == http.StatusRequestTimeout ||
		status >= 500
}

// doWithRetry issues the request built by build, retrying transient
// failures with exponential backoff. build is called per attempt so the
// request body reader is fresh each time.
func doWithRetry(ctx context.Context, client *http.Client, build func() (*http.Request, error), handle func(*http.Response) (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 2 * time.Second
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := build()
		if err != nil {
			return "", err
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if retryable(resp.StatusCode) {
			resp.Body.Close()
			lastErr = fmt.Errorf("server returned %s", resp.Status)
			continue
		}

		out, err := handle(resp)
		resp.Body.Close()
		return out, err
	}
	return "", fmt.Errorf("request failed after %d attempts: %w", maxAttempts, lastErr)
}
