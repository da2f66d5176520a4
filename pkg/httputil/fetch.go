package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	dberrors "github.com/mlenz/drawbridge/pkg/errors"
	"github.com/mlenz/drawbridge/pkg/observability"
)

// DefaultClient is the HTTP client used when none is supplied.
// The timeout bounds a single attempt, not the whole retry loop.
var DefaultClient = &http.Client{Timeout: 30 * time.Second}

// FetchBytes downloads url and returns the response body.
//
// Transient failures (connection errors, 5xx responses) are wrapped as
// [RetryableError] so callers can pass the operation through [Retry].
// A 404 maps to ErrCodeNotFound; other non-2xx statuses map to
// ErrCodeNetwork without retry.
func FetchBytes(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, dberrors.Wrap(dberrors.ErrCodeInternal, err, "build request for %s", url)
	}

	observability.HTTP().OnRequest(ctx, http.MethodGet, url)
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, url, err)
		return nil, Retryable(dberrors.Wrap(dberrors.ErrCodeNetwork, err, "fetch %s", url))
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, url, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, dberrors.New(dberrors.ErrCodeNotFound, "fetch %s: %s", url, resp.Status)
	case resp.StatusCode >= 500:
		return nil, Retryable(dberrors.New(dberrors.ErrCodeNetwork, "fetch %s: %s", url, resp.Status))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, dberrors.New(dberrors.ErrCodeNetwork, "fetch %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Retryable(fmt.Errorf("read %s: %w", url, err))
	}
	return body, nil
}
