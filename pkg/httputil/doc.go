// Package httputil provides small HTTP helpers shared by Drawbridge's
// remote fetchers.
//
// It contains a retry loop with exponential backoff and a byte fetcher
// that classifies transient failures (network errors, 5xx responses) as
// retryable. The icon catalog loader uses both to download the remote
// icon bundle reliably.
package httputil
