package ghclient

import (
	"io"
	"net/http"
	"strconv"
	"time"
)

const defaultMaxRetries = 3

// RetryTransport retries requests that GitHub answers with 429 Too Many Requests.
type RetryTransport struct {
	MaxRetries int               // 0 = defaultMaxRetries
	Backoff    time.Duration     // first delay when Retry-After is absent; 0 = 1s
	Base       http.RoundTripper // nil = http.DefaultTransport
}

func (t *RetryTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// RoundTrip implements http.RoundTripper with exponential backoff on 429.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	maxRetries := t.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	backoff := t.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}

	for attempt := 0; ; attempt++ {
		resp, err := t.base().RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries || req.Body != nil && req.GetBody == nil {
			return resp, nil
		}

		// Drain and close body before retry
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		delay := backoff << uint(attempt)
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
				delay = time.Duration(secs) * time.Second
			}
		}

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(delay):
		}

		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			req = req.Clone(req.Context())
			req.Body = body
		}
	}
}
