package catalog

import (
	"io"
	"log"
	"net"
	"net/http"
	"time"
)

// DefaultBackoffs returns the wait before each retry, for retries attempts
func DefaultBackoffs(retries int) []time.Duration {
	steps := []time.Duration{500 * time.Millisecond, 1 * time.Second, 2 * time.Second}
	out := make([]time.Duration, 0, retries)
	for i := 0; i < retries; i++ {
		if i < len(steps) {
			out = append(out, steps[i])
		} else {
			out = append(out, steps[len(steps)-1])
		}
	}
	return out
}

// RetryTransport retries network errors, 5xx and 429 answers with a
// bounded backoff. It only retries requests whose body can be replayed.
type RetryTransport struct {
	Base     http.RoundTripper
	Backoffs []time.Duration
}

// NewRetryTransport wraps base; a nil base uses http.DefaultTransport
func NewRetryTransport(base http.RoundTripper, backoffs ...time.Duration) *RetryTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &RetryTransport{Base: base, Backoffs: backoffs}
}

// RoundTrip implements http.RoundTripper
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	replayable := req.Body == nil || req.GetBody != nil

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(t.Backoffs[attempt-1]):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				req.Body = body
			}
		}

		canRetry := replayable && attempt < len(t.Backoffs)

		resp, err := t.Base.RoundTrip(req)
		if err != nil {
			if canRetry && ctx.Err() == nil {
				log.Printf("Catalog: %s %s failed (%v), retrying", req.Method, req.URL, err)
				continue
			}
			return nil, err
		}

		if canRetry && (resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests) {
			log.Printf("Catalog: %s %s answered %s, retrying", req.Method, req.URL, resp.Status)
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			_ = resp.Body.Close()
			continue
		}
		return resp, nil
	}
}

// NewStdClient builds the *http.Client used against the catalog
func NewStdClient(timeout time.Duration, retries int) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: NewRetryTransport(transport, DefaultBackoffs(retries)...),
	}
}
