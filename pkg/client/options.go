package client

import (
	"net/http"
	"time"
)

// Option adjusts a Client during NewClient.  Out-of-range values leave the
// default in place.
type Option func(*Client)

// WithHTTPClient replaces the transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger routes request diagnostics to l.
func WithLogger(l Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRetryMax bounds the retries after the first attempt.  Zero disables
// retrying.
func WithRetryMax(n int) Option {
	return func(c *Client) {
		if n < 0 {
			return
		}
		c.retryMax = n
	}
}

// WithRetryWait sets the backoff window.  max is ignored unless it is at
// least min.
func WithRetryWait(min, max time.Duration) Option {
	return func(c *Client) {
		if min <= 0 {
			return
		}
		c.retryWaitMin = min
		if max >= min {
			c.retryWaitMax = max
		}
	}
}

// WithTimeout sets the per-request timeout on a copy of the transport
// client, so a caller-supplied client is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

//Personal.AI order the ending
