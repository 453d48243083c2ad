// Package client is the Go SDK for the DeepBDE prediction service. Calls are
// JSON over HTTP, answers arrive in a {"data": ...} envelope, and transient
// failures are retried with jittered exponential backoff.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

const Version = "0.1.0"

const (
	defaultTimeout  = 30 * time.Second
	defaultRetryMax = 3
	defaultWaitMin  = 500 * time.Millisecond
	defaultWaitMax  = 5 * time.Second
)

// ErrInvalidConfig rejects an unusable base URL.
var ErrInvalidConfig = errors.New(errors.ErrCodeConfig, "invalid client configuration")

// Logger receives request diagnostics. Any printf-style logger fits.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type silent struct{}

func (silent) Debugf(string, ...interface{}) {}
func (silent) Infof(string, ...interface{})  {}
func (silent) Errorf(string, ...interface{}) {}

// Client is safe for concurrent use.
type Client struct {
	baseURL      string
	apiKey       string
	userAgent    string
	httpClient   *http.Client
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration

	predictions     *PredictionsClient
	predictionsOnce sync.Once
}

// APIResponse is the service envelope. A nil Data means no payload.
type APIResponse[T any] struct {
	Data    *T     `json:"data"`
	Message string `json:"message,omitempty"`
}

// NewClient targets baseURL, which must be absolute http(s). An empty apiKey
// sends no Authorization header.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	switch {
	case baseURL == "":
		return nil, fmt.Errorf("%w: empty base URL", ErrInvalidConfig)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	case u.Scheme != "http" && u.Scheme != "https":
		return nil, fmt.Errorf("%w: base URL scheme must be http or https", ErrInvalidConfig)
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiKey:       apiKey,
		userAgent:    "deepbde-go-sdk/" + Version,
		httpClient:   &http.Client{Timeout: defaultTimeout},
		logger:       silent{},
		retryMax:     defaultRetryMax,
		retryWaitMin: defaultWaitMin,
		retryWaitMax: defaultWaitMax,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// Predictions returns the shared endpoint client.
func (c *Client) Predictions() *PredictionsClient {
	c.predictionsOnce.Do(func() { c.predictions = &PredictionsClient{client: c} })
	return c.predictions
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// outcome of a single attempt. retryAfter > 0 asks for that exact pause.
type outcome struct {
	err        error
	retry      bool
	retryAfter time.Duration
}

// do sends the request until it succeeds, fails for good, or retries run
// out. Network and HTTP failures come back as transport errors, unreadable
// bodies as decoding errors.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode request").WithDetail(path)
		}
	}

	var last outcome
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			wait := last.retryAfter
			if wait == 0 {
				wait = c.calculateBackoff(attempt)
			}
			c.logger.Debugf("retry %d of %d for %s in %v", attempt, c.retryMax, path, wait)
			if err := sleep(ctx, wait); err != nil {
				return errors.Transport(err, "request cancelled").WithDetail(path)
			}
		}

		last = c.attempt(ctx, method, path, payload, out)
		if last.err == nil || !last.retry || ctx.Err() != nil {
			return last.err
		}
	}
	return last.err
}

func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, out interface{}) outcome {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return outcome{err: errors.Transport(err, "failed to build request").WithDetail(path)}
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Errorf("%s %s failed: %v", method, path, err)
		return outcome{err: errors.Transport(err, "request failed").WithDetail(path), retry: true}
	}
	defer resp.Body.Close()
	c.logger.Debugf("%s %s %d (%v)", method, path, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return outcome{err: errors.Transport(err, "failed to read response").WithDetail(path)}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		o := outcome{
			err:   errors.Transport(parseAPIError(resp.StatusCode, requestID, raw), "prediction service returned an error").WithDetail(path),
			retry: resp.StatusCode >= http.StatusInternalServerError,
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			if secs, convErr := strconv.Atoi(resp.Header.Get("Retry-After")); convErr == nil && secs > 0 {
				c.logger.Infof("rate limited on %s, retrying in %ds", path, secs)
				o.retry, o.retryAfter = true, time.Duration(secs)*time.Second
			}
		}
		return o
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return outcome{err: errors.Decoding(err, "failed to decode response").WithDetail(path)}
		}
	}
	return outcome{}
}

// calculateBackoff doubles retryWaitMin per attempt up to retryWaitMax and
// adds up to 25% jitter.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	d := c.retryWaitMax
	if shift := attempt - 1; shift < 30 {
		if exp := c.retryWaitMin << uint(shift); exp < d {
			d = exp
		}
	}
	if q := int64(d / 4); q > 0 {
		d += time.Duration(rand.Int63n(q))
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// unwrapData rejects an envelope without a payload.
func unwrapData[T any](resp *APIResponse[T], op string) (*T, error) {
	if resp.Data == nil {
		return nil, errors.New(errors.ErrCodeEmptyPayload, "prediction service returned no data").WithDetail(op)
	}
	return resp.Data, nil
}

//Personal.AI order the ending
