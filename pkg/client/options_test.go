package client

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptions_TransportAndLogger(t *testing.T) {
	hc := &http.Client{Timeout: time.Minute}
	logger := &recordingLogger{}
	c := &Client{}

	WithHTTPClient(hc)(c)
	WithLogger(logger)(c)

	assert.Same(t, hc, c.httpClient)
	assert.Same(t, logger, c.logger)
}

func TestWithRetryMax(t *testing.T) {
	for in, want := range map[int]int{5: 5, 0: 0, -1: 3} {
		c := &Client{retryMax: 3}
		WithRetryMax(in)(c)
		assert.Equal(t, want, c.retryMax, "input %d", in)
	}
}

func TestWithRetryWait(t *testing.T) {
	tests := []struct {
		name             string
		min, max         time.Duration
		wantMin, wantMax time.Duration
	}{
		{"window", time.Second, 5 * time.Second, time.Second, 5 * time.Second},
		{"fixed", 2 * time.Second, 2 * time.Second, 2 * time.Second, 2 * time.Second},
		{"zero min ignored", 0, 5 * time.Second, 0, 0},
		{"inverted max ignored", 5 * time.Second, 2 * time.Second, 5 * time.Second, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{}
			WithRetryWait(tt.min, tt.max)(c)
			assert.Equal(t, tt.wantMin, c.retryWaitMin)
			assert.Equal(t, tt.wantMax, c.retryWaitMax)
		})
	}
}

func TestWithTimeout_CopiesTransport(t *testing.T) {
	shared := &http.Client{Timeout: 30 * time.Second}
	c := &Client{httpClient: shared}

	WithTimeout(5 * time.Second)(c)
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
	assert.Equal(t, 30*time.Second, shared.Timeout)

	WithTimeout(0)(c)
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
}

func TestWithUserAgent(t *testing.T) {
	c := &Client{userAgent: "default"}

	WithUserAgent("")(c)
	assert.Equal(t, "default", c.userAgent)

	WithUserAgent("bdectl/1.0")(c)
	assert.Equal(t, "bdectl/1.0", c.userAgent)
}

//Personal.AI order the ending
