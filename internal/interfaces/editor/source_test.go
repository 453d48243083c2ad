package editor

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DeepBDE-Console/internal/testutil"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

// fakeConn answers every written request with the responses built by respond.
type fakeConn struct {
	respond  func(Request) []Response
	requests []Request
	pending  []Response
	readErr  error
	deadline time.Time
	closed   bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	req := v.(Request)
	c.requests = append(c.requests, req)
	c.pending = append(c.pending, c.respond(req)...)
	return nil
}

func (c *fakeConn) ReadJSON(v interface{}) error {
	if c.readErr != nil {
		return c.readErr
	}
	if len(c.pending) == 0 {
		return stderrors.New("i/o timeout")
	}
	next := c.pending[0]
	c.pending = c.pending[1:]
	raw, _ := json.Marshal(next)
	return json.Unmarshal(raw, v)
}

func (c *fakeConn) SetReadDeadline(t time.Time) error {
	c.deadline = t
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func TestDirectSource(t *testing.T) {
	ctx := context.Background()
	src := NewDirectSource(GetterFunc(func() (string, error) { return "  CCO\n", nil }))

	assert.True(t, src.Available(ctx))
	d, err := src.Descriptor(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CCO", d)
	assert.Equal(t, "direct", src.Name())
}

func TestDirectSource_Failures(t *testing.T) {
	ctx := context.Background()

	_, err := NewDirectSource(GetterFunc(func() (string, error) { return "", stderrors.New("frame detached") })).Descriptor(ctx)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEditorUnavailable))

	_, err = NewDirectSource(GetterFunc(func() (string, error) { return " ", nil })).Descriptor(ctx)
	assert.ErrorIs(t, err, ErrEmptyDescriptor)

	detached := NewDirectSource(nil)
	assert.False(t, detached.Available(ctx))
	_, err = detached.Descriptor(ctx)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEditorUnavailable))
}

func TestMessageSource_SkipsUnrelatedResponses(t *testing.T) {
	conn := &fakeConn{respond: func(req Request) []Response {
		return []Response{
			{ID: "stale", Result: json.RawMessage(`"CC"`)},
			{ID: req.ID, Result: json.RawMessage(`"c1ccccc1"`)},
		}
	}}
	logger := testutil.NewMockLogger()
	src := NewMessageSource(conn, time.Second, logger)

	d, err := src.Descriptor(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "c1ccccc1", d)

	require.Len(t, conn.requests, 1)
	assert.Equal(t, MethodGetDescriptor, conn.requests[0].Method)
	assert.Len(t, conn.requests[0].ID, 36)
	assert.True(t, logger.HasMessage("debug", "skipping unrelated editor message"))
	assert.False(t, conn.deadline.IsZero())
}

func TestMessageSource_FreshIDPerCall(t *testing.T) {
	conn := &fakeConn{respond: func(req Request) []Response {
		return []Response{{ID: req.ID, Result: json.RawMessage(`"pong"`)}}
	}}
	src := NewMessageSource(conn, 0, nil)

	assert.True(t, src.Available(context.Background()))
	assert.True(t, src.Available(context.Background()))
	require.Len(t, conn.requests, 2)
	assert.NotEqual(t, conn.requests[0].ID, conn.requests[1].ID)
	assert.Equal(t, MethodPing, conn.requests[0].Method)
}

func TestMessageSource_Errors(t *testing.T) {
	ctx := context.Background()

	remoteErr := NewMessageSource(&fakeConn{respond: func(req Request) []Response {
		return []Response{{ID: req.ID, Error: "editor not initialised"}}
	}}, time.Second, nil)
	_, err := remoteErr.Descriptor(ctx)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEditorUnavailable))

	notString := NewMessageSource(&fakeConn{respond: func(req Request) []Response {
		return []Response{{ID: req.ID, Result: json.RawMessage(`{"smiles":"CCO"}`)}}
	}}, time.Second, nil)
	_, err = notString.Descriptor(ctx)
	assert.True(t, errors.IsDecoding(err))

	silent := &fakeConn{readErr: stderrors.New("i/o timeout"), respond: func(Request) []Response { return nil }}
	src := NewMessageSource(silent, time.Second, nil)
	assert.False(t, src.Available(ctx))
	_, err = src.Descriptor(ctx)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEditorUnavailable))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = src.Descriptor(cancelled)
	assert.ErrorIs(t, err, context.Canceled)

	require.NoError(t, src.Close())
	assert.True(t, silent.closed)
}

func TestMessageSource_ContextDeadlineTightensTimeout(t *testing.T) {
	conn := &fakeConn{respond: func(req Request) []Response {
		return []Response{{ID: req.ID, Result: json.RawMessage(`"pong"`)}}
	}}
	src := NewMessageSource(conn, time.Hour, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	require.True(t, src.Available(ctx))

	d, _ := ctx.Deadline()
	assert.Equal(t, d, conn.deadline)
}

func TestProbe(t *testing.T) {
	ctx := context.Background()
	answering := NewMessageSource(&fakeConn{respond: func(req Request) []Response {
		return []Response{{ID: req.ID, Result: json.RawMessage(`"pong"`)}}
	}}, time.Second, nil)
	var missing *MessageSource

	got, err := Probe(ctx, NewDirectSource(nil), missing, answering)
	require.NoError(t, err)
	assert.Same(t, answering, got)

	direct := NewDirectSource(GetterFunc(func() (string, error) { return "CCO", nil }))
	got, err = Probe(ctx, direct, answering)
	require.NoError(t, err)
	assert.Equal(t, "direct", got.Name())

	_, err = Probe(ctx, NewDirectSource(nil))
	assert.ErrorIs(t, err, ErrNoSource)
	_, err = Probe(ctx)
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestHandler_RoundTrip(t *testing.T) {
	var current atomic.Value
	current.Store("CCO")
	srv := httptest.NewServer(Handler(GetterFunc(func() (string, error) { return current.Load().(string), nil }), nil))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	ctx := context.Background()
	src, err := Dial(ctx, wsURL, time.Second, nil)
	require.NoError(t, err)
	defer src.Close()

	got, err := Probe(ctx, NewDirectSource(nil), src)
	require.NoError(t, err)

	d, err := got.Descriptor(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CCO", d)

	current.Store("")
	_, err = got.Descriptor(ctx)
	assert.ErrorIs(t, err, ErrEmptyDescriptor)
}

func TestHandler_UnknownMethodAndDetachedEditor(t *testing.T) {
	assert.Equal(t, "unknown method: rotate", answer(nil, Request{ID: "1", Method: "rotate"}).Error)
	assert.NotEmpty(t, answer(nil, Request{ID: "2", Method: MethodGetDescriptor}).Error)

	failing := GetterFunc(func() (string, error) { return "", stderrors.New("no canvas") })
	resp := answer(failing, Request{ID: "3", Method: MethodGetDescriptor})
	assert.Equal(t, "3", resp.ID)
	assert.Equal(t, "no canvas", resp.Error)
}

func TestDial_Unreachable(t *testing.T) {
	_, err := Dial(context.Background(), "ws://127.0.0.1:1/editor", time.Second, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEditorUnavailable))
}

//Personal.AI order the ending
