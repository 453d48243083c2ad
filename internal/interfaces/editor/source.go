// Package editor obtains the descriptor currently drawn in the structure
// editor.  The editor is reached either in-process or over a JSON
// request/response protocol; Probe picks whichever answers.
package editor

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

// Protocol methods.
const (
	MethodPing          = "ping"
	MethodGetDescriptor = "getDescriptor"
)

// DefaultTimeout bounds one request/response exchange.
const DefaultTimeout = 5 * time.Second

var (
	ErrNoSource         = errors.New(errors.ErrCodeEditorUnavailable, "no structure editor available")
	ErrEmptyDescriptor  = errors.New(errors.ErrCodeValidation, "the editor holds no structure")
	errSourceNotPresent = errors.New(errors.ErrCodeEditorUnavailable, "editor is not attached")
)

// Source yields the editor's current descriptor.
type Source interface {
	Name() string
	Available(ctx context.Context) bool
	Descriptor(ctx context.Context) (string, error)
}

// Getter is the in-process editor surface.
type Getter interface {
	GetDescriptor() (string, error)
}

// GetterFunc adapts a function to Getter.
type GetterFunc func() (string, error)

func (f GetterFunc) GetDescriptor() (string, error) { return f() }

// DirectSource calls an in-process Getter.
type DirectSource struct {
	getter Getter
}

func NewDirectSource(g Getter) *DirectSource {
	return &DirectSource{getter: g}
}

func (s *DirectSource) Name() string { return "direct" }

func (s *DirectSource) Available(context.Context) bool {
	return s != nil && s.getter != nil
}

func (s *DirectSource) Descriptor(ctx context.Context) (string, error) {
	if !s.Available(ctx) {
		return "", errSourceNotPresent
	}
	d, err := s.getter.GetDescriptor()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeEditorUnavailable, "editor call failed")
	}
	return checkDescriptor(d)
}

// Request is one protocol message sent to the editor.
type Request struct {
	ID      string          `json:"id"`
	Method  string          `json:"method"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response answers the Request with the same ID.
type Response struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Conn is a JSON message connection.  *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	ReadJSON(v interface{}) error
	SetReadDeadline(t time.Time) error
	Close() error
}

// MessageSource talks to a remote editor over Conn.  Exchanges are
// serialized; responses carrying another id are discarded.
type MessageSource struct {
	conn    Conn
	timeout time.Duration
	logger  logging.Logger
	mu      sync.Mutex
}

func NewMessageSource(conn Conn, timeout time.Duration, log logging.Logger) *MessageSource {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &MessageSource{conn: conn, timeout: timeout, logger: log.Named("editor")}
}

// Dial opens a websocket to url and wraps it.
func Dial(ctx context.Context, url string, timeout time.Duration, log logging.Logger) (*MessageSource, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEditorUnavailable, "failed to connect to editor").WithDetail(url)
	}
	return NewMessageSource(conn, timeout, log), nil
}

func (s *MessageSource) Name() string { return "message" }

// Available pings the editor.
func (s *MessageSource) Available(ctx context.Context) bool {
	if s == nil || s.conn == nil {
		return false
	}
	_, err := s.call(ctx, MethodPing, nil)
	return err == nil
}

func (s *MessageSource) Descriptor(ctx context.Context) (string, error) {
	if s == nil || s.conn == nil {
		return "", errSourceNotPresent
	}
	raw, err := s.call(ctx, MethodGetDescriptor, nil)
	if err != nil {
		return "", err
	}
	var d string
	if err := json.Unmarshal(raw, &d); err != nil {
		return "", errors.Decoding(err, "editor returned a non-string descriptor")
	}
	return checkDescriptor(d)
}

func (s *MessageSource) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *MessageSource) call(ctx context.Context, method string, payload json.RawMessage) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEditorUnavailable, "editor call cancelled")
	}
	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEditorUnavailable, "editor connection unusable")
	}

	req := Request{ID: uuid.NewString(), Method: method, Payload: payload}
	if err := s.conn.WriteJSON(req); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEditorUnavailable, "failed to send editor request").WithDetail(method)
	}

	for {
		var resp Response
		if err := s.conn.ReadJSON(&resp); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeEditorUnavailable, "no editor response").WithDetail(method)
		}
		if resp.ID != req.ID {
			s.logger.Debug("skipping unrelated editor message", logging.String("id", resp.ID))
			continue
		}
		if resp.Error != "" {
			return nil, errors.New(errors.ErrCodeEditorUnavailable, "editor reported an error").WithDetail(resp.Error)
		}
		return resp.Result, nil
	}
}

func checkDescriptor(d string) (string, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return "", ErrEmptyDescriptor
	}
	return d, nil
}

// Probe returns the first candidate that is available.
func Probe(ctx context.Context, candidates ...Source) (Source, error) {
	for _, c := range candidates {
		if c == nil || isNilSource(c) {
			continue
		}
		if c.Available(ctx) {
			return c, nil
		}
	}
	return nil, ErrNoSource
}

func isNilSource(s Source) bool {
	switch v := s.(type) {
	case *DirectSource:
		return v == nil
	case *MessageSource:
		return v == nil
	}
	return false
}

//Personal.AI order the ending
