package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/chowgpt/chowgo/internal/domain"
	"github.com/chowgpt/chowgo/internal/metrics"
)

// State of one session's stream lifecycle.
type State int

// Stream states. Completed and Failed are transient: the session returns
// to Idle before Stream returns to its caller.
const (
	StateIdle State = iota
	StateConnecting
	StateStreaming
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// OpenFunc opens the persistent-connection request carrying the message
// and session identifier, returning the raw stream body.
type OpenFunc func(ctx context.Context, sessionID, message string) (io.ReadCloser, error)

// Handler receives stream callbacks. Tokens arrive in order, each before
// the single terminal callback. After OnComplete or OnError, nothing else
// fires for that stream. Nil callbacks are simply not invoked.
type Handler struct {
	OnToken    func(token string)
	OnComplete func(full string)
	OnError    func(err error)
}

// Client runs chat streams with at most one active stream per session.
// Different sessions may stream concurrently.
type Client struct {
	open   OpenFunc
	logger *zap.Logger

	mu     sync.Mutex
	states map[string]State
}

// NewClient creates a streaming client over the given opener.
func NewClient(open OpenFunc, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		open:   open,
		logger: logger,
		states: make(map[string]State),
	}
}

// State reports the current stream state for a session.
func (c *Client) State(sessionID string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[sessionID]
}

// Stream sends a message and delivers the resulting event stream through
// the handler, blocking until the stream terminates. Exactly one terminal
// callback fires per invocation, unless the context is cancelled first:
// an abort guarantees no further callbacks of any kind, and Stream returns
// domain.ErrStreamAborted. The returned error mirrors the terminal
// outcome (nil after OnComplete). No automatic retry is performed.
func (c *Client) Stream(ctx context.Context, sessionID, message string, h Handler) error {
	if !c.begin(sessionID) {
		err := fmt.Errorf("session %s: %w", sessionID, domain.ErrStreamActive)
		if h.OnError != nil {
			h.OnError(err)
		}
		metrics.StreamsTotal.WithLabelValues("failed").Inc()
		return err
	}

	outcome, err := c.run(ctx, sessionID, message, h)
	c.finish(sessionID)
	metrics.StreamsTotal.WithLabelValues(outcome).Inc()
	return err
}

// run drives one stream from Connecting to a terminal state. It returns
// the outcome label for metrics along with the terminal error.
func (c *Client) run(ctx context.Context, sessionID, message string, h Handler) (string, error) {
	body, err := c.open(ctx, sessionID, message)
	if err != nil {
		if ctx.Err() != nil {
			return "aborted", domain.ErrStreamAborted
		}
		c.fail(sessionID, h, fmt.Errorf("open stream: %w", err))
		return "failed", err
	}
	defer body.Close()

	dec := NewDecoder(body)
	var acc strings.Builder

	for {
		ev, err := dec.Next()
		if ctx.Err() != nil {
			// Aborted: nothing more may reach the handler, terminal included.
			return "aborted", domain.ErrStreamAborted
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = fmt.Errorf("stream ended without terminal event: %w", domain.ErrStream)
			} else {
				err = fmt.Errorf("read stream: %w: %w", err, domain.ErrStream)
			}
			c.fail(sessionID, h, err)
			return "failed", err
		}

		c.transition(sessionID, StateStreaming)
		metrics.StreamEventsTotal.WithLabelValues(string(ev.Type)).Inc()

		switch ev.Type {
		case EventStart:
			// Session acknowledged; nothing delivered to the caller.
		case EventToken:
			acc.WriteString(ev.Token)
			if h.OnToken != nil {
				h.OnToken(ev.Token)
			}
		case EventComplete:
			final := ev.Response
			if final == "" {
				final = acc.String()
			}
			c.transition(sessionID, StateCompleted)
			if h.OnComplete != nil {
				h.OnComplete(final)
			}
			return "completed", nil
		case EventError:
			msg := ev.Message
			if msg == "" {
				msg = "assistant error"
			}
			err := fmt.Errorf("%s: %w", msg, domain.ErrStream)
			c.fail(sessionID, h, err)
			return "failed", err
		}
	}
}

// begin moves a session from Idle to Connecting, rejecting if a stream is
// already in flight for it.
func (c *Client) begin(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s := c.states[sessionID]; s == StateConnecting || s == StateStreaming {
		return false
	}
	c.states[sessionID] = StateConnecting
	return true
}

func (c *Client) transition(sessionID string, next State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[sessionID] = next
}

func (c *Client) finish(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, sessionID)
}

// fail marks the session Failed and delivers the single error callback.
func (c *Client) fail(sessionID string, h Handler, err error) {
	c.transition(sessionID, StateFailed)
	c.logger.Debug("stream failed",
		zap.String("session_id", sessionID), zap.Error(err))
	if h.OnError != nil {
		h.OnError(err)
	}
}
