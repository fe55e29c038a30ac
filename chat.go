package chowgo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chowgpt/chowgo/internal/domain"
	"github.com/chowgpt/chowgo/internal/session"
	"github.com/chowgpt/chowgo/internal/transport/stream"
)

// StreamHandler receives chat stream callbacks. Tokens arrive in order,
// always before the single terminal callback (OnComplete or OnError).
type StreamHandler struct {
	OnToken    func(token string)
	OnComplete func(msg ChatMessage)
	OnError    func(err error)
}

// ChatService runs chat turns against the client's session.
type ChatService struct {
	c *Client
}

// Chat returns the chat service for the client's session.
func (c *Client) Chat() *ChatService {
	return &ChatService{c: c}
}

// Send runs one synchronous chat turn and persists both sides of it in
// the session transcript.
func (s *ChatService) Send(ctx context.Context, text string) (msg ChatMessage, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("chat_send", start, err) }()

	resp, err := s.c.api.SendMessage(ctx, s.c.sessionID, text)
	if err != nil {
		return ChatMessage{}, fmt.Errorf("chat send: %w", err)
	}

	now := s.c.clock.Now()
	reply := domain.Message{Role: domain.RoleAssistant, Content: resp.Response, Timestamp: now}
	err = s.c.sessions.Append(ctx, s.c.sessionID,
		domain.Message{Role: domain.RoleUser, Content: text, Timestamp: now},
		reply,
	)
	if err != nil {
		return ChatMessage{}, fmt.Errorf("chat send: %w", err)
	}

	return ChatMessage{Role: RoleAssistant, Content: reply.Content, Timestamp: reply.Timestamp}, nil
}

// Stream runs one chat turn over the streaming endpoint, delivering
// content fragments through the handler as they arrive. The user message
// is persisted up front; the assistant message is persisted only once the
// stream completes, so an errored stream never leaves a half-formed
// assistant message in the transcript. At most one stream may be active
// per session; a second concurrent call fails with ErrStreamActive.
// Cancelling the context aborts the stream with no further callbacks.
func (s *ChatService) Stream(ctx context.Context, text string, h StreamHandler) (err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("chat_stream", start, err) }()

	userMsg := domain.Message{Role: domain.RoleUser, Content: text, Timestamp: s.c.clock.Now()}
	if err := s.c.sessions.Append(ctx, s.c.sessionID, userMsg); err != nil {
		return fmt.Errorf("chat stream: %w", err)
	}

	return s.c.streams.Stream(ctx, s.c.sessionID, text, stream.Handler{
		OnToken: h.OnToken,
		OnComplete: func(full string) {
			msg := domain.Message{
				Role:      domain.RoleAssistant,
				Content:   full,
				Timestamp: s.c.clock.Now(),
			}
			if perr := s.c.sessions.Append(ctx, s.c.sessionID, msg); perr != nil {
				s.c.logger.Warn("persist assistant message failed")
			}
			if h.OnComplete != nil {
				h.OnComplete(ChatMessage{
					Role:      RoleAssistant,
					Content:   msg.Content,
					Timestamp: msg.Timestamp,
				})
			}
		},
		OnError: h.OnError,
	})
}

// History returns the session transcript. It prefers the backend's copy
// and falls back to the locally persisted transcript when the backend is
// unreachable.
func (s *ChatService) History(ctx context.Context) (msgs []ChatMessage, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("chat_history", start, err) }()

	resp, err := s.c.api.History(ctx, s.c.sessionID)
	if err == nil {
		out := make([]ChatMessage, len(resp.Messages))
		for i, m := range resp.Messages {
			ts, _ := time.Parse(time.RFC3339, m.Timestamp)
			out[i] = ChatMessage{Role: Role(m.Role), Content: m.Content, Timestamp: ts}
		}
		return out, nil
	}
	if !errors.Is(err, domain.ErrNetwork) {
		return nil, fmt.Errorf("chat history: %w", err)
	}

	local, lerr := s.c.sessions.Transcript(ctx, s.c.sessionID)
	if lerr != nil {
		return nil, fmt.Errorf("chat history fallback: %w", lerr)
	}
	return messagesFromInternal(local.Messages), nil
}

// Reset deletes the backend session, purges local state, and mints a
// fresh session identifier. Local state is purged even when the backend
// call fails; the error is still reported.
func (s *ChatService) Reset(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("chat_reset", start, err) }()

	err = s.c.api.DeleteSession(ctx, s.c.sessionID)

	if cerr := s.c.sessions.Clear(ctx, s.c.sessionID); cerr != nil && err == nil {
		err = cerr
	}
	s.c.sessionID = session.NewID()

	if err != nil {
		return fmt.Errorf("chat reset: %w", err)
	}
	return nil
}
