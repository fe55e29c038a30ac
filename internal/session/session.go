// Package session owns all persisted client state: chat transcripts and
// the last resolved search per session. It is the only writer of the
// underlying store; other components never cache copies that could drift.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chowgpt/chowgo/internal/domain"
	"github.com/chowgpt/chowgo/internal/store"
)

// DefaultTTL bounds how long session state outlives its last write.
const DefaultTTL = 6 * time.Hour

const (
	transcriptKeyPrefix = "chowgo:chat:"
	searchKeyPrefix     = "chowgo:search:"
)

// NewID mints a session identifier. Generated once per client instance
// and regenerated on reset; unrelated to user identity.
func NewID() string {
	return uuid.NewString()
}

// Manager persists transcripts and search state with a TTL.
type Manager struct {
	store  store.Store
	ttl    time.Duration
	logger *zap.Logger
	gen    atomic.Uint64
}

// NewManager creates a session manager. A non-positive ttl falls back to
// DefaultTTL; a nil logger disables logging.
func NewManager(s store.Store, ttl time.Duration, logger *zap.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: s, ttl: ttl, logger: logger}
}

// Transcript loads the chat transcript for a session. An absent or
// expired transcript yields an empty session, not an error.
func (m *Manager) Transcript(ctx context.Context, sessionID string) (domain.Session, error) {
	data, err := m.store.Get(ctx, transcriptKeyPrefix+sessionID)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return domain.Session{ID: sessionID}, nil
		}
		return domain.Session{}, fmt.Errorf("load transcript: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		// A corrupt transcript is dropped rather than poisoning the session.
		m.logger.Warn("corrupt transcript discarded",
			zap.String("session_id", sessionID), zap.Error(err))
		return domain.Session{ID: sessionID}, nil
	}
	s.ID = sessionID
	return s, nil
}

// Append loads the transcript, appends the given messages, and writes it
// back, refreshing the TTL. Messages still marked streaming are skipped:
// a half-formed assistant message must never be persisted.
func (m *Manager) Append(ctx context.Context, sessionID string, msgs ...domain.Message) error {
	s, err := m.Transcript(ctx, sessionID)
	if err != nil {
		return err
	}
	for _, msg := range msgs {
		if msg.Streaming {
			continue
		}
		s.Messages = append(s.Messages, msg)
	}
	return m.save(ctx, transcriptKeyPrefix+sessionID, s)
}

// Clear removes the transcript and search state for a session.
func (m *Manager) Clear(ctx context.Context, sessionID string) error {
	if err := m.store.Delete(ctx, transcriptKeyPrefix+sessionID); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	if err := m.store.Delete(ctx, searchKeyPrefix+sessionID); err != nil {
		return fmt.Errorf("clear search state: %w", err)
	}
	return nil
}

// NextGeneration hands out the sequence number a new search request must
// carry. Responses resolving out of order are rejected by SaveSearch.
func (m *Manager) NextGeneration() uint64 {
	return m.gen.Add(1)
}

// SaveSearch persists a resolved search, enforcing last-write-wins: a
// response older than the one already stored is rejected with
// domain.ErrStaleResponse and does not overwrite state.
func (m *Manager) SaveSearch(ctx context.Context, sessionID string, rs domain.ResultSet) error {
	current, err := m.LoadSearch(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrNoSearchState) {
		return err
	}
	if err == nil && current.Generation > rs.Generation {
		return fmt.Errorf("generation %d behind %d: %w",
			rs.Generation, current.Generation, domain.ErrStaleResponse)
	}
	return m.save(ctx, searchKeyPrefix+sessionID, rs)
}

// LoadSearch returns the last stored search for a session, or
// domain.ErrNoSearchState.
func (m *Manager) LoadSearch(ctx context.Context, sessionID string) (domain.ResultSet, error) {
	data, err := m.store.Get(ctx, searchKeyPrefix+sessionID)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return domain.ResultSet{}, domain.ErrNoSearchState
		}
		return domain.ResultSet{}, fmt.Errorf("load search state: %w", err)
	}

	var rs domain.ResultSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return domain.ResultSet{}, fmt.Errorf("decode search state: %w", err)
	}
	return rs, nil
}

func (m *Manager) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := m.store.Set(ctx, key, data, m.ttl); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
