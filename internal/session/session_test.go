package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chowgpt/chowgo/internal/domain"
	storeMemory "github.com/chowgpt/chowgo/internal/store/memory"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	st := storeMemory.NewStore(storeMemory.Config{SweepInterval: -1})
	t.Cleanup(st.Close)
	return NewManager(st, time.Hour, nil)
}

func TestTranscript_AbsentIsEmptySession(t *testing.T) {
	m := newTestManager(t)

	s, err := m.Transcript(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	if s.ID != "s1" || len(s.Messages) != 0 {
		t.Errorf("expected empty session for s1, got %+v", s)
	}
}

func TestAppendAndTranscript(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	err := m.Append(ctx, "s1",
		domain.Message{Role: domain.RoleUser, Content: "hi"},
		domain.Message{Role: domain.RoleAssistant, Content: "hello"},
	)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := m.Append(ctx, "s1", domain.Message{Role: domain.RoleUser, Content: "more"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	s, err := m.Transcript(ctx, "s1")
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	if len(s.Messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(s.Messages))
	}
	if s.Messages[0].Content != "hi" || s.Messages[2].Content != "more" {
		t.Errorf("message order broken: %+v", s.Messages)
	}
}

func TestAppend_SkipsStreamingMessages(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	err := m.Append(ctx, "s1",
		domain.Message{Role: domain.RoleUser, Content: "hi"},
		domain.Message{Role: domain.RoleAssistant, Content: "partial", Streaming: true},
	)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	s, _ := m.Transcript(ctx, "s1")
	if len(s.Messages) != 1 {
		t.Fatalf("streaming message persisted: %+v", s.Messages)
	}
}

func TestClear(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_ = m.Append(ctx, "s1", domain.Message{Role: domain.RoleUser, Content: "hi"})
	_ = m.SaveSearch(ctx, "s1", domain.ResultSet{Query: "q", Generation: m.NextGeneration()})

	if err := m.Clear(ctx, "s1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	s, _ := m.Transcript(ctx, "s1")
	if len(s.Messages) != 0 {
		t.Errorf("transcript survived Clear: %+v", s.Messages)
	}
	if _, err := m.LoadSearch(ctx, "s1"); !errors.Is(err, domain.ErrNoSearchState) {
		t.Errorf("search state survived Clear: %v", err)
	}
}

func TestLoadSearch_Missing(t *testing.T) {
	m := newTestManager(t)

	_, err := m.LoadSearch(context.Background(), "s1")
	if !errors.Is(err, domain.ErrNoSearchState) {
		t.Errorf("err = %v, want ErrNoSearchState", err)
	}
}

func TestSaveSearch_LastWriteWins(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	gen1 := m.NextGeneration()
	gen2 := m.NextGeneration()

	// The newer request resolves first.
	if err := m.SaveSearch(ctx, "s1", domain.ResultSet{Query: "new", Generation: gen2}); err != nil {
		t.Fatalf("SaveSearch gen2: %v", err)
	}

	// The older response arrives late and must not overwrite.
	err := m.SaveSearch(ctx, "s1", domain.ResultSet{Query: "old", Generation: gen1})
	if !errors.Is(err, domain.ErrStaleResponse) {
		t.Fatalf("err = %v, want ErrStaleResponse", err)
	}

	stored, err := m.LoadSearch(ctx, "s1")
	if err != nil {
		t.Fatalf("LoadSearch: %v", err)
	}
	if stored.Query != "new" {
		t.Errorf("stale response overwrote state: %q", stored.Query)
	}
}

func TestSaveSearch_SameGenerationOverwrites(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	gen := m.NextGeneration()
	_ = m.SaveSearch(ctx, "s1", domain.ResultSet{Query: "first", Generation: gen})
	if err := m.SaveSearch(ctx, "s1", domain.ResultSet{Query: "second", Generation: gen}); err != nil {
		t.Fatalf("SaveSearch same generation: %v", err)
	}

	stored, _ := m.LoadSearch(ctx, "s1")
	if stored.Query != "second" {
		t.Errorf("stored query = %q, want second", stored.Query)
	}
}

func TestNextGeneration_Monotonic(t *testing.T) {
	m := newTestManager(t)

	prev := m.NextGeneration()
	for i := 0; i < 100; i++ {
		next := m.NextGeneration()
		if next <= prev {
			t.Fatalf("generation went backwards: %d then %d", prev, next)
		}
		prev = next
	}
}

func TestCorruptTranscriptDiscarded(t *testing.T) {
	st := storeMemory.NewStore(storeMemory.Config{SweepInterval: -1})
	t.Cleanup(st.Close)
	m := NewManager(st, time.Hour, nil)
	ctx := context.Background()

	_ = st.Set(ctx, "chowgo:chat:s1", []byte("{not json"), time.Hour)

	s, err := m.Transcript(ctx, "s1")
	if err != nil {
		t.Fatalf("corrupt transcript should not error: %v", err)
	}
	if len(s.Messages) != 0 {
		t.Errorf("expected empty session, got %+v", s.Messages)
	}
}

func TestNewID_Unique(t *testing.T) {
	if NewID() == NewID() {
		t.Error("NewID returned duplicate identifiers")
	}
}
