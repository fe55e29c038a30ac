package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chowgpt/chowgo/internal/domain"
)

func openerFor(body string) OpenFunc {
	return func(context.Context, string, string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(body)), nil
	}
}

func TestStream_TokensThenComplete(t *testing.T) {
	body := `data: {"type":"start","sessionId":"s1"}` + "\n" +
		`data: {"type":"token","token":"The "}` + "\n" +
		`data: {"type":"token","token":"answer"}` + "\n" +
		`data: {"type":"complete","sessionId":"s1"}` + "\n"

	c := NewClient(openerFor(body), nil)

	var tokens []string
	var full string
	completes := 0

	err := c.Stream(context.Background(), "s1", "q", Handler{
		OnToken:    func(tok string) { tokens = append(tokens, tok) },
		OnComplete: func(f string) { full = f; completes++ },
		OnError:    func(err error) { t.Errorf("unexpected OnError: %v", err) },
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	if len(tokens) != 2 || tokens[0] != "The " || tokens[1] != "answer" {
		t.Errorf("tokens = %v", tokens)
	}
	if completes != 1 {
		t.Errorf("OnComplete fired %d times", completes)
	}
	// No response field on the complete event: the accumulator is the answer.
	if full != "The answer" {
		t.Errorf("full = %q, want %q", full, "The answer")
	}
}

func TestStream_CompleteResponseFieldWins(t *testing.T) {
	body := `data: {"type":"token","token":"partial"}` + "\n" +
		`data: {"type":"complete","response":"authoritative"}` + "\n"

	c := NewClient(openerFor(body), nil)

	var full string
	err := c.Stream(context.Background(), "s1", "q", Handler{
		OnComplete: func(f string) { full = f },
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if full != "authoritative" {
		t.Errorf("full = %q, want the response field", full)
	}
}

func TestStream_ErrorEvent(t *testing.T) {
	body := `data: {"type":"token","token":"a"}` + "\n" +
		`data: {"type":"error","message":"assistant exploded"}` + "\n"

	c := NewClient(openerFor(body), nil)

	errs := 0
	var streamErr error
	err := c.Stream(context.Background(), "s1", "q", Handler{
		OnComplete: func(string) { t.Error("OnComplete after error event") },
		OnError:    func(err error) { errs++; streamErr = err },
	})

	if err == nil || !errors.Is(err, domain.ErrStream) {
		t.Fatalf("err = %v, want ErrStream", err)
	}
	if errs != 1 {
		t.Errorf("OnError fired %d times", errs)
	}
	if streamErr == nil || !strings.Contains(streamErr.Error(), "assistant exploded") {
		t.Errorf("callback error = %v", streamErr)
	}
}

func TestStream_EOFWithoutTerminal(t *testing.T) {
	body := `data: {"type":"token","token":"a"}` + "\n"

	c := NewClient(openerFor(body), nil)

	errs := 0
	err := c.Stream(context.Background(), "s1", "q", Handler{
		OnError: func(error) { errs++ },
	})

	if !errors.Is(err, domain.ErrStream) {
		t.Fatalf("err = %v, want ErrStream", err)
	}
	if errs != 1 {
		t.Errorf("OnError fired %d times", errs)
	}
}

func TestStream_OpenFailure(t *testing.T) {
	c := NewClient(func(context.Context, string, string) (io.ReadCloser, error) {
		return nil, fmt.Errorf("dial: %w", domain.ErrNetwork)
	}, nil)

	err := c.Stream(context.Background(), "s1", "q", Handler{})
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
	// The failed session must be reusable.
	if got := c.State("s1"); got != StateIdle {
		t.Errorf("state after failure = %v, want idle", got)
	}
}

func TestStream_AbortSuppressesCallbacks(t *testing.T) {
	body := `data: {"type":"token","token":"one"}` + "\n" +
		`data: {"type":"token","token":"two"}` + "\n" +
		`data: {"type":"complete","response":"one two"}` + "\n"

	c := NewClient(openerFor(body), nil)
	ctx, cancel := context.WithCancel(context.Background())

	var tokens []string
	err := c.Stream(ctx, "s1", "q", Handler{
		OnToken: func(tok string) {
			tokens = append(tokens, tok)
			// Cancel mid-stream: nothing may be delivered after this.
			cancel()
		},
		OnComplete: func(string) { t.Error("OnComplete after abort") },
		OnError:    func(error) { t.Error("OnError after abort") },
	})

	if !errors.Is(err, domain.ErrStreamAborted) {
		t.Fatalf("err = %v, want ErrStreamAborted", err)
	}
	if len(tokens) != 1 {
		t.Errorf("tokens after abort = %v", tokens)
	}
}

func TestStream_SingleFlightPerSession(t *testing.T) {
	release := make(chan struct{})
	c := NewClient(func(ctx context.Context, _, _ string) (io.ReadCloser, error) {
		<-release
		return io.NopCloser(strings.NewReader(
			`data: {"type":"complete","response":"done"}` + "\n",
		)), nil
	}, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := c.Stream(context.Background(), "s1", "first", Handler{}); err != nil {
			t.Errorf("first stream: %v", err)
		}
	}()

	// Wait until the first stream holds the session.
	deadline := time.Now().Add(time.Second)
	for c.State("s1") == StateIdle {
		if time.Now().After(deadline) {
			t.Fatal("first stream never started")
		}
		time.Sleep(time.Millisecond)
	}

	errs := 0
	err := c.Stream(context.Background(), "s1", "second", Handler{
		OnError: func(error) { errs++ },
	})
	if !errors.Is(err, domain.ErrStreamActive) {
		t.Fatalf("second stream err = %v, want ErrStreamActive", err)
	}
	if errs != 1 {
		t.Errorf("OnError fired %d times for rejected stream", errs)
	}

	close(release)
	wg.Wait()

	// Session is reusable once the first stream finished.
	if err := c.Stream(context.Background(), "s1", "third", Handler{}); err != nil {
		t.Errorf("third stream after completion: %v", err)
	}
}

func TestStream_DifferentSessionsConcurrently(t *testing.T) {
	release := make(chan struct{})
	c := NewClient(func(ctx context.Context, _, _ string) (io.ReadCloser, error) {
		<-release
		return io.NopCloser(strings.NewReader(
			`data: {"type":"complete","response":"done"}` + "\n",
		)), nil
	}, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = c.Stream(context.Background(), "s1", "q", Handler{})
	}()

	deadline := time.Now().Add(time.Second)
	for c.State("s1") == StateIdle {
		if time.Now().After(deadline) {
			t.Fatal("first stream never started")
		}
		time.Sleep(time.Millisecond)
	}

	done := make(chan error, 1)
	go func() { done <- c.Stream(context.Background(), "s2", "q", Handler{}) }()

	close(release)
	if err := <-done; err != nil {
		t.Errorf("second session blocked by first: %v", err)
	}
	wg.Wait()
}
