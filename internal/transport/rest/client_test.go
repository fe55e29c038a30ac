package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chowgpt/chowgo/internal/domain"
)

func TestSearch_EnvelopeUnwrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search/restaurants" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Query != "seafood" {
			t.Errorf("query = %q", req.Query)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"restaurants": []map[string]any{{"id": "1", "title": "Harbour House"}},
				"searchMetadata": map[string]any{
					"originalQuery": "seafood",
					"searchSteps":   []string{"ranked"},
				},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	data, err := c.Search(context.Background(), SearchRequest{Query: "seafood"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(data.Restaurants) != 1 || data.Restaurants[0]["title"] != "Harbour House" {
		t.Errorf("restaurants = %v", data.Restaurants)
	}
	if data.SearchMetadata.OriginalQuery != "seafood" {
		t.Errorf("metadata = %+v", data.SearchMetadata)
	}
}

func TestSearch_BackendFailureEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "pipeline exploded",
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	_, err := c.Search(context.Background(), SearchRequest{Query: "q"})
	if !errors.Is(err, domain.ErrProtocol) {
		t.Fatalf("err = %v, want ErrProtocol", err)
	}
}

func TestDo_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrAuth},
		{http.StatusForbidden, domain.ErrAuth},
		{http.StatusNotFound, domain.ErrProtocol},
		{http.StatusInternalServerError, domain.ErrProtocol},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		}))

		c := NewClient(Config{BaseURL: srv.URL})
		_, err := c.Search(context.Background(), SearchRequest{Query: "q"})
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: err = %v, want %v", tt.status, err, tt.want)
		}

		srv.Close()
	}
}

func TestDo_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(Config{BaseURL: srv.URL})

	_, err := c.Search(context.Background(), SearchRequest{Query: "q"})
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
}

func TestDo_BearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]any{}})
	}))
	defer srv.Close()

	c := NewClient(Config{
		BaseURL: srv.URL,
		Token:   func() string { return "secret" },
	})

	if _, err := c.Search(context.Background(), SearchRequest{Query: "q"}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestSendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/message" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["sessionId"] != "s1" || body["message"] != "hi" {
			t.Errorf("body = %v", body)
		}
		_ = json.NewEncoder(w).Encode(MessageResponse{
			Response:  "hello",
			SessionID: "s1",
			Timestamp: "2026-03-14T12:00:00Z",
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	resp, err := c.SendMessage(context.Background(), "s1", "hi")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if resp.Response != "hello" {
		t.Errorf("response = %q", resp.Response)
	}
}

func TestOpenStream_ReturnsRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/stream" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: {\"type\":\"complete\",\"response\":\"x\"}\n")
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	body, err := c.OpenStream(context.Background(), "s1", "hi")
	if err != nil {
		t.Fatalf("OpenStream: %v", err)
	}
	defer body.Close()

	raw, _ := io.ReadAll(body)
	if string(raw) != "data: {\"type\":\"complete\",\"response\":\"x\"}\n" {
		t.Errorf("body = %q", raw)
	}
}

func TestHistoryAndDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/chat/history/s1":
			_ = json.NewEncoder(w).Encode(HistoryResponse{
				Messages:  []HistoryMessage{{Role: "user", Content: "hi"}},
				SessionID: "s1",
			})
		case r.Method == http.MethodDelete && r.URL.Path == "/chat/session/s1":
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	hist, err := c.History(context.Background(), "s1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist.Messages) != 1 || hist.Messages[0].Content != "hi" {
		t.Errorf("history = %+v", hist)
	}

	if err := c.DeleteSession(context.Background(), "s1"); err != nil {
		t.Errorf("DeleteSession: %v", err)
	}
}
