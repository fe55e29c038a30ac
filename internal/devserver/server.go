// Package devserver is a self-contained ChowGPT backend for local
// development and integration testing. It serves a canned Cape Town
// dataset over the production API contract, so the SDK can be exercised
// end to end without the real discovery pipeline.
package devserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/chowgpt/chowgo/internal/domain"
	logpkg "github.com/chowgpt/chowgo/internal/logger"
	"github.com/chowgpt/chowgo/internal/session"
)

// Server handles the dev backend routes.
type Server struct {
	responder  Responder
	sessions   *session.Manager
	logger     *zap.Logger
	tokenDelay time.Duration
}

// NewServer creates the dev backend.
func NewServer(responder Responder, sessions *session.Manager, tokenDelay time.Duration, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		responder:  responder,
		sessions:   sessions,
		logger:     logger,
		tokenDelay: tokenDelay,
	}
}

// RegisterRoutes mounts the API routes on the router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Post("/search/restaurants", s.handleSearch)
	r.Post("/restaurants/{id}/ai-explanation", s.handleExplain)
	r.Post("/chat/message", s.handleMessage)
	r.Post("/chat/stream", s.handleStream)
	r.Get("/chat/history/{sessionId}", s.handleHistory)
	r.Delete("/chat/session/{sessionId}", s.handleDeleteSession)
}

type searchRequest struct {
	Query   string           `json:"query"`
	Filters *domain.Criteria `json:"filters"`
	Limit   int              `json:"limit"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	results := restaurants
	if req.Limit > 0 && req.Limit < len(results) {
		results = results[:req.Limit]
	}

	writeData(w, http.StatusOK, map[string]any{
		"restaurants": results,
		"searchMetadata": map[string]any{
			"originalQuery":  req.Query,
			"rewrittenQuery": req.Query,
			"searchSteps": []string{
				"query understood",
				"candidates retrieved",
				"results ranked",
			},
			"totalProcessingTime": time.Since(start).Milliseconds(),
		},
	})
}

type explainRequest struct {
	UserQuery string `json:"userQuery"`
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	var req explainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, ok := restaurantByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "restaurant not found")
		return
	}

	title, _ := rec["title"].(string)
	cat, _ := rec["categoryName"].(string)
	price, _ := rec["price"].(string)
	hood, _ := rec["neighborhood"].(string)

	writeData(w, http.StatusOK, map[string]any{
		"restaurantId": id,
		"userQuery":    req.UserQuery,
		"explanation": map[string]any{
			"overallAssessment": title + " is a solid match for what you described.",
			"whatMatches": []string{
				cat + " in " + hood,
				"typical spend " + price,
			},
			"thingsToConsider": []string{
				"book ahead on weekends",
			},
		},
		"responseTimeMs": time.Since(start).Milliseconds(),
	})
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeChatRequest(w, r)
	if !ok {
		return
	}

	reply, err := s.responder.Respond(r.Context(), req.SessionID, req.Message)
	if err != nil {
		logpkg.FromContext(r.Context()).Error("responder failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "chat backend unavailable")
		return
	}

	now := time.Now().UTC()
	s.persistTurn(r, req, reply, now)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"response":  reply,
		"sessionId": req.SessionID,
		"timestamp": now.Format(time.RFC3339),
	})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeChatRequest(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	reply, err := s.responder.Respond(r.Context(), req.SessionID, req.Message)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err != nil {
		logpkg.FromContext(r.Context()).Error("responder failed", zap.Error(err))
		writeEvent(w, map[string]string{"type": "error", "message": "chat backend unavailable"})
		flusher.Flush()
		return
	}

	writeEvent(w, map[string]string{"type": "start", "sessionId": req.SessionID})
	flusher.Flush()

	// One word per event, paced so the client sees a real incremental stream.
	words := strings.Fields(reply)
	for i, word := range words {
		if r.Context().Err() != nil {
			return
		}
		token := word
		if i < len(words)-1 {
			token += " "
		}
		writeEvent(w, map[string]string{"type": "token", "token": token})
		flusher.Flush()
		if s.tokenDelay > 0 {
			time.Sleep(s.tokenDelay)
		}
	}

	writeEvent(w, map[string]string{"type": "complete", "response": reply, "sessionId": req.SessionID})
	flusher.Flush()

	s.persistTurn(r, req, reply, time.Now().UTC())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	sess, err := s.sessions.Transcript(r.Context(), sessionID)
	if err != nil {
		s.logger.Error("load transcript failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	msgs := make([]map[string]string, len(sess.Messages))
	for i, m := range sess.Messages {
		msgs[i] = map[string]string{
			"role":      string(m.Role),
			"content":   m.Content,
			"timestamp": m.Timestamp.Format(time.RFC3339),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"messages":  msgs,
		"sessionId": sessionID,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	if err := s.sessions.Clear(r.Context(), sessionID); err != nil {
		s.logger.Error("clear session failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}
	writeData(w, http.StatusOK, map[string]string{"sessionId": sessionID})
}

func (s *Server) decodeChatRequest(w http.ResponseWriter, r *http.Request) (chatRequest, bool) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return chatRequest{}, false
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return chatRequest{}, false
	}
	if req.SessionID == "" {
		req.SessionID = session.NewID()
	}
	return req, true
}

// persistTurn stores both sides of a completed turn. Persistence failures
// are logged, not surfaced: the reply already went out.
func (s *Server) persistTurn(r *http.Request, req chatRequest, reply string, now time.Time) {
	err := s.sessions.Append(r.Context(), req.SessionID,
		domain.Message{Role: domain.RoleUser, Content: req.Message, Timestamp: now},
		domain.Message{Role: domain.RoleAssistant, Content: reply, Timestamp: now},
	)
	if err != nil {
		s.logger.Warn("persist transcript failed",
			zap.String("session_id", req.SessionID), zap.Error(err))
	}
}

func writeEvent(w http.ResponseWriter, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_, _ = w.Write([]byte("data: "))
	_, _ = w.Write(data)
	_, _ = w.Write([]byte("\n\n"))
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    data,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   msg,
	})
}
