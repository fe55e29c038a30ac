// Package rest is the HTTP client for the ChowGPT backend API. One attempt
// per call: errors surface exactly once to the caller and nothing here
// retries or backs off.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/chowgpt/chowgo/internal/domain"
)

const defaultTimeout = 30 * time.Second

// TokenSource supplies an optional bearer credential per request. Returning
// an empty string sends the request unauthenticated; the backend decides
// whether to reject it.
type TokenSource func() string

// Config holds client settings.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      TokenSource
	Logger     *zap.Logger
}

// Client calls the backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
	logger  *zap.Logger
}

// NewClient creates a backend API client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    httpClient,
		token:   cfg.Token,
		logger:  logger,
	}
}

// SearchRequest is the body of POST /search/restaurants.
type SearchRequest struct {
	Query   string           `json:"query"`
	Filters *domain.Criteria `json:"filters,omitempty"`
	Limit   int              `json:"limit,omitempty"`
}

// SearchData is the data payload of a search response. Restaurants stay
// loosely typed here; the normalizer is the coercion boundary.
type SearchData struct {
	Restaurants    []map[string]any `json:"restaurants"`
	SearchMetadata SearchMetadata   `json:"searchMetadata"`
}

// SearchMetadata mirrors the backend's pipeline metadata.
type SearchMetadata struct {
	OriginalQuery         string   `json:"originalQuery"`
	RewrittenQuery        string   `json:"rewrittenQuery"`
	SearchSteps           []string `json:"searchSteps"`
	TotalProcessingTimeMs int64    `json:"totalProcessingTime"`
}

// Explanation is the typed AI explanation payload.
type Explanation struct {
	OverallAssessment string   `json:"overallAssessment"`
	WhatMatches       []string `json:"whatMatches"`
	ThingsToConsider  []string `json:"thingsToConsider"`
}

// ExplanationData is the data payload of an ai-explanation response.
type ExplanationData struct {
	RestaurantID   string      `json:"restaurantId"`
	UserQuery      string      `json:"userQuery"`
	Explanation    Explanation `json:"explanation"`
	ResponseTimeMs int64       `json:"responseTimeMs"`
}

// MessageResponse is the reply of the non-streaming chat endpoint.
type MessageResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
	Timestamp string `json:"timestamp"`
}

// HistoryMessage is one transcript entry as the backend stores it.
type HistoryMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// HistoryResponse is the reply of GET /chat/history/{sessionId}.
type HistoryResponse struct {
	Messages  []HistoryMessage `json:"messages"`
	SessionID string           `json:"sessionId"`
}

// envelope is the backend's top-level {success, data} wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Search runs POST /search/restaurants.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchData, error) {
	var data SearchData
	if err := c.postEnvelope(ctx, "/search/restaurants", req, &data); err != nil {
		return SearchData{}, fmt.Errorf("search: %w", err)
	}
	return data, nil
}

// Explain runs POST /restaurants/{id}/ai-explanation.
func (c *Client) Explain(ctx context.Context, restaurantID, userQuery string) (ExplanationData, error) {
	body := map[string]string{"userQuery": userQuery}
	path := "/restaurants/" + restaurantID + "/ai-explanation"

	var data ExplanationData
	if err := c.postEnvelope(ctx, path, body, &data); err != nil {
		return ExplanationData{}, fmt.Errorf("ai explanation: %w", err)
	}
	return data, nil
}

// SendMessage runs the synchronous POST /chat/message.
func (c *Client) SendMessage(ctx context.Context, sessionID, message string) (MessageResponse, error) {
	body := map[string]string{"message": message, "sessionId": sessionID}

	resp, err := c.do(ctx, http.MethodPost, "/chat/message", body)
	if err != nil {
		return MessageResponse{}, fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	var out MessageResponse
	if err := decodeBody(resp.Body, &out); err != nil {
		return MessageResponse{}, fmt.Errorf("send message: %w", err)
	}
	return out, nil
}

// OpenStream runs POST /chat/stream and hands the raw event stream body to
// the caller, who owns closing it.
func (c *Client) OpenStream(ctx context.Context, sessionID, message string) (io.ReadCloser, error) {
	body := map[string]string{"message": message, "sessionId": sessionID}

	resp, err := c.do(ctx, http.MethodPost, "/chat/stream", body)
	if err != nil {
		return nil, fmt.Errorf("open chat stream: %w", err)
	}
	return resp.Body, nil
}

// History runs GET /chat/history/{sessionId}.
func (c *Client) History(ctx context.Context, sessionID string) (HistoryResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/chat/history/"+sessionID, nil)
	if err != nil {
		return HistoryResponse{}, fmt.Errorf("chat history: %w", err)
	}
	defer resp.Body.Close()

	var out HistoryResponse
	if err := decodeBody(resp.Body, &out); err != nil {
		return HistoryResponse{}, fmt.Errorf("chat history: %w", err)
	}
	return out, nil
}

// DeleteSession runs DELETE /chat/session/{sessionId}.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/chat/session/"+sessionID, nil)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	resp.Body.Close()
	return nil
}

// postEnvelope posts a JSON body and unwraps the {success, data} envelope.
func (c *Client) postEnvelope(ctx context.Context, path string, body, out any) error {
	resp, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := decodeBody(resp.Body, &env); err != nil {
		return err
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "backend reported failure"
		}
		return fmt.Errorf("%s: %w", msg, domain.ErrProtocol)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w: %w", err, domain.ErrProtocol)
	}
	return nil
}

// do issues one request and maps failures onto the error taxonomy:
// transport errors to ErrNetwork, 401/403 to ErrAuth, any other
// non-success status to ErrProtocol. The response body is returned open
// only on success.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %w", method, path, err, domain.ErrNetwork)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		c.logger.Debug("backend rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, domain.NewStatusError(resp.StatusCode)
	}
	return resp, nil
}

func decodeBody(r io.Reader, out any) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w: %w", err, domain.ErrProtocol)
	}
	return nil
}
