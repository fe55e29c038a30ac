package devserver

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Responder produces the assistant reply for one chat turn.
type Responder interface {
	Respond(ctx context.Context, sessionID, message string) (string, error)
}

// cannedResponder answers from the local dataset without any external
// calls. It is the default so the dev server works offline.
type cannedResponder struct{}

// NewCannedResponder returns the offline responder.
func NewCannedResponder() Responder {
	return cannedResponder{}
}

func (cannedResponder) Respond(_ context.Context, _ string, message string) (string, error) {
	q := strings.ToLower(message)

	var picks []string
	for _, r := range restaurants {
		cat, _ := r["categoryName"].(string)
		title, _ := r["title"].(string)
		if strings.Contains(q, "seafood") && strings.Contains(strings.ToLower(cat), "seafood") {
			picks = append(picks, title)
		}
		if strings.Contains(q, "romantic") && (title == "La Colombe" || title == "Kloof Street House" || title == "Harbour House") {
			picks = append(picks, title)
		}
		if (strings.Contains(q, "budget") || strings.Contains(q, "cheap")) && r["price"] == "Under R150" {
			picks = append(picks, title)
		}
	}

	if len(picks) == 0 {
		return "I can help you find a place to eat in Cape Town. " +
			"Try telling me a cuisine, a vibe like romantic or family friendly, or a budget.", nil
	}
	if len(picks) > 3 {
		picks = picks[:3]
	}
	return fmt.Sprintf("Based on what you're after, I'd look at %s. "+
		"Want me to narrow it down by area or price?", strings.Join(picks, ", ")), nil
}

const systemPrompt = "You are a Cape Town restaurant concierge. " +
	"Answer briefly and only recommend restaurants from the list the user is browsing. " +
	"Prices are in South African rand."

// openaiResponder proxies chat turns to an OpenAI-compatible API.
type openaiResponder struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// OpenAIConfig holds responder settings for the openai provider.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Logger      *zap.Logger
}

// NewOpenAIResponder creates a responder backed by the chat completions API.
func NewOpenAIResponder(cfg OpenAIConfig) Responder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &openaiResponder{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

func (r *openaiResponder) Respond(ctx context.Context, sessionID, message string) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: r.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}

	r.logger.Debug("chat completion",
		zap.String("session_id", sessionID),
		zap.String("model", r.model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	return resp.Choices[0].Message.Content, nil
}
