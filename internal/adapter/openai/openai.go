// Package openai implements domain.Completer against OpenAI-compatible chat
// completion endpoints.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitlog/internal/domain"

	goopenai "github.com/sashabaranov/go-openai"
	"golang.org/x/oauth2"
)

var _ domain.Completer = (*Completer)(nil)

// ErrNoChoices is returned when the service answers without any choice.
var ErrNoChoices = errors.New("openai: response has no choices")

type Completer struct {
	client *goopenai.Client
}

// NewCompleter creates a Completer. The API key travels as a static oauth2
// bearer token; baseURL may point at any compatible endpoint and defaults to
// the public API when empty.
func NewCompleter(apiKey, baseURL string) *Completer {
	cfg := goopenai.DefaultConfig("")
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"})
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = 60 * time.Second
	cfg.HTTPClient = httpClient

	return &Completer{client: goopenai.NewClientWithConfig(cfg)}
}

// Complete sends req as a system plus user message pair and returns the
// content of the first choice.
func (c *Completer) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: req.System},
			{Role: goopenai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}
