package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openaigo "github.com/sashabaranov/go-openai"

	"github.com/lumabyte/storypipe/internal/platform/logger"
)

const DefaultModel = "gpt-4o-mini"

// Client is the narrow text-generation surface the pipeline depends on.
type Client interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

type client struct {
	log   *logger.Logger
	api   *openaigo.Client
	model string
	temp  float32
	max   int
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing OpenAI API key")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	temp := cfg.Temperature
	if temp == 0 {
		temp = 0.7
	}
	max := cfg.MaxTokens
	if max <= 0 {
		max = 600
	}

	apiCfg := openaigo.DefaultConfig(apiKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		apiCfg.BaseURL = base
	}

	return &client{
		log:   log.With("client", "OpenAIClient"),
		api:   openaigo.NewClientWithConfig(apiCfg),
		model: model,
		temp:  temp,
		max:   max,
	}, nil
}

func (c *client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	messages := []openaigo.ChatCompletionMessage{}
	if strings.TrimSpace(system) != "" {
		messages = append(messages, openaigo.ChatCompletionMessage{
			Role:    openaigo.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openaigo.ChatCompletionMessage{
		Role:    openaigo.ChatMessageRoleUser,
		Content: user,
	})

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temp,
		MaxTokens:   c.max,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion (model=%s): %w", c.model, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("chat completion (model=%s): empty response", c.model)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.log.Debug("Chat completion finished",
		"model", c.model,
		"duration", time.Since(start).String(),
		"chars", len(text),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return text, nil
}
