// Package llm talks to an OpenAI-compatible chat completion endpoint.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"resty.dev/v3"

	"coursegpt-server/internal/config"
	"coursegpt-server/internal/utils/platformerrors"
)

// Client implements the TextModel port over the /chat/completions API.
type Client struct {
	client  *resty.Client
	baseURL string
	apiKey  string
	model   string
}

// New builds a Client from the service configuration.
func New(cfg *config.Config) *Client {
	rc := resty.New().SetTimeout(cfg.LLMTimeout)
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.OpenAIBaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &Client{
		client:  rc,
		baseURL: baseURL,
		apiKey:  cfg.OpenAIAPIKey,
		model:   cfg.OpenAIModel,
	}
}

// Classify runs prompt at temperature zero and returns the first line of
// the reply, which callers match against a closed label set.
func (c *Client) Classify(ctx context.Context, prompt string) (string, error) {
	out, err := c.complete(ctx, prompt, 0, 32)
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	return line, nil
}

// Generate produces free text for prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, prompt, 0.7, 0)
}

func (c *Client) complete(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	request := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	var respBody openai.ChatCompletionResponse
	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetBody(request).
		SetResult(&respBody).
		Post(c.baseURL + "/chat/completions")
	if err != nil {
		return "", platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "chat completion request failed")
	}
	if resp.IsError() {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			fmt.Sprintf("chat completion returned %d after %s", resp.StatusCode(), time.Since(start).Round(time.Millisecond)), nil, "")
	}
	if len(respBody.Choices) == 0 {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"chat completion returned no choices", nil, "")
	}
	return respBody.Choices[0].Message.Content, nil
}
