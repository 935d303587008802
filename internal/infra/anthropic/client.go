package anthropic

import (
	"context"
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Client implements the llm.Client interface against the Anthropic Messages API.
type Client struct {
	client anthropic.Client
	model  string
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (c *Client) Enabled() bool { return true }

// Complete sends a single-turn user prompt and returns the text of the first
// content block. Timeouts and cancellation come in through ctx.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if len(msg.Content) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return msg.Content[0].Text, nil
}
