// Package openai provides a Summarizer implementation using OpenAI.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ersonp/record-tracker/internal/domain/entities"
	"github.com/ersonp/record-tracker/internal/infrastructure/config"
)

const summaryPrompt = `You summarize changes made to records in a content management system.

You receive a JSON object describing one change:
- subject_label / subject_id: the user the record belongs to
- record_type / record_id: the record that changed
- diff: changed fields keyed by machine name, each with a label and a list of {old, new} value pairs

Write one or two plain sentences describing what changed, for a site administrator.
Use the field labels, not machine names. Do not use markdown. Do not invent values.`

// Client implements the Summarizer interface using OpenAI.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new OpenAI summary client.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := "gpt-4o-mini"
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

// Summarize returns a short prose summary of the change in n.
func (c *Client) Summarize(ctx context.Context, n entities.Notification) (string, error) {
	payload, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("marshaling notification: %w", err)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: summaryPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: string(payload),
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return cleanResponse(resp.Choices[0].Message.Content), nil
}

// cleanResponse removes code fences and surrounding whitespace if present.
func cleanResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if i := strings.IndexByte(content, '\n'); i >= 0 {
			content = content[i+1:]
		}
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}
