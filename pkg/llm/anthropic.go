package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicClient struct {
	client    *anthropic.Client
	model     anthropic.Model
	modelName string
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicClient{
		client:    &client,
		model:     anthropic.ModelClaudeHaiku4_5,
		modelName: "claude-4.5-haiku",
	}
}

func (c *AnthropicClient) AnalyzeArticle(ctx context.Context, articleText string, instruction string) (Analysis, error) {
	userPrompt := fmt.Sprintf(
		"Analyze this news article:\n\n%s\n\nSelection Criteria: %s\n\nReturn JSON with selected (boolean), relevance_score (0-1), and reasoning (string).",
		articleText, instruction,
	)

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})

	if err != nil {
		return Analysis{}, fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return Analysis{}, fmt.Errorf("no response from anthropic")
	}

	content := cleanJSONResponse(resp.Content[0].Text)

	var parsed struct {
		Selected       bool    `json:"selected"`
		RelevanceScore float64 `json:"relevance_score"`
		Reasoning      string  `json:"reasoning"`
	}

	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return Analysis{}, fmt.Errorf("failed to parse response: %w, content: %s", err, content)
	}

	return Analysis{
		Selected:       parsed.Selected,
		RelevanceScore: parsed.RelevanceScore,
		Reasoning:      parsed.Reasoning,
	}, nil
}
