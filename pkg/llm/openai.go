package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

type OpenAIClient struct {
	client    *openai.Client
	model     openai.ChatModel
	modelName string
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		client:    &client,
		model:     openai.ChatModelGPT4oMini,
		modelName: "gpt-4o-mini",
	}
}

func (c *OpenAIClient) AnalyzeArticle(ctx context.Context, articleText string, instruction string) (Analysis, error) {
	userPrompt := fmt.Sprintf(
		"Analyze this news article:\n\n%s\n\nSelection Criteria: %s\n\nReturn JSON with selected (boolean), relevance_score (0-1), and reasoning (string).",
		articleText, instruction,
	)

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       c.model,
		Temperature: openai.Float(0.3),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(analyzeSystemPrompt),
			openai.UserMessage(userPrompt),
		},
	})

	if err != nil {
		return Analysis{}, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Analysis{}, fmt.Errorf("no response from openai")
	}

	content := cleanJSONResponse(resp.Choices[0].Message.Content)

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

func (c *OpenAIClient) PickImage(ctx context.Context, title string, summary string, descriptions []string) (int, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Article title: %s\n", title))
	if summary != "" {
		sb.WriteString(fmt.Sprintf("Article summary: %s\n", summary))
	}
	sb.WriteString("\nImage candidates:\n")
	for i, d := range descriptions {
		if d == "" {
			d = "(no description)"
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n", i, d))
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(pickImageSystemPrompt),
			openai.UserMessage(sb.String()),
		},
	})

	if err != nil {
		return -1, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return -1, fmt.Errorf("no response from openai")
	}

	content := cleanJSONResponse(resp.Choices[0].Message.Content)

	var parsed struct {
		Index int `json:"index"`
	}

	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return -1, fmt.Errorf("failed to parse response: %w, content: %s", err, content)
	}

	if parsed.Index < -1 || parsed.Index >= len(descriptions) {
		return -1, nil
	}

	return parsed.Index, nil
}

// SummarizeProfile distills an onboarding conversation into a filtering
// instruction plus search keywords. Malformed model output degrades to the
// raw text as the profile with no structured interests.
func (c *OpenAIClient) SummarizeProfile(ctx context.Context, conversation string) (ProfileSummary, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(profileSystemPrompt),
			openai.UserMessage(conversation),
		},
	})

	if err != nil {
		return ProfileSummary{}, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return ProfileSummary{}, fmt.Errorf("no response from openai")
	}

	raw := resp.Choices[0].Message.Content
	content := cleanJSONResponse(raw)

	var parsed struct {
		Profile   string   `json:"profile"`
		Interests []string `json:"interests"`
	}

	if err := json.Unmarshal([]byte(content), &parsed); err != nil || parsed.Profile == "" {
		return ProfileSummary{Profile: strings.TrimSpace(raw)}, nil
	}

	return ProfileSummary{Profile: parsed.Profile, Interests: parsed.Interests}, nil
}
