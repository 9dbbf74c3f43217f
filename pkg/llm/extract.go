package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v2"

	"github.com/mmarufov/Daily/internal/model"
	"github.com/mmarufov/Daily/pkg/pages"
)

type PageFetcher interface {
	FetchClean(ctx context.Context, pageURL string) (pages.Page, error)
}

// ArticleExtractor runs the two-round tool-call protocol: the model requests
// a page fetch, we execute it and feed the cleaned text back for the final
// structured answer.
type ArticleExtractor struct {
	client  *OpenAIClient
	fetcher PageFetcher
}

func NewArticleExtractor(client *OpenAIClient, fetcher PageFetcher) *ArticleExtractor {
	return &ArticleExtractor{client: client, fetcher: fetcher}
}

func (e *ArticleExtractor) ExtractArticle(ctx context.Context, articleURL string) (model.FullArticle, error) {
	fetchTool := openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
		Name:        "fetch_and_clean_page",
		Description: openai.String("Fetch a web page, strip boilerplate and return the cleaned text with Open Graph metadata."),
		Parameters: openai.FunctionParameters{
			"type": "object",
			"properties": map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"description": "The page URL to fetch",
				},
			},
			"required": []string{"url"},
		},
	})

	params := openai.ChatCompletionNewParams{
		Model: e.client.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(extractSystemPrompt),
			openai.UserMessage("Extract the article at: " + articleURL),
		},
		Tools: []openai.ChatCompletionToolUnionParam{fetchTool},
	}

	first, err := e.client.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return model.FullArticle{}, fmt.Errorf("openai API error: %w", err)
	}
	if len(first.Choices) == 0 {
		return model.FullArticle{}, fmt.Errorf("no response from openai")
	}

	toolCalls := first.Choices[0].Message.ToolCalls
	if len(toolCalls) == 0 {
		// Best effort: the model declined to fetch, nothing to extract from.
		return model.FullArticle{}, nil
	}
	call := toolCalls[0]

	// The model may echo the URL back in the arguments; prefer it when valid.
	fetchURL := articleURL
	var args struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err == nil && args.URL != "" {
		fetchURL = args.URL
	}

	page, err := e.fetcher.FetchClean(ctx, fetchURL)
	if err != nil {
		return model.FullArticle{}, nil
	}

	toolResult, err := json.Marshal(map[string]string{
		"title":     page.Title,
		"image_url": page.ImageURL,
		"text":      page.Text,
	})
	if err != nil {
		return model.FullArticle{}, fmt.Errorf("encode tool result: %w", err)
	}

	params.Messages = append(params.Messages, first.Choices[0].Message.ToParam())
	params.Messages = append(params.Messages, openai.ToolMessage(string(toolResult), call.ID))
	params.Tools = nil

	second, err := e.client.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return model.FullArticle{}, fmt.Errorf("openai API error: %w", err)
	}
	if len(second.Choices) == 0 {
		return model.FullArticle{}, fmt.Errorf("no response from openai")
	}

	content := cleanJSONResponse(second.Choices[0].Message.Content)

	var parsed struct {
		Title      string `json:"title"`
		Summary    string `json:"summary"`
		Content    string `json:"content"`
		ImageURL   string `json:"image_url"`
		SourceName string `json:"source_name"`
	}

	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return model.FullArticle{}, nil
	}

	return model.FullArticle{
		Title:      parsed.Title,
		Summary:    parsed.Summary,
		Content:    parsed.Content,
		ImageURL:   parsed.ImageURL,
		SourceName: parsed.SourceName,
	}, nil
}
