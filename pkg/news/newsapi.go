package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mmarufov/Daily/internal/model"
)

const maxPageSize = 100

type NewsAPIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewNewsAPIClient(apiKey string) *NewsAPIClient {
	return &NewsAPIClient{
		apiKey:     apiKey,
		baseURL:    "https://newsapi.org/v2",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *NewsAPIClient) Name() string {
	return "NewsAPI"
}

func (c *NewsAPIClient) TopHeadlines(ctx context.Context, country string, pageSize int) ([]RawArticle, error) {
	params := url.Values{}
	params.Set("country", country)
	params.Set("pageSize", strconv.Itoa(capPageSize(pageSize)))
	return c.fetch(ctx, "/top-headlines", params)
}

func (c *NewsAPIClient) Search(ctx context.Context, query string, sortBy string, pageSize int) ([]RawArticle, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", sortBy)
	params.Set("pageSize", strconv.Itoa(capPageSize(pageSize)))
	return c.fetch(ctx, "/everything", params)
}

func (c *NewsAPIClient) fetch(ctx context.Context, path string, params url.Values) ([]RawArticle, error) {
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi status %d", resp.StatusCode)
	}

	var raw newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("newsapi decode: %w", err)
	}

	articles := make([]RawArticle, 0, len(raw.Articles))
	for _, item := range raw.Articles {
		articles = append(articles, RawArticle{
			Title:       item.Title,
			Description: item.Description,
			Content:     item.Content,
			Author:      item.Author,
			SourceName:  item.Source.Name,
			URL:         item.URL,
			ImageURL:    item.URLToImage,
			PublishedAt: item.PublishedAt,
		})
	}

	return articles, nil
}

func capPageSize(pageSize int) int {
	if pageSize > maxPageSize {
		return maxPageSize
	}
	if pageSize < 1 {
		return 1
	}
	return pageSize
}

// Format normalizes a raw provider record. Missing optional fields are fine;
// only a missing title disqualifies an article, and that is the caller's
// pre-filter to enforce.
func Format(raw RawArticle) model.Article {
	source := raw.SourceName
	if source == "" {
		source = model.UnknownSource
	}

	var publishedAt *time.Time
	if raw.PublishedAt != "" {
		if t, err := time.Parse(time.RFC3339, raw.PublishedAt); err == nil {
			publishedAt = &t
		}
	}

	return model.Article{
		ID:          uuid.NewString(),
		Title:       raw.Title,
		Summary:     raw.Description,
		Content:     raw.Content,
		Author:      raw.Author,
		Source:      source,
		ImageURL:    raw.ImageURL,
		URL:         raw.URL,
		PublishedAt: publishedAt,
	}
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source      newsAPISource `json:"source"`
	Author      string        `json:"author"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	URLToImage  string        `json:"urlToImage"`
	PublishedAt string        `json:"publishedAt"`
	Content     string        `json:"content"`
}

type newsAPISource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
