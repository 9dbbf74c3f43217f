package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const maxPerPage = 10

// Candidate is one image search hit.
type Candidate struct {
	URL         string
	Description string
}

type Searcher interface {
	Search(ctx context.Context, query string, perPage int) ([]Candidate, error)
}

type PexelsClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewPexelsClient(apiKey string) *PexelsClient {
	return &PexelsClient{
		apiKey:     apiKey,
		baseURL:    "https://api.pexels.com/v1",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Search returns up to perPage candidates. An unconfigured client yields an
// empty result, not an error, so image enrichment degrades silently.
func (c *PexelsClient) Search(ctx context.Context, query string, perPage int) ([]Candidate, error) {
	if c.apiKey == "" {
		return nil, nil
	}

	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("pexels request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pexels status %d", resp.StatusCode)
	}

	var raw pexelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("pexels decode: %w", err)
	}

	candidates := make([]Candidate, 0, len(raw.Photos))
	for _, p := range raw.Photos {
		candidates = append(candidates, Candidate{
			URL:         p.Src.Large,
			Description: p.Alt,
		})
	}

	return candidates, nil
}

type pexelsResponse struct {
	Photos []pexelsPhoto `json:"photos"`
}

type pexelsPhoto struct {
	Alt string    `json:"alt"`
	Src pexelsSrc `json:"src"`
}

type pexelsSrc struct {
	Large string `json:"large"`
}
