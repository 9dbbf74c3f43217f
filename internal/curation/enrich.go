package curation

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmarufov/Daily/internal/model"
	"github.com/mmarufov/Daily/pkg/images"
	"github.com/mmarufov/Daily/pkg/llm"
)

const (
	enrichBatchSize     = 5
	maxImageCandidates  = 10
	maxImageQueryTokens = 8
)

var headlinePrefixes = []string{
	"Breaking:", "BREAKING:", "Exclusive:", "Watch:", "Live:", "Opinion:", "Update:",
}

// Enricher fills in missing article images: search the provider for
// candidates, let the model pick the best one, fall back to the first hit.
// Nothing here is ever fatal to a curation run.
type Enricher struct {
	searcher images.Searcher
	picker   llm.ImagePicker
}

func NewEnricher(searcher images.Searcher, picker llm.ImagePicker) *Enricher {
	return &Enricher{searcher: searcher, picker: picker}
}

// Enrich mutates only articles whose ImageURL is empty, in small parallel
// batches to bound provider load.
func (e *Enricher) Enrich(ctx context.Context, articles []model.Article) []model.Article {
	for start := 0; start < len(articles); start += enrichBatchSize {
		end := start + enrichBatchSize
		if end > len(articles) {
			end = len(articles)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			if articles[i].ImageURL != "" {
				continue
			}

			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				articles[i].ImageURL = e.findImage(ctx, articles[i])
			}(i)
		}
		wg.Wait()
	}

	return articles
}

func (e *Enricher) findImage(ctx context.Context, article model.Article) string {
	query := imageQueryFromTitle(article.Title)
	if query == "" {
		return ""
	}

	candidates, err := e.searcher.Search(ctx, query, maxImageCandidates)
	if err != nil {
		slog.Warn("image search failed", "query", query, "error", err)
		return ""
	}

	if len(candidates) == 0 {
		return ""
	}

	descriptions := make([]string, len(candidates))
	for i, c := range candidates {
		descriptions[i] = c.Description
	}

	// A declined pick (-1) or an error both fall back to the top candidate.
	index, err := e.picker.PickImage(ctx, article.Title, article.Summary, descriptions)
	if err != nil {
		slog.Warn("image pick failed, using first candidate", "title", article.Title, "error", err)
		return candidates[0].URL
	}

	if index < 0 || index >= len(candidates) {
		return candidates[0].URL
	}

	return candidates[index].URL
}

// imageQueryFromTitle derives a short search query from a headline, dropping
// common prefixes and trailing words past the token cap.
func imageQueryFromTitle(title string) string {
	title = strings.TrimSpace(title)
	for _, prefix := range headlinePrefixes {
		title = strings.TrimSpace(strings.TrimPrefix(title, prefix))
	}

	words := strings.Fields(title)
	if len(words) > maxImageQueryTokens {
		words = words[:maxImageQueryTokens]
	}

	return strings.Join(words, " ")
}
