package curation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mmarufov/Daily/internal/model"
)

const prepareBatchSize = 5

type Extractor interface {
	ExtractArticle(ctx context.Context, articleURL string) (model.FullArticle, error)
}

type ContentStore interface {
	GetForUser(userID string) ([]model.Article, error)
	UpdateFullContent(userID string, articleURL string, full model.FullArticle) error
}

// Preparer runs full-content extraction over a user's curated set, in small
// parallel batches with per-article isolation.
type Preparer struct {
	extractor Extractor
	store     ContentStore
}

func NewPreparer(extractor Extractor, store ContentStore) *Preparer {
	return &Preparer{extractor: extractor, store: store}
}

// PrepareAll extracts and persists full content for every curated article
// that has a URL. It returns how many articles were updated; individual
// failures are logged and skipped.
func (p *Preparer) PrepareAll(ctx context.Context, userID string) (int, error) {
	articles, err := p.store.GetForUser(userID)
	if err != nil {
		return 0, err
	}

	withURL := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		if a.URL != "" {
			withURL = append(withURL, a)
		}
	}

	var prepared int
	var mu sync.Mutex

	for start := 0; start < len(withURL); start += prepareBatchSize {
		end := start + prepareBatchSize
		if end > len(withURL) {
			end = len(withURL)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(a model.Article) {
				defer wg.Done()

				full, err := p.extractor.ExtractArticle(ctx, a.URL)
				if err != nil {
					slog.Warn("error extracting article", "url", a.URL, "error", err)
					return
				}

				if full.Title == "" && full.Content == "" {
					return
				}

				if err := p.store.UpdateFullContent(userID, a.URL, full); err != nil {
					slog.Error("error saving extracted content", "url", a.URL, "error", err)
					return
				}

				mu.Lock()
				prepared++
				mu.Unlock()
			}(withURL[i])
		}
		wg.Wait()
	}

	return prepared, nil
}
