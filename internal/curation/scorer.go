package curation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mmarufov/Daily/internal/model"
	"github.com/mmarufov/Daily/pkg/llm"
)

const (
	scoreBatchSize = 10

	// maxContentChars bounds the article body handed to the model.
	maxContentChars = 2000
)

// Scorer asks the model whether each article matches the instruction.
// Failures never cross an article's boundary: a failed analysis becomes an
// unselected zero-score result carrying the error text as reasoning.
type Scorer struct {
	analyzer llm.Analyzer
}

func NewScorer(analyzer llm.Analyzer) *Scorer {
	return &Scorer{analyzer: analyzer}
}

// ScoreAll runs fixed-size parallel batches and returns one result per
// input article, in input order.
func (s *Scorer) ScoreAll(ctx context.Context, articles []model.Article, instruction string) []model.ScoredArticle {
	scored := make([]model.ScoredArticle, len(articles))

	for start := 0; start < len(articles); start += scoreBatchSize {
		end := start + scoreBatchSize
		if end > len(articles) {
			end = len(articles)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				scored[i] = s.score(ctx, articles[i], instruction)
			}(i)
		}
		wg.Wait()
	}

	return scored
}

func (s *Scorer) score(ctx context.Context, article model.Article, instruction string) model.ScoredArticle {
	analysis, err := s.analyzer.AnalyzeArticle(ctx, formatArticleText(article), instruction)
	if err != nil {
		return model.ScoredArticle{
			Article:   article,
			Reasoning: fmt.Sprintf("Error during analysis: %v", err),
		}
	}

	return model.ScoredArticle{
		Article:        article,
		RelevanceScore: analysis.RelevanceScore,
		Selected:       analysis.Selected,
		Reasoning:      analysis.Reasoning,
	}
}

func formatArticleText(article model.Article) string {
	var parts []string

	if article.Title != "" {
		parts = append(parts, "Title: "+article.Title)
	}
	if article.Summary != "" {
		parts = append(parts, "Description: "+article.Summary)
	}
	if article.Content != "" {
		content := article.Content
		if len(content) > maxContentChars {
			// Back up to a rune boundary so the cut never splits a
			// multi-byte character.
			cut := maxContentChars
			for cut > 0 && !utf8.RuneStart(content[cut]) {
				cut--
			}
			content = content[:cut]
		}
		parts = append(parts, "Content: "+content)
	}
	if article.Author != "" {
		parts = append(parts, "Author: "+article.Author)
	}
	if article.Source != "" {
		parts = append(parts, "Source: "+article.Source)
	}

	if len(parts) == 0 {
		return "No article content available"
	}

	return strings.Join(parts, "\n\n")
}
