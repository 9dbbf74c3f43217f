package curation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mmarufov/Daily/internal/model"
	"github.com/mmarufov/Daily/pkg/news"
)

const (
	minTargetCount = 5
	maxTargetCount = 10

	sourcePageSize = 50

	// titleOnlyCap bounds the last-resort fallback to candidates that only
	// carry a headline.
	titleOnlyCap = 5

	fallbackCountry = "us"
)

// ErrNoCandidates reports that both the search query and the top-headlines
// fallback came back empty. That usually means a provider problem rather
// than "no relevant news", so it is surfaced instead of swallowed.
var ErrNoCandidates = errors.New("no news candidates available")

type ProfileStore interface {
	GetPreferences(userID string) (*model.Preferences, error)
}

type FeedStore interface {
	ReplaceForUser(userID string, articles []model.Article) error
}

// Curator drives one curation run: build the prompt, source candidates,
// score them, apply the selection policy, enrich images and persist.
type Curator struct {
	source   news.Client
	scorer   *Scorer
	enricher *Enricher
	profiles ProfileStore
	feed     FeedStore
}

func NewCurator(source news.Client, scorer *Scorer, enricher *Enricher, profiles ProfileStore, feed FeedStore) *Curator {
	return &Curator{
		source:   source,
		scorer:   scorer,
		enricher: enricher,
		profiles: profiles,
		feed:     feed,
	}
}

func (c *Curator) Curate(ctx context.Context, userID string, requestedLimit int, fallbackTopic string) ([]model.Article, error) {
	prompt, query := c.promptAndQuery(userID, fallbackTopic)

	candidates, err := c.sourceCandidates(ctx, query)
	if err != nil {
		return nil, err
	}

	analyzable := preFilter(candidates)
	if len(analyzable) == 0 {
		// Valid end state: the provider had articles, none scoreable.
		return []model.Article{}, nil
	}

	scored := c.scorer.ScoreAll(ctx, analyzable, prompt.Instruction())

	result := selectArticles(scored, requestedLimit)

	result = c.enricher.Enrich(ctx, result)

	// The caller already has the computed set in hand; a failed cache write
	// must not fail the request.
	if err := c.feed.ReplaceForUser(userID, result); err != nil {
		slog.Error("error persisting curated articles", "user_id", userID, "error", err)
	}

	return result, nil
}

// promptAndQuery decides between the personalized and the topic-fallback
// prompt, and picks the single search query for sourcing.
func (c *Curator) promptAndQuery(userID string, fallbackTopic string) (PromptSpec, string) {
	if fallbackTopic == "" {
		fallbackTopic = DefaultTopic
	}

	prefs, err := c.profiles.GetPreferences(userID)
	if err != nil {
		slog.Error("error loading preferences, using topic fallback", "user_id", userID, "error", err)
		prefs = nil
	}

	if prefs == nil || !prefs.Completed || prefs.AIProfile == "" {
		return TopicPrompt(fallbackTopic), fallbackTopic
	}

	query := fallbackTopic
	if len(prefs.Interests) > 0 && prefs.Interests[0] != "" {
		query = prefs.Interests[0]
	}

	return PersonalizedPrompt(prefs.AIProfile), query
}

// sourceCandidates tries the search query once, then top headlines once.
// Rate limiting aborts immediately; exhausting both sources empty is the
// reportable upstream-empty condition.
func (c *Curator) sourceCandidates(ctx context.Context, query string) ([]model.Article, error) {
	raw, err := c.source.Search(ctx, query, "publishedAt", sourcePageSize)
	if err != nil {
		if errors.Is(err, news.ErrRateLimited) {
			return nil, err
		}
		slog.Warn("search failed, trying top headlines", "query", query, "error", err)
		raw = nil
	}

	if len(raw) == 0 {
		raw, err = c.source.TopHeadlines(ctx, fallbackCountry, sourcePageSize)
		if err != nil {
			return nil, fmt.Errorf("top headlines fallback: %w", err)
		}
	}

	if len(raw) == 0 {
		return nil, ErrNoCandidates
	}

	articles := make([]model.Article, 0, len(raw))
	for _, r := range raw {
		articles = append(articles, news.Format(r))
	}

	return articles, nil
}

// preFilter keeps candidates that can be meaningfully scored: a title plus
// at least one of summary and content. When that leaves nothing, fall back
// to a handful of title-only candidates rather than failing the run.
func preFilter(candidates []model.Article) []model.Article {
	analyzable := make([]model.Article, 0, len(candidates))
	for _, a := range candidates {
		if a.Title == "" {
			continue
		}
		if a.Summary == "" && a.Content == "" {
			continue
		}
		analyzable = append(analyzable, a)
	}

	if len(analyzable) > 0 {
		return analyzable
	}

	titleOnly := make([]model.Article, 0, titleOnlyCap)
	for _, a := range candidates {
		if a.Title == "" {
			continue
		}
		titleOnly = append(titleOnly, a)
		if len(titleOnly) == titleOnlyCap {
			break
		}
	}

	return titleOnly
}

// selectArticles applies the selection policy: stable sort by relevance,
// AI-selected articles first, then fill with the highest-relevance leftovers
// until the target count is reached. Score and selection flags are stripped
// from the result.
func selectArticles(scored []model.ScoredArticle, requestedLimit int) []model.Article {
	if len(scored) == 0 {
		return []model.Article{}
	}

	sorted := make([]model.ScoredArticle, len(scored))
	copy(sorted, scored)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RelevanceScore > sorted[j].RelevanceScore
	})

	target := clamp(requestedLimit, minTargetCount, maxTargetCount)
	if target > len(sorted) {
		target = len(sorted)
	}

	result := make([]model.Article, 0, target)
	included := make(map[string]bool, target)

	for _, s := range sorted {
		if len(result) == target {
			break
		}
		if s.Selected {
			result = append(result, s.Article)
			included[s.ID] = true
		}
	}

	for _, s := range sorted {
		if len(result) == target {
			break
		}
		if included[s.ID] {
			continue
		}
		result = append(result, s.Article)
		included[s.ID] = true
	}

	return result
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
