package curation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/mmarufov/Daily/internal/model"
	"github.com/mmarufov/Daily/pkg/llm"
	"github.com/mmarufov/Daily/pkg/news"
)

type fakeNewsClient struct {
	searchResults   []news.RawArticle
	searchErr       error
	headlineResults []news.RawArticle
	headlineErr     error

	searchCalls   int
	headlineCalls int
	lastQuery     string
}

func (f *fakeNewsClient) Search(ctx context.Context, query, sortBy string, pageSize int) ([]news.RawArticle, error) {
	f.searchCalls++
	f.lastQuery = query
	return f.searchResults, f.searchErr
}

func (f *fakeNewsClient) TopHeadlines(ctx context.Context, country string, pageSize int) ([]news.RawArticle, error) {
	f.headlineCalls++
	return f.headlineResults, f.headlineErr
}

func (f *fakeNewsClient) Name() string { return "fake" }

type fakeProfiles struct {
	prefs *model.Preferences
	err   error
}

func (f *fakeProfiles) GetPreferences(userID string) (*model.Preferences, error) {
	return f.prefs, f.err
}

// fakeFeed mirrors the store's replace-all contract: each successful call
// leaves only the new set behind.
type fakeFeed struct {
	calls   int
	current []model.Article
	err     error
}

func (f *fakeFeed) ReplaceForUser(userID string, articles []model.Article) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.current = articles
	return nil
}

// scriptedAnalyzer maps article titles to verdicts; unknown titles come back
// unselected with zero score.
type scriptedAnalyzer struct {
	verdicts map[string]llm.Analysis
	err      error
}

func (s *scriptedAnalyzer) AnalyzeArticle(ctx context.Context, articleText, instruction string) (llm.Analysis, error) {
	if s.err != nil {
		return llm.Analysis{}, s.err
	}
	for title, verdict := range s.verdicts {
		if strings.HasPrefix(articleText, "Title: "+title) {
			return verdict, nil
		}
	}
	return llm.Analysis{}, nil
}

func newTestCurator(source news.Client, analyzer llm.Analyzer, profiles ProfileStore, feed FeedStore) *Curator {
	return NewCurator(
		source,
		NewScorer(analyzer),
		NewEnricher(emptySearcher{}, declinePicker{}),
		profiles,
		feed,
	)
}

func rawArticles(n int) []news.RawArticle {
	raw := make([]news.RawArticle, 0, n)
	for i := 0; i < n; i++ {
		raw = append(raw, news.RawArticle{
			Title:       fmt.Sprintf("Article %02d", i),
			Description: "A description.",
			ImageURL:    "https://example.com/existing.jpg",
		})
	}
	return raw
}

func TestSelectArticlesSizeBound(t *testing.T) {
	tests := []struct {
		name      string
		scored    int
		limit     int
		wantCount int
	}{
		{"limit clamps down to 10", 20, 50, 10},
		{"limit clamps up to 5", 20, 1, 5},
		{"limit within range", 20, 7, 7},
		{"fewer articles than target", 3, 10, 3},
		{"zero scored", 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scored := make([]model.ScoredArticle, 0, tt.scored)
			for i := 0; i < tt.scored; i++ {
				scored = append(scored, model.ScoredArticle{
					Article: model.Article{ID: fmt.Sprintf("id-%d", i), Title: fmt.Sprintf("a%d", i)},
				})
			}

			got := selectArticles(scored, tt.limit)
			assert.Equal(t, tt.wantCount, len(got))
		})
	}
}

func TestSelectArticlesSelectedFirstThenFill(t *testing.T) {
	// 12 candidates, 3 selected with scores 0.9/0.8/0.6, 9 unselected with
	// max 0.4, limit 10: expect all 10, selected three first in score order.
	scored := []model.ScoredArticle{
		{Article: model.Article{ID: "s2"}, RelevanceScore: 0.6, Selected: true},
		{Article: model.Article{ID: "u0"}, RelevanceScore: 0.40},
		{Article: model.Article{ID: "s0"}, RelevanceScore: 0.9, Selected: true},
		{Article: model.Article{ID: "u1"}, RelevanceScore: 0.35},
		{Article: model.Article{ID: "u2"}, RelevanceScore: 0.30},
		{Article: model.Article{ID: "s1"}, RelevanceScore: 0.8, Selected: true},
		{Article: model.Article{ID: "u3"}, RelevanceScore: 0.25},
		{Article: model.Article{ID: "u4"}, RelevanceScore: 0.20},
		{Article: model.Article{ID: "u5"}, RelevanceScore: 0.15},
		{Article: model.Article{ID: "u6"}, RelevanceScore: 0.10},
		{Article: model.Article{ID: "u7"}, RelevanceScore: 0.05},
		{Article: model.Article{ID: "u8"}, RelevanceScore: 0.01},
	}

	got := selectArticles(scored, 10)

	assert.Equal(t, 10, len(got))
	assert.Equal(t, "s0", got[0].ID)
	assert.Equal(t, "s1", got[1].ID)
	assert.Equal(t, "s2", got[2].ID)

	// Fill-ins follow in descending relevance order.
	assert.Equal(t, "u0", got[3].ID)
	assert.Equal(t, "u1", got[4].ID)
	assert.Equal(t, "u8", got[9].ID)
}

func TestSelectArticlesNoDuplicates(t *testing.T) {
	scored := []model.ScoredArticle{
		{Article: model.Article{ID: "a"}, RelevanceScore: 0.9, Selected: true},
		{Article: model.Article{ID: "b"}, RelevanceScore: 0.8, Selected: true},
		{Article: model.Article{ID: "c"}, RelevanceScore: 0.7},
		{Article: model.Article{ID: "d"}, RelevanceScore: 0.6},
		{Article: model.Article{ID: "e"}, RelevanceScore: 0.5},
	}

	got := selectArticles(scored, 5)

	assert.Equal(t, 5, len(got))
	seen := map[string]bool{}
	for _, a := range got {
		assert.Equal(t, false, seen[a.ID])
		seen[a.ID] = true
	}
}

func TestSelectArticlesStableOnTies(t *testing.T) {
	scored := []model.ScoredArticle{
		{Article: model.Article{ID: "first"}, RelevanceScore: 0.5},
		{Article: model.Article{ID: "second"}, RelevanceScore: 0.5},
		{Article: model.Article{ID: "third"}, RelevanceScore: 0.5},
		{Article: model.Article{ID: "fourth"}, RelevanceScore: 0.5},
		{Article: model.Article{ID: "fifth"}, RelevanceScore: 0.5},
	}

	got := selectArticles(scored, 5)

	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
	assert.Equal(t, "fifth", got[4].ID)
}

func TestCurateUpstreamEmpty(t *testing.T) {
	source := &fakeNewsClient{}
	feed := &fakeFeed{}
	curator := newTestCurator(source, &scriptedAnalyzer{}, &fakeProfiles{}, feed)

	_, err := curator.Curate(context.Background(), "user-1", 10, "")

	assert.Equal(t, true, errors.Is(err, ErrNoCandidates))
	assert.Equal(t, 1, source.searchCalls)
	assert.Equal(t, 1, source.headlineCalls)
	// Store untouched on upstream-empty.
	assert.Equal(t, 0, feed.calls)
}

func TestCurateRateLimitAborts(t *testing.T) {
	source := &fakeNewsClient{searchErr: news.ErrRateLimited}
	curator := newTestCurator(source, &scriptedAnalyzer{}, &fakeProfiles{}, &fakeFeed{})

	_, err := curator.Curate(context.Background(), "user-1", 10, "")

	assert.Equal(t, true, errors.Is(err, news.ErrRateLimited))
	assert.Equal(t, 0, source.headlineCalls)
}

func TestCurateFallsBackToHeadlines(t *testing.T) {
	source := &fakeNewsClient{headlineResults: rawArticles(6)}
	feed := &fakeFeed{}
	curator := newTestCurator(source, &scriptedAnalyzer{}, &fakeProfiles{}, feed)

	got, err := curator.Curate(context.Background(), "user-1", 10, "")

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, source.searchCalls)
	assert.Equal(t, 1, source.headlineCalls)
	assert.Equal(t, 6, len(got))
	assert.Equal(t, 1, feed.calls)
}

func TestCurateReplacesPreviousSet(t *testing.T) {
	source := &fakeNewsClient{searchResults: rawArticles(6)}
	feed := &fakeFeed{}
	curator := newTestCurator(source, &scriptedAnalyzer{}, &fakeProfiles{}, feed)

	_, err := curator.Curate(context.Background(), "user-1", 10, "")
	assert.Equal(t, nil, err)
	assert.Equal(t, 6, len(feed.current))

	source.searchResults = []news.RawArticle{
		{Title: "Fresh 00", Description: "A description."},
		{Title: "Fresh 01", Description: "A description."},
		{Title: "Fresh 02", Description: "A description."},
		{Title: "Fresh 03", Description: "A description."},
	}

	_, err = curator.Curate(context.Background(), "user-1", 10, "")
	assert.Equal(t, nil, err)

	// The second run leaves exactly the second set, never the union.
	assert.Equal(t, 2, feed.calls)
	assert.Equal(t, 4, len(feed.current))
	for _, a := range feed.current {
		assert.Equal(t, true, strings.HasPrefix(a.Title, "Fresh"))
	}
}

func TestCurateUsesFirstInterestAsQuery(t *testing.T) {
	source := &fakeNewsClient{searchResults: rawArticles(6)}
	profiles := &fakeProfiles{prefs: &model.Preferences{
		AIProfile: "Loves clean energy, hates celebrity gossip",
		Interests: []string{"renewable energy", "batteries"},
		Completed: true,
	}}
	curator := newTestCurator(source, &scriptedAnalyzer{}, profiles, &fakeFeed{})

	_, err := curator.Curate(context.Background(), "user-1", 10, "")

	assert.Equal(t, nil, err)
	assert.Equal(t, "renewable energy", source.lastQuery)
}

func TestCurateTopicFallbackWithoutProfile(t *testing.T) {
	source := &fakeNewsClient{searchResults: rawArticles(6)}
	curator := newTestCurator(source, &scriptedAnalyzer{}, &fakeProfiles{}, &fakeFeed{})

	_, err := curator.Curate(context.Background(), "user-1", 10, "technology")

	assert.Equal(t, nil, err)
	assert.Equal(t, "technology", source.lastQuery)
}

func TestCurateIncompleteProfileUsesTopic(t *testing.T) {
	source := &fakeNewsClient{searchResults: rawArticles(6)}
	profiles := &fakeProfiles{prefs: &model.Preferences{
		AIProfile: "draft",
		Interests: []string{"space"},
		Completed: false,
	}}
	curator := newTestCurator(source, &scriptedAnalyzer{}, profiles, &fakeFeed{})

	_, err := curator.Curate(context.Background(), "user-1", 10, "")

	assert.Equal(t, nil, err)
	assert.Equal(t, DefaultTopic, source.lastQuery)
}

func TestCuratePersistFailureStillReturnsArticles(t *testing.T) {
	source := &fakeNewsClient{searchResults: rawArticles(6)}
	feed := &fakeFeed{err: errors.New("DB down")}
	curator := newTestCurator(source, &scriptedAnalyzer{}, &fakeProfiles{}, feed)

	got, err := curator.Curate(context.Background(), "user-1", 10, "")

	assert.Equal(t, nil, err)
	assert.Equal(t, 6, len(got))
}

func TestCurateStripsScoringFields(t *testing.T) {
	source := &fakeNewsClient{searchResults: rawArticles(6)}
	analyzer := &scriptedAnalyzer{verdicts: map[string]llm.Analysis{
		"Article 00": {Selected: true, RelevanceScore: 0.9, Reasoning: "match"},
	}}
	feed := &fakeFeed{}
	curator := newTestCurator(source, analyzer, &fakeProfiles{}, feed)

	got, err := curator.Curate(context.Background(), "user-1", 10, "")

	assert.Equal(t, nil, err)
	assert.Equal(t, "Article 00", got[0].Title)
	// Result and persisted set are plain articles, scoring fields are gone
	// with the ScoredArticle wrapper by construction.
	assert.Equal(t, len(got), len(feed.current))
}

func TestPreFilter(t *testing.T) {
	candidates := []model.Article{
		{ID: "1", Title: "Has description", Summary: "desc"},
		{ID: "2", Title: "Has content", Content: "body"},
		{ID: "3", Title: "Title only"},
		{ID: "4", Summary: "no title"},
	}

	got := preFilter(candidates)

	assert.Equal(t, 2, len(got))
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}

func TestPreFilterTitleOnlyFallback(t *testing.T) {
	candidates := []model.Article{}
	for i := 0; i < 8; i++ {
		candidates = append(candidates, model.Article{ID: fmt.Sprintf("%d", i), Title: fmt.Sprintf("t%d", i)})
	}

	got := preFilter(candidates)

	assert.Equal(t, titleOnlyCap, len(got))
	assert.Equal(t, "0", got[0].ID)
}

func TestPreFilterNothingUsable(t *testing.T) {
	got := preFilter([]model.Article{{Summary: "no title at all"}})
	assert.Equal(t, 0, len(got))
}

func TestPromptSpecInstruction(t *testing.T) {
	personalized := PersonalizedPrompt("Only quantum computing news")
	assert.Equal(t, true, personalized.Personalized())
	assert.Equal(t, true, strings.Contains(personalized.Instruction(), "Only quantum computing news"))

	topic := TopicPrompt("")
	assert.Equal(t, false, topic.Personalized())
	assert.Equal(t, true, strings.Contains(topic.Instruction(), DefaultTopic))
}
