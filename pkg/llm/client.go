package llm

import "context"

// Analysis is the scorer's verdict for one article.
type Analysis struct {
	Selected       bool
	RelevanceScore float64
	Reasoning      string
}

// ProfileSummary is the distilled result of an onboarding conversation.
type ProfileSummary struct {
	Profile   string
	Interests []string
}

type Analyzer interface {
	AnalyzeArticle(ctx context.Context, articleText string, instruction string) (Analysis, error)
}

// ImagePicker returns the index of the best matching candidate, or -1 when
// none is relevant.
type ImagePicker interface {
	PickImage(ctx context.Context, title string, summary string, descriptions []string) (int, error)
}

type ProfileSummarizer interface {
	SummarizeProfile(ctx context.Context, conversation string) (ProfileSummary, error)
}
