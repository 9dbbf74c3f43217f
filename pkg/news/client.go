package news

import (
	"context"
	"errors"
)

// RawArticle is one provider record before normalization.
type RawArticle struct {
	Title       string
	Description string
	Content     string
	Author      string
	SourceName  string
	URL         string
	ImageURL    string
	PublishedAt string
}

// ErrRateLimited marks a provider 429 so callers can decide between
// retrying with a different query and aborting.
var ErrRateLimited = errors.New("news provider rate limit exceeded")

type Client interface {
	TopHeadlines(ctx context.Context, country string, pageSize int) ([]RawArticle, error)
	Search(ctx context.Context, query string, sortBy string, pageSize int) ([]RawArticle, error)
	Name() string
}
