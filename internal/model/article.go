package model

import "time"

const UnknownSource = "Unknown"

// Article is the provider-agnostic shape used through the whole pipeline.
// ID is generated when a raw provider record is normalized; the provider's
// own id is not preserved.
type Article struct {
	ID          string
	Title       string
	Summary     string
	Content     string
	Author      string
	Source      string
	ImageURL    string
	URL         string
	PublishedAt *time.Time
	Category    string
}

// ScoredArticle only exists inside one curation run. RelevanceScore and
// Selected are stripped before anything is persisted.
type ScoredArticle struct {
	Article
	RelevanceScore float64
	Selected       bool
	Reasoning      string
}

// FullArticle is the transient result of on-demand extraction.
type FullArticle struct {
	Title      string
	Summary    string
	Content    string
	ImageURL   string
	SourceName string
}
