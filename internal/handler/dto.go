package handler

import (
	"time"

	"github.com/mmarufov/Daily/internal/model"
)

type ArticleResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Content     string `json:"content"`
	Author      string `json:"author"`
	Source      string `json:"source"`
	ImageURL    string `json:"image_url"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
	Category    string `json:"category"`
}

type FeedResponse struct {
	Articles []ArticleResponse `json:"articles"`
	Count    int               `json:"count"`
}

type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type PreferencesResponse struct {
	AIProfile string   `json:"ai_profile"`
	Interests []string `json:"interests"`
	Completed bool     `json:"completed"`
}

type FullArticleResponse struct {
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	Content    string `json:"content"`
	ImageURL   string `json:"image_url"`
	SourceName string `json:"source_name"`
}

func toArticleResponse(a model.Article) ArticleResponse {
	publishedAt := ""
	if a.PublishedAt != nil {
		publishedAt = a.PublishedAt.Format(time.RFC3339)
	}

	return ArticleResponse{
		ID:          a.ID,
		Title:       a.Title,
		Summary:     a.Summary,
		Content:     a.Content,
		Author:      a.Author,
		Source:      a.Source,
		ImageURL:    a.ImageURL,
		URL:         a.URL,
		PublishedAt: publishedAt,
		Category:    a.Category,
	}
}

func toFeedResponse(articles []model.Article) FeedResponse {
	res := FeedResponse{Articles: make([]ArticleResponse, 0, len(articles))}
	for _, a := range articles {
		res.Articles = append(res.Articles, toArticleResponse(a))
	}
	res.Count = len(res.Articles)
	return res
}

func toUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
	}
}
