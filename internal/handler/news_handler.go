package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmarufov/Daily/internal/auth"
	"github.com/mmarufov/Daily/internal/curation"
	"github.com/mmarufov/Daily/internal/model"
	"github.com/mmarufov/Daily/pkg/news"
)

type Curator interface {
	Curate(ctx context.Context, userID string, requestedLimit int, fallbackTopic string) ([]model.Article, error)
}

type CuratedStore interface {
	GetForUser(userID string) ([]model.Article, error)
}

type Extractor interface {
	ExtractArticle(ctx context.Context, articleURL string) (model.FullArticle, error)
}

type Preparer interface {
	PrepareAll(ctx context.Context, userID string) (int, error)
}

type NewsHandler struct {
	curator   Curator
	store     CuratedStore
	extractor Extractor
	preparer  Preparer
}

func NewNewsHandler(curator Curator, store CuratedStore, extractor Extractor, preparer Preparer) *NewsHandler {
	return &NewsHandler{
		curator:   curator,
		store:     store,
		extractor: extractor,
		preparer:  preparer,
	}
}

type curateRequest struct {
	Limit int    `json:"limit"`
	Topic string `json:"topic"`
}

// Curate runs the full pipeline synchronously and returns the fresh set.
func (h *NewsHandler) Curate(c *gin.Context) {
	userID := c.GetString(auth.UserIDKey)

	req := curateRequest{Limit: 10}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	articles, err := h.curator.Curate(c.Request.Context(), userID, req.Limit, req.Topic)
	if err != nil {
		switch {
		case errors.Is(err, curation.ErrNoCandidates):
			c.JSON(http.StatusNotFound, gin.H{"error": "No articles available from news sources"})
		case errors.Is(err, news.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "News provider rate limit exceeded"})
		default:
			slog.Error("error running curation", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Curation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, toFeedResponse(articles))
}

// GetCurated serves the last persisted set without recomputation. No prior
// run is a valid, empty state.
func (h *NewsHandler) GetCurated(c *gin.Context) {
	userID := c.GetString(auth.UserIDKey)

	articles, err := h.store.GetForUser(userID)
	if err != nil {
		slog.Error("error fetching curated articles", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, toFeedResponse(articles))
}

func (h *NewsHandler) GetFullArticle(c *gin.Context) {
	articleURL := c.Query("url")
	if articleURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	full, err := h.extractor.ExtractArticle(c.Request.Context(), articleURL)
	if err != nil {
		slog.Error("error extracting article", "url", articleURL, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Extraction failed"})
		return
	}

	c.JSON(http.StatusOK, FullArticleResponse{
		Title:      full.Title,
		Summary:    full.Summary,
		Content:    full.Content,
		ImageURL:   full.ImageURL,
		SourceName: full.SourceName,
	})
}

func (h *NewsHandler) PrepareAll(c *gin.Context) {
	userID := c.GetString(auth.UserIDKey)

	prepared, err := h.preparer.PrepareAll(c.Request.Context(), userID)
	if err != nil {
		slog.Error("error preparing articles", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"prepared": prepared})
}
