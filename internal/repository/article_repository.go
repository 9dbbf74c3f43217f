package repository

import (
	"database/sql"
	"time"

	"github.com/mmarufov/Daily/internal/model"
)

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// ReplaceForUser swaps the user's curated set atomically: delete then insert
// in one transaction, so readers never observe a half-written set. An empty
// set is valid and leaves the user with zero curated articles.
func (r *ArticleRepository) ReplaceForUser(userID string, articles []model.Article) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		DELETE FROM curated_article WHERE user_id = $1
	`, userID)
	if err != nil {
		return err
	}

	for _, a := range articles {
		var publishedAt sql.NullTime
		if a.PublishedAt != nil {
			publishedAt = sql.NullTime{Time: *a.PublishedAt, Valid: true}
		}

		_, err = tx.Exec(`
			INSERT INTO curated_article(id, user_id, title, summary, content, author, source, image_url, url, published_at, category)
			VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, a.ID, userID, a.Title, a.Summary, a.Content, a.Author, a.Source, a.ImageURL, a.URL, publishedAt, a.Category)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetForUser returns the user's last curated set ordered by recency. No rows
// is a valid state and yields an empty slice.
func (r *ArticleRepository) GetForUser(userID string) ([]model.Article, error) {
	rows, err := r.db.Query(`
		SELECT id, title, summary, content, author, source, image_url, url, published_at, category
		FROM curated_article
		WHERE user_id = $1
		ORDER BY published_at DESC NULLS LAST, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := []model.Article{}
	for rows.Next() {
		var a model.Article
		var publishedAt sql.NullTime
		err := rows.Scan(&a.ID, &a.Title, &a.Summary, &a.Content, &a.Author, &a.Source, &a.ImageURL, &a.URL, &publishedAt, &a.Category)
		if err != nil {
			return nil, err
		}

		if publishedAt.Valid {
			t := publishedAt.Time
			a.PublishedAt = &t
		}

		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return articles, nil
}

// UpdateFullContent overwrites a curated article's extracted fields after a
// bulk-prepare run. Empty extraction fields leave the stored values alone.
func (r *ArticleRepository) UpdateFullContent(userID string, articleURL string, full model.FullArticle) error {
	_, err := r.db.Exec(`
		UPDATE curated_article
		SET title = COALESCE(NULLIF($3, ''), title),
			summary = COALESCE(NULLIF($4, ''), summary),
			content = COALESCE(NULLIF($5, ''), content),
			image_url = COALESCE(NULLIF($6, ''), image_url),
			source = COALESCE(NULLIF($7, ''), source),
			updated_at = $8
		WHERE user_id = $1 AND url = $2
	`, userID, articleURL, full.Title, full.Summary, full.Content, full.ImageURL, full.SourceName, time.Now())
	return err
}
