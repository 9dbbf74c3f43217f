package pages

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// maxTextChars bounds how much page text is handed to the model.
const maxTextChars = 8000

// Page is a cleaned web page ready for LLM consumption.
type Page struct {
	Title    string
	ImageURL string
	Text     string
}

type Fetcher struct {
	httpClient *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// FetchClean downloads a page, strips boilerplate nodes and returns the
// Open Graph title/image plus the truncated body text.
func (f *Fetcher) FetchClean(ctx context.Context, pageURL string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return Page{}, fmt.Errorf("page request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; DailyBot/1.0)")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("page fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("page status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Page{}, fmt.Errorf("page parse: %w", err)
	}

	page := Page{
		Title:    strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", "")),
		ImageURL: strings.TrimSpace(doc.Find(`meta[property="og:image"]`).AttrOr("content", "")),
	}

	if page.Title == "" {
		page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	doc.Find("script, style, nav, footer, aside, noscript, iframe").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	page.Text = truncate(collapseWhitespace(body.Text()), maxTextChars)

	return page, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Back up to a rune boundary so the cut never splits a multi-byte
	// character.
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
