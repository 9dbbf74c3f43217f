package images

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestSearch(t *testing.T) {
	payload := map[string]interface{}{
		"photos": []map[string]interface{}{
			{
				"alt": "A wind farm at sunset",
				"src": map[string]interface{}{"large": "https://example.com/wind.jpg"},
			},
			{
				"alt": "Solar panels on a roof",
				"src": map[string]interface{}{"large": "https://example.com/solar.jpg"},
			},
		},
	}

	var gotAuth, gotPerPage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPerPage = r.URL.Query().Get("per_page")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	client := &PexelsClient{apiKey: "test-key", baseURL: srv.URL, httpClient: srv.Client()}
	candidates, err := client.Search(context.Background(), "renewable energy", 25)

	assert.Equal(t, nil, err)
	assert.Equal(t, "test-key", gotAuth)
	assert.Equal(t, "10", gotPerPage)
	assert.Equal(t, 2, len(candidates))
	assert.Equal(t, "https://example.com/wind.jpg", candidates[0].URL)
	assert.Equal(t, "A wind farm at sunset", candidates[0].Description)
}

func TestSearchWithoutCredentials(t *testing.T) {
	client := NewPexelsClient("")
	candidates, err := client.Search(context.Background(), "anything", 10)

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(candidates))
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := &PexelsClient{apiKey: "test-key", baseURL: srv.URL, httpClient: srv.Client()}
	_, err := client.Search(context.Background(), "anything", 10)

	assert.NotEqual(t, nil, err)
}
