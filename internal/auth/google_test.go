package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

func newGoogleTestVerifier(srv *httptest.Server, audience string) *GoogleVerifier {
	return &GoogleVerifier{
		audience:     audience,
		tokenInfoURL: srv.URL,
		httpClient:   srv.Client(),
	}
}

func TestGoogleVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok-123", r.URL.Query().Get("id_token"))
		json.NewEncoder(w).Encode(map[string]string{
			"aud":     "my-client-id",
			"sub":     "google-user-1",
			"email":   "user@example.com",
			"name":    "Test User",
			"picture": "https://example.com/p.jpg",
		})
	}))
	defer srv.Close()

	v := newGoogleTestVerifier(srv, "my-client-id")
	identity, err := v.Verify(context.Background(), "tok-123")

	assert.Equal(t, nil, err)
	assert.Equal(t, "google", identity.Provider)
	assert.Equal(t, "google-user-1", identity.ProviderUserID)
	assert.Equal(t, "user@example.com", identity.Email)
	assert.Equal(t, "Test User", identity.Name)
}

func TestGoogleVerifyAudienceMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"aud": "someone-else",
			"sub": "google-user-1",
		})
	}))
	defer srv.Close()

	v := newGoogleTestVerifier(srv, "my-client-id")
	_, err := v.Verify(context.Background(), "tok-123")

	assert.Equal(t, true, errors.Is(err, ErrInvalidToken))
}

func TestGoogleVerifyRejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	v := newGoogleTestVerifier(srv, "")
	_, err := v.Verify(context.Background(), "bad-token")

	assert.Equal(t, true, errors.Is(err, ErrInvalidToken))
}
