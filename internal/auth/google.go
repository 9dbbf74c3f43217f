package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmarufov/Daily/internal/model"
)

var ErrInvalidToken = errors.New("invalid identity token")

type GoogleVerifier struct {
	audience     string
	tokenInfoURL string
	httpClient   *http.Client
}

func NewGoogleVerifier(audience string) *GoogleVerifier {
	return &GoogleVerifier{
		audience:     audience,
		tokenInfoURL: "https://oauth2.googleapis.com/tokeninfo",
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify checks a Google ID token against the tokeninfo endpoint and the
// configured audience.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (model.Identity, error) {
	params := url.Values{}
	params.Set("id_token", idToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.tokenInfoURL+"?"+params.Encode(), nil)
	if err != nil {
		return model.Identity{}, fmt.Errorf("tokeninfo request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return model.Identity{}, fmt.Errorf("tokeninfo fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Identity{}, ErrInvalidToken
	}

	var info struct {
		Aud     string `json:"aud"`
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return model.Identity{}, fmt.Errorf("tokeninfo decode: %w", err)
	}

	if v.audience != "" && info.Aud != v.audience {
		return model.Identity{}, ErrInvalidToken
	}

	return model.Identity{
		Provider:       "google",
		ProviderUserID: info.Sub,
		Email:          info.Email,
		Name:           info.Name,
		Picture:        info.Picture,
	}, nil
}
