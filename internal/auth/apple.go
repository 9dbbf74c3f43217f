package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmarufov/Daily/internal/model"
)

type AppleVerifier struct {
	audience   string
	jwksURL    string
	httpClient *http.Client
}

func NewAppleVerifier(audience string) *AppleVerifier {
	return &AppleVerifier{
		audience:   audience,
		jwksURL:    "https://appleid.apple.com/auth/keys",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type appleClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verify validates an Apple identity token against Apple's JWKS. Apple does
// not put name or picture in the token, so those stay empty.
func (v *AppleVerifier) Verify(ctx context.Context, identityToken string) (model.Identity, error) {
	keys, err := v.fetchKeys(ctx)
	if err != nil {
		return model.Identity{}, err
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"RS256"})}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	var claims appleClaims
	token, err := jwt.ParseWithClaims(identityToken, &claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		key, ok := keys[kid]
		if !ok {
			return nil, fmt.Errorf("apple signing key %q not found", kid)
		}
		return key, nil
	}, opts...)

	if err != nil || !token.Valid {
		return model.Identity{}, ErrInvalidToken
	}

	return model.Identity{
		Provider:       "apple",
		ProviderUserID: claims.Subject,
		Email:          claims.Email,
	}, nil
}

func (v *AppleVerifier) fetchKeys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("jwks request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jwks fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwks status %d", resp.StatusCode)
	}

	var jwks struct {
		Keys []struct {
			Kid string `json:"kid"`
			Kty string `json:"kty"`
			N   string `json:"n"`
			E   string `json:"e"`
		} `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("jwks decode: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for _, k := range jwks.Keys {
		if k.Kty != "RSA" {
			continue
		}

		nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
		if err != nil {
			continue
		}
		eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
		if err != nil {
			continue
		}

		keys[k.Kid] = &rsa.PublicKey{
			N: new(big.Int).SetBytes(nBytes),
			E: int(new(big.Int).SetBytes(eBytes).Int64()),
		}
	}

	return keys, nil
}
