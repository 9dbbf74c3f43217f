package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mmarufov/Daily/internal/auth"
	"github.com/mmarufov/Daily/internal/model"
)

type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (model.Identity, error)
}

type UserStore interface {
	UpsertFromIdentity(identity model.Identity) (*model.User, error)
	GetByID(id string) (*model.User, error)
}

type SessionWriter interface {
	Create(userID string, tokenHash string, expiresAt time.Time) error
}

type AuthHandler struct {
	google   IdentityVerifier
	apple    IdentityVerifier
	users    UserStore
	sessions SessionWriter
	tokenTTL time.Duration
}

func NewAuthHandler(google, apple IdentityVerifier, users UserStore, sessions SessionWriter, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		google:   google,
		apple:    apple,
		users:    users,
		sessions: sessions,
		tokenTTL: tokenTTL,
	}
}

type googleAuthRequest struct {
	IDToken string `json:"id_token"`
}

type appleAuthRequest struct {
	IdentityToken string `json:"identity_token"`
}

func (h *AuthHandler) AuthGoogle(c *gin.Context) {
	var req googleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IDToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_token is required"})
		return
	}

	h.authenticate(c, h.google, req.IDToken)
}

func (h *AuthHandler) AuthApple(c *gin.Context) {
	var req appleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IdentityToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identity_token is required"})
		return
	}

	h.authenticate(c, h.apple, req.IdentityToken)
}

func (h *AuthHandler) authenticate(c *gin.Context, verifier IdentityVerifier, providerToken string) {
	identity, err := verifier.Verify(c.Request.Context(), providerToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		slog.Error("error verifying identity token", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Identity provider error"})
		return
	}

	user, err := h.users.UpsertFromIdentity(identity)
	if err != nil {
		slog.Error("error upserting user", "provider", identity.Provider, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	token, err := auth.NewSessionToken()
	if err != nil {
		slog.Error("error generating session token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	err = h.sessions.Create(user.ID, auth.HashToken(token), time.Now().Add(h.tokenTTL))
	if err != nil {
		slog.Error("error creating session", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: toUserResponse(*user)})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString(auth.UserIDKey)

	user, err := h.users.GetByID(userID)
	if err != nil {
		slog.Error("error fetching user", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(*user))
}
