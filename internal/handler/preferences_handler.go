package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmarufov/Daily/internal/auth"
	"github.com/mmarufov/Daily/internal/model"
	"github.com/mmarufov/Daily/pkg/llm"
)

type PreferencesStore interface {
	GetPreferences(userID string) (*model.Preferences, error)
	SavePreferences(userID string, prefs model.Preferences) error
}

type PreferencesHandler struct {
	store      PreferencesStore
	summarizer llm.ProfileSummarizer
}

func NewPreferencesHandler(store PreferencesStore, summarizer llm.ProfileSummarizer) *PreferencesHandler {
	return &PreferencesHandler{store: store, summarizer: summarizer}
}

func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	userID := c.GetString(auth.UserIDKey)

	prefs, err := h.store.GetPreferences(userID)
	if err != nil {
		slog.Error("error fetching preferences", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if prefs == nil {
		c.JSON(http.StatusOK, PreferencesResponse{Interests: []string{}})
		return
	}

	c.JSON(http.StatusOK, toPreferencesResponse(*prefs))
}

type savePreferencesRequest struct {
	AIProfile string   `json:"ai_profile"`
	Interests []string `json:"interests"`
	Completed bool     `json:"completed"`
}

func (h *PreferencesHandler) SavePreferences(c *gin.Context) {
	userID := c.GetString(auth.UserIDKey)

	var req savePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	prefs := model.Preferences{
		AIProfile: req.AIProfile,
		Interests: req.Interests,
		Completed: req.Completed,
	}

	if err := h.store.SavePreferences(userID, prefs); err != nil {
		slog.Error("error saving preferences", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, toPreferencesResponse(prefs))
}

type completePreferencesRequest struct {
	Conversation string `json:"conversation"`
}

// CompletePreferences distills the onboarding conversation into a saved
// profile and marks it completed.
func (h *PreferencesHandler) CompletePreferences(c *gin.Context) {
	userID := c.GetString(auth.UserIDKey)

	var req completePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Conversation == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversation is required"})
		return
	}

	summary, err := h.summarizer.SummarizeProfile(c.Request.Context(), req.Conversation)
	if err != nil {
		slog.Error("error summarizing profile", "user_id", userID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI service error"})
		return
	}

	prefs := model.Preferences{
		AIProfile: summary.Profile,
		Interests: summary.Interests,
		Completed: true,
	}

	if err := h.store.SavePreferences(userID, prefs); err != nil {
		slog.Error("error saving preferences", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, toPreferencesResponse(prefs))
}

func toPreferencesResponse(prefs model.Preferences) PreferencesResponse {
	interests := prefs.Interests
	if interests == nil {
		interests = []string{}
	}

	return PreferencesResponse{
		AIProfile: prefs.AIProfile,
		Interests: interests,
		Completed: prefs.Completed,
	}
}
