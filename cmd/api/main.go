package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mmarufov/Daily/db"
	"github.com/mmarufov/Daily/internal/auth"
	"github.com/mmarufov/Daily/internal/curation"
	"github.com/mmarufov/Daily/internal/handler"
	"github.com/mmarufov/Daily/internal/repository"
	"github.com/mmarufov/Daily/pkg/images"
	"github.com/mmarufov/Daily/pkg/llm"
	"github.com/mmarufov/Daily/pkg/news"
	"github.com/mmarufov/Daily/pkg/pages"
)

const defaultTokenTTL = 720 * time.Hour

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	database, err := db.Connect(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer database.Close()

	redisClient, err := db.ConnectRedis(context.Background(), os.Getenv("REDIS_URL"))
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	userRepo := repository.NewUserRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	articleRepo := repository.NewArticleRepository(database)

	openaiClient := llm.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"))

	var analyzer llm.Analyzer = openaiClient
	if os.Getenv("AI_PROVIDER") == "anthropic" {
		slog.Info("using Anthropic for article analysis")
		analyzer = llm.NewAnthropicClient(os.Getenv("ANTHROPIC_API_KEY"))
	}

	newsClient := news.NewNewsAPIClient(os.Getenv("NEWS_API_KEY"))
	pexelsClient := images.NewPexelsClient(os.Getenv("PEXELS_API_KEY"))

	scorer := curation.NewScorer(analyzer)
	enricher := curation.NewEnricher(pexelsClient, openaiClient)
	curator := curation.NewCurator(newsClient, scorer, enricher, userRepo, articleRepo)

	extractor := llm.NewArticleExtractor(openaiClient, pages.NewFetcher())
	preparer := curation.NewPreparer(extractor, articleRepo)

	googleVerifier := auth.NewGoogleVerifier(os.Getenv("GOOGLE_AUDIENCE"))
	appleVerifier := auth.NewAppleVerifier(os.Getenv("APPLE_AUDIENCE"))

	authHandler := handler.NewAuthHandler(googleVerifier, appleVerifier, userRepo, sessionRepo, tokenTTL())
	preferencesHandler := handler.NewPreferencesHandler(userRepo, openaiClient)
	newsHandler := handler.NewNewsHandler(curator, articleRepo, extractor, preparer)
	healthHandler := handler.NewHealthHandler(database)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.POST("/auth/google", authHandler.AuthGoogle)
	r.POST("/auth/apple", authHandler.AuthApple)
	r.GET("/health", healthHandler.GetHealth)

	authed := r.Group("/", auth.RequireAuth(sessionRepo, redisClient))
	authed.GET("/me", authHandler.Me)
	authed.GET("/preferences", preferencesHandler.GetPreferences)
	authed.PUT("/preferences", preferencesHandler.SavePreferences)
	authed.POST("/preferences/complete", preferencesHandler.CompletePreferences)
	authed.POST("/news/curate", newsHandler.Curate)
	authed.GET("/news/curated", newsHandler.GetCurated)
	authed.GET("/news/article", newsHandler.GetFullArticle)
	authed.POST("/news/prepare", newsHandler.PrepareAll)

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

func tokenTTL() time.Duration {
	raw := os.Getenv("APP_TOKEN_TTL_HOURS")
	if raw == "" {
		return defaultTokenTTL
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		slog.Warn("invalid APP_TOKEN_TTL_HOURS, using default", "value", raw)
		return defaultTokenTTL
	}
	return time.Duration(hours) * time.Hour
}
