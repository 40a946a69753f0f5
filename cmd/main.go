package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/serenica/server/adapters/emotion"
	"github.com/serenica/server/adapters/memory"
	"github.com/serenica/server/adapters/mongo"
	"github.com/serenica/server/adapters/sentiment"
	"github.com/serenica/server/adapters/stt"
	"github.com/serenica/server/domain/repositories"
	"github.com/serenica/server/internal/api"
	"github.com/serenica/server/internal/websocket"
	"github.com/serenica/server/usecase"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load .env if present; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using process environment")
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Session store with idle eviction
	ttl := 30 * time.Minute
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			ttl = parsed
		} else {
			logger.Warn("Invalid SESSION_TTL, using default", zap.String("value", v))
		}
	}
	sessions := memory.NewSessionStore(ttl, logger)
	sessions.StartJanitor()

	// Persistence
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	mongoDB := os.Getenv("MONGODB_DATABASE")
	if mongoDB == "" {
		mongoDB = "serenica"
	}
	mongoClient, err := mongo.NewClient(mongoURI, mongoDB, logger)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	results := mongo.NewAssessmentRepository(mongoClient.Database)

	// Classification capabilities
	var facial repositories.FacialClassifier
	var vocal repositories.VocalClassifier
	if url := os.Getenv("CLASSIFIER_URL"); url != "" {
		classifier := emotion.NewHTTPClassifier(url)
		facial, vocal = classifier, classifier
		logger.Info("Using HTTP classifier service", zap.String("url", url))
	} else {
		facial = emotion.NewMockFacialClassifier(logger)
		vocal = emotion.NewMockVocalClassifier(logger)
		logger.Warn("CLASSIFIER_URL not set, using mock classifiers")
	}

	var analyzer repositories.SentimentAnalyzer
	if gemini, err := sentiment.NewGeminiSentiment(logger); err == nil {
		analyzer = gemini
		logger.Info("Using Gemini sentiment analyzer")
	} else {
		analyzer = sentiment.NewLexiconSentiment(logger)
		logger.Warn("Gemini unavailable, using lexicon sentiment analyzer", zap.Error(err))
	}

	var transcriber repositories.SpeechToText
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" {
		transcriber = stt.NewGoogleSpeechToText()
		logger.Info("Using Google Cloud speech-to-text")
	} else {
		logger.Warn("GOOGLE_APPLICATION_CREDENTIALS not set, transcription disabled")
	}

	// Core service
	service := usecase.NewAssessmentService(sessions, results, analyzer, logger)

	// Initialize WebSocket hub
	hub := websocket.NewHub(sessions, facial, vocal, analyzer, transcriber, logger)
	go hub.Run()

	// Initialize API routes
	api.InitRoutes(e, hub, service, logger)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Screening server started", zap.String("port", port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sessions.Stop()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := mongoClient.Close(ctx); err != nil {
		logger.Error("Failed to close MongoDB connection", zap.Error(err))
	}

	logger.Info("Server exited")
}
