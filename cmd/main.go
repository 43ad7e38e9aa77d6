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

	"github.com/escutaai/escuta/adapters/emotion"
	"github.com/escutaai/escuta/adapters/llm"
	"github.com/escutaai/escuta/adapters/stt"
	"github.com/escutaai/escuta/domain/repositories"
	"github.com/escutaai/escuta/internal/api"
	"github.com/escutaai/escuta/internal/config"
	"github.com/escutaai/escuta/internal/staging"
	"github.com/escutaai/escuta/internal/websocket"
	"github.com/escutaai/escuta/usecase"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load .env when present; the environment wins over the file.
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment")
	}
	cfg := config.Load()

	ctx := context.Background()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize adapters
	gemini, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, logger)
	if err != nil {
		logger.Fatal("failed to initialize gemini client", zap.Error(err))
	}
	transcriber := selectTranscriber(ctx, cfg, gemini, logger)
	extractor := emotion.NewWhisperFeatureExtractor()
	classifier := emotion.NewClient(cfg.EmotionAPIURL, cfg.EmotionAPIKey, logger)
	stager := staging.NewStager(logger)

	// Initialize usecase services
	transcriptionService := usecase.NewTranscriptionService(transcriber, logger)
	emotionService := usecase.NewEmotionService(extractor, classifier, logger)
	analysisService := usecase.NewAnalysisService(gemini, logger)
	audioAnalysisService := usecase.NewAudioAnalysisService(gemini, logger)
	pipelineService := usecase.NewPipelineService(
		stager,
		transcriptionService,
		emotionService,
		analysisService,
		cfg.StageTimeout,
		logger,
	)

	// Initialize API routes
	handlers := api.NewHandlers(
		pipelineService,
		transcriptionService,
		emotionService,
		audioAnalysisService,
		stager,
		cfg,
		logger,
	)
	api.InitRoutes(e, handlers)

	// WebSocket endpoint streaming stage events during a run
	stream := websocket.NewAnalysisStream(pipelineService, logger)
	e.GET("/ws/analysis", stream.Handle)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", cfg.Port), zap.String("stt_provider", cfg.STTProvider))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// selectTranscriber picks the provider named by STT_PROVIDER. Gemini is the
// default; a Google Cloud Speech failure at startup falls back to Gemini
// rather than aborting.
func selectTranscriber(ctx context.Context, cfg *config.Config, gemini *llm.Gemini, logger *zap.Logger) repositories.Transcriber {
	if cfg.STTProvider == "google" {
		google, err := stt.NewGoogleSpeechToText(ctx, logger)
		if err == nil {
			return google
		}
		logger.Warn("google speech unavailable, falling back to gemini transcription", zap.Error(err))
	}
	return llm.NewGeminiTranscriber(gemini)
}
