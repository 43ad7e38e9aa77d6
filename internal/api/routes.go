// Package api exposes the HTTP surface: service info, health, the two
// standalone stage endpoints and the composite analysis endpoints.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/escutaai/escuta/domain/entities"
	"github.com/escutaai/escuta/internal/config"
	"github.com/escutaai/escuta/internal/staging"
)

// Service contracts the handlers depend on, matched by the usecase layer.
type Pipeline interface {
	Run(ctx context.Context, payload, format string) (*entities.PipelineResult, error)
}

type Transcription interface {
	Transcribe(ctx context.Context, audio []byte, format string) (string, error)
}

type Classification interface {
	Classify(ctx context.Context, audio []byte, format string) (string, error)
}

type AudioAnalysis interface {
	Analyse(ctx context.Context, audio []byte, format string) (*entities.AnalysisReport, error)
}

// Handlers groups the endpoint implementations and their dependencies.
type Handlers struct {
	pipeline       Pipeline
	transcription  Transcription
	classification Classification
	audioAnalysis  AudioAnalysis
	stager         *staging.Stager
	cfg            *config.Config
	logger         *zap.Logger
}

func NewHandlers(
	pipeline Pipeline,
	transcription Transcription,
	classification Classification,
	audioAnalysis AudioAnalysis,
	stager *staging.Stager,
	cfg *config.Config,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		pipeline:       pipeline,
		transcription:  transcription,
		classification: classification,
		audioAnalysis:  audioAnalysis,
		stager:         stager,
		cfg:            cfg,
		logger:         logger,
	}
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, h *Handlers) {
	e.GET("/", h.serviceInfo)
	e.GET("/health", h.health)
	e.POST("/transcribe-audio", h.transcribeAudio)
	e.POST("/predict-emotion", h.predictEmotion)
	e.POST("/analyse-patient-psychological-issue", h.analysePatient)
	e.POST("/analyse-audio-psycological-issue", h.analyseAudio)
}

func (h *Handlers) serviceInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, ServiceInfo{
		Service: "escuta",
		Status:  "running",
		Endpoints: []string{
			"/health",
			"/transcribe-audio",
			"/predict-emotion",
			"/analyse-patient-psychological-issue",
			"/analyse-audio-psycological-issue",
		},
	})
}

// health answers 200 when every provider credential is present, 206 when the
// service runs degraded.
func (h *Handlers) health(c echo.Context) error {
	health := h.cfg.Health()
	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusPartialContent
	}
	return c.JSON(status, health)
}

// bindAudio validates the shared request shape. The payload itself is only
// decoded later by the staging step of each endpoint.
func (h *Handlers) bindAudio(c echo.Context) (*AnalyseRequest, error) {
	var req AnalyseRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("failed to bind audio request", zap.Error(err))
		return nil, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "corpo da requisição inválido"})
	}
	if req.AudioData == "" {
		return nil, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "audio_data é obrigatório"})
	}
	if req.AudioFormat == "" {
		req.AudioFormat = "wav"
	}
	return &req, nil
}

func (h *Handlers) transcribeAudio(c echo.Context) error {
	req, err := h.bindAudio(c)
	if req == nil {
		return err
	}

	handle, err := h.stager.Stage(req.AudioData, req.AudioFormat)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	defer handle.Release()

	text, err := h.transcription.Transcribe(c.Request().Context(), handle.Bytes(), handle.Format())
	if err != nil {
		h.logger.Error("transcription endpoint failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, TranscriptionResponse{Transcription: text, Success: true})
}

func (h *Handlers) predictEmotion(c echo.Context) error {
	req, err := h.bindAudio(c)
	if req == nil {
		return err
	}

	handle, err := h.stager.Stage(req.AudioData, req.AudioFormat)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	defer handle.Release()

	label, err := h.classification.Classify(c.Request().Context(), handle.Bytes(), handle.Format())
	if err != nil {
		h.logger.Error("emotion endpoint failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, EmotionResponse{Emotion: label})
}

// analysePatient runs the full pipeline and returns the composite result.
func (h *Handlers) analysePatient(c echo.Context) error {
	req, err := h.bindAudio(c)
	if req == nil {
		return err
	}

	result, err := h.pipeline.Run(c.Request().Context(), req.AudioData, req.AudioFormat)
	if err != nil {
		var decodeErr *entities.DecodeError
		if errors.As(err, &decodeErr) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: decodeErr.Error()})
		}
		h.logger.Error("pipeline run failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:      err.Error(),
			Disclaimer: entities.Disclaimer,
		})
	}
	return c.JSON(http.StatusOK, result)
}

// analyseAudio sends the recording straight to the language model, skipping
// the transcription and classification stages.
func (h *Handlers) analyseAudio(c echo.Context) error {
	req, err := h.bindAudio(c)
	if req == nil {
		return err
	}

	handle, err := h.stager.Stage(req.AudioData, req.AudioFormat)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	defer handle.Release()

	report, err := h.audioAnalysis.Analyse(c.Request().Context(), handle.Bytes(), handle.Format())
	if err != nil {
		h.logger.Error("audio analysis endpoint failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:      err.Error(),
			Disclaimer: entities.Disclaimer,
		})
	}
	return c.JSON(http.StatusOK, report)
}
