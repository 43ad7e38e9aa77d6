package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/escutaai/escuta/domain/entities"
	"github.com/escutaai/escuta/domain/repositories"
	"github.com/escutaai/escuta/internal/prompt"
)

// AnalysisService turns a transcript plus an emotion label into a structured
// psychological report through the language model.
type AnalysisService struct {
	model  repositories.TextLanguageModel
	logger *zap.Logger
}

func NewAnalysisService(model repositories.TextLanguageModel, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		model:  model,
		logger: logger,
	}
}

// Analyse produces the structured report. When the model answers with text
// that cannot be decoded into the report schema, the raw answer is preserved
// in a degraded report instead of failing the stage; only provider errors
// abort the analysis.
func (s *AnalysisService) Analyse(ctx context.Context, transcript string, emotion string) (*entities.AnalysisReport, error) {
	if strings.TrimSpace(emotion) == "" {
		emotion = string(entities.EmotionUnknown)
	}

	rendered, err := prompt.Analysis.Render(map[string]string{
		prompt.PlaceholderText:    transcript,
		prompt.PlaceholderEmotion: emotion,
	})
	if err != nil {
		return nil, &entities.AnalysisError{Err: err}
	}

	raw, err := s.model.InvokeJSON(ctx, rendered)
	if err != nil {
		s.logger.Error("analysis invocation failed", zap.Error(err))
		return nil, &entities.AnalysisError{Err: err}
	}

	report, err := entities.DecodeReport(raw)
	if err != nil {
		var parseErr *entities.SchemaParseError
		if errors.As(err, &parseErr) {
			s.logger.Warn("model answer did not match the report schema, returning degraded report",
				zap.Error(parseErr))
			return entities.DegradedReport(raw), nil
		}
		return nil, &entities.AnalysisError{Err: err}
	}
	return report, nil
}

// AudioAnalysisService analyses a recording directly, without the
// intermediate transcription and classification stages.
type AudioAnalysisService struct {
	model  repositories.AudioLanguageModel
	logger *zap.Logger
}

func NewAudioAnalysisService(model repositories.AudioLanguageModel, logger *zap.Logger) *AudioAnalysisService {
	return &AudioAnalysisService{
		model:  model,
		logger: logger,
	}
}

func (s *AudioAnalysisService) Analyse(ctx context.Context, audio []byte, format string) (*entities.AnalysisReport, error) {
	instruction, err := prompt.AudioAnalysis.Render(nil)
	if err != nil {
		return nil, &entities.AnalysisError{Err: err}
	}

	raw, err := s.model.InvokeAudio(ctx, instruction, audio, format)
	if err != nil {
		s.logger.Error("audio analysis invocation failed", zap.Error(err))
		return nil, &entities.AnalysisError{Err: err}
	}

	report, err := entities.DecodeReport(raw)
	if err != nil {
		var parseErr *entities.SchemaParseError
		if errors.As(err, &parseErr) {
			s.logger.Warn("model answer did not match the report schema, returning degraded report",
				zap.Error(parseErr))
			return entities.DegradedReport(raw), nil
		}
		return nil, &entities.AnalysisError{Err: err}
	}
	return report, nil
}
