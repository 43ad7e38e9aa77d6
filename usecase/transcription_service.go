// Package usecase contains the application services that orchestrate the
// domain contracts: transcription, emotion classification, report analysis
// and the full pipeline that joins them.
package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/escutaai/escuta/domain/entities"
	"github.com/escutaai/escuta/domain/repositories"
)

// TranscriptionService converts staged audio into text through the
// configured transcriber provider.
type TranscriptionService struct {
	transcriber repositories.Transcriber
	logger      *zap.Logger
}

func NewTranscriptionService(transcriber repositories.Transcriber, logger *zap.Logger) *TranscriptionService {
	return &TranscriptionService{
		transcriber: transcriber,
		logger:      logger,
	}
}

// Transcribe returns the trimmed transcript. An empty transcript is a valid
// outcome (silent or unintelligible audio), not an error.
func (s *TranscriptionService) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	text, err := s.transcriber.Transcribe(ctx, audio, format)
	if err != nil {
		s.logger.Error("transcription failed", zap.Error(err))
		return "", &entities.TranscriptionError{Err: err}
	}
	return strings.TrimSpace(text), nil
}
