package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/escutaai/escuta/domain/entities"
	"github.com/escutaai/escuta/domain/repositories"
	"github.com/escutaai/escuta/internal/audio"
)

// maxWindowSeconds bounds the audio fed to the classifier. Longer recordings
// are truncated to the leading window.
const maxWindowSeconds = 30

// EmotionService decodes staged audio locally and classifies the dominant
// vocal emotion through the remote model.
type EmotionService struct {
	extractor  repositories.FeatureExtractor
	classifier repositories.EmotionClassifier
	logger     *zap.Logger
}

func NewEmotionService(extractor repositories.FeatureExtractor, classifier repositories.EmotionClassifier, logger *zap.Logger) *EmotionService {
	return &EmotionService{
		extractor:  extractor,
		classifier: classifier,
		logger:     logger,
	}
}

// Classify returns the emotion label for the recording. Only WAV input can
// be decoded locally; other formats fail this stage without affecting the
// rest of the pipeline.
func (s *EmotionService) Classify(ctx context.Context, data []byte, format string) (string, error) {
	if format != "wav" {
		return "", &entities.ClassificationError{
			Reason: fmt.Sprintf("emotion classification requires wav input, got %s", format),
		}
	}

	waveform, sampleRate, err := audio.Decode(data)
	if err != nil {
		return "", &entities.ClassificationError{Reason: "failed to decode audio", Err: err}
	}

	maxLength := s.extractor.SamplingRate() * maxWindowSeconds
	features, err := s.extractor.ExtractFeatures(waveform, sampleRate, maxLength)
	if err != nil {
		return "", &entities.ClassificationError{Reason: "feature extraction failed", Err: err}
	}

	index, err := s.classifier.Classify(ctx, features)
	if err != nil {
		s.logger.Error("emotion classification failed", zap.Error(err))
		return "", &entities.ClassificationError{Reason: "classifier request failed", Err: err}
	}

	label, ok := s.classifier.Labels()[index]
	if !ok {
		return "", &entities.ClassificationError{
			Reason: fmt.Sprintf("classifier returned unknown label index %d", index),
		}
	}
	return label, nil
}
