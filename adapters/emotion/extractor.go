package emotion

import (
	"fmt"

	"github.com/escutaai/escuta/domain/repositories"
)

// modelSamplingRate is the rate the classifier's feature windows are
// measured at, regardless of the recording's native rate.
const modelSamplingRate = 16000

// WhisperFeatureExtractor prepares waveforms the way the hosted model's
// feature pipeline expects: a window of exactly maxLength samples, truncated
// when the input is longer and zero-padded at the tail when shorter.
type WhisperFeatureExtractor struct {
	samplingRate int
}

func NewWhisperFeatureExtractor() *WhisperFeatureExtractor {
	return &WhisperFeatureExtractor{samplingRate: modelSamplingRate}
}

func (e *WhisperFeatureExtractor) SamplingRate() int { return e.samplingRate }

// ExtractFeatures builds the fixed-length window. The input waveform is
// never mutated.
func (e *WhisperFeatureExtractor) ExtractFeatures(waveform []float32, sampleRate int, maxLength int) (repositories.Features, error) {
	if maxLength <= 0 {
		return repositories.Features{}, fmt.Errorf("invalid window length %d", maxLength)
	}
	if sampleRate <= 0 {
		return repositories.Features{}, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	if len(waveform) == 0 {
		return repositories.Features{}, fmt.Errorf("empty waveform")
	}

	window := make([]float32, maxLength)
	copy(window, waveform) // truncates long inputs, leaves trailing zeros for short ones

	return repositories.Features{
		Inputs:       window,
		SamplingRate: e.samplingRate,
	}, nil
}
