package repositories

import "context"

// Features is the fixed-length input tensor fed to the emotion classifier.
type Features struct {
	Inputs       []float32 `json:"inputs"`
	SamplingRate int       `json:"sampling_rate"`
}

// FeatureExtractor prepares a waveform for the classifier. ExtractFeatures
// truncates or zero-pads the waveform to exactly maxLength samples.
type FeatureExtractor interface {
	// SamplingRate is the rate the classifier's feature window is measured at.
	SamplingRate() int
	ExtractFeatures(waveform []float32, sampleRate int, maxLength int) (Features, error)
}

// EmotionClassifier scores a feature window and returns the index of the
// highest-scoring label. Labels exposes the static index→label mapping.
type EmotionClassifier interface {
	Classify(ctx context.Context, features Features) (int, error)
	Labels() map[int]string
}
