package repositories

import "context"

// Transcriber abstracts speech-to-text providers. An empty transcript is a
// valid result, not an error.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, format string) (string, error)
}
