package repositories

import "context"

// AudioLanguageModel abstracts a model that accepts inline audio content
// alongside a text instruction and returns generated text synchronously.
type AudioLanguageModel interface {
	InvokeAudio(ctx context.Context, instruction string, audio []byte, format string) (string, error)
}

// TextLanguageModel abstracts a chat model constrained to emit syntactically
// valid JSON.
type TextLanguageModel interface {
	InvokeJSON(ctx context.Context, prompt string) (string, error)
}
