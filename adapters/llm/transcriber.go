package llm

import (
	"context"
)

// transcriptionInstruction asks the model to preserve the spoken language of
// the input; no forced translation.
const transcriptionInstruction = "Transcreva este áudio para texto. Se o áudio estiver em português, mantenha o texto em português. Se estiver em outro idioma, transcreva no idioma original."

// GeminiTranscriber exposes the audio-capable model as a Transcriber.
type GeminiTranscriber struct {
	model       *Gemini
	instruction string
}

func NewGeminiTranscriber(model *Gemini) *GeminiTranscriber {
	return &GeminiTranscriber{model: model, instruction: transcriptionInstruction}
}

func (t *GeminiTranscriber) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	return t.model.InvokeAudio(ctx, t.instruction, audio, format)
}
