// Package llm adapts Google's Gemini API to the language-model contracts
// the pipeline stages consume.
package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel = "gemini-2.0-flash"
	maxAttempts  = 3

	transcriptionTemperature = 0.0
	analysisTemperature      = 0.1
)

// Gemini implements the AudioLanguageModel and TextLanguageModel interfaces
// using Google's Gemini API. The client is created once at process start and
// shared read-only across requests.
type Gemini struct {
	client *genai.Client
	logger *zap.Logger
	model  string
}

// NewGemini creates the shared Gemini adapter. An empty API key is not fatal:
// the adapter is constructed unconfigured and every invocation fails with a
// provider error, so health can degrade without crashing invocation paths.
func NewGemini(ctx context.Context, apiKey string, logger *zap.Logger) (*Gemini, error) {
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY is not set, model invocations will fail")
		return &Gemini{logger: logger, model: defaultModel}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{client: client, logger: logger, model: defaultModel}, nil
}

// InvokeAudio sends a text instruction with the audio inline and returns the
// generated text.
func (g *Gemini) InvokeAudio(ctx context.Context, instruction string, audio []byte, format string) (string, error) {
	mime, err := mimeType(format)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(instruction),
			genai.NewPartFromBytes(audio, mime),
		}, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(transcriptionTemperature)),
	}
	return g.generate(ctx, contents, cfg)
}

// InvokeJSON sends a text prompt with the response constrained to valid JSON.
func (g *Gemini) InvokeJSON(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(analysisTemperature)),
		ResponseMIMEType: "application/json",
	}
	return g.generate(ctx, genai.Text(prompt), cfg)
}

func (g *Gemini) generate(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("gemini client is not configured")
	}

	var response *genai.GenerateContentResponse
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		response, err = g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return "", fmt.Errorf("gemini invocation cancelled: %w", ctx.Err())
		}

		g.logger.Warn("failed to generate content, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		if attempt < maxAttempts-1 {
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}
	}
	if err != nil {
		return "", fmt.Errorf("gemini invocation failed: %w", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var text string
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}

func mimeType(format string) (string, error) {
	switch format {
	case "wav":
		return "audio/wav", nil
	case "mp3":
		return "audio/mp3", nil
	case "ogg":
		return "audio/ogg", nil
	case "flac":
		return "audio/flac", nil
	case "m4a":
		return "audio/mp4", nil
	case "webm":
		return "audio/webm", nil
	default:
		return "", fmt.Errorf("unsupported audio format: %s", format)
	}
}
