// Package stt provides the alternative Google Cloud Speech-to-Text
// transcriber, selected with STT_PROVIDER=google.
package stt

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"
)

// GoogleSpeechToText implements the Transcriber contract over Google Cloud's
// synchronous recognize API.
type GoogleSpeechToText struct {
	client   *speech.Client
	language string
	logger   *zap.Logger
}

func NewGoogleSpeechToText(ctx context.Context, logger *zap.Logger) (*GoogleSpeechToText, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return &GoogleSpeechToText{
		client:   client,
		language: "pt-BR",
		logger:   logger,
	}, nil
}

// Transcribe converts audio data to text in one synchronous call. Short
// recordings fit the non-streaming API; no interim results are needed.
func (g *GoogleSpeechToText) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	encoding, err := audioEncoding(format)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:     encoding,
			LanguageCode: g.language,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("recognize request failed: %w", err)
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}
	return strings.Join(parts, " "), nil
}

func (g *GoogleSpeechToText) Close() error {
	return g.client.Close()
}

// audioEncoding maps the service's format tags to the Speech API enum. The
// sample rate is read from the container header by the API for these
// encodings, so it is not set explicitly.
func audioEncoding(format string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch format {
	case "wav":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "flac":
		return speechpb.RecognitionConfig_FLAC, nil
	case "ogg":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	case "webm":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("unsupported encoding for google speech: %s", format)
	}
}
