// Package emotion adapts the hosted speech-emotion-recognition model to the
// classifier contracts the pipeline consumes. The model mirrors a Whisper
// feature pipeline: 16 kHz input windows, seven-label output.
package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/escutaai/escuta/domain/repositories"
)

// Static index→label mapping of the deployed classifier.
var labels = map[int]string{
	0: "angry",
	1: "disgust",
	2: "fearful",
	3: "happy",
	4: "neutral",
	5: "sad",
	6: "surprised",
}

const (
	requestTimeout = 30 * time.Second
	maxElapsed     = 45 * time.Second
)

// Client calls the hosted classifier over HTTP. Transient server errors are
// retried with exponential backoff; client errors are not.
type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
	logger     *zap.Logger
}

func NewClient(url, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		url:        url,
		apiKey:     apiKey,
		logger:     logger,
	}
}

type classifyRequest struct {
	Inputs       []float32 `json:"inputs"`
	SamplingRate int       `json:"sampling_rate"`
}

type classifyResponse struct {
	Scores []float64 `json:"scores"`
}

// Classify sends the feature window to the inference endpoint and returns
// the arg-max label index. Ties resolve to the first highest score, matching
// the model's own deterministic score ordering.
func (c *Client) Classify(ctx context.Context, features repositories.Features) (int, error) {
	if c.url == "" {
		return 0, fmt.Errorf("emotion classifier endpoint is not configured")
	}
	if len(features.Inputs) == 0 {
		return 0, fmt.Errorf("empty feature window")
	}

	payload, err := json.Marshal(classifyRequest{
		Inputs:       features.Inputs,
		SamplingRate: features.SamplingRate,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to encode classify request: %w", err)
	}

	var scores []float64
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			c.logger.Warn("classifier server error, retrying",
				zap.Int("status", resp.StatusCode))
			return fmt.Errorf("classifier server error %d: %s", resp.StatusCode, body)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("classifier rejected request with status %d: %s", resp.StatusCode, body))
		}

		var parsed classifyResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return backoff.Permanent(fmt.Errorf("unexpected classifier response: %w", err))
		}
		scores = parsed.Scores
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return 0, err
	}

	if len(scores) == 0 {
		return 0, fmt.Errorf("classifier returned no scores")
	}
	return argmax(scores), nil
}

// Labels returns the static index→label mapping.
func (c *Client) Labels() map[int]string { return labels }

func argmax(scores []float64) int {
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return best
}
