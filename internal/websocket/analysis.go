// Package websocket streams pipeline stage events to a connected client
// while a run is in progress, then sends the final composite result.
package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/escutaai/escuta/domain/entities"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Maximum request size allowed from peer. Base64 audio payloads are
	// large; 32MB covers a few minutes of uncompressed wav.
	maxMessageSize = 32 * 1024 * 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Pipeline is the run contract the stream consumes.
type Pipeline interface {
	RunWithObserver(ctx context.Context, payload, format string, observe entities.StageObserver) (*entities.PipelineResult, error)
}

type analyseRequest struct {
	AudioData   string `json:"audio_data"`
	AudioFormat string `json:"audio_format"`
}

type streamMessage struct {
	Type   string                   `json:"type"` // stage_event | result | error
	Event  *entities.StageEvent     `json:"event,omitempty"`
	Result *entities.PipelineResult `json:"result,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

// AnalysisStream upgrades a connection, reads one analysis request and
// streams the run's stage events followed by the final result.
type AnalysisStream struct {
	pipeline Pipeline
	logger   *zap.Logger
}

func NewAnalysisStream(pipeline Pipeline, logger *zap.Logger) *AnalysisStream {
	return &AnalysisStream{
		pipeline: pipeline,
		logger:   logger,
	}
}

// Handle serves one analysis run per connection.
func (s *AnalysisStream) Handle(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return err
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	var req analyseRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.logger.Warn("failed to read analysis request", zap.Error(err))
		return nil
	}
	if req.AudioData == "" {
		s.write(conn, streamMessage{Type: "error", Error: "audio_data é obrigatório"})
		return nil
	}
	if req.AudioFormat == "" {
		req.AudioFormat = "wav"
	}

	events := make(chan entities.StageEvent, 16)
	done := make(chan struct{})

	var result *entities.PipelineResult
	var runErr error
	go func() {
		defer close(events)
		defer close(done)
		result, runErr = s.pipeline.RunWithObserver(c.Request().Context(), req.AudioData, req.AudioFormat,
			func(event entities.StageEvent) {
				events <- event
			})
	}()

	// Single writer: the event loop drains everything the run emits before
	// the final message goes out.
	writable := true
	for event := range events {
		if !writable {
			continue // keep draining so the run never blocks on the observer
		}
		e := event
		writable = s.write(conn, streamMessage{Type: "stage_event", Event: &e})
	}
	<-done
	if !writable {
		return nil
	}

	if runErr != nil {
		s.write(conn, streamMessage{Type: "error", Error: runErr.Error()})
		return nil
	}
	s.write(conn, streamMessage{Type: "result", Result: result})
	return nil
}

func (s *AnalysisStream) write(conn *websocket.Conn, msg streamMessage) bool {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Warn("websocket write failed", zap.Error(err))
		return false
	}
	return true
}
