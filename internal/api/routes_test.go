package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/escutaai/escuta/domain/entities"
	"github.com/escutaai/escuta/internal/config"
	"github.com/escutaai/escuta/internal/staging"
)

type stubPipeline struct {
	result *entities.PipelineResult
	err    error
	calls  int
}

func (s *stubPipeline) Run(_ context.Context, _, _ string) (*entities.PipelineResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubTranscription struct {
	text string
	err  error
}

func (s *stubTranscription) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	return s.text, s.err
}

type stubClassification struct {
	label string
	err   error
}

func (s *stubClassification) Classify(_ context.Context, _ []byte, _ string) (string, error) {
	return s.label, s.err
}

type stubAudioAnalysis struct {
	report *entities.AnalysisReport
	err    error
}

func (s *stubAudioAnalysis) Analyse(_ context.Context, _ []byte, _ string) (*entities.AnalysisReport, error) {
	return s.report, s.err
}

type handlerStubs struct {
	pipeline       *stubPipeline
	transcription  *stubTranscription
	classification *stubClassification
	audioAnalysis  *stubAudioAnalysis
}

func newTestServer(t *testing.T, stubs handlerStubs, cfg *config.Config) *echo.Echo {
	t.Helper()
	if stubs.pipeline == nil {
		stubs.pipeline = &stubPipeline{result: &entities.PipelineResult{ID: "run-1", State: entities.StateDone}}
	}
	if stubs.transcription == nil {
		stubs.transcription = &stubTranscription{text: "olá"}
	}
	if stubs.classification == nil {
		stubs.classification = &stubClassification{label: "neutral"}
	}
	if stubs.audioAnalysis == nil {
		stubs.audioAnalysis = &stubAudioAnalysis{report: &entities.AnalysisReport{Disclaimer: entities.Disclaimer}}
	}
	if cfg == nil {
		cfg = &config.Config{GeminiAPIKey: "key", EmotionAPIURL: "https://classifier.example"}
	}

	logger := zap.NewNop()
	e := echo.New()
	InitRoutes(e, NewHandlers(
		stubs.pipeline,
		stubs.transcription,
		stubs.classification,
		stubs.audioAnalysis,
		staging.NewStager(logger),
		cfg,
		logger,
	))
	return e
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func audioBody(t *testing.T) string {
	t.Helper()
	payload := base64.StdEncoding.EncodeToString([]byte("fake audio"))
	body, err := json.Marshal(map[string]string{"audio_data": payload, "audio_format": "wav"})
	require.NoError(t, err)
	return string(body)
}

func TestMissingAudioDataRejectedBeforePipeline(t *testing.T) {
	pipeline := &stubPipeline{result: &entities.PipelineResult{}}
	e := newTestServer(t, handlerStubs{pipeline: pipeline}, nil)

	rec := postJSON(e, "/analyse-patient-psychological-issue", `{"audio_format":"wav"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "audio_data é obrigatório", resp.Error)
	assert.Zero(t, pipeline.calls, "pipeline must not run without audio_data")
}

func TestAnalysePatientReturnsComposite(t *testing.T) {
	pipeline := &stubPipeline{result: &entities.PipelineResult{
		ID:            "run-7",
		State:         entities.StateDone,
		Transcription: entities.TranscriptionResult{Text: "olá"},
		Emotion:       entities.EmotionResult{Label: "neutral"},
	}}
	e := newTestServer(t, handlerStubs{pipeline: pipeline}, nil)

	rec := postJSON(e, "/analyse-patient-psychological-issue", audioBody(t))

	assert.Equal(t, http.StatusOK, rec.Code)
	var result entities.PipelineResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "run-7", result.ID)
	assert.Equal(t, entities.StateDone, result.State)
	assert.Equal(t, "olá", result.Transcription.Text)
}

func TestAnalysePatientDecodeErrorIsBadRequest(t *testing.T) {
	pipeline := &stubPipeline{err: &entities.DecodeError{Reason: "invalid base64 audio payload"}}
	e := newTestServer(t, handlerStubs{pipeline: pipeline}, nil)

	rec := postJSON(e, "/analyse-patient-psychological-issue", `{"audio_data":"not!!base64"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalysePatientErrorCarriesDisclaimer(t *testing.T) {
	pipeline := &stubPipeline{err: fmt.Errorf("unexpected failure")}
	e := newTestServer(t, handlerStubs{pipeline: pipeline}, nil)

	rec := postJSON(e, "/analyse-patient-psychological-issue", audioBody(t))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, entities.Disclaimer, resp.Disclaimer)
}

func TestTranscribeAudio(t *testing.T) {
	e := newTestServer(t, handlerStubs{transcription: &stubTranscription{text: "bom dia"}}, nil)

	rec := postJSON(e, "/transcribe-audio", audioBody(t))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp TranscriptionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "bom dia", resp.Transcription)
}

func TestPredictEmotion(t *testing.T) {
	e := newTestServer(t, handlerStubs{classification: &stubClassification{label: "happy"}}, nil)

	rec := postJSON(e, "/predict-emotion", audioBody(t))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp EmotionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "happy", resp.Emotion)
}

func TestPredictEmotionRejectsBadPayload(t *testing.T) {
	e := newTestServer(t, handlerStubs{}, nil)

	rec := postJSON(e, "/predict-emotion", `{"audio_data":"***","audio_format":"wav"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyseAudioReturnsReport(t *testing.T) {
	e := newTestServer(t, handlerStubs{}, nil)

	rec := postJSON(e, "/analyse-audio-psycological-issue", audioBody(t))

	assert.Equal(t, http.StatusOK, rec.Code)
	var report entities.AnalysisReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, entities.Disclaimer, report.Disclaimer)
}

func TestHealthReflectsConfiguration(t *testing.T) {
	healthy := &config.Config{GeminiAPIKey: "key", EmotionAPIURL: "https://classifier.example"}
	e := newTestServer(t, handlerStubs{}, healthy)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	degraded := &config.Config{}
	e = newTestServer(t, handlerStubs{}, degraded)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusPartialContent, rec.Code)

	var h config.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	assert.Equal(t, "degraded", h.Status)
	assert.Len(t, h.Warnings, 2)
}

func TestServiceInfoListsEndpoints(t *testing.T) {
	e := newTestServer(t, handlerStubs{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var info ServiceInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "escuta", info.Service)
	assert.Contains(t, info.Endpoints, "/analyse-patient-psychological-issue")
}
