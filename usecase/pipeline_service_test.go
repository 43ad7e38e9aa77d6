package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/escutaai/escuta/domain/entities"
	"github.com/escutaai/escuta/internal/staging"
)

type stubTranscription struct {
	text  string
	err   error
	calls int32
	done  int32
}

func (s *stubTranscription) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	atomic.AddInt32(&s.calls, 1)
	defer atomic.StoreInt32(&s.done, 1)
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type stubClassification struct {
	label string
	err   error
	calls int32
	done  int32
}

func (s *stubClassification) Classify(_ context.Context, _ []byte, _ string) (string, error) {
	atomic.AddInt32(&s.calls, 1)
	defer atomic.StoreInt32(&s.done, 1)
	if s.err != nil {
		return "", s.err
	}
	return s.label, nil
}

type stubAnalysis struct {
	report *entities.AnalysisReport
	err    error

	calls          int32
	lastTranscript string
	lastEmotion    string

	// snapshots of the other stages at analysis time
	transcriptionDone  bool
	classificationDone bool
	transcription      *stubTranscription
	classification     *stubClassification
}

func (s *stubAnalysis) Analyse(_ context.Context, transcript, emotion string) (*entities.AnalysisReport, error) {
	atomic.AddInt32(&s.calls, 1)
	s.lastTranscript = transcript
	s.lastEmotion = emotion
	if s.transcription != nil {
		s.transcriptionDone = atomic.LoadInt32(&s.transcription.done) == 1
	}
	if s.classification != nil {
		s.classificationDone = atomic.LoadInt32(&s.classification.done) == 1
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

func newTestPipeline(t *testing.T, tr *stubTranscription, cl *stubClassification, an *stubAnalysis) *PipelineService {
	t.Helper()
	logger := zap.NewNop()
	return NewPipelineService(staging.NewStager(logger), tr, cl, an, time.Minute, logger)
}

func validPayload() string {
	return base64.StdEncoding.EncodeToString([]byte("fake audio"))
}

func TestRunCompletesAllStages(t *testing.T) {
	tr := &stubTranscription{text: "estou bem"}
	cl := &stubClassification{label: "neutral"}
	an := &stubAnalysis{
		report:         &entities.AnalysisReport{Disclaimer: entities.Disclaimer},
		transcription:  tr,
		classification: cl,
	}
	pipeline := newTestPipeline(t, tr, cl, an)

	result, err := pipeline.Run(context.Background(), validPayload(), "wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.State != entities.StateDone {
		t.Errorf("expected done state, got %q", result.State)
	}
	if result.Transcription.Text != "estou bem" {
		t.Errorf("unexpected transcript: %q", result.Transcription.Text)
	}
	if result.Emotion.Label != "neutral" {
		t.Errorf("unexpected emotion: %q", result.Emotion.Label)
	}
	if result.Report.Report == nil || result.Report.Error != "" {
		t.Errorf("expected a successful report slot: %+v", result.Report)
	}
	if result.ID == "" {
		t.Errorf("run must be assigned an id")
	}

	// Analysis must only have started after both branches finished.
	if !an.transcriptionDone || !an.classificationDone {
		t.Errorf("analysis started before both stages completed")
	}
	if an.lastTranscript != "estou bem" || an.lastEmotion != "neutral" {
		t.Errorf("analysis received wrong inputs: %q %q", an.lastTranscript, an.lastEmotion)
	}
}

func TestRunEmptyTranscriptStillAnalysed(t *testing.T) {
	tr := &stubTranscription{text: ""}
	cl := &stubClassification{label: "neutral"}
	an := &stubAnalysis{report: &entities.AnalysisReport{Disclaimer: entities.Disclaimer}}
	pipeline := newTestPipeline(t, tr, cl, an)

	result, err := pipeline.Run(context.Background(), validPayload(), "wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.State != entities.StateDone {
		t.Errorf("an empty transcript is not a failure, got state %q", result.State)
	}
	if an.lastTranscript != "" || an.lastEmotion != "neutral" {
		t.Errorf("analysis must receive both stage outputs: %q %q", an.lastTranscript, an.lastEmotion)
	}
}

func TestRunClassificationFailureDegradesToPartial(t *testing.T) {
	tr := &stubTranscription{text: "um relato"}
	cl := &stubClassification{err: &entities.ClassificationError{Reason: "classifier offline"}}
	an := &stubAnalysis{report: &entities.AnalysisReport{Disclaimer: entities.Disclaimer}}
	pipeline := newTestPipeline(t, tr, cl, an)

	result, err := pipeline.Run(context.Background(), validPayload(), "wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.State != entities.StatePartialFailure {
		t.Errorf("expected partial_failure, got %q", result.State)
	}
	if result.Emotion.Label != entities.EmotionUnknown {
		t.Errorf("expected unknown sentinel, got %q", result.Emotion.Label)
	}
	if result.Emotion.Error == "" {
		t.Errorf("classification error must be surfaced in the composite")
	}
	if result.Transcription.Text != "um relato" {
		t.Errorf("transcription result must survive the classification failure")
	}
	if an.lastEmotion != string(entities.EmotionUnknown) {
		t.Errorf("analysis must receive the unknown sentinel, got %q", an.lastEmotion)
	}
}

func TestRunTranscriptionFailureStillAnalyses(t *testing.T) {
	tr := &stubTranscription{err: &entities.TranscriptionError{Err: fmt.Errorf("provider down")}}
	cl := &stubClassification{label: "sad"}
	an := &stubAnalysis{report: &entities.AnalysisReport{Disclaimer: entities.Disclaimer}}
	pipeline := newTestPipeline(t, tr, cl, an)

	result, err := pipeline.Run(context.Background(), validPayload(), "wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.State != entities.StatePartialFailure {
		t.Errorf("expected partial_failure, got %q", result.State)
	}
	if atomic.LoadInt32(&an.calls) != 1 {
		t.Errorf("analysis must still run on an empty transcript")
	}
	if an.lastTranscript != "" {
		t.Errorf("analysis should receive an empty transcript, got %q", an.lastTranscript)
	}
}

func TestRunAnalysisFailureCarriesDisclaimer(t *testing.T) {
	tr := &stubTranscription{text: "texto"}
	cl := &stubClassification{label: "happy"}
	an := &stubAnalysis{err: &entities.AnalysisError{Err: fmt.Errorf("quota exceeded")}}
	pipeline := newTestPipeline(t, tr, cl, an)

	result, err := pipeline.Run(context.Background(), validPayload(), "wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.State != entities.StatePartialFailure {
		t.Errorf("expected partial_failure, got %q", result.State)
	}
	if result.Report.Error == "" {
		t.Errorf("analysis error must be surfaced")
	}
	if result.Report.Disclaimer != entities.Disclaimer {
		t.Errorf("failed analysis must still carry the disclaimer")
	}
}

func TestRunInvalidPayloadAbortsBeforeStages(t *testing.T) {
	tr := &stubTranscription{text: "texto"}
	cl := &stubClassification{label: "neutral"}
	an := &stubAnalysis{report: &entities.AnalysisReport{}}
	pipeline := newTestPipeline(t, tr, cl, an)

	_, err := pipeline.Run(context.Background(), "not!!base64", "wav")
	var decodeErr *entities.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *entities.DecodeError, got %v", err)
	}
	if atomic.LoadInt32(&tr.calls) != 0 || atomic.LoadInt32(&cl.calls) != 0 || atomic.LoadInt32(&an.calls) != 0 {
		t.Errorf("no stage may run after a staging failure")
	}
}

func TestRunIsRepeatable(t *testing.T) {
	tr := &stubTranscription{text: "texto"}
	cl := &stubClassification{label: "neutral"}
	an := &stubAnalysis{report: &entities.AnalysisReport{Disclaimer: entities.Disclaimer}}
	pipeline := newTestPipeline(t, tr, cl, an)

	first, err := pipeline.Run(context.Background(), validPayload(), "wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := pipeline.Run(context.Background(), validPayload(), "wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID == second.ID {
		t.Errorf("each run must get its own id")
	}
	if first.State != second.State || first.Transcription != second.Transcription {
		t.Errorf("identical input must yield identical stage outputs")
	}
}

func TestRunWithObserverEmitsStageEvents(t *testing.T) {
	tr := &stubTranscription{text: "texto"}
	cl := &stubClassification{err: &entities.ClassificationError{Reason: "offline"}}
	an := &stubAnalysis{report: &entities.AnalysisReport{Disclaimer: entities.Disclaimer}}
	pipeline := newTestPipeline(t, tr, cl, an)

	var events []entities.StageEvent
	_, err := pipeline.RunWithObserver(context.Background(), validPayload(), "wav", func(e entities.StageEvent) {
		events = append(events, e)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byStage := map[string]entities.StageEvent{}
	for _, e := range events {
		byStage[e.Stage] = e
	}
	if byStage[entities.StageStaging].State != "completed" {
		t.Errorf("expected completed staging event")
	}
	if byStage[entities.StageTranscription].State != "completed" {
		t.Errorf("expected completed transcription event")
	}
	if byStage[entities.StageClassification].State != "failed" {
		t.Errorf("expected failed classification event")
	}
	if byStage[entities.StageClassification].Error == "" {
		t.Errorf("failed event must carry the error text")
	}
	if byStage[entities.StageAnalysis].State != "completed" {
		t.Errorf("expected completed analysis event")
	}
	for _, e := range events {
		if e.RunID == "" || e.Timestamp == "" {
			t.Errorf("events must carry run id and timestamp: %+v", e)
		}
	}
}
