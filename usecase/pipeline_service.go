package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/escutaai/escuta/domain/entities"
	"github.com/escutaai/escuta/internal/staging"
)

// Stage contracts consumed by the orchestrator. They match the concrete
// services above, but keep the orchestrator testable with stubs.
type TranscriptionStage interface {
	Transcribe(ctx context.Context, audio []byte, format string) (string, error)
}

type ClassificationStage interface {
	Classify(ctx context.Context, audio []byte, format string) (string, error)
}

type AnalysisStage interface {
	Analyse(ctx context.Context, transcript string, emotion string) (*entities.AnalysisReport, error)
}

// PipelineService runs the full analysis pipeline: stage the payload, run
// transcription and classification concurrently, join both, then analyse.
type PipelineService struct {
	stager         *staging.Stager
	transcription  TranscriptionStage
	classification ClassificationStage
	analysis       AnalysisStage
	stageTimeout   time.Duration
	logger         *zap.Logger
}

func NewPipelineService(
	stager *staging.Stager,
	transcription TranscriptionStage,
	classification ClassificationStage,
	analysis AnalysisStage,
	stageTimeout time.Duration,
	logger *zap.Logger,
) *PipelineService {
	return &PipelineService{
		stager:         stager,
		transcription:  transcription,
		classification: classification,
		analysis:       analysis,
		stageTimeout:   stageTimeout,
		logger:         logger,
	}
}

// Run executes a full pipeline pass without stage notifications.
func (s *PipelineService) Run(ctx context.Context, payload, format string) (*entities.PipelineResult, error) {
	return s.RunWithObserver(ctx, payload, format, nil)
}

// RunWithObserver executes a full pipeline pass, notifying the observer
// after every stage. A single stage failure degrades the run to
// partial_failure instead of aborting it; only staging failures abort,
// because nothing can proceed without decoded audio.
func (s *PipelineService) RunWithObserver(ctx context.Context, payload, format string, observe entities.StageObserver) (*entities.PipelineResult, error) {
	runID := uuid.New().String()
	logger := s.logger.With(zap.String("run_id", runID))
	result := &entities.PipelineResult{ID: runID, State: entities.StateStart}

	notify := func(stage, state, errText string) {
		if observe != nil {
			observe(entities.NewStageEvent(runID, stage, state, errText))
		}
	}

	handle, err := s.stager.Stage(payload, format)
	if err != nil {
		logger.Error("staging failed", zap.Error(err))
		notify(entities.StageStaging, "failed", err.Error())
		return nil, err
	}
	defer handle.Release()
	result.State = entities.StateStaged
	notify(entities.StageStaging, "completed", "")

	audio := handle.Bytes()

	transcriptionCh := make(chan entities.TranscriptionResult, 1)
	emotionCh := make(chan entities.EmotionResult, 1)

	go func() {
		stageCtx, cancel := s.stageContext(ctx)
		defer cancel()
		text, err := s.transcription.Transcribe(stageCtx, audio, handle.Format())
		if err != nil {
			transcriptionCh <- entities.TranscriptionResult{Error: err.Error()}
			return
		}
		transcriptionCh <- entities.TranscriptionResult{Text: text}
	}()

	go func() {
		stageCtx, cancel := s.stageContext(ctx)
		defer cancel()
		label, err := s.classification.Classify(stageCtx, audio, handle.Format())
		if err != nil {
			emotionCh <- entities.EmotionResult{Label: entities.EmotionUnknown, Error: err.Error()}
			return
		}
		emotionCh <- entities.EmotionResult{Label: entities.EmotionLabel(label)}
	}()

	// Both branches always send exactly one result; the analysis stage only
	// starts once both are in.
	result.Transcription = <-transcriptionCh
	result.Emotion = <-emotionCh

	partial := false
	if result.Transcription.Error != "" {
		partial = true
		logger.Warn("transcription stage failed", zap.String("error", result.Transcription.Error))
		notify(entities.StageTranscription, "failed", result.Transcription.Error)
	} else {
		result.State = entities.StateTranscribed
		notify(entities.StageTranscription, "completed", "")
	}
	if result.Emotion.Error != "" {
		partial = true
		logger.Warn("classification stage failed", zap.String("error", result.Emotion.Error))
		notify(entities.StageClassification, "failed", result.Emotion.Error)
	} else {
		result.State = entities.StateClassified
		notify(entities.StageClassification, "completed", "")
	}

	analysisCtx, cancel := s.stageContext(ctx)
	report, err := s.analysis.Analyse(analysisCtx, result.Transcription.Text, string(result.Emotion.Label))
	cancel()
	if err != nil {
		partial = true
		logger.Error("analysis stage failed", zap.Error(err))
		result.Report = entities.ReportResult{
			Error:      err.Error(),
			Disclaimer: entities.Disclaimer,
		}
		notify(entities.StageAnalysis, "failed", err.Error())
	} else {
		result.State = entities.StateAnalysed
		result.Report = entities.ReportResult{Report: report}
		notify(entities.StageAnalysis, "completed", "")
	}

	if partial {
		result.State = entities.StatePartialFailure
	} else {
		result.State = entities.StateDone
	}
	logger.Info("pipeline run finished", zap.String("state", string(result.State)))
	return result, nil
}

func (s *PipelineService) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.stageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.stageTimeout)
}
