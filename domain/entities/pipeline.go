package entities

import "time"

// EmotionLabel is one value from the classifier's closed vocabulary. No
// confidence score is exposed downstream, only the label.
type EmotionLabel string

// EmotionUnknown is the explicit sentinel passed to the analysis stage when
// classification failed. It is never left implicit.
const EmotionUnknown EmotionLabel = "unknown"

// PipelineState tracks the orchestrator's progress through the stages.
type PipelineState string

const (
	StateStart          PipelineState = "start"
	StateStaged         PipelineState = "staged"
	StateTranscribed    PipelineState = "transcribed"
	StateClassified     PipelineState = "classified"
	StateAnalysed       PipelineState = "analysed"
	StateDone           PipelineState = "done"
	StatePartialFailure PipelineState = "partial_failure"
)

// TranscriptionResult is the transcription stage's slot in the composite.
// An empty Text with an empty Error is a legitimate empty transcript.
type TranscriptionResult struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// EmotionResult is the classification stage's slot in the composite. When
// Error is set, Label carries the EmotionUnknown sentinel.
type EmotionResult struct {
	Label EmotionLabel `json:"label"`
	Error string       `json:"error,omitempty"`
}

// ReportResult is the analysis stage's slot in the composite. On failure the
// disclaimer still accompanies the error.
type ReportResult struct {
	Report     *AnalysisReport `json:"report,omitempty"`
	Error      string          `json:"error,omitempty"`
	Disclaimer string          `json:"disclaimer,omitempty"`
}

// PipelineResult is the aggregate assembled by the orchestrator. Each stage
// output lives under its own stable key so a caller can tell which stage
// produced which part of a partial result.
type PipelineResult struct {
	ID            string              `json:"id"`
	State         PipelineState       `json:"state"`
	Transcription TranscriptionResult `json:"transcription"`
	Emotion       EmotionResult       `json:"emotion"`
	Report        ReportResult        `json:"report"`
}

// Stage names used in events and logs.
const (
	StageStaging        = "staging"
	StageTranscription  = "transcription"
	StageClassification = "classification"
	StageAnalysis       = "analysis"
)

// StageEvent describes one stage transition during a pipeline run.
type StageEvent struct {
	RunID     string `json:"run_id"`
	Stage     string `json:"stage"`
	State     string `json:"state"` // completed | failed
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// StageObserver receives stage events as a pipeline run progresses.
type StageObserver func(StageEvent)

// NewStageEvent builds an event stamped with the current time.
func NewStageEvent(runID, stage, state, errText string) StageEvent {
	return StageEvent{
		RunID:     runID,
		Stage:     stage,
		State:     state,
		Error:     errText,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
