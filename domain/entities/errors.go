package entities

import "fmt"

// Stage error kinds. Each pipeline stage fails with its own type so the
// orchestrator and the HTTP layer can map failures without string matching.

// DecodeError reports invalid or absent audio input. It is always a
// client-side fault and the pipeline does not proceed past staging.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode error: %s: %v", e.Reason, e.Err)
	}
	return "decode error: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// TranscriptionError reports a provider-side transcription failure. It is
// distinguishable from a legitimate empty transcript, which is not an error.
type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription error: %v", e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// ClassificationError reports a failure of the emotion classification stage.
type ClassificationError struct {
	Reason string
	Err    error
}

func (e *ClassificationError) Error() string {
	if e.Err != nil {
		if e.Reason != "" {
			return fmt.Sprintf("classification error: %s: %v", e.Reason, e.Err)
		}
		return fmt.Sprintf("classification error: %v", e.Err)
	}
	return "classification error: " + e.Reason
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// AnalysisError reports a provider-level failure of the structured analysis
// stage. Responses built from it must carry the disclaimer.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis error: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// SchemaParseError reports generator output that does not conform to the
// report schema. It carries the raw text so the caller can fall back to a
// degraded report. It is recovered locally, never escalated.
type SchemaParseError struct {
	Raw string
	Err error
}

func (e *SchemaParseError) Error() string {
	return fmt.Sprintf("schema parse error: %v", e.Err)
}

func (e *SchemaParseError) Unwrap() error { return e.Err }
