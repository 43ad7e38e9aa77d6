package api

// AnalyseRequest is the shared request payload of every audio endpoint.
// AudioData carries the base64-encoded recording; AudioFormat defaults
// to "wav" when absent.
type AnalyseRequest struct {
	AudioData   string `json:"audio_data"`
	AudioFormat string `json:"audio_format"`
}

// TranscriptionResponse is the standalone transcription endpoint's payload.
type TranscriptionResponse struct {
	Transcription string `json:"transcription"`
	Success       bool   `json:"success"`
}

// EmotionResponse is the standalone classification endpoint's payload.
type EmotionResponse struct {
	Emotion string `json:"emotion"`
}

// ErrorResponse represents an error response. Analysis failures carry the
// disclaimer alongside the error.
type ErrorResponse struct {
	Error      string `json:"error"`
	Disclaimer string `json:"disclaimer,omitempty"`
}

// ServiceInfo is the root endpoint's payload.
type ServiceInfo struct {
	Service   string   `json:"service"`
	Status    string   `json:"status"`
	Endpoints []string `json:"endpoints"`
}
