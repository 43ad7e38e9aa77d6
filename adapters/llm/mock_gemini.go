package llm

import (
	"context"
	"sync"
)

// MockLanguageModel is a deterministic stand-in for the Gemini adapter, used
// in tests and offline runs. It records every invocation.
type MockLanguageModel struct {
	AudioResponse string
	JSONResponse  string
	Err           error

	mu          sync.Mutex
	audioCalls  int
	jsonCalls   int
	lastPrompt  string
	lastAudio   []byte
	lastFormat  string
	lastInstruc string
}

func NewMockLanguageModel() *MockLanguageModel {
	return &MockLanguageModel{
		AudioResponse: "transcrição simulada",
		JSONResponse:  `{"disclaimer":"Esta é uma análise automática e deve ser revisada por um psicólogo certificado. Não constitui diagnóstico."}`,
	}
}

func (m *MockLanguageModel) InvokeAudio(_ context.Context, instruction string, audio []byte, format string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audioCalls++
	m.lastInstruc = instruction
	m.lastAudio = audio
	m.lastFormat = format
	if m.Err != nil {
		return "", m.Err
	}
	return m.AudioResponse, nil
}

func (m *MockLanguageModel) InvokeJSON(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jsonCalls++
	m.lastPrompt = prompt
	if m.Err != nil {
		return "", m.Err
	}
	return m.JSONResponse, nil
}

func (m *MockLanguageModel) AudioCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.audioCalls
}

func (m *MockLanguageModel) JSONCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jsonCalls
}

func (m *MockLanguageModel) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrompt
}

func (m *MockLanguageModel) LastInstruction() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastInstruc
}
