package emotion

import (
	"context"
	"sync"

	"github.com/escutaai/escuta/domain/repositories"
)

// MockClassifier is a deterministic classifier for tests and offline runs.
type MockClassifier struct {
	Index int
	Err   error

	mu           sync.Mutex
	calls        int
	lastFeatures repositories.Features
}

// NewMockClassifier returns a mock that always predicts "neutral".
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{Index: 4}
}

func (m *MockClassifier) Classify(_ context.Context, features repositories.Features) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastFeatures = features
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Index, nil
}

func (m *MockClassifier) Labels() map[int]string { return labels }

func (m *MockClassifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockClassifier) LastFeatures() repositories.Features {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFeatures
}
