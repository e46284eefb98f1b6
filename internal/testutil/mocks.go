package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// MockProvider mocks a text-to-speech provider. It writes a fake MP3 frame
// to the output file unless an error is configured for the text.
type MockProvider struct {
	ProviderName string
	Errors       map[string]error
	AvailableErr error

	mu    sync.Mutex
	Calls []string
}

// GenerateAudio records the call and writes mock audio data
func (m *MockProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("%s -> %s", text, filepath.Base(outputFile)))
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if err, ok := m.Errors[text]; ok {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(outputFile, MockMP3(), 0644)
}

// Name returns the configured provider name
func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// IsAvailable returns the configured availability error
func (m *MockProvider) IsAvailable() error {
	return m.AvailableErr
}

// CallCount returns how many times GenerateAudio was called
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// SequenceRand is a deterministic random source returning a fixed
// sequence of values, each reduced modulo n
type SequenceRand struct {
	Values []int
	pos    int
}

// Intn returns the next value of the sequence modulo n
func (r *SequenceRand) Intn(n int) int {
	if len(r.Values) == 0 {
		return 0
	}
	v := r.Values[r.pos%len(r.Values)]
	r.pos++
	return v % n
}
