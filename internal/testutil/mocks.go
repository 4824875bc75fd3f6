// Package testutil holds shared fakes for package tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"

	"codeberg.org/snonux/wordwire/internal/provider"
)

// MockVisitor implements session.PageVisitor with canned cookies.
type MockVisitor struct {
	Cookies  map[string]string
	VisitErr error
	Visits   int
}

// Visit records the call and returns the configured error.
func (m *MockVisitor) Visit(ctx context.Context) error {
	m.Visits++
	return m.VisitErr
}

// Cookie returns the canned cookie value.
func (m *MockVisitor) Cookie(name string) (string, bool) {
	v, ok := m.Cookies[name]
	return v, ok && v != ""
}

// MockRefresher counts session refresh calls.
type MockRefresher struct {
	mu    sync.Mutex
	Err   error
	Calls int
}

// Refresh records the call and returns the configured error.
func (m *MockRefresher) Refresh(ctx context.Context) error {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	return m.Err
}

// CallCount returns the number of refreshes performed.
func (m *MockRefresher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// MockSpeechProvider fakes a speech provider by writing canned audio data.
type MockSpeechProvider struct {
	AudioData []byte
	// FailFirst makes the first N calls fail
	FailFirst int
	Err       error
	Calls     []string
}

// FetchAudio writes the canned audio data to outputFile.
func (m *MockSpeechProvider) FetchAudio(ctx context.Context, text, tag, outputFile string) error {
	m.Calls = append(m.Calls, fmt.Sprintf("%s (%s)", text, tag))

	if len(m.Calls) <= m.FailFirst {
		return fmt.Errorf("mock speech failure %d", len(m.Calls))
	}
	if m.Err != nil {
		return m.Err
	}

	data := m.AudioData
	if data == nil {
		// Minimal MP3 frame header
		data = []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
	}
	return os.WriteFile(outputFile, data, 0644)
}

// Name returns the provider name.
func (m *MockSpeechProvider) Name() string { return "mock" }

// IsAvailable always succeeds.
func (m *MockSpeechProvider) IsAvailable() error { return nil }

// MockTranslator serves canned translation results.
type MockTranslator struct {
	Results map[string]*provider.Result
	Err     error
	Calls   []string
}

// Translate records the call and returns the canned result.
func (m *MockTranslator) Translate(ctx context.Context, text, fromTag, toTag string) (*provider.Result, error) {
	m.Calls = append(m.Calls, fmt.Sprintf("%s (%s->%s)", text, fromTag, toTag))

	if m.Err != nil {
		return nil, m.Err
	}
	if r, ok := m.Results[text]; ok {
		return r, nil
	}
	return &provider.Result{
		Original:  text,
		Meaning:   fmt.Sprintf("mock translation of %s", text),
		SourceTag: fromTag,
		TargetTag: toTag,
	}, nil
}

// Name returns the translator name.
func (m *MockTranslator) Name() string { return "mock" }
