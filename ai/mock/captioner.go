package mock

import (
	"context"
	"sync"

	"github.com/poiesic/stylematch/ai"
	"github.com/poiesic/stylematch/core"
)

// MockCaptioner is a test double for ai.Captioner.
type MockCaptioner struct {
	// CaptionFunc is called by Caption if set.
	CaptionFunc func(ctx context.Context, image ai.Image, categories []string) (core.Caption, error)

	// Result is returned when CaptionFunc is nil.
	Result core.Caption

	mu        sync.Mutex
	callCount int
}

// NewMockCaptioner creates a mock captioner that returns an empty Unisex caption.
func NewMockCaptioner() *MockCaptioner {
	return &MockCaptioner{Result: core.Caption{Items: []string{}, Category: "Unknown", Gender: core.GenderUnisex}}
}

// Caption returns the configured result.
func (m *MockCaptioner) Caption(ctx context.Context, image ai.Image, categories []string) (core.Caption, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.CaptionFunc != nil {
		return m.CaptionFunc(ctx, image, categories)
	}
	return m.Result, nil
}

// CallCount returns the number of Caption calls.
func (m *MockCaptioner) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}
