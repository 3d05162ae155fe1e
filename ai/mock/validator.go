package mock

import (
	"bytes"
	"context"
	"sync"

	"github.com/poiesic/stylematch/ai"
	"github.com/poiesic/stylematch/core"
)

// MockMatchValidator is a test double for ai.MatchValidator.
// By default it answers "yes" unless both images are byte-identical.
type MockMatchValidator struct {
	ValidateFunc func(ctx context.Context, reference, suggested ai.Image) (core.Verdict, error)

	mu        sync.Mutex
	callCount int
}

// NewMockMatchValidator creates a mock validator with default behavior.
func NewMockMatchValidator() *MockMatchValidator {
	return &MockMatchValidator{}
}

// Validate returns the injected verdict, or the default.
func (m *MockMatchValidator) Validate(ctx context.Context, reference, suggested ai.Image) (core.Verdict, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, reference, suggested)
	}
	if bytes.Equal(reference.Data, suggested.Data) {
		return core.Verdict{Answer: false, Reason: "the suggestion is the same item"}, nil
	}
	return core.Verdict{Answer: true, Reason: "mock approves every pairing"}, nil
}

// CallCount returns the number of Validate calls.
func (m *MockMatchValidator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}
