// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import "github.com/poiesic/stylematch/ai"

// MockProvider is a test double for ai.AIProvider.
type MockProvider struct {
	embedder  *MockEmbedder
	captioner *MockCaptioner
	validator *MockMatchValidator
	closed    bool
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockEmbedder() and friends to access concrete types for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		captioner: NewMockCaptioner(),
		validator: NewMockMatchValidator(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// Nil arguments are replaced with default mocks.
func NewMockProviderWithServices(embedder *MockEmbedder, captioner *MockCaptioner, validator *MockMatchValidator) ai.AIProvider {
	if embedder == nil {
		embedder = NewMockEmbedder()
	}
	if captioner == nil {
		captioner = NewMockCaptioner()
	}
	if validator == nil {
		validator = NewMockMatchValidator()
	}
	return &MockProvider{
		embedder:  embedder,
		captioner: captioner,
		validator: validator,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Captioner returns the mock captioner.
func (p *MockProvider) Captioner() ai.Captioner {
	return p.captioner
}

// MatchValidator returns the mock validator.
func (p *MockProvider) MatchValidator() ai.MatchValidator {
	return p.validator
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockCaptioner returns the underlying mock captioner for test assertions.
func (p *MockProvider) GetMockCaptioner() *MockCaptioner {
	return p.captioner
}

// GetMockValidator returns the underlying mock validator for test assertions.
func (p *MockProvider) GetMockValidator() *MockMatchValidator {
	return p.validator
}
