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


package ai

import (
	"fmt"
	"strings"

	"github.com/poiesic/stylematch/core"
)

// OpenAIHost is the hosted OpenAI API endpoint.
const OpenAIHost = "https://api.openai.com/v1"

// Config holds configuration for AI service providers.
// Fields carry env tags so LoadConfig can populate them from the environment.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "https://api.openai.com/v1", "http://localhost:11434/v1"
	EmbeddingHost string `env:"STYLEMATCH_EMBEDDING_HOST"`

	// VisionHost is the base URL for the vision chat API used by the
	// captioner and the match validator.
	VisionHost string `env:"STYLEMATCH_VISION_HOST"`

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "text-embedding-3-large", "text-embedding-3-small"
	EmbeddingModel string `env:"STYLEMATCH_EMBEDDING_MODEL"`

	// EmbeddingDimensions requests a reduced output size from models that
	// support it. Zero keeps the model's native dimensionality.
	EmbeddingDimensions int `env:"STYLEMATCH_EMBEDDING_DIMENSIONS"`

	// VisionModel is the image-capable chat model.
	// Example: "gpt-4o-mini"
	VisionModel string `env:"STYLEMATCH_VISION_MODEL"`

	// APIKey authenticates against the hosted API. Local
	// OpenAI-compatible servers usually accept any value.
	APIKey string `env:"OPENAI_API_KEY"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithVisionHost sets the vision service host URL.
func WithVisionHost(host string) ConfigOption {
	return func(c *Config) {
		c.VisionHost = host
	}
}

// WithHost sets both embedding and vision hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.VisionHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithEmbeddingDimensions sets the requested embedding size.
func WithEmbeddingDimensions(dims int) ConfigOption {
	return func(c *Config) {
		c.EmbeddingDimensions = dims
	}
}

// WithVisionModel sets the vision model identifier.
func WithVisionModel(model string) ConfigOption {
	return func(c *Config) {
		c.VisionModel = model
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// DefaultConfig returns a Config pointing at the hosted OpenAI API.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:  OpenAIHost,
		VisionHost:     OpenAIHost,
		EmbeddingModel: "text-embedding-3-large",
		VisionModel:    "gpt-4o-mini",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434/v1"),
//	    WithEmbeddingModel("nomic-embed-text"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Apply applies opts to an existing Config.
func (c *Config) Apply(opts ...ConfigOption) *Config {
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.EmbeddingHost = normalizeHost(c.EmbeddingHost)
	c.VisionHost = normalizeHost(c.VisionHost)
}

func normalizeHost(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation. Every returned
// error wraps core.ErrConfiguration.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return configErr("EmbeddingHost is required")
	}
	if c.VisionHost == "" {
		return configErr("VisionHost is required")
	}
	if strings.TrimSpace(c.EmbeddingModel) == "" {
		return configErr("EmbeddingModel is required")
	}
	if strings.TrimSpace(c.VisionModel) == "" {
		return configErr("VisionModel is required")
	}
	if c.EmbeddingDimensions < 0 {
		return configErr("EmbeddingDimensions cannot be negative")
	}
	if c.APIKey == "" && (c.EmbeddingHost == OpenAIHost || c.VisionHost == OpenAIHost) {
		return configErr("APIKey is required for " + OpenAIHost)
	}
	return nil
}

func configErr(msg string) error {
	return fmt.Errorf("%w: ai config: %s", core.ErrConfiguration, msg)
}
