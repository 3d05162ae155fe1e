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


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/stylematch/ai"
	"github.com/poiesic/stylematch/core"
)

// Captioner implements ai.Captioner using an OpenAI-compatible vision chat API.
type Captioner struct {
	client llms.Model
	logger *slog.Logger
}

// caption is the wire shape of the model's answer.
type caption struct {
	Items    []string `json:"items"`
	Category string   `json:"category"`
	Gender   string   `json:"gender"`
}

// newCaptioner is an internal constructor that returns the concrete type.
func newCaptioner(config *ai.Config) (*Captioner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.VisionHost),
		openai.WithToken(token(config)),
		openai.WithModel(config.VisionModel),
	)
	if err != nil {
		return nil, err
	}

	return newCaptionerWithClient(client), nil
}

func newCaptionerWithClient(client llms.Model) *Captioner {
	return &Captioner{
		client: client,
		logger: slog.Default().With("component", "openai-captioner"),
	}
}

// NewCaptioner creates a new captioner using the provided configuration.
//
// Returns ai.Captioner interface to enforce abstraction.
func NewCaptioner(config *ai.Config) (ai.Captioner, error) {
	return newCaptioner(config)
}

// Caption asks the vision model for complementary items, a category and a gender.
// Suggestions are trimmed and deduplicated. A gender outside the known set
// is reported as core.ErrInvalidGender. A category outside categories is
// logged and kept, since it only narrows the catalog filter.
func (c *Captioner) Caption(ctx context.Context, image ai.Image, categories []string) (core.Caption, error) {
	if len(image.Data) == 0 {
		return core.Caption{}, fmt.Errorf("%w: image is empty", core.ErrInvalidInput)
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildCaptionPrompt(categories)),
				llms.ImageURLPart(image.DataURL()),
			},
		},
	}

	var result caption
	if err := generateJSON(ctx, c.client, c.logger, content, &result, llms.WithTemperature(0.0), llms.WithJSONMode()); err != nil {
		return core.Caption{}, err
	}

	gender, err := core.ParseGender(result.Gender)
	if err != nil {
		return core.Caption{}, fmt.Errorf("caption: %w", err)
	}

	if len(categories) > 0 && !slices.Contains(categories, result.Category) {
		c.logger.Warn("model returned a category outside the catalog", "category", result.Category)
	}

	out := core.Caption{
		Items:    cleanItems(result.Items),
		Category: result.Category,
		Gender:   gender,
	}
	c.logger.Debug("captioned image", "items", len(out.Items), "category", out.Category, "gender", out.Gender)
	return out, nil
}
