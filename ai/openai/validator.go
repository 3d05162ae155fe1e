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
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/stylematch/ai"
	"github.com/poiesic/stylematch/core"
)

// ErrUnexpectedAnswer indicates the model answered something other than yes or no.
var ErrUnexpectedAnswer = errors.New("unexpected validator answer")

// validatorMaxTokens caps the length of the model's explanation.
const validatorMaxTokens = 300

// MatchValidator implements ai.MatchValidator using an OpenAI-compatible vision chat API.
type MatchValidator struct {
	client llms.Model
	logger *slog.Logger
}

type verdict struct {
	Answer string `json:"answer"`
	Reason string `json:"reason"`
}

func newMatchValidator(config *ai.Config) (*MatchValidator, error) {
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

	return newMatchValidatorWithClient(client), nil
}

func newMatchValidatorWithClient(client llms.Model) *MatchValidator {
	return &MatchValidator{
		client: client,
		logger: slog.Default().With("component", "openai-validator"),
	}
}

// NewMatchValidator creates a new validator using the provided configuration.
//
// Returns ai.MatchValidator interface to enforce abstraction.
func NewMatchValidator(config *ai.Config) (ai.MatchValidator, error) {
	return newMatchValidator(config)
}

// Validate asks the model whether suggested works in an outfit with reference.
func (v *MatchValidator) Validate(ctx context.Context, reference, suggested ai.Image) (core.Verdict, error) {
	if len(reference.Data) == 0 || len(suggested.Data) == 0 {
		return core.Verdict{}, fmt.Errorf("%w: both images are required", core.ErrInvalidInput)
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(matchPrompt),
				llms.ImageURLPart(reference.DataURL()),
				llms.ImageURLPart(suggested.DataURL()),
			},
		},
	}

	var result verdict
	if err := generateJSON(ctx, v.client, v.logger, content, &result, llms.WithMaxTokens(validatorMaxTokens), llms.WithJSONMode()); err != nil {
		return core.Verdict{}, err
	}

	var answer bool
	switch strings.ToLower(strings.TrimSpace(result.Answer)) {
	case "yes":
		answer = true
	case "no":
		answer = false
	default:
		return core.Verdict{}, fmt.Errorf("%w: %w: %q", core.ErrInvalidInput, ErrUnexpectedAnswer, result.Answer)
	}

	return core.Verdict{Answer: answer, Reason: strings.TrimSpace(result.Reason)}, nil
}
