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
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
)

// maxParseAttempts bounds how many times a malformed model response is regenerated.
const maxParseAttempts = 3

// ErrEmptyResponse indicates the model returned no choices.
var ErrEmptyResponse = errors.New("model returned no choices")

// generateJSON sends content to the model and decodes the first choice into target.
// Responses that fail to parse after fence stripping and repair are regenerated
// up to maxParseAttempts times. Transport errors are returned immediately.
func generateJSON(ctx context.Context, client llms.Model, logger *slog.Logger, content []llms.MessageContent, target any, options ...llms.CallOption) error {
	var lastErr error
	for attempt := 0; attempt < maxParseAttempts; attempt++ {
		response, err := client.GenerateContent(ctx, content, options...)
		if err != nil {
			logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return err
		}

		if len(response.Choices) < 1 {
			return ErrEmptyResponse
		}

		responseText := repairJSON(stripCodeFence(response.Choices[0].Content))

		if err := json.Unmarshal([]byte(responseText), target); err != nil {
			lastErr = err
			logger.Warn("error parsing model response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		return nil
	}

	logger.Error("failed to parse model response after retries", "err", lastErr)
	return fmt.Errorf("parsing model response: %w", lastErr)
}
