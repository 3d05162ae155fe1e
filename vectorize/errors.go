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


package vectorize

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when a RetryPolicy allows no attempts.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInvalidDelay is returned when a RetryPolicy has a non-positive base
	// delay or a cap below the base delay.
	ErrInvalidDelay = errors.New("retry delays must be positive and maxDelay >= baseDelay")

	// ErrEmbedderRequired is returned when New is called without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrInvalidMaxTokens is returned when the token budget is not positive.
	ErrInvalidMaxTokens = errors.New("maxTokens must be greater than 0")
)
