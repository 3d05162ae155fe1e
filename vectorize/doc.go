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


// Package vectorize turns text into embedding vectors through a remote
// embedding service.
//
// A Vectorizer wraps an ai.Embedder with two policies:
//
//   - every text is cut to a token budget (8191 by default) with a tokenizer
//     that matches the model vocabulary, so oversize input never fails;
//   - failed calls are retried with randomized exponential backoff (1s base,
//     40s cap, 10 attempts by default). Once the budget is spent the error
//     wraps core.ErrTransientService and callers must not retry it again.
//
// RetryWithBackoff is exported for any other remote call that wants the
// same policy.
package vectorize
