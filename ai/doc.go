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


// Package ai provides abstractions for the remote AI services used by stylematch.
//
// The package defines interfaces for the three model calls the recommender
// depends on. Business logic in vectorize, match and the root package is
// written against these interfaces and never against a concrete client.
//
//   - Embedder: Generates vector embeddings from text
//   - Captioner: Turns a garment image into a core.Caption
//   - MatchValidator: Decides whether two garments go together
//   - AIProvider: Aggregates the three services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types. Test utility constructors (mock.NewMockEmbedder,
// mock.NewMockCaptioner) return CONCRETE types so tests can inject
// behavior and assert on call counts.
//
//	provider, err := openai.NewProvider(cfg)  // returns ai.AIProvider
//	mockEmbed := mock.NewMockEmbedder()       // returns *mock.MockEmbedder
//
// # Configuration
//
// Config is built with functional options or loaded from the environment:
//
//	cfg, err := ai.LoadConfig() // .env, then STYLEMATCH_* and OPENAI_API_KEY
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.Apply(ai.WithEmbeddingModel("text-embedding-3-small"))
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err) // wraps core.ErrConfiguration
//	}
package ai
