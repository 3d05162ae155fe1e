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


// Package openai provides AI service implementations using OpenAI-compatible APIs.
//
// This package implements the ai.AIProvider interface using the langchaingo
// library to talk to OpenAI or an OpenAI-compatible service (Ollama,
// LocalAI, vLLM).
//
// Images are sent inline as base64 data URLs. Chat responses are requested in
// JSON mode. Fenced or slightly malformed JSON is repaired before decoding and
// regenerated up to three times when it still fails to parse.
//
// # Usage
//
//	cfg := ai.NewConfig(ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")))
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "White Canvas Sneakers")
//	caption, err := provider.Captioner().Caption(ctx, image, []string{"Jackets", "Jeans"})
//	verdict, err := provider.MatchValidator().Validate(ctx, reference, suggested)
package openai
