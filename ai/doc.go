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


// Package ai provides abstractions for the embedding services used by vecseed.
//
// The bootstrap pipeline depends on the Embedder interface rather than on a
// concrete provider, so providers can be swapped through configuration and
// replaced by test doubles.
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible APIs through langchaingo (OpenAI, Ollama, vLLM)
//   - ai/gemini: Google Gemini embeddings through the genai SDK
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// CachedEmbedder decorates any Embedder with an LRU cache.
//
// # Constructor Return Type Pattern
//
// Public provider constructors (openai.NewProvider, gemini.NewProvider) return
// the ai.AIProvider interface. Test utility constructors (mock.NewMockEmbedder)
// return concrete types so tests can inject behavior and assert on call counts.
//
// # Errors
//
// A provider that fails, or that answers with a different number of vectors
// than inputs, is reported as a *ProviderError. CheckEmbeddings performs the
// count check; ErrEmbeddingCountMismatch identifies that case with errors.Is.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithEmbeddingModel("text-embedding-3-small"))
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vectors, err := provider.Embedder().EmbedTexts(ctx, []string{"a", "b"})
package ai
