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


// Package ai provides abstractions for the AI collaborators used by docintel.
//
// The analysis packages never talk to a model directly. They depend on the
// small interfaces defined here, and every collaborator is optional.
//
// # Interfaces
//
//   - TextSimilarity: scores two texts, used as the semantic signal
//   - VectorStore: returns stored embeddings for document ids
//   - ChatCompleter: sends one prompt to a chat model, used for conflict adjudication
//   - Embedder: generates embeddings, used when indexing documents
//   - AIProvider: aggregates Embedder and ChatCompleter
//
// # Optional collaborators
//
// Capability[T] is a tagged Available/Unavailable value. Components check
// Get before use and fall back to lexical analysis when a collaborator is
// missing:
//
//	chat := ai.Available[ai.ChatCompleter](provider.ChatCompleter())
//	if c, ok := chat.Get(); ok {
//	    reply, err := c.Complete(ctx, prompt)
//	}
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs via langchaingo
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors in ai/openai return interface types. Mock constructors
// return concrete types so tests can inspect call counts and inject behavior.
//
// # Rate limiting
//
// NewRateLimitedCompleter wraps any ChatCompleter with a token bucket from
// golang.org/x/time/rate so adjudication calls respect the provider's quota.
package ai
