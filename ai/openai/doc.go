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


// Package openai connects docintel to OpenAI-compatible HTTP services
// (OpenAI, Ollama, LocalAI, vLLM) through langchaingo.
//
// The Provider carries two services. Its Embedder feeds the indexing
// package, which stores document vectors for the conflict detector's
// embedding bonus. Its ChatCompleter answers adjudication prompts in JSON
// mode and is wrapped by ai.RateLimitedCompleter when a request rate is
// configured.
//
//	provider, err := openai.NewProvider(ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"), // /v1 is appended
//	    ai.WithEmbeddingModel("embeddinggemma"),
//	    ai.WithChatModel("qwen2.5:3b"),
//	    ai.WithRateLimit(2, 1),
//	))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
package openai
