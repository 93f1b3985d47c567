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
	"log/slog"
	"sync/atomic"

	"github.com/poiesic/docintel/ai"
)

// Provider bundles the embedder used for indexing and the JSON-mode chat
// completer used for conflict adjudication. Both talk to OpenAI-compatible
// endpoints described by one ai.Config.
type Provider struct {
	embedder  *Embedder
	completer ai.ChatCompleter
	closed    atomic.Bool
	logger    *slog.Logger
}

var _ ai.AIProvider = (*Provider)(nil)

// NewProvider validates config and builds both services. Chat requests ask
// for JSON responses and are rate limited when config sets
// RequestsPerSecond.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	completer, err := NewCompleter(config, WithJSONResponses())
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "openai-provider")
	logger.Debug("provider ready",
		"embedding_host", config.EmbeddingHost, "embedding_model", config.EmbeddingModel,
		"chat_host", config.ChatHost, "chat_model", config.ChatModel,
		"rps", config.RequestsPerSecond)

	return &Provider{
		embedder:  embedder,
		completer: completer,
		logger:    logger,
	}, nil
}

func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

func (p *Provider) ChatCompleter() ai.ChatCompleter {
	return p.completer
}

// Close is idempotent. The HTTP clients hold no resources that need
// releasing.
func (p *Provider) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	p.logger.Debug("provider closed")
	return nil
}
