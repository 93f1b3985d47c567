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


package mock

import (
	"sync/atomic"

	"github.com/poiesic/docintel/ai"
)

// MockProvider is a test double for ai.AIProvider that hands out a
// MockEmbedder and a MockCompleter and records Close calls.
type MockProvider struct {
	embedder  *MockEmbedder
	completer *MockCompleter
	closes    atomic.Int32
}

// NewMockProvider returns a provider with fresh mock services.
func NewMockProvider() ai.AIProvider {
	return NewMockProviderWithServices(NewMockEmbedder(), NewMockCompleter())
}

// NewMockProviderWithServices returns a provider around the given mocks.
func NewMockProviderWithServices(embedder *MockEmbedder, completer *MockCompleter) ai.AIProvider {
	return &MockProvider{embedder: embedder, completer: completer}
}

func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

func (p *MockProvider) ChatCompleter() ai.ChatCompleter {
	return p.completer
}

// GetMockEmbedder returns the concrete embedder for assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockCompleter returns the concrete completer for assertions.
func (p *MockProvider) GetMockCompleter() *MockCompleter {
	return p.completer
}

func (p *MockProvider) Close() error {
	p.closes.Add(1)
	return nil
}

// CloseCount returns how many times Close was called.
func (p *MockProvider) CloseCount() int {
	return int(p.closes.Load())
}
