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
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/docintel/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrNoChoices is returned when the model answers without any choice.
var ErrNoChoices = errors.New("model returned no choices")

// Completer implements ai.ChatCompleter using OpenAI-compatible chat APIs.
type Completer struct {
	client       llms.Model
	model        string
	systemPrompt string
	jsonMode     bool
	logger       *slog.Logger
}

// CompleterOption configures a Completer.
type CompleterOption func(*Completer)

// WithSystemPrompt sends prompt as the system message before every request.
func WithSystemPrompt(prompt string) CompleterOption {
	return func(c *Completer) {
		c.systemPrompt = prompt
	}
}

// WithJSONResponses asks the server to constrain output to a JSON object.
func WithJSONResponses() CompleterOption {
	return func(c *Completer) {
		c.jsonMode = true
	}
}

// newCompleter is an internal constructor that returns the concrete type.
func newCompleter(config *ai.Config, opts ...CompleterOption) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	c := &Completer{
		client: client,
		model:  config.ChatModel,
		logger: slog.Default().With("component", "openai-completer"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewCompleter creates a chat completer using the provided configuration.
// When the config sets RequestsPerSecond the completer is rate limited.
//
// Returns ai.ChatCompleter interface to enforce abstraction.
func NewCompleter(config *ai.Config, opts ...CompleterOption) (ai.ChatCompleter, error) {
	c, err := newCompleter(config, opts...)
	if err != nil {
		return nil, err
	}
	return ai.NewRateLimitedCompleter(c, config.RequestsPerSecond, config.Burst), nil
}

// Complete sends prompt as a single human message and returns the first choice.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	content := make([]llms.MessageContent, 0, 2)
	if c.systemPrompt != "" {
		content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, c.systemPrompt))
	}
	content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	callOpts := []llms.CallOption{llms.WithTemperature(0.0)}
	if c.jsonMode {
		callOpts = append(callOpts, llms.WithJSONMode())
	}

	response, err := c.client.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		c.logger.Error("failed to generate content", "model", c.model, "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		c.logger.Debug("no choices returned from model")
		return "", ErrNoChoices
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
