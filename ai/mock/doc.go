// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.ChatCompleter,
// ai.TextSimilarity, ai.VectorStore and ai.AIProvider for use in unit tests.
// The mocks allow tests to run without external AI service dependencies and
// enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	embeddings, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	completer := mock.NewMockCompleter()
//	completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
//	    return `{"has_conflicts": false}`, nil
//	}
//
//	// Check call counts
//	count := completer.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockCompleter: Answers that no conflict was found
//   - MockTextSimilarity: Scores identical texts 1 and anything else 0
//   - MockVectorStore: Serves vectors from an in-memory map
//   - MockProvider: Aggregates mock embedder and completer
//
// All mocks are safe for concurrent use.
package mock
