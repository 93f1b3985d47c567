package ai

import "context"

// Embedder generates vector embeddings from text.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// TextSimilarity scores how alike two texts are.
// Implementations must be thread-safe and return a value in [0, 1].
type TextSimilarity interface {
	Similarity(textA, textB string) float64
}

// TextSimilarityFunc adapts a plain function to TextSimilarity.
type TextSimilarityFunc func(textA, textB string) float64

// Similarity calls f(textA, textB).
func (f TextSimilarityFunc) Similarity(textA, textB string) float64 {
	return f(textA, textB)
}

// VectorStore looks up stored document embeddings.
type VectorStore interface {
	// GetEmbeddings returns the vectors known for ids. Unknown ids are absent
	// from the result. A store that cannot answer returns an empty map, never
	// an error.
	GetEmbeddings(ctx context.Context, ids []string) map[string][]float32
}

// ChatCompleter sends a single prompt to a chat model.
// Implementations must be thread-safe for concurrent use.
type ChatCompleter interface {
	// Complete returns the model's raw text response for prompt.
	Complete(ctx context.Context, prompt string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// ChatCompleter returns the chat-completion service.
	ChatCompleter() ChatCompleter

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}

// ChatCompleterFunc adapts a plain function to ChatCompleter.
type ChatCompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f(ctx, prompt).
func (f ChatCompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
