// Package indexing embeds documents and persists their vectors.
//
// An Indexer sends document text windows to an ai.Embedder in batches,
// retries failed batches with exponential backoff, unit-normalizes the
// returned vectors and stores them as core.EmbeddingRecord values. The
// conflict detector later reads those vectors through storage.NewVectorStore.
package indexing
