package mock

import (
	"context"
	"sync"
)

// MockTextSimilarity is a test double for ai.TextSimilarity.
type MockTextSimilarity struct {
	// SimilarityFunc is called by Similarity if set.
	// If nil, identical texts score 1 and all others 0.
	SimilarityFunc func(textA, textB string) float64

	mu        sync.Mutex
	callCount int
}

// NewMockTextSimilarity creates a mock scorer with default behavior.
func NewMockTextSimilarity() *MockTextSimilarity {
	return &MockTextSimilarity{}
}

// Similarity returns the configured score for the pair.
func (m *MockTextSimilarity) Similarity(textA, textB string) float64 {
	m.mu.Lock()
	m.callCount++
	fn := m.SimilarityFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(textA, textB)
	}
	if textA == textB {
		return 1
	}
	return 0
}

// CallCount returns the number of times Similarity was called.
func (m *MockTextSimilarity) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom behavior.
func (m *MockTextSimilarity) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.SimilarityFunc = nil
}

// MockVectorStore is a test double for ai.VectorStore backed by a map.
type MockVectorStore struct {
	mu        sync.Mutex
	vectors   map[string][]float32
	callCount int
}

// NewMockVectorStore creates a store serving the given vectors.
func NewMockVectorStore(vectors map[string][]float32) *MockVectorStore {
	store := &MockVectorStore{vectors: make(map[string][]float32, len(vectors))}
	for id, v := range vectors {
		store.vectors[id] = v
	}
	return store
}

// Put adds or replaces the vector for id.
func (m *MockVectorStore) Put(id string, vector []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors[id] = vector
}

// GetEmbeddings returns the known vectors for ids.
func (m *MockVectorStore) GetEmbeddings(ctx context.Context, ids []string) map[string][]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	out := make(map[string][]float32, len(ids))
	if ctx.Err() != nil {
		return out
	}
	for _, id := range ids {
		if v, ok := m.vectors[id]; ok {
			out[id] = v
		}
	}
	return out
}

// CallCount returns the number of times GetEmbeddings was called.
func (m *MockVectorStore) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}
