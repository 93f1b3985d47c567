package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// EmbeddingRecord is a persisted document embedding.
type EmbeddingRecord struct {
	DocID     string
	Vector    []float32 // Unit-normalized embedding
	Model     string    // Embedding model that produced Vector
	UpdatedAt time.Time
}

// EmbeddingMatch is a result from a nearest-neighbour lookup.
type EmbeddingMatch struct {
	DocID string  `json:"doc_id"`
	Score float32 `json:"score"`
}

// Ptr returns a pointer to v. Handy for populating optional Document fields.
func Ptr[T any](v T) *T {
	return &v
}
