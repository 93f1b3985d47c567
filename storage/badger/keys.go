package badger

// Key prefixes for different data types
const (
	embeddingPrefix = "emb:"
)

// makeEmbeddingKey generates a key for an embedding record by document id.
func makeEmbeddingKey(docID string) []byte {
	buf := make([]byte, len(embeddingPrefix)+len(docID))
	offset := copy(buf, embeddingPrefix)
	copy(buf[offset:], docID)
	return buf
}
