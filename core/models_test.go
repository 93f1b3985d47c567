package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "test content"},
		{name: "empty string", content: ""},
		{name: "long content", content: "This is a much longer piece of content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, IDFromContent(tt.content), IDFromContent(tt.content))
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	assert.NotEqual(t, IDFromContent("content1"), IDFromContent("content2"))
}

func TestPtr(t *testing.T) {
	p := Ptr(42)
	require.NotNil(t, p)
	assert.Equal(t, 42, *p)

	b := Ptr(true)
	assert.True(t, *b)
}

func TestEmbeddingRecordMUS(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		record := EmbeddingRecord{
			DocID:     "confluence:Auth Guide",
			Vector:    []float32{0.1, -0.2, 0.3, 0.4},
			Model:     "embeddinggemma",
			UpdatedAt: time.Date(2025, 3, 14, 9, 26, 53, 589000, time.UTC),
		}

		buf := make([]byte, EmbeddingRecordMUS.Size(record))
		n := EmbeddingRecordMUS.Marshal(record, buf)
		assert.Equal(t, len(buf), n)

		decoded, read, err := EmbeddingRecordMUS.Unmarshal(buf)
		require.NoError(t, err)
		assert.Equal(t, n, read)
		assert.Equal(t, record.DocID, decoded.DocID)
		assert.Equal(t, record.Vector, decoded.Vector)
		assert.Equal(t, record.Model, decoded.Model)
		assert.True(t, record.UpdatedAt.Equal(decoded.UpdatedAt))
	})

	t.Run("empty vector", func(t *testing.T) {
		record := EmbeddingRecord{DocID: "a"}
		buf := make([]byte, EmbeddingRecordMUS.Size(record))
		EmbeddingRecordMUS.Marshal(record, buf)

		decoded, _, err := EmbeddingRecordMUS.Unmarshal(buf)
		require.NoError(t, err)
		assert.Empty(t, decoded.Vector)
	})

	t.Run("truncated payload", func(t *testing.T) {
		record := EmbeddingRecord{DocID: "a", Vector: []float32{1, 2, 3}, Model: "m"}
		buf := make([]byte, EmbeddingRecordMUS.Size(record))
		EmbeddingRecordMUS.Marshal(record, buf)

		_, _, err := EmbeddingRecordMUS.Unmarshal(buf[:5])
		assert.Error(t, err)
	})
}
