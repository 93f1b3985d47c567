package storage

import (
	"testing"
	"time"

	"github.com/poiesic/docintel/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalEmbeddingRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name   string
		record *core.EmbeddingRecord
	}{
		{
			name: "full record",
			record: &core.EmbeddingRecord{
				DocID:     "confluence-42",
				Vector:    []float32{0.6, -0.8, 0},
				Model:     "nomic-embed-text",
				UpdatedAt: now,
			},
		},
		{
			name: "unicode id without model",
			record: &core.EmbeddingRecord{
				DocID:     "wiki/Überblick",
				Vector:    []float32{1},
				UpdatedAt: now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalEmbeddingRecord(tt.record)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalEmbeddingRecord(data)
			require.NoError(t, err)
			assert.Equal(t, tt.record.DocID, decoded.DocID)
			assert.Equal(t, tt.record.Vector, decoded.Vector)
			assert.Equal(t, tt.record.Model, decoded.Model)
			assert.True(t, tt.record.UpdatedAt.Equal(decoded.UpdatedAt))
		})
	}
}

func TestUnmarshalEmbeddingRecord_Invalid(t *testing.T) {
	valid := MarshalEmbeddingRecord(&core.EmbeddingRecord{
		DocID:  "doc",
		Vector: []float32{0.1, 0.2, 0.3, 0.4},
	})

	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated vector", valid[:8]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalEmbeddingRecord(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}
