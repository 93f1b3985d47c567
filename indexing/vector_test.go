package indexing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVector(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
		want []float32
	}{
		{"already unit", []float32{1, 0, 0}, []float32{1, 0, 0}},
		{"3-4-5", []float32{3, 4}, []float32{0.6, 0.8}},
		{"negative components", []float32{0, -2}, []float32{0, -1}},
		{"zero vector", []float32{0, 0, 0}, []float32{0, 0, 0}},
		{"empty", []float32{}, []float32{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeVector(tt.in)
			assert.InDeltaSlice(t, tt.want, got, 1e-6)
			assert.Len(t, got, len(tt.in))
		})
	}
}

func TestNormalizeVector_DoesNotModifyInput(t *testing.T) {
	in := []float32{3, 4}
	NormalizeVector(in)
	assert.Equal(t, []float32{3, 4}, in)
}

func TestMagnitude(t *testing.T) {
	assert.InDelta(t, 5.0, Magnitude([]float32{3, 4}), 1e-9)
	assert.Zero(t, Magnitude(nil))
	assert.InDelta(t, 1.0, Magnitude(NormalizeVector([]float32{1, 2, 3})), 1e-6)
}
