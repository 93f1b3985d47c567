package similarity

import (
	"fmt"

	"github.com/poiesic/docintel/core"
)

// Weights sets the contribution of each sub-score to the final similarity.
// Weights need not sum to 1; the weighted sum is clamped to [0, 1].
type Weights struct {
	Entity    float64 `toml:"entity" json:"entity"`
	Topic     float64 `toml:"topic" json:"topic"`
	Semantic  float64 `toml:"semantic" json:"semantic"`
	Content   float64 `toml:"content" json:"content"`
	Hierarchy float64 `toml:"hierarchy" json:"hierarchy"`
}

// DefaultWeights returns the stock weighting.
func DefaultWeights() Weights {
	return Weights{
		Entity:    0.25,
		Topic:     0.20,
		Semantic:  0.30,
		Content:   0.10,
		Hierarchy: 0.15,
	}
}

// Validate rejects negative weights and an all-zero weighting.
func (w Weights) Validate() error {
	named := []struct {
		name  string
		value float64
	}{
		{"entity", w.Entity},
		{"topic", w.Topic},
		{"semantic", w.Semantic},
		{"content", w.Content},
		{"hierarchy", w.Hierarchy},
	}
	total := 0.0
	for _, n := range named {
		if n.value < 0 {
			return fmt.Errorf("%w: %s weight is negative (%v)", ErrInvalidWeights, n.name, n.value)
		}
		total += n.value
	}
	if total == 0 {
		return fmt.Errorf("%w: all weights are zero", ErrInvalidWeights)
	}
	return nil
}

// Combine returns the weighted sum of metrics clamped to [0, 1].
func (w Weights) Combine(metrics map[core.MetricName]float64) float64 {
	sum := w.Entity*metrics[core.MetricEntityOverlap] +
		w.Topic*metrics[core.MetricTopicOverlap] +
		w.Semantic*metrics[core.MetricSemantic] +
		w.Content*metrics[core.MetricContentFeatures] +
		w.Hierarchy*metrics[core.MetricHierarchical]
	return clamp01(sum)
}
