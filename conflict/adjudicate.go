package conflict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/poiesic/docintel/core"
)

// verdict is the structured answer expected from the chat model.
type verdict struct {
	HasConflicts flexBool          `json:"has_conflicts"`
	Conflicts    []verdictConflict `json:"conflicts"`
}

type verdictConflict struct {
	Type        string         `json:"type"`
	Confidence  flexConfidence `json:"confidence"`
	Doc1Snippet string         `json:"doc1_snippet"`
	Doc2Snippet string         `json:"doc2_snippet"`
}

// flexBool accepts true/false as JSON booleans or strings.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = flexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*b = flexBool(parsed)
	return nil
}

// flexConfidence accepts a number, a numeric string, a percentage or one of
// "high", "medium" and "low". The result is clamped to [0, 1].
type flexConfidence float64

func (c *flexConfidence) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	var (
		f       float64
		percent bool
	)
	if err := json.Unmarshal(data, &f); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.ToLower(strings.TrimSpace(s))
		switch s {
		case "high":
			f = 0.85
		case "medium":
			f = 0.7
		case "low":
			f = 0.5
		default:
			percent = strings.HasSuffix(s, "%")
			parsed, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
			if err != nil {
				return fmt.Errorf("confidence %q: %w", s, err)
			}
			f = parsed
		}
	}

	// Whole numbers up to 100 are read as percentages.
	if percent || (f > 1 && f <= 100 && f == math.Trunc(f)) {
		f /= 100
	}
	*c = flexConfidence(math.Max(0, math.Min(1, f)))
	return nil
}

// parseVerdict decodes a model answer: a strict parse first, then a single
// attempt on the first balanced JSON object after light repairs.
func parseVerdict(raw string) (*verdict, error) {
	text := stripCodeFences(raw)

	var v verdict
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		return &v, nil
	}

	object, ok := extractJSONObject(repairJSON(text))
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrMalformedVerdict)
	}
	v = verdict{}
	if err := json.Unmarshal([]byte(object), &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedVerdict, err)
	}
	return &v, nil
}

// adjudicate asks the chat model to confirm a lexical candidate. It returns
// nil when the model refutes the conflict and the candidate unchanged when
// the model cannot be reached or answers nonsense.
func (d *Detector) adjudicate(ctx context.Context, a, b *core.Document, candidate *core.ConflictCandidate) *core.ConflictCandidate {
	chat, ok := d.chat.Get()
	if !ok {
		return candidate
	}

	callCtx, cancel := context.WithTimeout(ctx, d.callTimeout)
	defer cancel()

	prompt := buildAdjudicationPrompt(a, b, d.textWindow, candidate.Indicators)
	response, err := chat.Complete(callCtx, prompt)
	if err != nil {
		d.logger.Warn("conflict adjudication unavailable, keeping lexical verdict",
			"doc_a", candidate.DocAID, "doc_b", candidate.DocBID, "err", err)
		return candidate
	}

	v, err := parseVerdict(response)
	if err != nil {
		d.logger.Warn("malformed adjudication response, keeping lexical verdict",
			"doc_a", candidate.DocAID, "doc_b", candidate.DocBID, "err", err)
		return candidate
	}

	if !bool(v.HasConflicts) {
		d.logger.Debug("conflict refuted by adjudication", "doc_a", candidate.DocAID, "doc_b", candidate.DocBID)
		return nil
	}
	return mergeVerdict(candidate, v)
}

// mergeVerdict folds a confirming verdict into a copy of candidate.
func mergeVerdict(candidate *core.ConflictCandidate, v *verdict) *core.ConflictCandidate {
	merged := *candidate
	merged.LLMValidated = true
	if len(v.Conflicts) == 0 {
		return &merged
	}

	best := -1.0
	var snippets []core.ConflictSnippet
	indicators := append([]string(nil), candidate.Indicators...)
	for _, c := range v.Conflicts {
		label := strings.TrimSpace(c.Type)
		if label == "" {
			label = core.ConflictFactual.String()
		}
		indicators = append(indicators, "llm: "+label)
		if c.Doc1Snippet != "" || c.Doc2Snippet != "" {
			snippets = append(snippets, core.ConflictSnippet{Doc1: c.Doc1Snippet, Doc2: c.Doc2Snippet})
		}
		if conf := float64(c.Confidence); conf > best {
			best = conf
			merged.Kind = core.ConflictKindFromLabel(label)
		}
	}

	merged.Indicators = indicators
	merged.Snippets = append(snippets, candidate.Snippets...)
	merged.Confidence = math.Max(candidate.Confidence, best)
	return &merged
}
