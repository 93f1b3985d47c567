// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"math"
	"strings"
)

// ValidateDocument validates a Document before it is indexed.
//
// Validation rules:
//   - DocID must resolve to something other than the bare separator
//   - Text must not be blank
//
// NOT validated (optional everywhere in the engine):
//   - Entities, Topics, hierarchy and content-shape fields
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.ID == "" && doc.SourceType == "" && doc.SourceTitle == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyDocumentID)
	}

	if strings.TrimSpace(doc.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	return nil
}

// ValidateEmbeddingRecord validates an EmbeddingRecord before it is stored.
// The vector must be non-empty with finite components.
func ValidateEmbeddingRecord(record *EmbeddingRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidEmbedding)
	}

	if record.DocID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEmbedding, ErrEmptyDocumentID)
	}

	if len(record.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEmbedding, ErrEmptyVector)
	}

	for i, v := range record.Vector {
		if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: component %d of %s is not finite", ErrInvalidEmbedding, i, record.DocID)
		}
	}

	return nil
}
