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


package similarity

import (
	"sync"

	"github.com/poiesic/docintel/core"
)

type pairKey struct {
	lo, hi string
}

func keyFor(idA, idB string) pairKey {
	if idB < idA {
		idA, idB = idB, idA
	}
	return pairKey{lo: idA, hi: idB}
}

// Memo caches similarity results per unordered document pair. It is meant to
// live for one request and is safe for concurrent use.
type Memo struct {
	inner Comparer

	mu      sync.Mutex
	results map[pairKey]core.SimilarityResult
}

var _ Comparer = (*Memo)(nil)

// NewMemo wraps inner. A nil inner makes Compare report cached results only.
func NewMemo(inner Comparer) *Memo {
	return &Memo{
		inner:   inner,
		results: make(map[pairKey]core.SimilarityResult),
	}
}

// Compare returns the cached result for the pair, computing and storing it on
// a miss. The result is oriented as (a, b).
func (m *Memo) Compare(a, b *core.Document) core.SimilarityResult {
	if r, ok := m.Lookup(a.DocID(), b.DocID()); ok {
		return r
	}
	if m.inner == nil {
		return core.SimilarityResult{DocAID: a.DocID(), DocBID: b.DocID()}
	}
	r := m.inner.Compare(a, b)
	m.Store(r)
	return r
}

// Lookup returns a cached result oriented as (idA, idB).
func (m *Memo) Lookup(idA, idB string) (core.SimilarityResult, bool) {
	m.mu.Lock()
	r, ok := m.results[keyFor(idA, idB)]
	m.mu.Unlock()
	if !ok {
		return core.SimilarityResult{}, false
	}
	if r.DocAID != idA {
		r = r.Swapped()
	}
	return r, true
}

// Store caches r under its unordered pair. An existing entry is kept.
func (m *Memo) Store(r core.SimilarityResult) {
	key := keyFor(r.DocAID, r.DocBID)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.results[key]; !exists {
		m.results[key] = r
	}
}

// Len returns the number of cached pairs.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

// Results returns a snapshot of every cached result.
func (m *Memo) Results() []core.SimilarityResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.SimilarityResult, 0, len(m.results))
	for _, r := range m.results {
		out = append(out, r)
	}
	return out
}
