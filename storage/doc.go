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


// Package storage defines how document embeddings are persisted.
//
// EmbeddingRepository is the storage contract; storage/badger provides the
// BadgerDB implementation. Records are encoded with the MUS codec in core.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	repo, err := badger.NewEmbeddingRepository(backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// NewVectorStore exposes a repository to the conflict detector as an
// ai.VectorStore. Lookup failures degrade to "no embeddings" instead of
// failing the analysis.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
