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


package badger

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/storage"
)

// EmbeddingRepository implements storage.EmbeddingRepository for BadgerDB.
type EmbeddingRepository struct {
	backend *Backend
}

var _ storage.EmbeddingRepository = (*EmbeddingRepository)(nil)

// NewEmbeddingRepository creates a new EmbeddingRepository.
func NewEmbeddingRepository(backend *Backend) (*EmbeddingRepository, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: backend is nil", storage.ErrStorageClosed)
	}
	return &EmbeddingRepository{
		backend: backend,
	}, nil
}

// Close releases resources. The backend is owned by the caller.
func (r *EmbeddingRepository) Close() error {
	return nil
}

// PutEmbeddings stores or replaces one record per DocID.
func (r *EmbeddingRepository) PutEmbeddings(ctx context.Context, records ...*core.EmbeddingRecord) error {
	for _, record := range records {
		if err := core.ValidateEmbeddingRecord(record); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	return r.backend.WithWriteBatch(func(wb *badger.WriteBatch) error {
		for _, record := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			if record.UpdatedAt.IsZero() {
				record.UpdatedAt = now
			}
			if err := wb.Set(makeEmbeddingKey(record.DocID), storage.MarshalEmbeddingRecord(record)); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetEmbedding retrieves a single record by document id.
func (r *EmbeddingRepository) GetEmbedding(ctx context.Context, id string) (*core.EmbeddingRecord, error) {
	var result *core.EmbeddingRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readEmbedding(tx, makeEmbeddingKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
		}
		return nil
	}, false)
	return result, err
}

// GetEmbeddings retrieves the records that exist for ids.
func (r *EmbeddingRepository) GetEmbeddings(ctx context.Context, ids ...string) ([]*core.EmbeddingRecord, error) {
	var result []*core.EmbeddingRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			record, err := readEmbedding(tx, makeEmbeddingKey(id))
			if err != nil {
				return err
			}
			if record != nil {
				result = append(result, record)
			}
		}
		return nil
	}, false)
	return result, err
}

// DeleteEmbeddings removes records by document id.
func (r *EmbeddingRepository) DeleteEmbeddings(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeEmbeddingKey(id)
			if _, err := tx.Get(key); err != nil {
				if err == badger.ErrKeyNotFound {
					return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// FindSimilar scans stored vectors and returns those whose cosine
// similarity to vector is at least minSimilarity. Records with a different
// dimension are skipped.
func (r *EmbeddingRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]core.EmbeddingMatch, error) {
	if len(vector) == 0 || limit < 1 {
		return nil, storage.ErrInvalidQuery
	}
	queryNorm := norm(vector)
	if queryNorm == 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []core.EmbeddingMatch
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(embeddingPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var record *core.EmbeddingRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalEmbeddingRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if len(record.Vector) != len(vector) {
				continue
			}

			recordNorm := norm(record.Vector)
			if recordNorm == 0 {
				continue
			}
			score := dotProduct(vector, record.Vector) / (queryNorm * recordNorm)
			if score >= minSimilarity {
				results = append(results, core.EmbeddingMatch{DocID: record.DocID, Score: score})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b core.EmbeddingMatch) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		return strings.Compare(a.DocID, b.DocID)
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Count returns the number of stored records.
func (r *EmbeddingRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(embeddingPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// readEmbedding reads a record from the transaction. A missing key yields nil, nil.
func readEmbedding(tx *badger.Txn, key []byte) (*core.EmbeddingRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.EmbeddingRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalEmbeddingRecord(val)
		return err
	})
	return record, err
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := min(len(a), len(b))
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func norm(v []float32) float32 {
	return float32(math.Sqrt(float64(dotProduct(v, v))))
}
