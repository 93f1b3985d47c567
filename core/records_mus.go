package core

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// float32Size is the fixed encoded size of a raw float32.
const float32Size = 4

// EmbeddingRecordMUS is the MUS serializer for EmbeddingRecord.
//
// Layout: DocID, vector length, raw float32 components, Model, UpdatedAt as
// varint Unix microseconds.
var EmbeddingRecordMUS = embeddingRecordMUS{}

type embeddingRecordMUS struct{}

func (s embeddingRecordMUS) Marshal(v EmbeddingRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.DocID, bs)
	n += varint.PositiveInt.Marshal(len(v.Vector), bs[n:])
	for _, f := range v.Vector {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	n += ord.String.Marshal(v.Model, bs[n:])
	n += varint.Int64.Marshal(v.UpdatedAt.UnixMicro(), bs[n:])
	return
}

func (s embeddingRecordMUS) Unmarshal(bs []byte) (v EmbeddingRecord, n int, err error) {
	v.DocID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}

	var (
		length int
		n1     int
	)
	length, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if length < 0 || length > (len(bs)-n)/float32Size {
		err = fmt.Errorf("%w: vector length %d exceeds payload", ErrInvalidEmbedding, length)
		return
	}

	v.Vector = make([]float32, length)
	for i := range v.Vector {
		v.Vector[i], n1, err = raw.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}

	v.Model, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt = time.UnixMicro(micros).UTC()
	return
}

func (s embeddingRecordMUS) Size(v EmbeddingRecord) (size int) {
	size = ord.String.Size(v.DocID)
	size += varint.PositiveInt.Size(len(v.Vector))
	size += len(v.Vector) * float32Size
	size += ord.String.Size(v.Model)
	size += varint.Int64.Size(v.UpdatedAt.UnixMicro())
	return
}

func (s embeddingRecordMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}
