package catalog

import (
	"encoding/binary"
	"math"
)

// encodeEmbedding serializes a vector as little-endian float64 bytes for
// BLOB storage.
func encodeEmbedding(v []float64) []byte {
	if len(v) == 0 {
		return nil
	}
	buf := make([]byte, 8*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(x))
	}
	return buf
}

// decodeEmbedding deserializes a little-endian float64 BLOB. Trailing bytes
// that do not form a full float64 are ignored.
func decodeEmbedding(buf []byte) []float64 {
	n := len(buf) / 8
	if n == 0 {
		return nil
	}
	v := make([]float64, n)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return v
}
