package vector

import (
	"errors"
	"sort"

	"github.com/coursewise/coursewise/catalog"
)

// ErrDegenerateVector marks an embedding with zero norm. The offending
// record is excluded from ranking rather than failing the whole scan.
var ErrDegenerateVector = errors.New("degenerate embedding vector")

// Ranked pairs a catalog entry with its similarity to the query.
type Ranked struct {
	Entry      catalog.Entry
	Similarity float64
}

// Skipped records a catalog entry excluded from ranking and why.
type Skipped struct {
	CourseID string
	Reason   error
}

// Rank scores every entry against the query vector and returns those at or
// above the threshold, descending by similarity with ties broken by course
// ID ascending. Entries with zero-norm or wrong-length embeddings are
// reported in the second return value and excluded.
//
// Results below threshold are never padded in, even when fewer than
// requested survive: a short list is the contract.
func Rank(query []float64, entries []catalog.Entry, threshold float64) ([]Ranked, []Skipped) {
	ranked := make([]Ranked, 0, len(entries))
	var skipped []Skipped

	for _, e := range entries {
		if len(e.Embedding) == 0 || IsZero(e.Embedding) {
			skipped = append(skipped, Skipped{CourseID: e.Course.ID, Reason: ErrDegenerateVector})
			continue
		}
		if len(e.Embedding) != len(query) {
			skipped = append(skipped, Skipped{CourseID: e.Course.ID, Reason: catalog.ErrDimensionMismatch})
			continue
		}

		sim := CosineSimilarity(query, e.Embedding)
		if sim < threshold {
			continue
		}
		ranked = append(ranked, Ranked{Entry: e, Similarity: sim})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Similarity != ranked[j].Similarity {
			return ranked[i].Similarity > ranked[j].Similarity
		}
		return ranked[i].Entry.Course.ID < ranked[j].Entry.Course.ID
	})

	return ranked, skipped
}
