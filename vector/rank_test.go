package vector

import (
	"errors"
	"testing"

	"github.com/coursewise/coursewise/catalog"
)

func entry(id string, emb ...float64) catalog.Entry {
	return catalog.Entry{Course: catalog.Course{ID: id}, Embedding: emb}
}

func TestRankOrdering(t *testing.T) {
	query := []float64{1, 0}
	entries := []catalog.Entry{
		entry("far", 0, 1),
		entry("near", 0.9, 0.1),
		entry("exact", 1, 0),
	}

	ranked, skipped := Rank(query, entries, 0.3)
	if len(skipped) != 0 {
		t.Fatalf("skipped = %v, want none", skipped)
	}
	if len(ranked) != 2 {
		t.Fatalf("ranked = %d entries, want 2 (below-threshold dropped)", len(ranked))
	}
	if ranked[0].Entry.Course.ID != "exact" || ranked[1].Entry.Course.ID != "near" {
		t.Errorf("order = [%s %s], want [exact near]",
			ranked[0].Entry.Course.ID, ranked[1].Entry.Course.ID)
	}
}

func TestRankTieBreakByID(t *testing.T) {
	query := []float64{1, 0}
	entries := []catalog.Entry{
		entry("zeta", 2, 0),
		entry("alpha", 5, 0),
	}

	ranked, _ := Rank(query, entries, 0)
	if len(ranked) != 2 {
		t.Fatalf("ranked = %d, want 2", len(ranked))
	}
	// Both have similarity 1; tie broken by course ID ascending.
	if ranked[0].Entry.Course.ID != "alpha" {
		t.Errorf("tie winner = %s, want alpha", ranked[0].Entry.Course.ID)
	}
}

func TestRankDeterministic(t *testing.T) {
	query := []float64{0.4, 0.6, 0.2}
	entries := []catalog.Entry{
		entry("a", 0.4, 0.6, 0.2),
		entry("b", 0.6, 0.4, 0.1),
		entry("c", 0.1, 0.9, 0.3),
	}

	first, _ := Rank(query, entries, 0.1)
	for i := 0; i < 10; i++ {
		again, _ := Rank(query, entries, 0.1)
		if len(again) != len(first) {
			t.Fatalf("run %d: length changed", i)
		}
		for j := range first {
			if again[j].Entry.Course.ID != first[j].Entry.Course.ID {
				t.Fatalf("run %d: order changed at %d", i, j)
			}
		}
	}
}

func TestRankSkipsDegenerateVectors(t *testing.T) {
	query := []float64{1, 0}
	entries := []catalog.Entry{
		entry("good", 1, 0),
		entry("zero", 0, 0),
		entry("short", 1),
	}

	ranked, skipped := Rank(query, entries, 0)
	if len(ranked) != 1 || ranked[0].Entry.Course.ID != "good" {
		t.Fatalf("ranked = %v", ranked)
	}
	if len(skipped) != 2 {
		t.Fatalf("skipped = %d entries, want 2", len(skipped))
	}
	for _, s := range skipped {
		switch s.CourseID {
		case "zero":
			if !errors.Is(s.Reason, ErrDegenerateVector) {
				t.Errorf("zero reason = %v", s.Reason)
			}
		case "short":
			if !errors.Is(s.Reason, catalog.ErrDimensionMismatch) {
				t.Errorf("short reason = %v", s.Reason)
			}
		default:
			t.Errorf("unexpected skip %s", s.CourseID)
		}
	}
}

func TestRankThresholdNeverPads(t *testing.T) {
	query := []float64{1, 0}
	entries := []catalog.Entry{
		entry("weak", 0.1, 0.995),
	}

	ranked, _ := Rank(query, entries, 0.9)
	if len(ranked) != 0 {
		t.Errorf("ranked = %v, want empty (no padding below threshold)", ranked)
	}
}
