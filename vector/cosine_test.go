package vector

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := []float64{0.2, 0.5, 0.1, 0.9}
	b := []float64{0.7, 0.3, 0.4, 0.2}

	ab := CosineSimilarity(a, b)
	ba := CosineSimilarity(b, a)
	if math.Abs(ab-ba) > tolerance {
		t.Errorf("cosine(a,b) = %v, cosine(b,a) = %v", ab, ba)
	}
}

func TestCosineSimilaritySelf(t *testing.T) {
	a := []float64{0.3, 0.4, 0.5}
	if got := CosineSimilarity(a, a); math.Abs(got-1) > tolerance {
		t.Errorf("cosine(a,a) = %v, want 1", got)
	}
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	if got := CosineSimilarity([]float64{1, 0}, []float64{0, 1}); math.Abs(got) > tolerance {
		t.Errorf("cosine of orthogonal vectors = %v, want 0", got)
	}
}

func TestCosineSimilarityOpposite(t *testing.T) {
	if got := CosineSimilarity([]float64{1, 1}, []float64{-1, -1}); math.Abs(got+1) > tolerance {
		t.Errorf("cosine of opposite vectors = %v, want -1", got)
	}
}

func TestCosineSimilarityDegenerate(t *testing.T) {
	if got := CosineSimilarity([]float64{0, 0}, []float64{1, 1}); got != 0 {
		t.Errorf("zero vector similarity = %v, want 0", got)
	}
	if got := CosineSimilarity([]float64{1, 2}, []float64{1, 2, 3}); got != 0 {
		t.Errorf("length mismatch similarity = %v, want 0", got)
	}
	if got := CosineSimilarity(nil, nil); got != 0 {
		t.Errorf("empty similarity = %v, want 0", got)
	}
}

func TestClamp(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{1.0000000001, 1},
		{-1.0000000001, -1},
		{0.5, 0.5},
	}
	for _, c := range cases {
		if got := Clamp(c.in); got != c.want {
			t.Errorf("Clamp(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float64{3, 4})
	if math.Abs(v[0]-0.6) > tolerance || math.Abs(v[1]-0.8) > tolerance {
		t.Errorf("Normalize([3 4]) = %v", v)
	}

	zero := Normalize([]float64{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("Normalize(zero) = %v", zero)
	}
}
