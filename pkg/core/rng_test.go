package core

import "testing"

func TestRNGDeterministicForSeed(t *testing.T) {
	a := NewRNG(99)
	b := NewRNG(99)
	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("sequences diverged at draw %d", i)
		}
	}
}

func TestRNGRangeBounds(t *testing.T) {
	r := NewRNG(1)
	for i := 0; i < 1000; i++ {
		v := r.Range(-3, 7)
		if v < -3 || v >= 7 {
			t.Fatalf("draw %f outside [-3,7)", v)
		}
	}
	if v := r.Range(5, 5); v != 5 {
		t.Fatalf("degenerate range returned %f", v)
	}
	if v := r.IntN(0); v != 0 {
		t.Fatalf("IntN(0) returned %d", v)
	}
}
