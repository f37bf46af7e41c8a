/*
DESCRIPTION
  rpf_test.go verifies the RPF round-trip error bound.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

package rpf

import (
	"math"
	"testing"
)

func TestRoundTripTolerance(t *testing.T) {
	for _, mb := range []uint{2, 4, 6, 8} {
		for _, rng := range allowedRanges {
			r, err := New(mb, rng)
			if err != nil {
				t.Fatal(err)
			}
			tol := r.Tolerance()
			for i := 0; i <= 200; i++ {
				x := -rng + 2*rng*float64(i)/200
				got := r.DecodeFromX(x)
				if math.Abs(x-got) > tol+1e-12 {
					t.Fatalf("mantissa=%d range=%v x=%v decode=%v diff=%v > tol=%v",
						mb, rng, x, got, math.Abs(x-got), tol)
				}
			}
		}
	}
}

func TestDecodeEncodeIdempotent(t *testing.T) {
	r, err := New(6, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 64; i++ {
		s, q := uint8(i%2), uint32(i/2)
		v := r.Decode(s, q)
		s2, q2 := r.Encode(v)
		if s2 != s || q2 != q {
			// Values exactly on a bin edge can round to the neighbouring
			// bin; re-decoding must still reproduce the same real value.
			if math.Abs(r.Decode(s2, q2)-v) > 1e-9 {
				t.Fatalf("not idempotent: s=%d q=%d v=%v -> s2=%d q2=%d v2=%v",
					s, q, v, s2, q2, r.Decode(s2, q2))
			}
		}
	}
}

func TestInvalidParams(t *testing.T) {
	if _, err := New(1, 1.0); err == nil {
		t.Fatal("expected error for mantissa bits below range")
	}
	if _, err := New(9, 1.0); err == nil {
		t.Fatal("expected error for mantissa bits above range")
	}
	if _, err := New(4, 3.0); err == nil {
		t.Fatal("expected error for unsupported range")
	}
}

func TestQuantizeWeightRounding(t *testing.T) {
	cases := []struct {
		in   float64
		want int32
	}{
		{0.5 / 512, 1},
		{-0.5 / 512, -1},
		{0, 0},
		{1.0, 512},
		{-1.0, -512},
	}
	for _, c := range cases {
		if got := QuantizeWeight(c.in); got != c.want {
			t.Errorf("QuantizeWeight(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}
