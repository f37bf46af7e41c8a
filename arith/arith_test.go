/*
DESCRIPTION
  arith_test.go verifies that Encoder/Decoder are duals across a
  variety of small alphabets and symbol sequences.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

package arith

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/fiascogo/fiasco/bits"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, nsyms := range []int{2, 3, 8, 17} {
		nsyms := nsyms
		t.Run("", func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(nsyms) * 7919))
			n := 2000
			syms := make([]int, n)
			// Skew the distribution so adaptation is exercised.
			for i := range syms {
				if rng.Intn(4) == 0 {
					syms[i] = rng.Intn(nsyms)
				} else {
					syms[i] = 0
				}
			}

			var buf bytes.Buffer
			bw := bits.NewWriter(&buf)
			enc := NewEncoder(bw)
			encModel := NewModel(nsyms)
			for _, s := range syms {
				if err := enc.EncodeSymbol(encModel, s); err != nil {
					t.Fatal(err)
				}
			}
			if err := enc.Flush(); err != nil {
				t.Fatal(err)
			}
			if err := bw.Flush(); err != nil {
				t.Fatal(err)
			}

			br := bits.NewReader(&buf)
			dec, err := NewDecoder(br)
			if err != nil {
				t.Fatal(err)
			}
			decModel := NewModel(nsyms)
			for i, want := range syms {
				got, err := dec.DecodeSymbol(decModel)
				if err != nil {
					t.Fatalf("symbol %d: %v", i, err)
				}
				if got != want {
					t.Fatalf("symbol %d: got %d, want %d", i, got, want)
				}
			}
		})
	}
}

func TestBinaryAlphabetRoundTrip(t *testing.T) {
	syms := []int{0, 0, 0, 1, 0, 0, 1, 1, 1, 0, 1, 0, 0, 0, 0, 1}
	var buf bytes.Buffer
	bw := bits.NewWriter(&buf)
	enc := NewEncoder(bw)
	m := NewModel(2)
	for _, s := range syms {
		if err := enc.EncodeSymbol(m, s); err != nil {
			t.Fatal(err)
		}
	}
	enc.Flush()
	bw.Flush()

	br := bits.NewReader(&buf)
	dec, err := NewDecoder(br)
	if err != nil {
		t.Fatal(err)
	}
	dm := NewModel(2)
	for i, want := range syms {
		got, err := dec.DecodeSymbol(dm)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("symbol %d: got %d want %d", i, got, want)
		}
	}
}
