/*
DESCRIPTION
  rice_test.go tests the Rice code round trip across a range of k
  parameters and values.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

package vlc

import (
	"bytes"
	"testing"

	"github.com/fiascogo/fiasco/bits"
)

func TestRiceRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 2, 5, 17, 63, 255, 1000, 1 << 20}
	for _, k := range []int{1, 4, 8, 16} {
		var buf bytes.Buffer
		w := bits.NewWriter(&buf)
		for _, v := range values {
			if err := EncodeRice(w, v, k); err != nil {
				t.Fatal(err)
			}
		}
		w.OutputByteAlign()
		w.Flush()

		r := bits.NewReader(&buf)
		for _, want := range values {
			got, err := DecodeRice(r, k)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("k=%d: DecodeRice = %d, want %d", k, got, want)
			}
		}
	}
}

func TestInvalidK(t *testing.T) {
	var buf bytes.Buffer
	w := bits.NewWriter(&buf)
	if err := EncodeRice(w, 1, 0); err == nil {
		t.Fatal("expected error for k=0")
	}
	if err := EncodeRice(w, 1, 17); err == nil {
		t.Fatal("expected error for k=17")
	}
}
