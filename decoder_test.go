/*
DESCRIPTION
  decoder_test.go checks option validation and the magnification
  clamp; full Open/NextFrame round trips require a real encoded
  stream and are not exercised here. The container tests cover header
  parsing on a synthetic bitstream and the sequencer tests cover frame
  ordering with a fake WFA source.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

package fiasco

import "testing"

func TestOpenRejectsOutOfRangeOptions(t *testing.T) {
	if _, err := Open("does-not-exist.fiasco", Options{Magnification: 3}); err == nil {
		t.Fatal("expected error for out-of-range magnification")
	}
	if _, err := Open("does-not-exist.fiasco", Options{Smoothing: 101}); err == nil {
		t.Fatal("expected error for out-of-range smoothing")
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open("does-not-exist.fiasco", DefaultOptions()); err == nil {
		t.Fatal("expected I/O error for missing file")
	}
}

func TestMagnifyClampsToRange(t *testing.T) {
	cases := []struct {
		dim, factor, want int
	}{
		{16, 0, 32},
		{3000, 0, 2048},
		{64, 1, 128},
		{64, -1, 32},
		{33, 0, 34},
	}
	for _, c := range cases {
		if got := magnify(c.dim, c.factor); got != c.want {
			t.Errorf("magnify(%d, %d) = %d, want %d", c.dim, c.factor, got, c.want)
		}
	}
}
