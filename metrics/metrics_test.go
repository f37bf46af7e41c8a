/*
DESCRIPTION
  metrics_test.go checks identical-image detection and a known MSE
  figure for a synthetic pair.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

package metrics

import (
	"testing"

	"github.com/fiascogo/fiasco/image"
)

func plane(w, h int, fill func(x, y int) int16) *image.Plane {
	p := &image.Plane{Width: w, Height: h, Stride: w, Pixels: make([]int16, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p.Set(x, y, fill(x, y))
		}
	}
	return p
}

func TestCompareIdentical(t *testing.T) {
	a, _ := image.Alloc(4, 4, false, image.Format444)
	b, _ := image.Alloc(4, 4, false, image.Format444)
	rep, err := Compare(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if !rep.IdenticalOK {
		t.Error("expected identical images to report IdenticalOK")
	}
}

func TestCompareMismatchedGeometry(t *testing.T) {
	a, _ := image.Alloc(4, 4, false, image.Format444)
	b, _ := image.Alloc(8, 4, false, image.Format444)
	if _, err := Compare(a, b); err == nil {
		t.Fatal("expected error for mismatched geometry")
	}
}

func TestCompareKnownOffset(t *testing.T) {
	a, _ := image.Alloc(2, 2, false, image.Format444)
	b, _ := image.Alloc(2, 2, false, image.Format444)
	// Offset every sample by 16 (codec) units = 1 byte-scale unit.
	for i := range b.Planes[image.Y].Pixels {
		b.Planes[image.Y].Pixels[i] = 16
	}
	rep, err := Compare(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Y != 1 {
		t.Errorf("Y MSE = %f, want 1", rep.Y)
	}
}
