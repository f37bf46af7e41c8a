/*
DESCRIPTION
  motion_test.go checks half-pixel block extraction and forward
  motion compensation addition.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

package motion

import (
	"testing"

	"github.com/fiascogo/fiasco/image"
)

func refPlane() *image.Plane {
	p := &image.Plane{Width: 8, Height: 8, Stride: 8, Pixels: make([]int16, 64)}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p.Set(x, y, int16(y*8+x))
		}
	}
	return p
}

func TestExtractBlockFullPixel(t *testing.T) {
	p := refPlane()
	out := extractBlock(p, false, 0, 0, 1, 1, 2, 2)
	want := []int16{9, 10, 17, 18}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestExtractBlockHalfPixelBoth(t *testing.T) {
	p := refPlane()
	// mx=1, my=1 (both odd) averages four neighbors.
	out := extractBlock(p, true, 0, 0, 1, 1, 1, 1)
	want := avg4(p.At(0, 0), p.At(1, 0), p.At(0, 1), p.At(1, 1))
	if out[0] != want {
		t.Errorf("half-pixel xy = %d, want %d", out[0], want)
	}
}

func TestAddBlock(t *testing.T) {
	dst := &image.Plane{Width: 4, Height: 4, Stride: 4, Pixels: make([]int16, 16)}
	ref := []int16{1, 2, 3, 4}
	addBlock(dst, ref, 0, 0, 2, 2)
	if dst.At(0, 0) != 1 || dst.At(1, 1) != 4 {
		t.Errorf("addBlock produced %v", dst.Pixels)
	}
}
