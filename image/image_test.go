/*
DESCRIPTION
  image_test.go tests plane allocation, cropping, and the color
  transform round trip.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

package image

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAllocRejectsOddDimensions(t *testing.T) {
	if _, err := Alloc(31, 32, false, Format444); err == nil {
		t.Fatal("expected error for odd width")
	}
}

func TestCropTo(t *testing.T) {
	img, err := Alloc(8, 4, false, Format444)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			img.Planes[GRAY].Set(x, y, int16(y*8+x))
		}
	}
	if err := img.CropTo(5, 4); err != nil {
		t.Fatal(err)
	}
	if img.Width != 5 || img.Height != 4 {
		t.Fatalf("got %dx%d, want 5x4", img.Width, img.Height)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			want := int16(y*8 + x)
			if got := img.Planes[GRAY].At(x, y); got != want {
				t.Errorf("(%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestColorRoundTrip(t *testing.T) {
	cases := [][3]byte{{0, 0, 0}, {255, 255, 255}, {128, 64, 200}, {16, 200, 32}}
	for _, c := range cases {
		y, cb, cr := RGBToYCbCr(c[0], c[1], c[2])
		r, g, b := YCbCrToRGB(y, cb, cr)
		if absDiff(r, c[0]) > 2 || absDiff(g, c[1]) > 2 || absDiff(b, c[2]) > 2 {
			t.Errorf("RGB %v -> YCbCr(%d,%d,%d) -> RGB(%d,%d,%d), too lossy", c, y, cb, cr, r, g, b)
		}
	}
}

func absDiff(a, b byte) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestCloneIsIndependentDeepCopy(t *testing.T) {
	img, err := Alloc(4, 4, true, Format420)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Planes[Y].Set(x, y, int16(y*4+x))
		}
	}
	clone := img.Clone()
	if diff := cmp.Diff(img.Planes[Y].Pixels, clone.Planes[Y].Pixels); diff != "" {
		t.Fatalf("clone's Y plane differs from source (-want +got):\n%s", diff)
	}
	clone.Planes[Y].Set(0, 0, 99)
	if img.Planes[Y].At(0, 0) == 99 {
		t.Fatal("mutating clone affected source plane")
	}
}

func TestClipChroma(t *testing.T) {
	if got := ClipChroma(0); got != 0 {
		t.Errorf("ClipChroma(0) = %d, want 0", got)
	}
	if got := ClipChroma(200 * 16); got != 127*16 {
		t.Errorf("ClipChroma(200*16) = %d, want %d", got, 127*16)
	}
	if got := ClipChroma(-200 * 16); got != -128*16 {
		t.Errorf("ClipChroma(-200*16) = %d, want %d", got, -128*16)
	}
}
