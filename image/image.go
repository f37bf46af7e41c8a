/*
DESCRIPTION
  image.go implements the FIASCO plane/image model: multi-plane pixel
  buffers storing samples in the (v-128)*16 form, 4:4:4/4:2:0
  subsampling, and the RGB<->YCbCr color transform. Reference counting
  lets the same plane be shared between the sequencer's
  past/future/frame slots.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

// Package image implements the FIASCO plane storage and color
// transform.
package image

import (
	"sync/atomic"

	"github.com/fiascogo/fiasco/fiascoerr"
)

// Band identifies a color plane. Monochrome images use only GRAY
// (which aliases Y).
type Band int

const (
	GRAY Band = 0
	Y    Band = 0
	Cb   Band = 1
	Cr   Band = 2
)

// Format is the chroma subsampling mode.
type Format int

const (
	Format444 Format = iota
	Format420
)

// Plane is a single band's pixel buffer: 16-bit signed samples in
// (v-128)*16 form, so saturated integer arithmetic remains safe.
type Plane struct {
	Width, Height int
	Stride        int // row stride in samples; >= Width
	Pixels        []int16
}

// At returns the pixel at (x, y).
func (p *Plane) At(x, y int) int16 { return p.Pixels[y*p.Stride+x] }

// Set writes the pixel at (x, y).
func (p *Plane) Set(x, y int, v int16) { p.Pixels[y*p.Stride+x] = v }

// Row returns a slice covering row y, Width samples long.
func (p *Plane) Row(y int) []int16 { return p.Pixels[y*p.Stride : y*p.Stride+p.Width] }

func allocPlane(w, h int) *Plane {
	return &Plane{Width: w, Height: h, Stride: w, Pixels: make([]int16, w*h)}
}

// Image is a reference-counted, possibly multi-plane image.
type Image struct {
	Width, Height int
	Color         bool
	Format        Format
	Planes        [3]*Plane // indexed by Band; only [GRAY] valid when !Color

	refs int32
}

// Alloc allocates a new Image of the given geometry. Width and height
// must be even; for 4:2:0 color images the chroma planes are
// allocated at quarter resolution.
func Alloc(width, height int, color bool, format Format) (*Image, error) {
	if width <= 0 || height <= 0 || width%2 != 0 || height%2 != 0 {
		return nil, &fiascoerr.OutOfBounds{Param: "image.dimensions", Value: [2]int{width, height}}
	}
	img := &Image{Width: width, Height: height, Color: color, Format: format, refs: 1}
	img.Planes[GRAY] = allocPlane(width, height)
	if color {
		cw, ch := width, height
		if format == Format420 {
			cw, ch = width/2, height/2
		}
		img.Planes[Cb] = allocPlane(cw, ch)
		img.Planes[Cr] = allocPlane(cw, ch)
	}
	return img, nil
}

// Retain increments the reference count and returns img, so a
// decoded frame can be held by both the sequencer's current slot and
// a promoted past/future slot.
func (img *Image) Retain() *Image {
	atomic.AddInt32(&img.refs, 1)
	return img
}

// Release decrements the reference count. Go's garbage collector
// reclaims the backing arrays once the last reference is dropped;
// Release exists so callers can assert a slot is done with an image
// at a specific point in the sequencer's past/future/frame lifecycle.
func (img *Image) Release() {
	atomic.AddInt32(&img.refs, -1)
}

// RefCount reports the current reference count, chiefly for tests.
func (img *Image) RefCount() int32 { return atomic.LoadInt32(&img.refs) }

// Clone returns a deep copy of img.
func (img *Image) Clone() *Image {
	out := &Image{Width: img.Width, Height: img.Height, Color: img.Color, Format: img.Format, refs: 1}
	for b, p := range img.Planes {
		if p == nil {
			continue
		}
		np := &Plane{Width: p.Width, Height: p.Height, Stride: p.Stride, Pixels: make([]int16, len(p.Pixels))}
		copy(np.Pixels, p.Pixels)
		out.Planes[b] = np
	}
	return out
}

// SameType reports whether img and other share geometry, color flag
// and subsampling format.
func (img *Image) SameType(other *Image) bool {
	return img.Width == other.Width && img.Height == other.Height &&
		img.Color == other.Color && img.Format == other.Format
}

// CropTo shrinks img in place to w x h by memmove-ing each plane's
// rows to a tight stride. w and h must not exceed img's current
// dimensions.
func (img *Image) CropTo(w, h int) error {
	if w > img.Width || h > img.Height {
		return &fiascoerr.OutOfBounds{Param: "image.CropTo", Value: [2]int{w, h}}
	}
	cropPlane := func(p *Plane, pw, ph int) {
		if p == nil {
			return
		}
		for y := 0; y < ph; y++ {
			src := p.Pixels[y*p.Stride : y*p.Stride+pw]
			dst := p.Pixels[y*pw : y*pw+pw]
			copy(dst, src)
		}
		p.Pixels = p.Pixels[:pw*ph]
		p.Width, p.Height, p.Stride = pw, ph, pw
	}
	cw, ch := w, h
	cropPlane(img.Planes[GRAY], w, h)
	if img.Color {
		if img.Format == Format420 {
			cw, ch = w/2, h/2
		}
		cropPlane(img.Planes[Cb], cw, ch)
		cropPlane(img.Planes[Cr], cw, ch)
	}
	img.Width, img.Height = w, h
	return nil
}
