/*
DESCRIPTION
  motion.go implements motion-compensated residual restoration: for
  every leaf with a motion vector, a reference block is extracted from
  the past and/or future frame (with optional half-pixel averaging)
  and added onto the already-synthesized residual. It is grounded on
  the reference decoder's restore_mc and extract_mc_block.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

// Package motion implements forward/backward/interpolated motion
// compensation on top of a decoded residual image.
package motion

import (
	"github.com/fiascogo/fiasco/decode"
	"github.com/fiascogo/fiasco/image"
	"github.com/fiascogo/fiasco/wfa"
)

// Restore adds motion-compensated prediction onto img in place, for
// every leaf whose motion vector type is not MCNone. past and/or
// future may be nil if the frame type does not reference them (an
// I frame never calls Restore; a P frame only needs past).
func Restore(img, past, future *image.Image, w *wfa.WFA) {
	var root int
	if !img.Color {
		root = w.RootState
	} else {
		root = w.Tree[w.Tree[w.RootState][0]][0]
	}

	for state := w.BasisStates; state <= root; state++ {
		for label := 0; label < wfa.MaxLabels; label++ {
			mv := w.MVTree[state][label]
			if mv.Type == wfa.MCNone {
				continue
			}
			level := w.LevelOfState[state] - 1
			width, height := decode.WidthOfLevel(level), decode.HeightOfLevel(level)
			x, y := w.X[state][label], w.Y[state][label]

			bands := []image.Band{image.GRAY}
			if img.Color {
				bands = []image.Band{image.Y, image.Cb, image.Cr}
			}
			for _, band := range bands {
				bw, bh, bx, by := width, height, x, y
				if img.Color && img.Format == image.Format420 && band != image.Y {
					bw, bh, bx, by = bw/2, bh/2, bx/2, by/2
				}
				applyBlock(img.Planes[band], past, future, band, w.Info.HalfPixel, mv, bx, by, bw, bh)
			}
		}
	}

	if img.Color {
		clipPlane(img.Planes[image.Cb])
		clipPlane(img.Planes[image.Cr])
	}
}

func applyBlock(dst *image.Plane, past, future *image.Image, band image.Band, halfPixel bool, mv wfa.MV, x, y, w, h int) {
	switch mv.Type {
	case wfa.MCForward:
		ref := extractBlock(past.Planes[band], halfPixel, x, y, mv.FX, mv.FY, w, h)
		addBlock(dst, ref, x, y, w, h)
	case wfa.MCBackward:
		ref := extractBlock(future.Planes[band], halfPixel, x, y, mv.BX, mv.BY, w, h)
		addBlock(dst, ref, x, y, w, h)
	case wfa.MCInterpolated:
		fwd := extractBlock(past.Planes[band], halfPixel, x, y, mv.FX, mv.FY, w, h)
		bwd := extractBlock(future.Planes[band], halfPixel, x, y, mv.BX, mv.BY, w, h)
		for i := range fwd {
			fwd[i] = (fwd[i] + bwd[i]) >> 1
		}
		addBlock(dst, fwd, x, y, w, h)
	}
}

func addBlock(dst *image.Plane, ref []int16, x, y, w, h int) {
	i := 0
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			dst.Set(x+col, y+row, dst.At(x+col, y+row)+ref[i])
			i++
		}
	}
}

// extractBlock returns a width x height block read from reference at
// (x+mx, y+my), averaging adjacent samples for half-pixel motion
// vectors as extract_mc_block does.
func extractBlock(reference *image.Plane, halfPixel bool, x, y, mx, my, width, height int) []int16 {
	out := make([]int16, width*height)
	if !halfPixel {
		i := 0
		for row := 0; row < height; row++ {
			for col := 0; col < width; col++ {
				out[i] = reference.At(x+mx+col, y+my+row)
				i++
			}
		}
		return out
	}

	ox, oy := x+mx/2, y+my/2
	evenX, evenY := mx&1 == 0, my&1 == 0
	i := 0
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			switch {
			case evenX && evenY:
				out[i] = reference.At(ox+col, oy+row)
			case evenX && !evenY:
				out[i] = avg2(reference.At(ox+col, oy+row), reference.At(ox+col, oy+row+1))
			case !evenX && evenY:
				out[i] = avg2(reference.At(ox+col, oy+row), reference.At(ox+col+1, oy+row))
			default:
				out[i] = avg4(
					reference.At(ox+col, oy+row), reference.At(ox+col+1, oy+row),
					reference.At(ox+col, oy+row+1), reference.At(ox+col+1, oy+row+1))
			}
			i++
		}
	}
	return out
}

func avg2(a, b int16) int16 { return int16((int32(a) + int32(b)) >> 1) }
func avg4(a, b, c, d int16) int16 {
	return int16((int32(a) + int32(b) + int32(c) + int32(d)) >> 2)
}

func clipPlane(p *image.Plane) {
	for i, v := range p.Pixels {
		p.Pixels[i] = image.ClipChroma(v)
	}
}
