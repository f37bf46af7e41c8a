/*
DESCRIPTION
  smooth.go blends pixels across range partition boundaries to reduce
  block artifacts, grounded on the reference decoder's smooth_image.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

// Package smooth implements edge smoothing along WFA partition
// boundaries.
package smooth

import (
	"github.com/fiascogo/fiasco/decode"
	"github.com/fiascogo/fiasco/image"
	"github.com/fiascogo/fiasco/wfa"
)

// Image smooths img in place along the boundaries of every state in
// w's luminance bintree, blending with factor sf in [-1, 100]. sf
// values mapping to a blend ratio outside [0.5, 1) leave img
// unchanged, matching the original's out-of-range guard.
func Image(sf int, w *wfa.WFA, img *image.Image) {
	s := 1.0 - float64(sf)/200.0
	if s < 0.5 || s >= 1 {
		return
	}
	is := int32(s*512 + 0.5)
	inegs := int32((1-s)*512 + 0.5)

	plane := img.Planes[image.Y]
	imgWidth, imgHeight := img.Width, img.Height

	limit := w.States
	if img.Color {
		limit = w.Tree[w.RootState][0]
	}

	for state := w.BasisStates; state < limit; state++ {
		level := w.LevelOfState[state]
		width, height := decode.WidthOfLevel(level), decode.HeightOfLevel(level)
		bx, by := w.X[state][1], w.Y[state][1]

		if by >= imgHeight || bx >= imgWidth {
			continue
		}

		if level%2 != 0 {
			smoothHorizontalBoundary(plane, bx, by, minInt(width, imgWidth-bx), is, inegs)
		} else {
			smoothVerticalBoundary(plane, bx, by, minInt(height, imgHeight-by), is, inegs)
		}
	}
}

// smoothHorizontalBoundary blends the row above and the row at (x, y)
// across n columns, for a boundary between vertically stacked
// children.
func smoothHorizontalBoundary(p *image.Plane, x, y, n int, is, inegs int32) {
	for i := 0; i < n; i++ {
		blendPair(p, x+i, y-1, x+i, y, is, inegs)
	}
}

// smoothVerticalBoundary blends the column to the left and the column
// at (x, y) across n rows, for a boundary between side-by-side
// children.
func smoothVerticalBoundary(p *image.Plane, x, y, n int, is, inegs int32) {
	for i := 0; i < n; i++ {
		blendPair(p, x-1, y+i, x, y+i, is, inegs)
	}
}

func blendPair(p *image.Plane, x1, y1, x2, y2 int, is, inegs int32) {
	a, b := p.At(x1, y1), p.At(x2, y2)
	na := scaledSum(is, a, inegs, b)
	nb := scaledSum(is, b, inegs, a)
	p.Set(x1, y1, na)
	p.Set(x2, y2, nb)
}

// scaledSum computes (wa*a >> 10 << 1) + (wb*b >> 10 << 1), the Q10
// weighted blend used throughout the codec's integer arithmetic.
func scaledSum(wa int32, a int16, wb int32, b int16) int16 {
	termA := (wa * int32(a)) >> 10 << 1
	termB := (wb * int32(b)) >> 10 << 1
	return int16(termA + termB)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
