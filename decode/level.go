/*
DESCRIPTION
  level.go gives the bintree level/size arithmetic shared by the
  synthesis engine, motion compensation and smoothing: a state at
  level L denotes a block of width 2^floor(L/2) by height 2^ceil(L/2),
  alternating between square (even L) and rectangular (odd L) shapes
  as the tree subdivides.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

// Package decode implements the recursive state-image synthesis
// engine that turns a WFA into pixel planes.
package decode

// WidthOfLevel returns the block width at bintree level l.
func WidthOfLevel(l int) int { return 1 << (l >> 1) }

// HeightOfLevel returns the block height at bintree level l.
func HeightOfLevel(l int) int { return 1 << ((l + 1) >> 1) }

// SizeOfLevel returns the pixel count of a block at level l.
func SizeOfLevel(l int) int { return WidthOfLevel(l) * HeightOfLevel(l) }
