/*
DESCRIPTION
  rpf.go implements the reduced-precision float quantizer used for WFA
  edge weights. Four parameterisations of Rpf exist per stream
  (standard, DC, delta, delta-DC); all are frame-invariant and owned by
  the container's WfaInfo.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

// Package rpf implements the FIASCO reduced-precision float format: a
// parameterised quantizer that maps a real in [-range, range] to a
// small integer code and back, via midpoint reconstruction.
package rpf

import (
	"math"

	"github.com/fiascogo/fiasco/fiascoerr"
)

// Allowed range values for an Rpf.
var allowedRanges = [...]float64{0.75, 1.00, 1.50, 2.00}

// Rpf is a reduced-precision float quantizer.
type Rpf struct {
	MantissaBits uint // in [2, 8]
	Range        float64
}

// New validates mantissaBits and rng and returns an Rpf.
func New(mantissaBits uint, rng float64) (Rpf, error) {
	if mantissaBits < 2 || mantissaBits > 8 {
		return Rpf{}, &fiascoerr.OutOfBounds{Param: "rpf.MantissaBits", Value: mantissaBits}
	}
	ok := false
	for _, r := range allowedRanges {
		if r == rng {
			ok = true
			break
		}
	}
	if !ok {
		return Rpf{}, &fiascoerr.OutOfBounds{Param: "rpf.Range", Value: rng}
	}
	return Rpf{MantissaBits: mantissaBits, Range: rng}, nil
}

// levels returns the number of quantization levels, 2^MantissaBits.
func (r Rpf) levels() int { return 1 << r.MantissaBits }

// binWidth returns the width of a single quantization bin.
func (r Rpf) binWidth() float64 { return r.Range / float64(r.levels()) }

// Encode quantizes x, clamped to [-Range, Range], returning the sign
// bit and the mantissa code q in [0, 2^MantissaBits).
func (r Rpf) Encode(x float64) (sign uint8, q uint32) {
	if x < 0 {
		sign = 1
		x = -x
	}
	if x > r.Range {
		x = r.Range
	}
	bw := r.binWidth()
	idx := int(math.Floor(x / bw))
	max := r.levels() - 1
	if idx > max {
		idx = max
	}
	if idx < 0 {
		idx = 0
	}
	return sign, uint32(idx)
}

// Decode reconstructs the real value for (sign, q) via midpoint
// reconstruction: decode∘encode is idempotent and
// |x - Decode(Encode(x))| <= Range / 2^(MantissaBits+1).
func (r Rpf) Decode(sign uint8, q uint32) float64 {
	bw := r.binWidth()
	v := (float64(q) + 0.5) * bw
	if sign != 0 {
		v = -v
	}
	return v
}

// DecodeFromX is a convenience combining Encode then Decode, useful in
// tests that verify the round-trip error bound.
func (r Rpf) DecodeFromX(x float64) float64 {
	s, q := r.Encode(x)
	return r.Decode(s, q)
}

// Tolerance returns the maximum quantization error for this Rpf,
// Range / 2^(MantissaBits+1).
func (r Rpf) Tolerance() float64 {
	return r.Range / math.Pow(2, float64(r.MantissaBits)+1)
}

// QuantizeWeight converts a decoded real weight to the Q10 fixed-point
// integer representation stored on each WFA edge:
// int_weight = round(weight * 512).
func QuantizeWeight(weight float64) int32 {
	return int32(roundHalfAway(weight * 512))
}

// roundHalfAway rounds x to the nearest integer, ties away from zero,
// matching the original codec's "(int) (x * k + .5)" convention for
// both signs.
func roundHalfAway(x float64) float64 {
	if x >= 0 {
		return math.Floor(x + 0.5)
	}
	return math.Ceil(x - 0.5)
}
