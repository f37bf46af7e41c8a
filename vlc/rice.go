/*
DESCRIPTION
  rice.go implements the Rice variable-length code used for
  frame-level metadata: state count, frame type, and display number
  are all Rice coded.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

// Package vlc implements FIASCO's variable-length integer codes,
// layered over the bits package.
package vlc

import (
	"github.com/pkg/errors"

	"github.com/fiascogo/fiasco/bits"
	"github.com/fiascogo/fiasco/fiascoerr"
)

// MinK and MaxK bound the Rice parameter.
const (
	MinK = 1
	MaxK = 16
)

// ValidateK reports whether k is a legal Rice parameter.
func ValidateK(k int) error {
	if k < MinK || k > MaxK {
		return &fiascoerr.OutOfBounds{Param: "rice.k", Value: k}
	}
	return nil
}

// EncodeRice writes n using Rice code with parameter k: floor(n/2^k)
// unary one-bits, a terminating zero, then the k low-order bits of n.
func EncodeRice(w *bits.Writer, n uint64, k int) error {
	if err := ValidateK(k); err != nil {
		return err
	}
	q := n >> uint(k)
	for ; q > 0; q-- {
		if err := w.PutBit(1); err != nil {
			return errors.Wrap(err, "vlc: write unary")
		}
	}
	if err := w.PutBit(0); err != nil {
		return errors.Wrap(err, "vlc: write unary terminator")
	}
	if k > 0 {
		if err := w.WriteBits(n&((1<<uint(k))-1), k); err != nil {
			return errors.Wrap(err, "vlc: write remainder")
		}
	}
	return nil
}

// DecodeRice reads a Rice-coded non-negative integer with parameter k.
func DecodeRice(r *bits.Reader, k int) (uint64, error) {
	if err := ValidateK(k); err != nil {
		return 0, err
	}
	var q uint64
	for {
		b, err := r.GetBit()
		if err != nil {
			return 0, errors.Wrap(err, "vlc: read unary")
		}
		if b == 0 {
			break
		}
		q++
	}
	var rem uint64
	if k > 0 {
		var err error
		rem, err = r.ReadBits(k)
		if err != nil {
			return 0, errors.Wrap(err, "vlc: read remainder")
		}
	}
	return q<<uint(k) | rem, nil
}
