/*
DESCRIPTION
  writer.go provides the write-side counterpart to Reader: a
  sequential bit writer over an io.Writer sink, with the same
  byte-alignment and bits-processed accounting.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

package bits

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// Writer writes individual bits to an underlying byte sink, most
// significant bit first within each byte.
type Writer struct {
	w        *bufio.Writer
	cur      byte
	nbits    int // bits already placed in cur, counted from the MSB side
	produced uint64
}

// NewWriter returns a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// PutBit writes a single bit (0 or 1).
func (bw *Writer) PutBit(b int) error {
	if b != 0 {
		bw.cur |= 1 << uint(7-bw.nbits)
	}
	bw.nbits++
	bw.produced++
	if bw.nbits == 8 {
		if err := bw.w.WriteByte(bw.cur); err != nil {
			return errors.Wrap(err, "bits: write byte")
		}
		bw.cur = 0
		bw.nbits = 0
	}
	return nil
}

// WriteBits writes the n low-order bits of v, most significant of the
// n bits first.
func (bw *Writer) WriteBits(v uint64, n int) error {
	for i := n - 1; i >= 0; i-- {
		if err := bw.PutBit(int((v >> uint(i)) & 1)); err != nil {
			return err
		}
	}
	return nil
}

// OutputByteAlign pads the current byte with zero bits and hands the
// completed byte to the buffered sink; call Flush to push it through
// to the underlying writer.
func (bw *Writer) OutputByteAlign() error {
	for bw.nbits != 0 {
		if err := bw.PutBit(0); err != nil {
			return err
		}
	}
	return nil
}

// BitsProcessed returns the total number of bits written so far,
// regardless of alignment.
func (bw *Writer) BitsProcessed() uint64 { return bw.produced }

// Flush flushes any buffered bytes to the underlying sink. It does not
// pad a partial byte; call OutputByteAlign first if a clean boundary
// is required.
func (bw *Writer) Flush() error {
	return errors.Wrap(bw.w.Flush(), "bits: flush")
}
