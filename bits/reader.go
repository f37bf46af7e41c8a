/*
DESCRIPTION
  reader.go provides a sequential bit-level reader over an io.Reader
  source, with byte-alignment and a bits-processed counter the
  container reader uses to compute frame offsets.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

// Package bits implements the FIASCO bitstream primitive: a bit-level
// reader and writer with byte alignment and a bits-processed counter,
// the sole mechanism the container reader uses to compute frame
// offsets.
package bits

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// Reader reads individual bits from an underlying byte source, most
// significant bit first within each byte.
type Reader struct {
	r        *bufio.Reader
	cur      byte
	nbits    int // valid bits remaining in cur, counted from the MSB side
	consumed uint64
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// GetBit reads a single bit, returning 0 or 1.
func (br *Reader) GetBit() (int, error) {
	if br.nbits == 0 {
		b, err := br.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, errors.Wrap(err, "bits: read byte")
		}
		br.cur = b
		br.nbits = 8
	}
	bit := int((br.cur >> 7) & 1)
	br.cur <<= 1
	br.nbits--
	br.consumed++
	return bit, nil
}

// ReadBits reads n bits (0 <= n <= 64) and returns them right-aligned
// in the result, most significant of the n bits read first.
func (br *Reader) ReadBits(n int) (uint64, error) {
	var v uint64
	for i := 0; i < n; i++ {
		b, err := br.GetBit()
		if err != nil {
			return 0, err
		}
		v = v<<1 | uint64(b)
	}
	return v, nil
}

// InputByteAlign discards any pending bits in the current byte so the
// next read starts at the first byte boundary at or after the current
// position.
func (br *Reader) InputByteAlign() {
	br.consumed += uint64(br.nbits)
	br.nbits = 0
	br.cur = 0
}

// BitsProcessed returns the total number of bits read so far,
// regardless of alignment.
func (br *Reader) BitsProcessed() uint64 { return br.consumed }

// ByteAligned reports whether the reader is currently positioned at a
// byte boundary.
func (br *Reader) ByteAligned() bool { return br.nbits == 0 }
