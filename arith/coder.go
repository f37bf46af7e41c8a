/*
DESCRIPTION
  coder.go implements an adaptive binary/k-ary arithmetic coder: a
  fixed-precision [0, 2^16) interval coder in the style of the classic
  Witten-Neal-Cleary algorithm, layered over the bits package.
  encode_symbol/decode_symbol are duals; flush writes the tail bits
  after the last symbol. The decoder has no end-of-stream symbol; the
  container tells it externally how many symbols to read.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

// Package arith implements the FIASCO adaptive arithmetic coder, used
// to code WFA tree structure, edges, weights, motion vectors and DC
// predictions.
package arith

import (
	"github.com/pkg/errors"

	"github.com/fiascogo/fiasco/bits"
)

// Precision of the coder's interval register, P=16: sufficient for
// this codec's small per-context alphabets.
const (
	codeBits = 16
	top      = 1<<codeBits - 1
	half     = (top + 1) / 2
	firstQtr = (top + 1) / 4
	thirdQtr = 3 * firstQtr
)

// Encoder is an adaptive arithmetic encoder writing to a bits.Writer.
type Encoder struct {
	w             *bits.Writer
	low, high     uint32
	pendingFollow int
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w *bits.Writer) *Encoder {
	return &Encoder{w: w, low: 0, high: top}
}

// EncodeSymbol codes sym under model m and updates m by count.
func (e *Encoder) EncodeSymbol(m *Model, sym int) error {
	lo, hi, total := m.Range(sym)
	if err := e.encodeRange(lo, hi, total); err != nil {
		return err
	}
	m.Update(sym)
	return nil
}

func (e *Encoder) encodeRange(cumLo, cumHi, total uint32) error {
	r := uint64(e.high-e.low) + 1
	e.high = e.low + uint32(r*uint64(cumHi)/uint64(total)) - 1
	e.low = e.low + uint32(r*uint64(cumLo)/uint64(total))

	for {
		switch {
		case e.high < half:
			if err := e.bitPlusFollow(0); err != nil {
				return err
			}
		case e.low >= half:
			if err := e.bitPlusFollow(1); err != nil {
				return err
			}
			e.low -= half
			e.high -= half
		case e.low >= firstQtr && e.high < thirdQtr:
			e.pendingFollow++
			e.low -= firstQtr
			e.high -= firstQtr
		default:
			return nil
		}
		e.low <<= 1
		e.high = e.high<<1 | 1
	}
}

func (e *Encoder) bitPlusFollow(bit int) error {
	if err := e.w.PutBit(bit); err != nil {
		return errors.Wrap(err, "arith: encode bit")
	}
	opposite := 1 - bit
	for ; e.pendingFollow > 0; e.pendingFollow-- {
		if err := e.w.PutBit(opposite); err != nil {
			return errors.Wrap(err, "arith: encode follow bit")
		}
	}
	return nil
}

// Flush writes the tail bits needed to disambiguate the final
// interval, then byte-aligns the underlying writer.
func (e *Encoder) Flush() error {
	e.pendingFollow++
	if e.low < firstQtr {
		if err := e.bitPlusFollow(0); err != nil {
			return err
		}
	} else {
		if err := e.bitPlusFollow(1); err != nil {
			return err
		}
	}
	return e.w.OutputByteAlign()
}

// Decoder is an adaptive arithmetic decoder reading from a bits.Reader.
type Decoder struct {
	r               *bits.Reader
	low, high, code uint32
	exhausted       bool // the source bitstream ran out of real bits
}

// NewDecoder returns a Decoder reading from r, priming its code
// register with the first codeBits bits.
func NewDecoder(r *bits.Reader) (*Decoder, error) {
	d := &Decoder{r: r, low: 0, high: top}
	for i := 0; i < codeBits; i++ {
		b, err := d.nextBit()
		if err != nil {
			return nil, err
		}
		d.code = d.code<<1 | uint32(b)
	}
	return d, nil
}

// nextBit reads a bit, substituting 0 once the underlying stream is
// exhausted: the coder has no in-band end-of-stream symbol, and the
// last few bits read during the final symbol's renormalization may
// fall past the true end of the coded payload. This mirrors classic
// arithmetic coder implementations which pad with zero bits at EOF.
func (d *Decoder) nextBit() (int, error) {
	if d.exhausted {
		return 0, nil
	}
	b, err := d.r.GetBit()
	if err != nil {
		d.exhausted = true
		return 0, nil
	}
	return b, nil
}

// DecodeSymbol decodes a symbol under model m and updates m by count.
func (d *Decoder) DecodeSymbol(m *Model) (int, error) {
	total := m.Total()
	r := uint64(d.high-d.low) + 1
	target := uint32((uint64(d.code-d.low+1)*uint64(total) - 1) / r)
	if target >= total {
		target = total - 1
	}
	sym, cumLo, cumHi := m.Find(target)

	d.high = d.low + uint32(r*uint64(cumHi)/uint64(total)) - 1
	d.low = d.low + uint32(r*uint64(cumLo)/uint64(total))

	for {
		switch {
		case d.high < half:
		case d.low >= half:
			d.low -= half
			d.high -= half
			d.code -= half
		case d.low >= firstQtr && d.high < thirdQtr:
			d.low -= firstQtr
			d.high -= firstQtr
			d.code -= firstQtr
		default:
			m.Update(sym)
			return sym, nil
		}
		d.low <<= 1
		d.high = d.high<<1 | 1
		b, err := d.nextBit()
		if err != nil {
			return 0, err
		}
		d.code = d.code<<1&top | uint32(b)
	}
}
