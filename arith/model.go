/*
DESCRIPTION
  model.go implements the adaptive frequency model used by the
  arithmetic coder: a per-context table over a finite alphabet,
  updated by count after each symbol.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

package arith

// maxTotalFreq bounds the cumulative frequency total before the model
// rescales, keeping range*cum/total comfortably within uint64 range
// given the coder's 16-bit precision.
const maxTotalFreq = 1 << 14

// Model is an adaptive frequency table over an alphabet of fixed
// size. Index 0 is the most frequent symbol only by convention of the
// caller; the model itself makes no assumption about symbol meaning.
type Model struct {
	freq []uint32 // per-symbol frequency count
	cum  []uint32 // cum[i] = sum(freq[0:i]); len(cum) == len(freq)+1
}

// NewModel returns a Model over nsyms symbols, each with an initial
// uniform frequency of 1.
func NewModel(nsyms int) *Model {
	m := &Model{
		freq: make([]uint32, nsyms),
		cum:  make([]uint32, nsyms+1),
	}
	for i := range m.freq {
		m.freq[i] = 1
	}
	m.rebuild()
	return m
}

func (m *Model) rebuild() {
	var total uint32
	for i, f := range m.freq {
		m.cum[i] = total
		total += f
	}
	m.cum[len(m.freq)] = total
}

// Total returns the current cumulative frequency total.
func (m *Model) Total() uint32 { return m.cum[len(m.freq)] }

// Range returns the cumulative-frequency interval [lo, hi) for sym and
// the model total, as required by Encoder.EncodeSymbol.
func (m *Model) Range(sym int) (lo, hi, total uint32) {
	return m.cum[sym], m.cum[sym+1], m.Total()
}

// Find returns the symbol whose cumulative-frequency interval contains
// target (0 <= target < Total()), along with its interval, as required
// by Decoder.DecodeSymbol.
func (m *Model) Find(target uint32) (sym int, lo, hi uint32) {
	// Linear scan: alphabets used by FIASCO's tree/edge/weight syntax
	// are small (binary flags, small edge counts, byte-wide DC
	// predictions), so this stays cheap and avoids a Fenwick tree.
	for i := 0; i < len(m.freq); i++ {
		if target < m.cum[i+1] {
			return i, m.cum[i], m.cum[i+1]
		}
	}
	last := len(m.freq) - 1
	return last, m.cum[last], m.cum[last+1]
}

// Update adds 32 to sym's frequency and rescales the table once the
// total reaches maxTotalFreq, halving every count (floored at 1)
// to keep the adaptive model responsive without overflowing the
// coder's fixed-point arithmetic.
func (m *Model) Update(sym int) {
	m.freq[sym] += 32
	m.rebuild()
	if m.Total() >= maxTotalFreq {
		for i := range m.freq {
			m.freq[i] = (m.freq[i] + 1) / 2
		}
		m.rebuild()
	}
}
