/*
DESCRIPTION
  sequencer_test.go drives the sequencer with a fake Source producing
  an I/B/P group of pictures in bitstream order and checks frames
  come back in display order.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

package sequencer

import (
	"io"
	"testing"

	"github.com/fiascogo/fiasco/image"
	"github.com/fiascogo/fiasco/rpf"
	"github.com/fiascogo/fiasco/wfa"
)

// fakeSource plays back a fixed list of (WFA, displayIndex) pairs.
type fakeSource struct {
	items []item
	pos   int
}

type item struct {
	frameType wfa.FrameType
	display   int
}

func (f *fakeSource) NextWFA() (*wfa.WFA, int, error) {
	if f.pos >= len(f.items) {
		return nil, 0, io.EOF
	}
	it := f.items[f.pos]
	f.pos++

	r, _ := rpf.New(6, 1.0)
	info := &wfa.Info{Width: 2, Height: 2, Color: false, RPF: r, DCRPF: r, DRPF: r, DDCRPF: r}
	w := wfa.New(info, 1)
	w.FrameType = it.frameType
	w.RootState = 0
	w.LevelOfState[0] = 0
	w.FinalDistribution[0] = 8 // -> one-pixel value of 128 (int(8*8+.5)*2)

	return w, it.display, nil
}

func TestSequencerReordersBFrames(t *testing.T) {
	// Bitstream order: I(display 0), P(display 2), B(display 1).
	src := &fakeSource{items: []item{
		{wfa.IFrame, 0},
		{wfa.PFrame, 2},
		{wfa.BFrame, 1},
	}}
	seq := New(src, Options{Format: image.Format444, Smoothing: 0})

	var order []int
	for i := 0; i < 3; i++ {
		_, _, err := seq.Next()
		if err != nil {
			t.Fatalf("Next() #%d: %v", i, err)
		}
		order = append(order, seq.display-1)
	}
	want := []int{0, 1, 2}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("display order = %v, want %v", order, want)
		}
	}

	if _, _, err := seq.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF after exhausting source, got %v", err)
	}
}
