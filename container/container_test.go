/*
DESCRIPTION
  container_test.go builds a synthetic header with bits.Writer mirroring
  ReadHeader's field order, then checks it round-trips, plus bad-magic
  rejection and SameSequence comparison checks.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

package container

import (
	"bytes"
	"testing"

	"github.com/fiascogo/fiasco/bits"
	"github.com/fiascogo/fiasco/rpf"
	"github.com/fiascogo/fiasco/vlc"
)

func writeCString(t *testing.T, w *bits.Writer, s string) {
	t.Helper()
	for i := 0; i < len(s); i++ {
		if err := w.WriteBits(uint64(s[i]), 8); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.WriteBits(0, 8); err != nil {
		t.Fatal(err)
	}
}

func writeRPF(t *testing.T, w *bits.Writer, r rpf.Rpf) {
	t.Helper()
	codes := map[float64]uint64{0.75: 0, 1.00: 1, 1.50: 2, 2.00: 3}
	if err := w.WriteBits(uint64(r.MantissaBits), 4); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBits(codes[r.Range], 2); err != nil {
		t.Fatal(err)
	}
}

func buildHeader(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := bits.NewWriter(&buf)

	for _, c := range magic {
		if err := w.WriteBits(uint64(c), 8); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.WriteBits(2, 8); err != nil { // release 2
		t.Fatal(err)
	}
	writeCString(t, w, "title")
	writeCString(t, w, "comment")
	if err := w.WriteBits(320, 16); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBits(240, 16); err != nil {
		t.Fatal(err)
	}
	if err := w.PutBit(1); err != nil { // color
		t.Fatal(err)
	}
	if err := w.WriteBits(10, 32); err != nil { // frames
		t.Fatal(err)
	}
	if err := w.WriteBits(25, 16); err != nil { // fps
		t.Fatal(err)
	}
	if err := w.WriteBits(1, 8); err != nil { // p_min_level
		t.Fatal(err)
	}
	if err := w.WriteBits(8, 8); err != nil { // p_max_level
		t.Fatal(err)
	}
	if err := w.WriteBits(16, 16); err != nil { // search range
		t.Fatal(err)
	}
	if err := w.PutBit(1); err != nil { // half pixel
		t.Fatal(err)
	}
	if err := w.PutBit(0); err != nil { // cross-B search
		t.Fatal(err)
	}
	if err := w.PutBit(0); err != nil { // B as past ref
		t.Fatal(err)
	}
	if err := vlc.EncodeRice(w, 51, 4); err != nil { // smoothing = 50 (+1 offset)
		t.Fatal(err)
	}
	if err := w.WriteBits(500, 16); err != nil { // max states
		t.Fatal(err)
	}
	if err := w.WriteBits(200, 16); err != nil { // chroma max states
		t.Fatal(err)
	}

	r1, err := rpf.New(6, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	writeRPF(t, w, r1)
	writeRPF(t, w, r1)
	writeRPF(t, w, r1)
	writeRPF(t, w, r1)

	writeCString(t, w, "basis.wfa")

	w.OutputByteAlign()
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadHeaderRoundTrip(t *testing.T) {
	data := buildHeader(t)
	hdr, err := ReadHeader(bits.NewReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if hdr.Info.Title != "title" || hdr.Info.Comment != "comment" {
		t.Errorf("title/comment = %q/%q", hdr.Info.Title, hdr.Info.Comment)
	}
	if hdr.Info.Width != 320 || hdr.Info.Height != 240 {
		t.Errorf("geometry = %dx%d, want 320x240", hdr.Info.Width, hdr.Info.Height)
	}
	if !hdr.Info.Color || !hdr.Info.HalfPixel {
		t.Error("expected color and half-pixel flags set")
	}
	if hdr.Info.Smoothing != 50 {
		t.Errorf("smoothing = %d, want 50", hdr.Info.Smoothing)
	}
	if hdr.BasisName != "basis.wfa" {
		t.Errorf("basis name = %q, want basis.wfa", hdr.BasisName)
	}
	if hdr.Release != 2 {
		t.Errorf("release = %d, want 2", hdr.Release)
	}
}

func TestReadHeaderRejectsBadMagic(t *testing.T) {
	_, err := ReadHeader(bits.NewReader(bytes.NewReader([]byte("NOTFIASCOxxxxxxxx"))))
	if err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestSameSequence(t *testing.T) {
	data := buildHeader(t)
	a, err := ReadHeader(bits.NewReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := ReadHeader(bits.NewReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatal(err)
	}
	if !SameSequence(a, b) {
		t.Error("identical headers should be SameSequence")
	}
	b.Info.Width = 640
	if SameSequence(a, b) {
		t.Error("differing width should not be SameSequence")
	}
}
