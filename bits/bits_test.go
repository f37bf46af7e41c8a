/*
DESCRIPTION
  bits_test.go tests the Reader/Writer round trip and the byte
  alignment contract.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

package bits

import (
	"bytes"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	if err := w.WriteBits(0b101, 3); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBits(0b1111, 4); err != nil {
		t.Fatal(err)
	}
	if err := w.OutputByteAlign(); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBits(0xabcd, 16); err != nil {
		t.Fatal(err)
	}
	if err := w.OutputByteAlign(); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf)
	v, err := r.ReadBits(3)
	if err != nil || v != 0b101 {
		t.Fatalf("ReadBits(3) = %v, %v, want 0b101", v, err)
	}
	v, err = r.ReadBits(4)
	if err != nil || v != 0b1111 {
		t.Fatalf("ReadBits(4) = %v, %v, want 0b1111", v, err)
	}
	r.InputByteAlign()
	v, err = r.ReadBits(16)
	if err != nil || v != 0xabcd {
		t.Fatalf("ReadBits(16) = %v, %v, want 0xabcd", v, err)
	}
}

func TestBitsProcessedModuloEight(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteBits(0b1, 1)
	before := w.BitsProcessed()
	w.OutputByteAlign()
	w.Flush()
	after := w.BitsProcessed()
	if before%8 == 0 {
		t.Fatalf("expected before to be mid-byte, got %d", before)
	}
	if after%8 != 0 {
		t.Fatalf("after align, bits processed %d not byte aligned", after)
	}

	r := NewReader(&buf)
	r.ReadBits(1)
	r.InputByteAlign()
	if r.BitsProcessed()%8 != 0 {
		t.Fatalf("reader not byte aligned after InputByteAlign: %d", r.BitsProcessed())
	}
	if r.BitsProcessed() != after {
		t.Fatalf("reader bits processed %d != writer bits processed %d", r.BitsProcessed(), after)
	}
}

func TestByteAligned(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteBits(0xff, 8)
	w.Flush()

	r := NewReader(&buf)
	if !r.ByteAligned() {
		t.Fatal("expected fresh reader to be byte aligned")
	}
	r.GetBit()
	if r.ByteAligned() {
		t.Fatal("expected reader to not be byte aligned mid-byte")
	}
}
