/*
DESCRIPTION
  header.go reads the stream-level header: the "FIASCO" magic, release
  byte, WfaInfo fields and initial basis filename, byte-aligning after
  the header on release-2 streams. Field order follows the reference
  format's wfa_info_t layout.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

// Package container implements the FIASCO stream reader: the
// header, per-frame headers, and the basis file cache.
package container

import (
	"github.com/pkg/errors"

	"github.com/fiascogo/fiasco/bits"
	"github.com/fiascogo/fiasco/fiascoerr"
	"github.com/fiascogo/fiasco/rpf"
	"github.com/fiascogo/fiasco/vlc"
	"github.com/fiascogo/fiasco/wfa"
)

var magic = [6]byte{'F', 'I', 'A', 'S', 'C', 'O'}

// Header is the stream-level header, everything preceding the first
// frame.
type Header struct {
	Release   byte
	Info      *wfa.Info
	BasisName string
}

// ReadHeader reads and validates the magic/release bytes and the
// WfaInfo fields from br, returning the stream header. Release 1
// streams are not byte-aligned after the header and are rejected as
// unsupported, following the decision recorded for this format
// revision. The caller keeps using br to read subsequent frame
// blocks, so the header must not wrap it in a throwaway reader.
func ReadHeader(br *bits.Reader) (*Header, error) {
	var got [6]byte
	for i := range got {
		v, err := br.ReadBits(8)
		if err != nil {
			return nil, errors.Wrap(err, "container: reading magic")
		}
		got[i] = byte(v)
	}
	if got != magic {
		return nil, &fiascoerr.Malformed{Where: "container.ReadHeader", Detail: "bad magic"}
	}

	releaseBits, err := br.ReadBits(8)
	if err != nil {
		return nil, errors.Wrap(err, "container: reading release byte")
	}
	release := byte(releaseBits)
	if release != 2 {
		return nil, &fiascoerr.Unsupported{Feature: "release 1"}
	}

	info := &wfa.Info{}

	if info.Title, err = readCString(br); err != nil {
		return nil, err
	}
	if info.Comment, err = readCString(br); err != nil {
		return nil, err
	}

	width, err := br.ReadBits(16)
	if err != nil {
		return nil, err
	}
	height, err := br.ReadBits(16)
	if err != nil {
		return nil, err
	}
	info.Width, info.Height = uint(width), uint(height)

	colorBit, err := br.GetBit()
	if err != nil {
		return nil, err
	}
	info.Color = colorBit != 0

	if info.Frames, err = readUint(br, 32); err != nil {
		return nil, err
	}
	if info.FPS, err = readUint(br, 16); err != nil {
		return nil, err
	}
	if info.PMinLevel, err = readUint(br, 8); err != nil {
		return nil, err
	}
	if info.PMaxLevel, err = readUint(br, 8); err != nil {
		return nil, err
	}
	if info.SearchRange, err = readUint(br, 16); err != nil {
		return nil, err
	}

	halfPixel, err := br.GetBit()
	if err != nil {
		return nil, err
	}
	info.HalfPixel = halfPixel != 0

	crossB, err := br.GetBit()
	if err != nil {
		return nil, err
	}
	info.CrossBSearch = crossB != 0

	bAsPast, err := br.GetBit()
	if err != nil {
		return nil, err
	}
	info.BAsPastRef = bAsPast != 0

	smoothing, err := vlc.DecodeRice(br, 4)
	if err != nil {
		return nil, err
	}
	info.Smoothing = int(smoothing) - 1 // stored offset by 1 to allow -1

	if info.MaxStates, err = readUint(br, 16); err != nil {
		return nil, err
	}
	if info.ChromaMaxStates, err = readUint(br, 16); err != nil {
		return nil, err
	}

	if info.RPF, err = readRPF(br); err != nil {
		return nil, err
	}
	if info.DCRPF, err = readRPF(br); err != nil {
		return nil, err
	}
	if info.DRPF, err = readRPF(br); err != nil {
		return nil, err
	}
	if info.DDCRPF, err = readRPF(br); err != nil {
		return nil, err
	}

	basisName, err := readCString(br)
	if err != nil {
		return nil, err
	}

	info.Release = uint(release)
	br.InputByteAlign()

	return &Header{Release: release, Info: info, BasisName: basisName}, nil
}

func readCString(br *bits.Reader) (string, error) {
	var b []byte
	for {
		v, err := br.ReadBits(8)
		if err != nil {
			return "", errors.Wrap(err, "container: reading string field")
		}
		if v == 0 {
			break
		}
		b = append(b, byte(v))
	}
	return string(b), nil
}

func readUint(br *bits.Reader, n int) (uint, error) {
	v, err := br.ReadBits(n)
	return uint(v), err
}

func readRPF(br *bits.Reader) (rpf.Rpf, error) {
	mantissaBits, err := br.ReadBits(4)
	if err != nil {
		return rpf.Rpf{}, err
	}
	rangeCode, err := br.ReadBits(2)
	if err != nil {
		return rpf.Rpf{}, err
	}
	ranges := [4]float64{0.75, 1.00, 1.50, 2.00}
	if int(rangeCode) >= len(ranges) {
		return rpf.Rpf{}, &fiascoerr.Malformed{Where: "container.readRPF", Detail: "invalid range code"}
	}
	return rpf.New(uint(mantissaBits), ranges[rangeCode])
}

// SameSequence reports whether b's stream-constant fields match a's,
// the set the reader must reject a concatenation over (basis name,
// smoothing, max states, chroma max states, prediction levels, fps,
// half pixel, B-as-past-ref, the four RPFs, geometry and color).
func SameSequence(a, b *Header) bool {
	return a.BasisName == b.BasisName &&
		a.Info.Smoothing == b.Info.Smoothing &&
		a.Info.MaxStates == b.Info.MaxStates &&
		a.Info.ChromaMaxStates == b.Info.ChromaMaxStates &&
		a.Info.PMinLevel == b.Info.PMinLevel &&
		a.Info.PMaxLevel == b.Info.PMaxLevel &&
		a.Info.FPS == b.Info.FPS &&
		a.Info.HalfPixel == b.Info.HalfPixel &&
		a.Info.BAsPastRef == b.Info.BAsPastRef &&
		a.Info.RPF == b.Info.RPF &&
		a.Info.DCRPF == b.Info.DCRPF &&
		a.Info.DRPF == b.Info.DRPF &&
		a.Info.DDCRPF == b.Info.DDCRPF &&
		a.Info.Width == b.Info.Width &&
		a.Info.Height == b.Info.Height &&
		a.Info.Color == b.Info.Color
}
