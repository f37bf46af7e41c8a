/*
DESCRIPTION
  decoder.go is the library surface: Open reads a stream's header and
  basis file and returns a Decoder that yields frames in display
  order, one NextFrame call at a time.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

// Package fiasco assembles the bit I/O, entropy coding, WFA model,
// decoder engine, motion compensation, smoothing and sequencing
// packages into the stream-level decoder.
package fiasco

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/fiascogo/fiasco/bits"
	"github.com/fiascogo/fiasco/container"
	"github.com/fiascogo/fiasco/fiascoerr"
	"github.com/fiascogo/fiasco/image"
	"github.com/fiascogo/fiasco/logging"
	"github.com/fiascogo/fiasco/sequencer"
	"github.com/fiascogo/fiasco/wfa"
)

// Options configures a Decoder. Smoothing in [-1, 100]: -1 uses the
// stream's default, 0 disables it. Magnification in [-2, 2] scales the
// geometry that Width and Height report by 2^Magnification, clamped so
// neither dimension falls below 32 or exceeds 2048; the frames
// NextFrame returns are not scaled and keep the stream's own geometry.
// Format selects 4:4:4 or 4:2:0 chroma handling for color streams.
type Options struct {
	Smoothing     int
	Magnification int
	Format        image.Format
	Log           logging.Logger
}

// DefaultOptions returns the stream-default smoothing, no
// magnification, and 4:2:0 chroma.
func DefaultOptions() Options {
	return Options{Smoothing: -1, Magnification: 0, Format: image.Format420}
}

// Decoder reads successive frames from an opened FIASCO stream.
type Decoder struct {
	header *container.Header
	seq    *sequencer.Sequencer
	closer io.Closer
	basis  *container.BasisCache
	opts   Options

	displayed int
}

// streamSource adapts a container.FrameReader to sequencer.Source,
// truncating the non-basis suffix between frames.
type streamSource struct {
	fr *container.FrameReader
	w  *wfa.WFA
}

func (s *streamSource) NextWFA() (*wfa.WFA, int, error) {
	s.w.RemoveStates(s.w.BasisStates)
	display, err := s.fr.ParseNextFrame(s.w)
	if err != nil {
		return nil, 0, err
	}
	return s.w, display, nil
}

// Open reads the header and basis file at path and returns a Decoder
// ready to emit frames via NextFrame.
func Open(path string, opts Options) (*Decoder, error) {
	if opts.Magnification < -2 || opts.Magnification > 2 {
		return nil, &fiascoerr.OutOfBounds{Param: "Magnification", Value: opts.Magnification}
	}
	if opts.Smoothing < -1 || opts.Smoothing > 100 {
		return nil, &fiascoerr.OutOfBounds{Param: "Smoothing", Value: opts.Smoothing}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &fiascoerr.IoError{Path: path, Cause: err}
	}

	br := bits.NewReader(f)
	header, err := container.ReadHeader(br)
	if err != nil {
		f.Close()
		return nil, err
	}

	var w *wfa.WFA
	var basis *container.BasisCache
	if header.BasisName == "" {
		w = wfa.New(header.Info, 1)
	} else {
		basis, err = container.NewBasisCache(opts.Log)
		if err != nil {
			f.Close()
			return nil, err
		}
		basisPath := header.BasisName
		if !filepath.IsAbs(basisPath) {
			basisPath = filepath.Join(filepath.Dir(path), basisPath)
		}
		data, err := basis.Load(basisPath)
		if err != nil {
			basis.Close()
			f.Close()
			return nil, err
		}
		w, err = container.ParseBasis(data, header.Info)
		if err != nil {
			basis.Close()
			f.Close()
			return nil, errors.Wrapf(err, "fiasco: loading basis file %q", basisPath)
		}
	}

	fr := container.NewFrameReader(br, header.Info)
	src := &streamSource{fr: fr, w: w}

	seq := sequencer.New(src, sequencer.Options{Format: opts.Format, Smoothing: opts.Smoothing, Log: opts.Log})

	return &Decoder{header: header, seq: seq, closer: f, basis: basis, opts: opts}, nil
}

// Width returns the stream's frame width after magnification and
// clamping; the frames NextFrame returns are not scaled to it.
func (d *Decoder) Width() int { return magnify(int(d.header.Info.Width), d.opts.Magnification) }

// Height returns the stream's frame height after magnification and
// clamping; the frames NextFrame returns are not scaled to it.
func (d *Decoder) Height() int { return magnify(int(d.header.Info.Height), d.opts.Magnification) }

// IsColor reports whether the stream carries chroma planes.
func (d *Decoder) IsColor() bool { return d.header.Info.Color }

// Length returns the stream's frame count.
func (d *Decoder) Length() int { return int(d.header.Info.Frames) }

// Rate returns the stream's frame rate in frames per second.
func (d *Decoder) Rate() int { return int(d.header.Info.FPS) }

// Title returns the stream's title field.
func (d *Decoder) Title() string { return d.header.Info.Title }

// Comment returns the stream's comment field.
func (d *Decoder) Comment() string { return d.header.Info.Comment }

// NextFrame decodes and returns the next frame in display order. It
// returns io.EOF once Length frames have been returned.
func (d *Decoder) NextFrame() (*image.Image, error) {
	if d.displayed >= d.Length() {
		return nil, io.EOF
	}
	frame, smoothed, err := d.seq.Next()
	if err != nil {
		return nil, err
	}
	d.displayed++
	if smoothed != nil {
		return smoothed, nil
	}
	return frame, nil
}

// WriteNextFrame decodes the next frame and writes it as a raw PNM
// (PGM for monochrome, PPM for color) to path.
func (d *Decoder) WriteNextFrame(path string) error {
	img, err := d.NextFrame()
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return &fiascoerr.IoError{Path: path, Cause: err}
	}
	defer out.Close()
	if err := writePNM(out, img); err != nil {
		return errors.Wrapf(err, "fiasco: writing frame to %q", path)
	}
	return nil
}

// Close releases the Decoder's underlying file handle and, if a
// basis file was loaded, stops its change watcher.
func (d *Decoder) Close() error {
	if d.basis != nil {
		d.basis.Close()
	}
	return d.closer.Close()
}

func magnify(dim, factor int) int {
	v := dim
	if factor > 0 {
		v <<= uint(factor)
	} else if factor < 0 {
		v >>= uint(-factor)
	}
	if v%2 != 0 {
		v++
	}
	if v < 32 {
		v = 32
	}
	if v > 2048 {
		v = 2048
	}
	return v
}
