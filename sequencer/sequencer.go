/*
DESCRIPTION
  sequencer.go drives the I/P/B frame decode loop: it pulls WFAs from
  a Source in bitstream (decode) order, synthesizes and motion
  compensates each one, and re-orders B frames so Next always
  returns frames in display order. Re-expressed from the reference
  decoder's get_next_frame around an explicit state struct instead of
  persistent globals.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

// Package sequencer implements I/P/B frame sequencing and reference
// frame tracking on top of the decode/motion/smooth packages.
package sequencer

import (
	"io"

	"github.com/fiascogo/fiasco/decode"
	"github.com/fiascogo/fiasco/fiascoerr"
	"github.com/fiascogo/fiasco/image"
	"github.com/fiascogo/fiasco/logging"
	"github.com/fiascogo/fiasco/motion"
	"github.com/fiascogo/fiasco/smooth"
	"github.com/fiascogo/fiasco/wfa"
)

// Source yields successive WFAs in bitstream order along with the
// display index (frame_number) each one is destined for.
type Source interface {
	NextWFA() (w *wfa.WFA, displayIndex int, err error)
}

// Options configures per-sequence decode behavior.
type Options struct {
	Format    image.Format
	Smoothing int // -1 uses the stream's default, 0 disables, 1-100 blend strength
	Log       logging.Logger
}

// Sequencer tracks past/future reference frames and re-orders B
// frames into display order.
type Sequencer struct {
	src    Source
	format image.Format
	smooth int
	log    logging.Logger

	display       int
	futureDisplay int
	currentIsFut  bool

	past, future, frame   *image.Image
	sfuture, sframe       *image.Image
	pendingDecoded, pendingSmoothed *image.Image
}

// New returns a Sequencer reading frames from src.
func New(src Source, opts Options) *Sequencer {
	log := opts.Log
	if log == nil {
		log = logging.NoOp()
	}
	return &Sequencer{src: src, format: opts.Format, smooth: opts.Smoothing, log: log, futureDisplay: -1}
}

// Next decodes and returns the next frame in display order, along
// with its (possibly nil) smoothed variant when smoothing is active.
// It returns io.EOF once the source is exhausted and no buffered
// frame remains.
func (s *Sequencer) Next() (frame, smoothed *image.Image, err error) {
	if s.futureDisplay == s.display && s.future != nil {
		s.frame, s.future = s.future, nil
		s.sframe, s.sfuture = s.sfuture, nil
		s.display++
		return s.frame, s.sframe, nil
	}

	for {
		w, displayIndex, err := s.src.NextWFA()
		if err != nil {
			return nil, nil, err
		}

		s.applyReferenceUpdate(w)
		s.currentIsFut = false

		s.log.Debug("decoding frame", "type", w.FrameType.String(), "display", displayIndex, "states", w.States)

		decoded, err := decode.Image(int(w.Info.Width), int(w.Info.Height), s.format, w)
		if err != nil {
			return nil, nil, err
		}
		if w.FrameType != wfa.IFrame {
			motion.Restore(decoded, s.past, s.future, w)
		}

		var sm *image.Image
		factor := s.smooth
		if factor < 0 {
			factor = w.Info.Smoothing
		}
		if factor > 0 && factor <= 100 {
			sm = decoded.Clone()
			smooth.Image(factor, w, sm)
		}

		if displayIndex == s.display {
			s.display++
			s.frame, s.sframe = decoded, sm
			return s.frame, s.sframe, nil
		} else if displayIndex > s.display {
			s.futureDisplay = displayIndex
			s.currentIsFut = true
			s.pendingDecoded, s.pendingSmoothed = decoded, sm
		} else {
			return nil, nil, &fiascoerr.Malformed{Where: "sequencer.Next", Detail: "frame arrived out of recoverable display order"}
		}
	}
}

// applyReferenceUpdate rotates the past/future/frame slots according
// to w's frame type, mirroring get_next_frame's per-type branch.
func (s *Sequencer) applyReferenceUpdate(w *wfa.WFA) {
	switch w.FrameType {
	case wfa.IFrame:
		s.past, s.future, s.frame, s.sframe = nil, nil, nil, nil
	case wfa.PFrame:
		s.past = s.frame
		s.frame, s.sframe = nil, nil
		s.future, s.sfuture = nil, nil
	case wfa.BFrame:
		if s.currentIsFut {
			s.future, s.sfuture = s.pendingDecoded, s.pendingSmoothed
			s.pendingDecoded, s.pendingSmoothed = nil, nil
			s.frame, s.sframe = nil, nil
		} else if w.Info.BAsPastRef {
			s.past = s.frame
			s.frame, s.sframe = nil, nil
		} else {
			s.frame, s.sframe = nil, nil
		}
	}
}

// Done reports whether EOF has already been observed by a prior call
// to Next returning io.EOF.
func Done(err error) bool { return err == io.EOF }
