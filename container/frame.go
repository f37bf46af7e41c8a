/*
DESCRIPTION
  frame.go reads one frame's bitstream block: a byte-aligned Rice
  header (states_delta, frame_type, display_number) followed by an
  arithmetic/Rice-coded tree payload describing the non-basis states
  appended this frame — their domain type, final distribution,
  bintree children, linear-combination domain lists, Q10 weights, DC
  predictions and motion vectors. The canonical state traversal order
  walks newly appended states by increasing ID, matching the
  reference format's state numbering discipline (domains precede the
  ranges that reference them); once a frame's states are in place, a
  second top-down pass derives each state's level and pixel
  coordinates by walking the same bintree the synthesis engine will.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

package container

import (
	"github.com/fiascogo/fiasco/arith"
	"github.com/fiascogo/fiasco/bits"
	"github.com/fiascogo/fiasco/decode"
	"github.com/fiascogo/fiasco/fiascoerr"
	"github.com/fiascogo/fiasco/rpf"
	"github.com/fiascogo/fiasco/vlc"
	"github.com/fiascogo/fiasco/wfa"
)

// riceK values for the frame header fields and the Rice-coded fields
// of the per-state payload; chosen for the small integer ranges each
// field takes in practice.
const (
	statesDeltaK = 8
	frameTypeK   = 1
	displayNumK  = 16
	domainCountK = 2
	edgeK        = 16
	mvCompK      = 6 // Rice parameter for zig-zag-coded MV components
)

// FrameReader parses successive frame blocks from a bit reader,
// applying each one onto a shared WFA that carries the stream's
// basis states.
type FrameReader struct {
	br   *bits.Reader
	info *wfa.Info
}

// NewFrameReader wraps br, reading frames described by info.
func NewFrameReader(br *bits.Reader, info *wfa.Info) *FrameReader {
	return &FrameReader{br: br, info: info}
}

// ParseNextFrame reads one frame block, appending its states onto w
// (whose non-basis suffix the caller has already truncated via
// wfa.RemoveStates), and returns the display index the frame is
// destined for.
func (f *FrameReader) ParseNextFrame(w *wfa.WFA) (displayIndex int, err error) {
	statesDelta, err := vlc.DecodeRice(f.br, statesDeltaK)
	if err != nil {
		return 0, err
	}
	frameTypeCode, err := vlc.DecodeRice(f.br, frameTypeK)
	if err != nil {
		return 0, err
	}
	display, err := vlc.DecodeRice(f.br, displayNumK)
	if err != nil {
		return 0, err
	}
	f.br.InputByteAlign()

	if frameTypeCode > uint64(wfa.BFrame) {
		return 0, &fiascoerr.Malformed{Where: "container.ParseNextFrame", Detail: "invalid frame type code"}
	}
	w.FrameType = wfa.FrameType(frameTypeCode)

	dec, err := arith.NewDecoder(f.br)
	if err != nil {
		return 0, err
	}
	models := newStateModels()

	start := w.States
	end := start + int(statesDelta)
	for state := start; state < end; state++ {
		if err := parseState(f.br, w, state, dec, models, f.info.DCRPF, w.FrameType != wfa.IFrame); err != nil {
			return 0, err
		}
	}
	w.States = end
	if end > 0 {
		w.RootState = end - 1
	}

	assignFrameGeometry(w, int(f.info.Width), int(f.info.Height), f.info.Color, start)

	return int(display), nil
}

// stateModels bundles the adaptive arithmetic contexts shared across
// every state of a frame (or basis file) so that adaptation carries
// across states instead of resetting per state.
type stateModels struct {
	structure *arith.Model // 0: child, 1: leaf combination
	weight    *arith.Model
}

func newStateModels() *stateModels {
	return &stateModels{structure: arith.NewModel(2), weight: arith.NewModel(1 << 12)}
}

// parseState decodes one appended state: its domain type, its final
// distribution, and its two labels. withMotion gates whether a leaf
// range also carries a motion-compensation record, true for P/B
// frame states and false for I frames and basis states, neither of
// which predict from a reference frame.
func parseState(br *bits.Reader, w *wfa.WFA, state int, dec *arith.Decoder, models *stateModels, dcrpf rpf.Rpf, withMotion bool) error {
	domainType, err := br.ReadBits(2)
	if err != nil {
		return err
	}
	w.DomainType[state] = byte(domainType)

	sign, err := br.GetBit()
	if err != nil {
		return err
	}
	mantissa, err := br.ReadBits(int(dcrpf.MantissaBits))
	if err != nil {
		return err
	}
	w.FinalDistribution[state] = dcrpf.Decode(uint8(sign), uint32(mantissa))

	for label := 0; label < wfa.MaxLabels; label++ {
		kind, err := dec.DecodeSymbol(models.structure)
		if err != nil {
			return err
		}
		if kind == 0 { // pure bintree subdivision, no combination at this label
			child, err := vlc.DecodeRice(br, edgeK)
			if err != nil {
				return err
			}
			w.Tree[state][label] = int(child)
			continue
		}

		domainCount, err := vlc.DecodeRice(br, domainCountK)
		if err != nil {
			return err
		}
		for i := uint64(0); i < domainCount; i++ {
			domainID, err := vlc.DecodeRice(br, edgeK)
			if err != nil {
				return err
			}
			weightSym, err := dec.DecodeSymbol(models.weight)
			if err != nil {
				return err
			}
			weight := quantizedWeightToFloat(weightSym)
			if err := w.AppendEdge(state, int(domainID), weight, label); err != nil {
				return err
			}
		}

		prediction, err := br.ReadBits(8)
		if err != nil {
			return err
		}
		w.Prediction[state][label] = byte(prediction)

		if withMotion {
			mv, err := decodeMV(br)
			if err != nil {
				return err
			}
			w.MVTree[state][label] = mv
		}
	}
	return nil
}

// decodeMV reads one leaf range's motion-compensation record: a 2-bit
// type followed by the vector components the type requires, each
// zig-zag Rice coded so negative displacements cost the same as
// positive ones.
func decodeMV(br *bits.Reader) (wfa.MV, error) {
	typeBits, err := br.ReadBits(2)
	if err != nil {
		return wfa.MV{}, err
	}
	mv := wfa.MV{Type: wfa.MCType(typeBits)}
	switch mv.Type {
	case wfa.MCForward, wfa.MCInterpolated:
		if mv.FX, err = decodeSignedRice(br, mvCompK); err != nil {
			return wfa.MV{}, err
		}
		if mv.FY, err = decodeSignedRice(br, mvCompK); err != nil {
			return wfa.MV{}, err
		}
	}
	switch mv.Type {
	case wfa.MCBackward, wfa.MCInterpolated:
		if mv.BX, err = decodeSignedRice(br, mvCompK); err != nil {
			return wfa.MV{}, err
		}
		if mv.BY, err = decodeSignedRice(br, mvCompK); err != nil {
			return wfa.MV{}, err
		}
	}
	return mv, nil
}

// decodeSignedRice reads a zig-zag-mapped Rice code, the standard way
// to carry a signed value (a small negative or positive search
// displacement) over an unsigned code.
func decodeSignedRice(br *bits.Reader, k int) (int, error) {
	u, err := vlc.DecodeRice(br, k)
	if err != nil {
		return 0, err
	}
	if u&1 == 0 {
		return int(u >> 1), nil
	}
	return -int((u + 1) >> 1), nil
}

// quantizedWeightToFloat maps an arithmetic-coded weight symbol back
// to its real-valued Q10 weight; the symbol space covers
// [-2048, 2047] in Q10 units (1/512 each), i.e. [-4, 4).
func quantizedWeightToFloat(sym int) float64 {
	return float64(sym-2048) / 512
}

// assignFrameGeometry derives level_of_state and the two per-label
// (x, y) coordinates for every state appended to w from `start`
// onward, by walking down from the frame's root(s) exactly as the
// synthesis engine's allocation pass will: each pure-subdivision
// label halves the level by one, splitting the parent block
// vertically at odd levels and horizontally at even ones (see
// decode.WidthOfLevel/HeightOfLevel). Color streams keep a small
// bookkeeping root above the three band roots (luma, Cb, Cr) joining
// them into one tree; those bookkeeping states are never consulted by
// the synthesis engine; this pass skips them entirely and assigns
// geometry directly to each band root instead.
func assignFrameGeometry(w *wfa.WFA, width, height int, color bool, start int) {
	if w.RootState < start {
		return // this frame appended no new states
	}
	lumaLevel := levelForSize(width, height)
	if !color {
		assignGeometry(w, w.RootState, lumaLevel, 0, 0)
		return
	}

	// The bookkeeping states joining the three bands (root and its
	// immediate children) are never consulted by the synthesis engine,
	// which walks each band from its own root independently (see
	// decode.Image); only the three band roots themselves need real
	// geometry, each anchored at its own origin.
	chromaLevel := lumaLevel - 2 // native 4:2:0 chroma resolution
	if chromaLevel < 0 {
		chromaLevel = lumaLevel
	}
	if a := w.Tree[w.RootState][0]; wfa.IsChild(a) {
		if y := w.Tree[a][0]; wfa.IsChild(y) {
			assignGeometry(w, y, lumaLevel, 0, 0)
		}
		if cb := w.Tree[a][1]; wfa.IsChild(cb) {
			assignGeometry(w, cb, chromaLevel, 0, 0)
		}
	}
	if b := w.Tree[w.RootState][1]; wfa.IsChild(b) {
		if cr := w.Tree[b][0]; wfa.IsChild(cr) {
			assignGeometry(w, cr, chromaLevel, 0, 0)
		}
	}
}

// levelForSize returns the smallest bintree level whose block is at
// least width x height, the geometric root level for a band of that
// resolution.
func levelForSize(width, height int) int {
	level := 0
	for decode.WidthOfLevel(level) < width || decode.HeightOfLevel(level) < height {
		level++
	}
	return level
}

// assignGeometry sets state's own level_of_state and (x, y) pair,
// then recurses into its pure-subdivision children (domains referenced
// only through Into get their geometry from the synthesis engine's
// own allocation pass, which needs only their level, not a fixed
// position). A state already carrying geometry from an earlier frame
// is left untouched.
func assignGeometry(w *wfa.WFA, state, level, x, y int) {
	if state < 0 || state >= w.States || w.LevelOfState[state] != wfa.LevelUnset {
		return
	}
	w.LevelOfState[state] = level
	w.X[state][0], w.Y[state][0] = x, y

	x1, y1 := x, y
	if level > 0 {
		if level%2 == 1 {
			y1 = y + decode.HeightOfLevel(level-1)
		} else {
			x1 = x + decode.WidthOfLevel(level-1)
		}
	}
	w.X[state][1], w.Y[state][1] = x1, y1

	if child := w.Tree[state][0]; wfa.IsChild(child) {
		assignGeometry(w, child, level-1, x, y)
	}
	if child := w.Tree[state][1]; wfa.IsChild(child) {
		assignGeometry(w, child, level-1, x1, y1)
	}
}
