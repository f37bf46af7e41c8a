/*
DESCRIPTION
  wfa.go defines the flat array-of-structures WFA model: state IDs
  index directly into parallel slices rather than a pointer graph,
  mirroring the field layout of the reference codec's wfa_t struct,
  re-expressed as idiomatic Go.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

// Package wfa implements the Weighted Finite Automaton data model:
// states, bintree edges, motion vectors and the per-state
// domain/child/weight tables the decoder walks.
package wfa

import (
	"github.com/fiascogo/fiasco/rpf"
)

// Structural bounds on a WFA's state/edge tables.
const (
	MaxStates = 6000
	MaxEdges  = 5
	MaxLabels = 2
	MaxLevel  = 22
)

// NoEdge marks the absence of a domain reference in Into, and doubles
// as the RANGE sentinel for Tree (a leaf range rather than a child
// subtree), matching the original format's overloaded -1 constant.
const NoEdge = -1

// LevelUnset marks a state whose level/x/y have not yet been derived
// by the container reader's geometry pass. 0 is a valid level (a
// single pixel), so it cannot double as the sentinel the way NoEdge
// does for Tree.
const LevelUnset = -1

// Domain-type bitmask, matching the reference format's state_types
// enum.
const (
	Auxiliary = 1 << 0 // required for inner-product computation, never itself a domain
	UseDomain = 1 << 1 // eligible to be referenced as a domain
)

// MCType is the motion compensation type of a leaf cell.
type MCType int

const (
	MCNone MCType = iota
	MCForward
	MCBackward
	MCInterpolated
)

// FrameType is the coding type of a frame.
type FrameType int

const (
	IFrame FrameType = iota
	PFrame
	BFrame
)

func (t FrameType) String() string {
	switch t {
	case IFrame:
		return "I"
	case PFrame:
		return "P"
	case BFrame:
		return "B"
	default:
		return "?"
	}
}

// MV is a motion vector record. Type is MCNone unless the tree cell at
// this state/label is a leaf in a P or B frame.
type MV struct {
	Type   MCType
	FX, FY int // forward vector coordinates
	BX, BY int // backward vector coordinates
}

// Info holds the fields shared read-only across all frames of a
// stream: geometry, the four RPFs, and stream-level flags that the
// container reader validates are unchanged across concatenated
// frames.
type Info struct {
	Title, Comment string
	BasisName      string

	Width, Height uint
	Color         bool

	Frames uint
	FPS    uint

	PMinLevel, PMaxLevel uint
	SearchRange          uint
	HalfPixel            bool
	CrossBSearch         bool
	BAsPastRef           bool
	Smoothing            int // default smoothing factor, [-1, 100]

	MaxStates       uint
	ChromaMaxStates uint

	RPF, DCRPF, DRPF, DDCRPF rpf.Rpf

	Release uint
}

// WFA is the per-frame automaton: a flat set of parallel slices
// indexed by state ID. Non-basis states (index >= BasisStates) are
// rebuilt by the container reader for every I/P frame and truncated
// by RemoveStates when a new frame begins.
type WFA struct {
	Info *Info

	FrameType FrameType

	BasisStates int
	States      int
	RootState   int

	FinalDistribution []float64
	LevelOfState      []int
	DomainType        []byte

	// Tree[s][l] is a child state ID, or NoEdge if (s, l) is a leaf
	// range approximated by a linear combination instead.
	Tree [][MaxLabels]int
	X    [][MaxLabels]int
	Y    [][MaxLabels]int

	// Into[s][l] lists the domain state IDs of the linear combination
	// approximating range (s, l); Weight/IntWeight are aligned with it
	// 1:1. A domain list may be empty (ischild only, i.e. pure
	// subdivision with no approximation at this label).
	Into      [][MaxLabels][]int
	Weight    [][MaxLabels][]float64
	IntWeight [][MaxLabels][]int32

	MVTree     [][MaxLabels]MV
	Prediction [][MaxLabels]byte
}

// New returns a WFA with basisStates pre-allocated basis states and
// room to grow up to Info.MaxStates (or MaxStates if unset).
func New(info *Info, basisStates int) *WFA {
	cap := MaxStates
	if info != nil && info.MaxStates > 0 {
		cap = int(info.MaxStates)
	}
	w := &WFA{Info: info, BasisStates: basisStates, States: basisStates}
	w.grow(cap)
	w.States = basisStates
	return w
}

// grow ensures capacity for at least n states, extending all parallel
// slices. It never shrinks; RemoveStates only clears the dropped
// entries and lowers States.
func (w *WFA) grow(n int) {
	if n <= len(w.Tree) {
		return
	}
	growTree := make([][MaxLabels]int, n)
	growX := make([][MaxLabels]int, n)
	growY := make([][MaxLabels]int, n)
	growInto := make([][MaxLabels][]int, n)
	growWeight := make([][MaxLabels][]float64, n)
	growIntWeight := make([][MaxLabels][]int32, n)
	growMV := make([][MaxLabels]MV, n)
	growPred := make([][MaxLabels]byte, n)
	growFD := make([]float64, n)
	growLevel := make([]int, n)
	growDomType := make([]byte, n)

	copy(growTree, w.Tree)
	copy(growX, w.X)
	copy(growY, w.Y)
	copy(growInto, w.Into)
	copy(growWeight, w.Weight)
	copy(growIntWeight, w.IntWeight)
	copy(growMV, w.MVTree)
	copy(growPred, w.Prediction)
	copy(growFD, w.FinalDistribution)
	copy(growLevel, w.LevelOfState)
	copy(growDomType, w.DomainType)

	for s := range growTree {
		if s >= len(w.Tree) {
			growTree[s] = [MaxLabels]int{NoEdge, NoEdge}
			growLevel[s] = LevelUnset
		}
	}

	w.Tree, w.X, w.Y = growTree, growX, growY
	w.Into, w.Weight, w.IntWeight = growInto, growWeight, growIntWeight
	w.MVTree, w.Prediction = growMV, growPred
	w.FinalDistribution, w.LevelOfState, w.DomainType = growFD, growLevel, growDomType
}

// IsEdge reports whether id refers to a real domain/child state
// (i.e. is not the NoEdge sentinel).
func IsEdge(id int) bool { return id != NoEdge }

// IsChild reports whether id is a child subtree reference rather than
// a leaf range (i.e. is not the NoEdge/RANGE sentinel).
func IsChild(id int) bool { return id != NoEdge }

// IsRange reports whether id marks a leaf range rather than a child
// subtree.
func IsRange(id int) bool { return id == NoEdge }

// IsAuxiliary reports whether state s is required for inner-product
// computation but may not itself be used in an approximation.
func (w *WFA) IsAuxiliary(s int) bool { return w.DomainType[s]&Auxiliary != 0 }

// UseDomain reports whether state s is eligible to be referenced as a
// domain in a linear combination.
func (w *WFA) UseDomain(s int) bool { return w.DomainType[s]&UseDomain != 0 }

// NeedImage reports whether state s's image must be materialized
// during synthesis.
func (w *WFA) NeedImage(s int) bool { return w.IsAuxiliary(s) || w.UseDomain(s) }
