/*
DESCRIPTION
  ops.go implements the WFA model's mutation operations: append_edge,
  remove_states and copy_wfa, used by the container reader while
  parsing a frame and by the sequencer when resetting non-basis state
  between frames.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

package wfa

import (
	"github.com/fiascogo/fiasco/fiascoerr"
	"github.com/fiascogo/fiasco/rpf"
)

// AppendEdge adds a domain reference to range (rangeState, label),
// appending to Into/Weight/IntWeight in lockstep. It grows the WFA's
// state capacity if rangeState is beyond what's currently allocated.
func (w *WFA) AppendEdge(rangeState, domainState int, weight float64, label int) error {
	if label < 0 || label >= MaxLabels {
		return &fiascoerr.OutOfBounds{Param: "wfa.label", Value: label}
	}
	if rangeState >= len(w.Tree) {
		w.grow(rangeState + 1)
	}
	if len(w.Into[rangeState][label]) >= MaxEdges {
		return &fiascoerr.Malformed{Where: "wfa.AppendEdge", Detail: "edge list exceeds MAXEDGES"}
	}
	w.Into[rangeState][label] = append(w.Into[rangeState][label], domainState)
	w.Weight[rangeState][label] = append(w.Weight[rangeState][label], weight)
	w.IntWeight[rangeState][label] = append(w.IntWeight[rangeState][label], rpf.QuantizeWeight(weight))
	return nil
}

// RemoveStates truncates the WFA to its first `from` states, as the
// decoder does between frames to drop the prior frame's non-basis
// suffix while keeping the basis intact.
func (w *WFA) RemoveStates(from int) {
	if from < w.BasisStates {
		from = w.BasisStates
	}
	if from > len(w.Tree) {
		w.grow(from)
	}
	for s := from; s < len(w.Tree); s++ {
		for l := 0; l < MaxLabels; l++ {
			w.Tree[s][l] = NoEdge
			w.Into[s][l] = nil
			w.Weight[s][l] = nil
			w.IntWeight[s][l] = nil
			w.MVTree[s][l] = MV{}
			w.Prediction[s][l] = 0
		}
		w.FinalDistribution[s] = 0
		w.LevelOfState[s] = LevelUnset
		w.DomainType[s] = 0
	}
	w.States = from
}

// CopyWFA deep-copies src's live states (0..src.States) into dst,
// replacing dst's contents.
func CopyWFA(dst, src *WFA) {
	dst.Info = src.Info
	dst.FrameType = src.FrameType
	dst.BasisStates = src.BasisStates
	dst.States = src.States
	dst.RootState = src.RootState
	dst.grow(src.States)

	n := src.States
	copy(dst.FinalDistribution[:n], src.FinalDistribution[:n])
	copy(dst.LevelOfState[:n], src.LevelOfState[:n])
	copy(dst.DomainType[:n], src.DomainType[:n])
	for s := 0; s < n; s++ {
		dst.Tree[s] = src.Tree[s]
		dst.X[s] = src.X[s]
		dst.Y[s] = src.Y[s]
		dst.MVTree[s] = src.MVTree[s]
		dst.Prediction[s] = src.Prediction[s]
		for l := 0; l < MaxLabels; l++ {
			dst.Into[s][l] = append([]int(nil), src.Into[s][l]...)
			dst.Weight[s][l] = append([]float64(nil), src.Weight[s][l]...)
			dst.IntWeight[s][l] = append([]int32(nil), src.IntWeight[s][l]...)
		}
	}
}
