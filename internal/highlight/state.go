// Package highlight merges the five interactive highlight sources into one
// emphasis decision per square, legend entry and move-list entry.
package highlight

import (
	"github.com/park285/chess-heatmap/internal/domain"
)

// HoveredSquare is a board square under the pointer.
type HoveredSquare struct {
	Square domain.Position
	// Pieces lists the classes that visited the square, first appearance first.
	Pieces []domain.PieceClass
	// Moves is the reverse index of move numbers that ended on the square.
	Moves []int
}

func (h *HoveredSquare) hasMove(n int) bool {
	for _, m := range h.Moves {
		if m == n {
			return true
		}
	}
	return false
}

// HoveredMove is a timeline or move-list entry under the pointer.
type HoveredMove struct {
	MoveNumber int
	SAN        string
	Piece      domain.PieceClass
	Target     domain.Position
	Capture    bool
}

type AnnotationKind int

const (
	WhitePlayer AnnotationKind = iota + 1
	BlackPlayer
	MoveNotation
)

func (k AnnotationKind) String() string {
	switch k {
	case WhitePlayer:
		return "white-player"
	case BlackPlayer:
		return "black-player"
	case MoveNotation:
		return "move-notation"
	default:
		return ""
	}
}

// HoveredAnnotation is a text label under the pointer. It never affects
// board squares.
type HoveredAnnotation struct {
	Kind   AnnotationKind
	Pieces []domain.PieceClass
}

// MaxLocks is the number of piece classes that can be locked at once.
const MaxLocks = 2

// State is one consistent snapshot of every highlight source. The zero value
// is the neutral state: nothing hovered, nothing locked.
type State struct {
	HoveredSquare     *HoveredSquare
	HoveredMove       *HoveredMove
	LockedPieces      []domain.PieceClass
	CompareMode       bool
	HighlightedPiece  *domain.PieceClass
	HoveredAnnotation *HoveredAnnotation
}

// Active reports whether any source is active.
func (s State) Active() bool {
	return s.HoveredSquare != nil ||
		s.HoveredMove != nil ||
		len(s.LockedPieces) > 0 ||
		s.HighlightedPiece != nil ||
		s.HoveredAnnotation != nil
}

// Comparing reports whether compare-mode classification applies.
func (s State) Comparing() bool {
	return s.CompareMode && len(s.LockedPieces) == MaxLocks
}

// LockRole returns the compare role of class, or NoRole.
func (s State) LockRole(class domain.PieceClass) LockRole {
	for i, c := range s.LockedPieces {
		if c == class {
			return LockRole(i + 1)
		}
	}
	return NoRole
}

// Clone deep-copies the state so callers cannot alias a live store.
func (s State) Clone() State {
	out := State{CompareMode: s.CompareMode}
	if s.HoveredSquare != nil {
		hs := *s.HoveredSquare
		hs.Pieces = append([]domain.PieceClass(nil), hs.Pieces...)
		hs.Moves = append([]int(nil), hs.Moves...)
		out.HoveredSquare = &hs
	}
	if s.HoveredMove != nil {
		hm := *s.HoveredMove
		out.HoveredMove = &hm
	}
	if len(s.LockedPieces) > 0 {
		out.LockedPieces = append([]domain.PieceClass(nil), s.LockedPieces...)
	}
	if s.HighlightedPiece != nil {
		hp := *s.HighlightedPiece
		out.HighlightedPiece = &hp
	}
	if s.HoveredAnnotation != nil {
		ha := *s.HoveredAnnotation
		ha.Pieces = append([]domain.PieceClass(nil), ha.Pieces...)
		out.HoveredAnnotation = &ha
	}
	return out
}

// Source supplies the current highlight state. Render paths without any
// interaction use Nop.
type Source interface {
	Highlights() State
}

// Nop is the neutral source: all five inputs inactive.
type Nop struct{}

func (Nop) Highlights() State { return State{} }

// Static wraps a fixed state as a Source.
type Static State

func (s Static) Highlights() State { return State(s).Clone() }

// Of returns src's state, treating a nil source as neutral.
func Of(src Source) State {
	if src == nil {
		return State{}
	}
	return src.Highlights()
}
