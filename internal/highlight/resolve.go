package highlight

import (
	"github.com/park285/chess-heatmap/internal/domain"
)

// Emphasis is the single resolved treatment of an entity. Dimmed and the
// emphasized levels are distinct values, so an entity can never be both.
type Emphasis int

const (
	Neutral Emphasis = iota
	Dimmed
	Weak
	Emphasized
	Strong
)

func (e Emphasis) Dim() bool { return e == Dimmed }

func (e Emphasis) Emphasized() bool { return e >= Weak }

func (e Emphasis) String() string {
	switch e {
	case Neutral:
		return "neutral"
	case Dimmed:
		return "dimmed"
	case Weak:
		return "weak"
	case Emphasized:
		return "emphasized"
	case Strong:
		return "strong"
	default:
		return "unknown"
	}
}

// SourceKind names the highlight source that decided an entity, ordered from
// highest to lowest precedence.
type SourceKind int

const (
	NoSource SourceKind = iota
	SquareHoverSource
	MoveHoverSource
	LockSource
	LegendHoverSource
	AnnotationSource
)

func (k SourceKind) String() string {
	switch k {
	case SquareHoverSource:
		return "square-hover"
	case MoveHoverSource:
		return "move-hover"
	case LockSource:
		return "lock"
	case LegendHoverSource:
		return "legend-hover"
	case AnnotationSource:
		return "annotation-hover"
	default:
		return "none"
	}
}

type LockRole int

const (
	NoRole LockRole = iota
	FirstRole
	SecondRole
)

func (r LockRole) String() string {
	switch r {
	case FirstRole:
		return "first"
	case SecondRole:
		return "second"
	default:
		return ""
	}
}

// Overlap is the compare-mode verdict for a square.
type Overlap int

const (
	NoOverlap Overlap = iota
	OverlapBoth
	OnlyFirst
	OnlySecond
	Neither
)

func (o Overlap) String() string {
	switch o {
	case OverlapBoth:
		return "overlap"
	case OnlyFirst:
		return "only-first"
	case OnlySecond:
		return "only-second"
	case Neither:
		return "neither"
	default:
		return ""
	}
}

// VisitMatch is the per-visit outcome inside a square decision.
type VisitMatch struct {
	Emphasis Emphasis
	Role     LockRole
}

// SquareDecision is the resolved treatment of one board square.
type SquareDecision struct {
	Emphasis Emphasis
	Source   SourceKind
	// Visits parallels the square's visit list.
	Visits     []VisitMatch
	Overlap    Overlap
	MoveTarget bool
	Hovered    bool
}

func (d SquareDecision) Dim() bool { return d.Emphasis.Dim() }

// Matching returns the indices of visits that match the deciding source.
func (d SquareDecision) Matching() []int {
	var out []int
	for i, v := range d.Visits {
		if v.Emphasis.Emphasized() {
			out = append(out, i)
		}
	}
	return out
}

// ClassifySquare resolves the board-affecting sources for sq. Square hover
// and annotation hover never change a square's emphasis; of the rest, the
// highest-precedence active source decides.
func ClassifySquare(sq domain.Square, st State) SquareDecision {
	d := SquareDecision{Visits: make([]VisitMatch, len(sq.Visits))}
	if hs := st.HoveredSquare; hs != nil && hs.Square == sq.Position {
		d.Hovered = true
	}

	switch {
	case st.HoveredMove != nil:
		classifyByMove(&d, sq, st.HoveredMove)
	case len(st.LockedPieces) > 0:
		classifyByLocks(&d, sq, st)
	case st.HighlightedPiece != nil:
		classifyByPiece(&d, sq, *st.HighlightedPiece)
	}
	return d
}

func classifyByMove(d *SquareDecision, sq domain.Square, hm *HoveredMove) {
	d.Source = MoveHoverSource
	d.MoveTarget = sq.Position == hm.Target
	matched := false
	for i, v := range sq.Visits {
		switch {
		case v.Class() != hm.Piece:
			d.Visits[i].Emphasis = Dimmed
		case d.MoveTarget && v.MoveNumber == hm.MoveNumber:
			d.Visits[i].Emphasis = Strong
			matched = true
		default:
			d.Visits[i].Emphasis = Weak
			matched = true
		}
	}
	switch {
	case d.MoveTarget:
		d.Emphasis = Strong
	case matched:
		d.Emphasis = Weak
	default:
		d.Emphasis = Dimmed
	}
}

func classifyByLocks(d *SquareDecision, sq domain.Square, st State) {
	d.Source = LockSource
	var first, second bool
	for i, v := range sq.Visits {
		role := st.LockRole(v.Class())
		if role == NoRole {
			d.Visits[i].Emphasis = Dimmed
			continue
		}
		d.Visits[i] = VisitMatch{Emphasis: Emphasized, Role: role}
		if role == FirstRole {
			first = true
		} else {
			second = true
		}
	}

	if first || second {
		d.Emphasis = Emphasized
	} else {
		d.Emphasis = Dimmed
	}
	if !st.Comparing() {
		return
	}
	switch {
	case first && second:
		d.Overlap = OverlapBoth
	case first:
		d.Overlap = OnlyFirst
	case second:
		d.Overlap = OnlySecond
	default:
		d.Overlap = Neither
	}
}

func classifyByPiece(d *SquareDecision, sq domain.Square, class domain.PieceClass) {
	d.Source = LegendHoverSource
	d.Emphasis = Dimmed
	for i, v := range sq.Visits {
		if v.Class() == class {
			d.Visits[i].Emphasis = Emphasized
			d.Emphasis = Emphasized
		} else {
			d.Visits[i].Emphasis = Dimmed
		}
	}
}

// EntryDecision is the resolved treatment of a legend or move-list entry.
type EntryDecision struct {
	Emphasis Emphasis
	Source   SourceKind
	Role     LockRole
}

func (d EntryDecision) Dim() bool { return d.Emphasis.Dim() }

// topSource returns the highest-precedence active source across all five.
func topSource(st State) SourceKind {
	switch {
	case st.HoveredSquare != nil:
		return SquareHoverSource
	case st.HoveredMove != nil:
		return MoveHoverSource
	case len(st.LockedPieces) > 0:
		return LockSource
	case st.HighlightedPiece != nil:
		return LegendHoverSource
	case st.HoveredAnnotation != nil:
		return AnnotationSource
	}
	return NoSource
}

// ClassifyLegend resolves one legend entry: emphasized when it matches the
// highest-precedence active source, dimmed when any source is active and it
// does not.
func ClassifyLegend(class domain.PieceClass, st State) EntryDecision {
	src := topSource(st)
	d := EntryDecision{Source: src}
	var match bool
	switch src {
	case NoSource:
		return d
	case SquareHoverSource:
		match = containsClass(st.HoveredSquare.Pieces, class)
	case MoveHoverSource:
		match = st.HoveredMove.Piece == class
	case LockSource:
		d.Role = st.LockRole(class)
		match = d.Role != NoRole
	case LegendHoverSource:
		match = *st.HighlightedPiece == class
	case AnnotationSource:
		match = containsClass(st.HoveredAnnotation.Pieces, class)
	}
	if match {
		d.Emphasis = Emphasized
	} else {
		d.Emphasis = Dimmed
	}
	return d
}

// ClassifyMove resolves one move-list entry under the same contract as the
// legend. Under square hover a move matches when it touched the square.
func ClassifyMove(mv domain.MoveDescriptor, st State) EntryDecision {
	src := topSource(st)
	d := EntryDecision{Source: src}
	class := mv.Class()
	var match bool
	switch src {
	case NoSource:
		return d
	case SquareHoverSource:
		match = st.HoveredSquare.hasMove(mv.MoveNumber)
	case MoveHoverSource:
		if st.HoveredMove.MoveNumber == mv.MoveNumber {
			d.Emphasis = Strong
			return d
		}
		match = st.HoveredMove.Piece == class
	case LockSource:
		d.Role = st.LockRole(class)
		match = d.Role != NoRole
	case LegendHoverSource:
		match = *st.HighlightedPiece == class
	case AnnotationSource:
		match = containsClass(st.HoveredAnnotation.Pieces, class)
	}
	if match {
		d.Emphasis = Emphasized
	} else {
		d.Emphasis = Dimmed
	}
	return d
}

func containsClass(list []domain.PieceClass, class domain.PieceClass) bool {
	for _, c := range list {
		if c == class {
			return true
		}
	}
	return false
}
