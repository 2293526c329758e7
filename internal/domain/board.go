package domain

// SquareVisit records a piece class ending a move on a square. It never
// carries a resolved color so palette swaps do not require a replay.
type SquareVisit struct {
	PieceType  PieceType
	PieceColor PieceColor
	MoveNumber int
}

func (v SquareVisit) Class() PieceClass {
	return PieceClass{Type: v.PieceType, Color: v.PieceColor}
}

// Square is one board cell with its chronological visit list.
type Square struct {
	Position Position
	Visits   []SquareVisit
}

func (s Square) Name() string { return s.Position.String() }
func (s Square) Light() bool  { return s.Position.Light() }

// HasClass reports whether any visit belongs to c.
func (s Square) HasClass(c PieceClass) bool {
	for _, v := range s.Visits {
		if v.Class() == c {
			return true
		}
	}
	return false
}

// Board is the 8x8 visit history, indexed by Position.Index.
type Board struct {
	Squares [64]Square
}

// NewBoard returns an empty board with every square's position set.
func NewBoard() Board {
	var b Board
	for i := range b.Squares {
		b.Squares[i].Position = PositionFromIndex(i)
	}
	return b
}

// At returns the square at p; out-of-range positions yield an empty square.
func (b *Board) At(p Position) Square {
	if !p.Valid() {
		return Square{Position: p}
	}
	return b.Squares[p.Index()]
}

// Lookup resolves an algebraic square name.
func (b *Board) Lookup(name string) (Square, bool) {
	p, ok := ParsePosition(name)
	if !ok {
		return Square{}, false
	}
	return b.Squares[p.Index()], true
}

// TotalVisits counts visits across all 64 squares.
func (b *Board) TotalVisits() int {
	n := 0
	for i := range b.Squares {
		n += len(b.Squares[i].Visits)
	}
	return n
}

// MaxMoveNumber returns the highest recorded move number.
func (b *Board) MaxMoveNumber() int {
	max := 0
	for i := range b.Squares {
		visits := b.Squares[i].Visits
		if n := len(visits); n > 0 && visits[n-1].MoveNumber > max {
			max = visits[n-1].MoveNumber
		}
	}
	return max
}
