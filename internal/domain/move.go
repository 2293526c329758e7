package domain

type CastleSide int

const (
	NoCastle CastleSide = iota
	KingSide
	QueenSide
)

// MoveDescriptor is one validated ply as reported by the rules engine.
type MoveDescriptor struct {
	MoveNumber int
	SAN        string
	Piece      PieceType
	Color      PieceColor
	From       Position
	To         Position
	Capture    bool
	Castle     CastleSide
	Promotion  PieceType
}

func (m MoveDescriptor) Class() PieceClass {
	return PieceClass{Type: m.Piece, Color: m.Color}
}

// RookTarget returns the castling rook's destination.
func (m MoveDescriptor) RookTarget() (Position, bool) {
	rank := 0
	if m.Color == Black {
		rank = 7
	}
	switch m.Castle {
	case KingSide:
		return Position{File: 5, Rank: rank}, true
	case QueenSide:
		return Position{File: 3, Rank: rank}, true
	}
	return Position{}, false
}

// CastleKingTarget is the fixed king destination for a castle.
func CastleKingTarget(color PieceColor, side CastleSide) Position {
	rank := 0
	if color == Black {
		rank = 7
	}
	if side == QueenSide {
		return Position{File: 2, Rank: rank}
	}
	return Position{File: 6, Rank: rank}
}

// GameInfo carries display metadata about a loaded game.
type GameInfo struct {
	White    string
	Black    string
	Result   string
	ECOCode  string
	ECOTitle string
}
