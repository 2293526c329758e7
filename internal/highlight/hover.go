package highlight

import (
	"github.com/park285/chess-heatmap/internal/domain"
	"github.com/park285/chess-heatmap/internal/heatmap"
	"github.com/park285/chess-heatmap/internal/san"
)

// SquareHover builds the hover source for a named square. Invalid names
// return nil, which is the inactive source.
func SquareHover(board domain.Board, name string) *HoveredSquare {
	pos, ok := domain.ParsePosition(name)
	if !ok {
		return nil
	}
	return &HoveredSquare{
		Square: pos,
		Pieces: heatmap.ClassesOn(board, pos),
		Moves:  heatmap.TouchedBy(board, pos),
	}
}

// MoveHover builds the hover source for a 1-indexed ply from the normalized
// move list.
func MoveHover(moves []domain.MoveDescriptor, moveNumber int) *HoveredMove {
	if moveNumber < 1 || moveNumber > len(moves) {
		return nil
	}
	mv := moves[moveNumber-1]
	if !mv.Class().Valid() || !mv.To.Valid() {
		return nil
	}
	return &HoveredMove{
		MoveNumber: mv.MoveNumber,
		SAN:        mv.SAN,
		Piece:      mv.Class(),
		Target:     mv.To,
		Capture:    mv.Capture,
	}
}

// MoveHoverFromSAN builds the hover source from notation text alone. The
// mover follows from ply parity. Unparseable tokens return nil.
func MoveHoverFromSAN(moveNumber int, token string) *HoveredMove {
	if moveNumber < 1 {
		return nil
	}
	p, ok := san.ParsePly(token, moveNumber)
	if !ok {
		return nil
	}
	return &HoveredMove{
		MoveNumber: moveNumber,
		SAN:        token,
		Piece:      p.Class(),
		Target:     p.Target,
		Capture:    p.Capture,
	}
}

// AnnotationHover maps a label to the full six-class set of one color.
// Player labels imply their color; move notation uses the given mover.
func AnnotationHover(kind AnnotationKind, mover domain.PieceColor) *HoveredAnnotation {
	var color domain.PieceColor
	switch kind {
	case WhitePlayer:
		color = domain.White
	case BlackPlayer:
		color = domain.Black
	case MoveNotation:
		color = mover
	}
	if !color.Valid() {
		return nil
	}
	return &HoveredAnnotation{Kind: kind, Pieces: domain.ClassesOf(color)}
}
