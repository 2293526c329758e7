// Package heatmap replays a move stream into per-square visit history and
// derives timeline views of it.
package heatmap

import (
	"sort"

	"github.com/park285/chess-heatmap/internal/domain"
)

// Accumulate replays moves into a fresh board. Each move appends one visit to
// its destination; castling also appends the rook's visit. Nothing is ever
// removed, so captured pieces keep their history.
func Accumulate(moves []domain.MoveDescriptor) domain.Board {
	board := domain.NewBoard()
	for _, mv := range moves {
		if !mv.To.Valid() || !mv.Class().Valid() {
			continue
		}
		appendVisit(&board, mv.To, domain.SquareVisit{
			PieceType:  mv.Piece,
			PieceColor: mv.Color,
			MoveNumber: mv.MoveNumber,
		})
		if rook, ok := mv.RookTarget(); ok {
			appendVisit(&board, rook, domain.SquareVisit{
				PieceType:  domain.Rook,
				PieceColor: mv.Color,
				MoveNumber: mv.MoveNumber,
			})
		}
	}
	return board
}

func appendVisit(board *domain.Board, pos domain.Position, v domain.SquareVisit) {
	sq := &board.Squares[pos.Index()]
	sq.Visits = append(sq.Visits, v)
}

// Filter returns the board as of move upTo: every visit list is truncated to
// moveNumber <= upTo. upTo beyond the last move shows everything; negative
// values clamp to an empty board. The input is never modified.
func Filter(board domain.Board, upTo int) domain.Board {
	if upTo < 0 {
		upTo = 0
	}
	out := board
	for i := range out.Squares {
		visits := out.Squares[i].Visits
		n := sort.Search(len(visits), func(j int) bool { return visits[j].MoveNumber > upTo })
		if n == 0 {
			out.Squares[i].Visits = nil
			continue
		}
		// cap the slice so appends on a view can never touch the source history
		out.Squares[i].Visits = visits[:n:n]
	}
	return out
}

// TouchedBy returns the move numbers that ended on pos, in order, without
// duplicates.
func TouchedBy(board domain.Board, pos domain.Position) []int {
	if !pos.Valid() {
		return nil
	}
	visits := board.Squares[pos.Index()].Visits
	out := make([]int, 0, len(visits))
	for _, v := range visits {
		if n := len(out); n > 0 && out[n-1] == v.MoveNumber {
			continue
		}
		out = append(out, v.MoveNumber)
	}
	return out
}

// ClassesOn returns the distinct piece classes that visited pos, in order of
// first appearance.
func ClassesOn(board domain.Board, pos domain.Position) []domain.PieceClass {
	if !pos.Valid() {
		return nil
	}
	var out []domain.PieceClass
	seen := [12]bool{}
	for _, v := range board.Squares[pos.Index()].Visits {
		idx := v.Class().Index()
		if idx < 0 || seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, v.Class())
	}
	return out
}

// ClampCursor maps an arbitrary timeline cursor into [0, total].
func ClampCursor(cursor, total int) int {
	if cursor < 0 {
		return 0
	}
	if cursor > total {
		return total
	}
	return cursor
}
