// Package san extracts display data from short algebraic notation without
// consulting board state.
package san

import (
	"strings"

	"github.com/park285/chess-heatmap/internal/domain"
)

// Parsed is the display-level reading of one SAN token.
type Parsed struct {
	Piece     domain.PieceType
	Color     domain.PieceColor
	Target    domain.Position
	Capture   bool
	Castle    domain.CastleSide
	Promotion domain.PieceType
	// FromHint is the unresolved disambiguation text, e.g. "b" in "Nbd7".
	FromHint string
}

func (p Parsed) Class() domain.PieceClass {
	return domain.PieceClass{Type: p.Piece, Color: p.Color}
}

// TargetName returns the algebraic name of the target square.
func (p Parsed) TargetName() string { return p.Target.String() }

// Parse reads token as a move by color. Malformed tokens return false.
func Parse(token string, color domain.PieceColor) (Parsed, bool) {
	s := strings.TrimSpace(token)
	s = strings.TrimRight(s, "+#!?")
	if s == "" {
		return Parsed{}, false
	}

	switch strings.ReplaceAll(s, "0", "O") {
	case "O-O":
		return castle(color, domain.KingSide)
	case "O-O-O":
		return castle(color, domain.QueenSide)
	}

	out := Parsed{Piece: domain.Pawn, Color: color}
	if pt, ok := domain.PieceTypeFromSAN(s[0]); ok {
		out.Piece = pt
		s = s[1:]
	}

	if i := strings.IndexByte(s, '='); i >= 0 {
		if i+1 < len(s) {
			if pt, ok := domain.PieceTypeFromSAN(s[i+1]); ok {
				out.Promotion = pt
			}
		}
		s = s[:i]
	} else if out.Piece == domain.Pawn && len(s) > 2 {
		// "e8Q" without the equals sign
		if pt, ok := domain.PieceTypeFromSAN(s[len(s)-1]); ok {
			out.Promotion = pt
			s = s[:len(s)-1]
		}
	}

	if strings.Contains(s, "x") {
		out.Capture = true
		s = strings.ReplaceAll(s, "x", "")
	}
	s = strings.ReplaceAll(s, ":", "")

	if len(s) < 2 {
		return Parsed{}, false
	}
	target, ok := domain.ParsePosition(s[len(s)-2:])
	if !ok {
		return Parsed{}, false
	}
	out.Target = target
	out.FromHint = s[:len(s)-2]
	return out, true
}

// ParsePly parses token using the mover implied by a 1-indexed ply.
func ParsePly(token string, moveNumber int) (Parsed, bool) {
	return Parse(token, domain.ColorForPly(moveNumber))
}

func castle(color domain.PieceColor, side domain.CastleSide) (Parsed, bool) {
	if !color.Valid() {
		color = domain.White
	}
	return Parsed{
		Piece:  domain.King,
		Color:  color,
		Target: domain.CastleKingTarget(color, side),
		Castle: side,
	}, true
}
