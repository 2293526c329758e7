package domain

import "strings"

// PieceType is the lowercase piece letter used throughout the heatmap core.
type PieceType byte

const (
	NoPieceType PieceType = 0
	King        PieceType = 'k'
	Queen       PieceType = 'q'
	Rook        PieceType = 'r'
	Bishop      PieceType = 'b'
	Knight      PieceType = 'n'
	Pawn        PieceType = 'p'
)

// PieceTypes lists the six piece types in legend order.
var PieceTypes = [6]PieceType{King, Queen, Rook, Bishop, Knight, Pawn}

func (t PieceType) Valid() bool {
	switch t {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return true
	}
	return false
}

func (t PieceType) String() string {
	if !t.Valid() {
		return ""
	}
	return string(rune(t))
}

// Name returns the English piece name, e.g. "knight".
func (t PieceType) Name() string {
	switch t {
	case King:
		return "king"
	case Queen:
		return "queen"
	case Rook:
		return "rook"
	case Bishop:
		return "bishop"
	case Knight:
		return "knight"
	case Pawn:
		return "pawn"
	default:
		return ""
	}
}

// PieceTypeFromSAN maps an uppercase SAN piece letter to its type.
func PieceTypeFromSAN(r byte) (PieceType, bool) {
	switch r {
	case 'K':
		return King, true
	case 'Q':
		return Queen, true
	case 'R':
		return Rook, true
	case 'B':
		return Bishop, true
	case 'N':
		return Knight, true
	}
	return NoPieceType, false
}

type PieceColor byte

const (
	NoColor PieceColor = 0
	White   PieceColor = 'w'
	Black   PieceColor = 'b'
)

var PieceColors = [2]PieceColor{White, Black}

func (c PieceColor) Valid() bool { return c == White || c == Black }

func (c PieceColor) String() string {
	if !c.Valid() {
		return ""
	}
	return string(rune(c))
}

func (c PieceColor) Name() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return ""
	}
}

// ColorForPly returns the mover of a 1-indexed ply.
func ColorForPly(moveNumber int) PieceColor {
	if moveNumber%2 == 0 {
		return Black
	}
	return White
}

// PieceClass abstracts away individual piece identity: all white pawns share one class.
type PieceClass struct {
	Type  PieceType
	Color PieceColor
}

func (c PieceClass) Valid() bool { return c.Type.Valid() && c.Color.Valid() }

// String returns the two-letter token, e.g. "wq".
func (c PieceClass) String() string {
	if !c.Valid() {
		return ""
	}
	return c.Color.String() + c.Type.String()
}

func (c PieceClass) Label() string {
	if !c.Valid() {
		return ""
	}
	return c.Color.Name() + " " + c.Type.Name()
}

// Index is the class position in AllClasses, or -1.
func (c PieceClass) Index() int {
	if !c.Valid() {
		return -1
	}
	base := 0
	if c.Color == Black {
		base = len(PieceTypes)
	}
	for i, t := range PieceTypes {
		if t == c.Type {
			return base + i
		}
	}
	return -1
}

// ParsePieceClass accepts tokens like "wq", "bN" or "white-knight".
func ParsePieceClass(s string) (PieceClass, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 2 {
		c := PieceClass{Color: PieceColor(s[0]), Type: PieceType(s[1])}
		return c, c.Valid()
	}
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return PieceClass{}, false
	}
	var c PieceClass
	for _, pc := range PieceColors {
		if pc.Name() == parts[0] {
			c.Color = pc
		}
	}
	for _, pt := range PieceTypes {
		if pt.Name() == parts[1] {
			c.Type = pt
		}
	}
	return c, c.Valid()
}

// AllClasses lists the 12 piece classes, white first, in legend order.
func AllClasses() []PieceClass {
	out := make([]PieceClass, 0, 12)
	for _, c := range PieceColors {
		out = append(out, ClassesOf(c)...)
	}
	return out
}

// ClassesOf lists the six classes of one color.
func ClassesOf(c PieceColor) []PieceClass {
	if !c.Valid() {
		return nil
	}
	out := make([]PieceClass, 0, len(PieceTypes))
	for _, t := range PieceTypes {
		out = append(out, PieceClass{Type: t, Color: c})
	}
	return out
}
