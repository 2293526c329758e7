package domain

// Position addresses a square by file (0=a) and rank (0=1).
type Position struct {
	File int
	Rank int
}

func (p Position) Valid() bool {
	return p.File >= 0 && p.File < 8 && p.Rank >= 0 && p.Rank < 8
}

func (p Position) Index() int { return p.Rank*8 + p.File }

// Light reports the square shade; a1 is dark.
func (p Position) Light() bool { return (p.File+p.Rank)%2 == 1 }

func (p Position) String() string {
	if !p.Valid() {
		return ""
	}
	return string([]byte{byte('a' + p.File), byte('1' + p.Rank)})
}

func PositionFromIndex(i int) Position {
	return Position{File: i % 8, Rank: i / 8}
}

// ParsePosition accepts exactly ^[a-h][1-8]$.
func ParsePosition(s string) (Position, bool) {
	if len(s) != 2 {
		return Position{}, false
	}
	f, r := s[0], s[1]
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return Position{}, false
	}
	return Position{File: int(f - 'a'), Rank: int(r - '1')}, true
}
