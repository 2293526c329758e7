package compositor

import (
	"github.com/park285/chess-heatmap/internal/domain"
	"github.com/park285/chess-heatmap/internal/heatmap"
	"github.com/park285/chess-heatmap/internal/highlight"
	"github.com/park285/chess-heatmap/internal/palette"
)

// Input is everything one frame depends on. Board is the full accumulated
// history; the cursor filter is applied here.
type Input struct {
	Board      domain.Board
	Moves      []domain.MoveDescriptor
	Info       domain.GameInfo
	Cursor     int
	State      highlight.State
	Colors     palette.Resolver
	PaletteID  string
	SquareSize float64
	Options    Options
}

type Square struct {
	Name     string
	Position domain.Position
	Light    bool
	Box      Box
	Visits   []domain.SquareVisit
	Decision highlight.SquareDecision
	Layers   []Layer
}

type LegendEntry struct {
	Class    domain.PieceClass
	Color    string
	Visits   int
	Decision highlight.EntryDecision
}

type MoveEntry struct {
	Move     domain.MoveDescriptor
	Color    string
	Current  bool
	Future   bool
	Decision highlight.EntryDecision
}

// Frame is one fully resolved board image: 64 composited squares, the
// 12-entry legend and the move list, all under a single highlight state.
type Frame struct {
	Info       domain.GameInfo
	PaletteID  string
	Cursor     int
	Total      int
	SquareSize float64
	State      highlight.State
	Squares    [64]Square
	Legend     [12]LegendEntry
	Moves      []MoveEntry
}

// Lookup returns the frame square for an algebraic name.
func (f *Frame) Lookup(name string) (Square, bool) {
	pos, ok := domain.ParsePosition(name)
	if !ok {
		return Square{}, false
	}
	return f.Squares[pos.Index()], true
}

// Visible counts visits shown at the cursor.
func (f *Frame) Visible() int {
	n := 0
	for _, sq := range f.Squares {
		n += len(sq.Visits)
	}
	return n
}

// Build resolves a frame. Squares are laid out from White's side: a8 at the
// top-left corner.
func Build(in Input) Frame {
	side := in.SquareSize
	if side <= 0 {
		side = 72
	}
	colors := in.Colors
	if colors == nil {
		colors = palette.Palette{}
	}
	total := len(in.Moves)
	if t := in.Board.MaxMoveNumber(); t > total {
		total = t
	}
	cursor := heatmap.ClampCursor(in.Cursor, total)
	view := heatmap.Filter(in.Board, cursor)

	f := Frame{
		Info:       in.Info,
		PaletteID:  in.PaletteID,
		Cursor:     cursor,
		Total:      total,
		SquareSize: side,
		State:      in.State.Clone(),
	}

	var counts [12]int
	for i, sq := range view.Squares {
		box := Box{
			X:    float64(sq.Position.File) * side,
			Y:    float64(7-sq.Position.Rank) * side,
			Side: side,
		}
		d := highlight.ClassifySquare(sq, in.State)
		f.Squares[i] = Square{
			Name:     sq.Name(),
			Position: sq.Position,
			Light:    sq.Light(),
			Box:      box,
			Visits:   sq.Visits,
			Decision: d,
			Layers:   CompositeSquare(sq.Visits, colors, d, box, in.Options),
		}
		for _, v := range sq.Visits {
			if idx := v.Class().Index(); idx >= 0 {
				counts[idx]++
			}
		}
	}

	for i, class := range domain.AllClasses() {
		f.Legend[i] = LegendEntry{
			Class:    class,
			Color:    colors.Resolve(class),
			Visits:   counts[i],
			Decision: highlight.ClassifyLegend(class, in.State),
		}
	}

	f.Moves = make([]MoveEntry, 0, len(in.Moves))
	for _, mv := range in.Moves {
		f.Moves = append(f.Moves, MoveEntry{
			Move:     mv,
			Color:    colors.Resolve(mv.Class()),
			Current:  mv.MoveNumber == cursor,
			Future:   mv.MoveNumber > cursor,
			Decision: highlight.ClassifyMove(mv, in.State),
		})
	}
	return f
}
