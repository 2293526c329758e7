package compositor

import (
	"reflect"
	"testing"

	"github.com/park285/chess-heatmap/internal/domain"
	"github.com/park285/chess-heatmap/internal/heatmap"
	"github.com/park285/chess-heatmap/internal/highlight"
	"github.com/park285/chess-heatmap/internal/palette"
)

func testPalette(t *testing.T) palette.Palette {
	t.Helper()
	cat, err := palette.LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	p, ok := cat.Get("classic")
	if !ok {
		t.Fatalf("classic palette missing")
	}
	return p
}

func class(s string) domain.PieceClass {
	c, _ := domain.ParsePieceClass(s)
	return c
}

func visit(c string, n int) domain.SquareVisit {
	pc := class(c)
	return domain.SquareVisit{PieceType: pc.Type, PieceColor: pc.Color, MoveNumber: n}
}

func TestCompositeEmptySquare(t *testing.T) {
	if got := CompositeSquare(nil, testPalette(t), highlight.SquareDecision{}, Box{Side: 72}, DefaultOptions()); len(got) != 0 {
		t.Fatalf("empty square produced %d layers", len(got))
	}
}

func TestCompositeCollapsesUniqueColors(t *testing.T) {
	visits := []domain.SquareVisit{visit("wn", 1), visit("bp", 4), visit("wn", 9), visit("wq", 12)}
	layers := CompositeSquare(visits, testPalette(t), highlight.SquareDecision{}, Box{Side: 100}, DefaultOptions())
	if len(layers) != 3 {
		t.Fatalf("got %d layers, want 3", len(layers))
	}
	wantClasses := []string{"wn", "bp", "wq"}
	wantSizes := []float64{100, 85, 70}
	for i, l := range layers {
		if l.Class.String() != wantClasses[i] {
			t.Fatalf("layer %d class = %s, want %s", i, l.Class, wantClasses[i])
		}
		if l.Width != wantSizes[i] || l.Height != wantSizes[i] {
			t.Fatalf("layer %d size = %v, want %v", i, l.Width, wantSizes[i])
		}
		if l.X != (100-wantSizes[i])/2 {
			t.Fatalf("layer %d not centered: x=%v", i, l.X)
		}
		if l.Opacity != 1 || l.Kind != Fill {
			t.Fatalf("neutral layer %d = %+v", i, l)
		}
	}
}

func TestCompositeCapsLayers(t *testing.T) {
	var visits []domain.SquareVisit
	for i, c := range domain.AllClasses() {
		visits = append(visits, domain.SquareVisit{PieceType: c.Type, PieceColor: c.Color, MoveNumber: i + 1})
	}
	layers := CompositeSquare(visits, testPalette(t), highlight.SquareDecision{}, Box{Side: 72}, DefaultOptions())
	if len(layers) != DefaultMaxLayers {
		t.Fatalf("got %d layers, want %d", len(layers), DefaultMaxLayers)
	}

	opts := DefaultOptions()
	opts.LayerStep = 0.25
	layers = CompositeSquare(visits, testPalette(t), highlight.SquareDecision{}, Box{Side: 100}, opts)
	// 100, 75, 50, 25; the next would be below the minimum
	if len(layers) != 4 {
		t.Fatalf("got %d layers, want 4", len(layers))
	}
	for _, l := range layers {
		if l.Width < 10 {
			t.Fatalf("layer below minimum size: %v", l.Width)
		}
	}
}

func TestCompositeDeterministic(t *testing.T) {
	moves := []domain.MoveDescriptor{
		{MoveNumber: 1, Piece: domain.Knight, Color: domain.White, To: mustPos("f3")},
		{MoveNumber: 2, Piece: domain.Pawn, Color: domain.Black, To: mustPos("f3")},
		{MoveNumber: 3, Piece: domain.Queen, Color: domain.White, To: mustPos("f3")},
	}
	board := heatmap.Accumulate(moves)
	sq := board.At(mustPos("f3"))
	st := highlight.State{LockedPieces: []domain.PieceClass{class("wn"), class("bp")}, CompareMode: true}
	d := highlight.ClassifySquare(sq, st)
	p := testPalette(t)
	first := CompositeSquare(sq.Visits, p, d, Box{X: 360, Y: 144, Side: 72}, DefaultOptions())
	for i := 0; i < 20; i++ {
		again := CompositeSquare(sq.Visits, p, highlight.ClassifySquare(sq, st), Box{X: 360, Y: 144, Side: 72}, DefaultOptions())
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs", i)
		}
	}
	last := first[len(first)-1]
	if last.Kind != Ring || last.Stroke != OverlapRing {
		t.Fatalf("overlap square missing ring: %+v", last)
	}
}

func TestCompositeDimOpacity(t *testing.T) {
	visits := []domain.SquareVisit{visit("wn", 1), visit("bq", 2)}
	d := highlight.SquareDecision{
		Emphasis: highlight.Emphasized,
		Source:   highlight.LockSource,
		Visits:   []highlight.VisitMatch{{Emphasis: highlight.Dimmed}, {Emphasis: highlight.Emphasized, Role: highlight.FirstRole}},
	}
	opts := DefaultOptions()
	opts.PieceOpacity = 0.8
	layers := CompositeSquare(visits, testPalette(t), d, Box{Side: 72}, opts)
	if layers[0].Opacity != 0.12 {
		t.Fatalf("dimmed opacity = %v, want 0.12", layers[0].Opacity)
	}
	if layers[1].Opacity != 0.8 || layers[1].Role != highlight.FirstRole {
		t.Fatalf("emphasized layer = %+v", layers[1])
	}
}

func TestCollapseTieBreak(t *testing.T) {
	// both knights share one color; the later visit's stronger match wins
	visits := []domain.SquareVisit{visit("wn", 1), visit("wn", 5)}
	d := highlight.SquareDecision{Visits: []highlight.VisitMatch{{Emphasis: highlight.Weak}, {Emphasis: highlight.Strong}}}
	layers := CompositeSquare(visits, testPalette(t), d, Box{Side: 72}, DefaultOptions())
	if len(layers) != 1 || layers[0].Emphasis != highlight.Strong || layers[0].Stroke != GlowStroke {
		t.Fatalf("layers = %+v", layers)
	}

	d.Visits = []highlight.VisitMatch{{Emphasis: highlight.Emphasized, Role: highlight.FirstRole}, {Emphasis: highlight.Weak}}
	layers = CompositeSquare(visits, testPalette(t), d, Box{Side: 72}, DefaultOptions())
	if layers[0].Emphasis != highlight.Emphasized || layers[0].Role != highlight.FirstRole {
		t.Fatalf("first match should stand: %+v", layers[0])
	}
}

func TestCompositeDecorations(t *testing.T) {
	visits := []domain.SquareVisit{visit("wp", 1)}
	d := highlight.SquareDecision{Emphasis: highlight.Strong, MoveTarget: true, Hovered: true, Visits: []highlight.VisitMatch{{Emphasis: highlight.Strong}}}
	layers := CompositeSquare(visits, testPalette(t), d, Box{Side: 72}, DefaultOptions())
	if len(layers) != 3 {
		t.Fatalf("got %d layers, want fill + 2 rings", len(layers))
	}
	if layers[1].Stroke != MoveTargetRing || layers[2].Stroke != HoverRing {
		t.Fatalf("ring order = %s, %s", layers[1].Stroke, layers[2].Stroke)
	}
	// a hovered empty square still gets its ring
	if got := CompositeSquare(nil, testPalette(t), highlight.SquareDecision{Hovered: true}, Box{Side: 72}, DefaultOptions()); len(got) != 1 {
		t.Fatalf("empty hovered square = %+v", got)
	}
}

func TestBuildFrame(t *testing.T) {
	moves := []domain.MoveDescriptor{
		{MoveNumber: 1, SAN: "e4", Piece: domain.Pawn, Color: domain.White, To: mustPos("e4")},
		{MoveNumber: 2, SAN: "e5", Piece: domain.Pawn, Color: domain.Black, To: mustPos("e5")},
		{MoveNumber: 3, SAN: "Nf3", Piece: domain.Knight, Color: domain.White, To: mustPos("f3")},
	}
	board := heatmap.Accumulate(moves)
	wn := class("wn")
	f := Build(Input{
		Board:      board,
		Moves:      moves,
		Cursor:     2,
		State:      highlight.State{HighlightedPiece: &wn},
		Colors:     testPalette(t),
		PaletteID:  "classic",
		SquareSize: 50,
		Options:    DefaultOptions(),
	})
	if f.Cursor != 2 || f.Total != 3 || f.Visible() != 2 {
		t.Fatalf("cursor=%d total=%d visible=%d", f.Cursor, f.Total, f.Visible())
	}
	a8 := f.Squares[mustPos("a8").Index()]
	if a8.Box.X != 0 || a8.Box.Y != 0 {
		t.Fatalf("a8 box = %+v", a8.Box)
	}
	e4, _ := f.Lookup("e4")
	if e4.Box.X != 200 || e4.Box.Y != 200 || len(e4.Layers) != 1 || !e4.Decision.Dim() {
		t.Fatalf("e4 = %+v", e4)
	}
	if f3, _ := f.Lookup("f3"); len(f3.Layers) != 0 {
		t.Fatalf("f3 shown past cursor: %+v", f3.Layers)
	}
	if f.Legend[wn.Index()].Decision.Emphasis != highlight.Emphasized || f.Legend[wn.Index()].Visits != 0 {
		t.Fatalf("legend wn = %+v", f.Legend[wn.Index()])
	}
	if !f.Moves[2].Future || !f.Moves[1].Current || f.Moves[2].Decision.Emphasis != highlight.Emphasized {
		t.Fatalf("moves = %+v", f.Moves)
	}

	f = Build(Input{Board: board, Moves: moves, Cursor: 99})
	if f.Cursor != 3 || f.Visible() != 3 {
		t.Fatalf("cursor past the end should show everything, got %d/%d", f.Cursor, f.Visible())
	}
}

func TestBuildEmptyGame(t *testing.T) {
	f := Build(Input{Board: domain.NewBoard()})
	if f.Total != 0 || f.Visible() != 0 || len(f.Moves) != 0 {
		t.Fatalf("empty frame = %+v", f)
	}
	for _, e := range f.Legend {
		if e.Color != palette.FallbackColor || e.Decision.Emphasis != highlight.Neutral {
			t.Fatalf("legend entry = %+v", e)
		}
	}
}

func mustPos(name string) domain.Position {
	p, ok := domain.ParsePosition(name)
	if !ok {
		panic(name)
	}
	return p
}
