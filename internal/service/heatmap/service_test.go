package heatmap

import (
	"bytes"
	"context"
	"image/png"
	"sort"
	"strings"
	"testing"

	nchess "github.com/corentings/chess/v2"
	"github.com/park285/chess-heatmap/internal/compositor"
	"github.com/park285/chess-heatmap/internal/highlight"
	"github.com/park285/chess-heatmap/internal/palette"
	"github.com/park285/chess-heatmap/pkg/heatmapdto"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const ruyLopez = `[Event "Casual"]
[White "Alice"]
[Black "Bob"]
[Result "*"]

1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 4. Ba4 Nf6 5. O-O Be7 *
`

func newTestService(t *testing.T, logger *zap.Logger) *Service {
	t.Helper()
	cat, err := palette.LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	return NewService(palette.NewContext(cat, "classic"), highlight.NewStore(), nil, Config{
		SquareSize:   40,
		Layers:       compositor.DefaultOptions(),
		ShowLegend:   true,
		PieceOpacity: 1,
	}, logger)
}

func TestLoadPGN(t *testing.T) {
	s := newTestService(t, nil)
	g := s.LoadPGN([]byte(ruyLopez))
	if g.Total() != 10 {
		t.Fatalf("plies = %d", g.Total())
	}
	// castling adds the rook visit
	if got := g.Board.TotalVisits(); got != 11 {
		t.Fatalf("visits = %d, want 11", got)
	}
	if s.Cursor() != 10 {
		t.Fatalf("cursor should start at the end, got %d", s.Cursor())
	}
	h := s.Header()
	if h.White != "Alice" || h.Black != "Bob" || h.Plies != 10 || h.GameID != g.ID.String() {
		t.Fatalf("header = %+v", h)
	}
	f := s.Frame()
	if f.Visible() != 11 || f.PaletteID != "classic" {
		t.Fatalf("frame visible=%d palette=%s", f.Visible(), f.PaletteID)
	}
}

func TestLoadGarbageDegrades(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := newTestService(t, zap.New(core))
	g := s.LoadPGN([]byte("this is not a chess game"))
	if g.Total() != 0 || g.Board.TotalVisits() != 0 {
		t.Fatalf("garbage produced %d moves", g.Total())
	}
	if logs.FilterMessage("pgn_unparseable").Len() != 1 {
		t.Fatalf("expected a warning, got %v", logs.All())
	}
	f := s.Frame()
	if f.Visible() != 0 || f.Total != 0 {
		t.Fatalf("empty frame = %d/%d", f.Visible(), f.Total)
	}
	if _, err := s.RenderSVG(); err != nil {
		t.Fatalf("empty board should still render: %v", err)
	}

	if g := s.LoadSAN([]string{"e4", "Ke7", "Qh5", "Zz9"}); g.Total() != 0 {
		t.Fatalf("illegal SAN list loaded %d moves", g.Total())
	}
	if logs.FilterMessage("san_list_rejected").Len() != 1 {
		t.Fatalf("expected san warning")
	}
}

func TestCursorClamps(t *testing.T) {
	s := newTestService(t, nil)
	s.LoadSAN([]string{"e4", "e5", "Nf3"})
	if got := s.SetCursor(99); got != 3 {
		t.Fatalf("SetCursor(99) = %d", got)
	}
	if got := s.SetCursor(-2); got != 0 {
		t.Fatalf("SetCursor(-2) = %d", got)
	}
	s.Step(1)
	if got := s.Step(1); got != 2 {
		t.Fatalf("Step = %d", got)
	}
	if f := s.Frame(); f.Visible() != 2 || f.Cursor != 2 {
		t.Fatalf("frame at 2: %d visible", f.Visible())
	}
}

func TestGameChangeResetsHighlights(t *testing.T) {
	s := newTestService(t, nil)
	s.LoadPGN([]byte(ruyLopez))
	s.ToggleLock("wb")
	s.SetCompareMode(true)
	s.HoverSquare("a4")
	if st := s.Highlights().Highlights(); len(st.LockedPieces) != 1 || st.HoveredSquare == nil {
		t.Fatalf("state = %+v", st)
	}
	s.LoadSAN([]string{"d4"})
	if st := s.Highlights().Highlights(); st.Active() || st.CompareMode {
		t.Fatalf("highlights survived a game change: %+v", st)
	}
}

func TestCompareOverlapThroughService(t *testing.T) {
	s := newTestService(t, nil)
	// both queens reach d4 at different times
	s.LoadSAN([]string{"e4", "d5", "exd5", "Qxd5", "Nc3", "Qd4", "Nf3", "Qe4+", "Qe2", "Qd4"})
	s.ToggleLock("bq")
	s.ToggleLock("wn")
	s.SetCompareMode(true)
	f := s.Frame()
	d4, _ := f.Lookup("d4")
	if d4.Decision.Overlap != highlight.OnlyFirst {
		t.Fatalf("d4 = %s", d4.Decision.Overlap)
	}
	if !s.ToggleLock("white-queen") || s.ToggleLock("zz") {
		t.Fatalf("lock token handling")
	}
	locks := s.Highlights().Highlights().LockedPieces
	if len(locks) != 2 || locks[0].String() != "wn" || locks[1].String() != "wq" {
		t.Fatalf("locks = %v", locks)
	}
}

func TestHoverInputs(t *testing.T) {
	s := newTestService(t, nil)
	s.LoadPGN([]byte(ruyLopez))

	s.HoverMove(5)
	f := s.Frame()
	b5, _ := f.Lookup("b5")
	if !b5.Decision.MoveTarget || b5.Decision.Emphasis != highlight.Strong {
		t.Fatalf("b5 = %+v", b5.Decision)
	}
	s.HoverMove(0)

	s.HoverLegend("bn")
	f = s.Frame()
	if e := f.Legend[10]; e.Class.String() != "bn" || e.Decision.Emphasis != highlight.Emphasized {
		t.Fatalf("legend bn = %+v", e)
	}
	s.HoverLegend("??")
	s.HoverAnnotation(highlight.MoveNotation, 2)
	st := s.Highlights().Highlights()
	if st.HighlightedPiece != nil || st.HoveredAnnotation == nil || st.HoveredAnnotation.Pieces[0].Color.String() != "b" {
		t.Fatalf("state = %+v", st)
	}
	s.ClearHovers()
	if s.Highlights().Highlights().Active() {
		t.Fatalf("hovers not cleared")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := newTestService(t, zap.New(core))
	s.LoadPGN([]byte(ruyLopez))
	s.UsePalette("ember")
	s.ToggleLock("wn")
	s.SetCursor(6)
	s.SetDarkMode(true)
	s.SetPieceOpacity(0.6)

	snap := s.Snapshot()
	want := heatmapdto.Snapshot{PaletteID: "ember", LockedPieces: []string{"wn"}, DarkMode: true, CurrentMove: 6, PieceOpacity: 0.6}
	if snap.PaletteID != want.PaletteID || snap.CurrentMove != 6 || !snap.DarkMode || snap.PieceOpacity != 0.6 || strings.Join(snap.LockedPieces, ",") != "wn" {
		t.Fatalf("snapshot = %+v", snap)
	}

	other := newTestService(t, zap.New(core))
	other.LoadPGN([]byte(ruyLopez))
	snap.CurrentMove = 500
	other.ApplySnapshot(snap)
	if other.Cursor() != 10 || other.Palettes().Active().ID != "ember" {
		t.Fatalf("cursor=%d palette=%s", other.Cursor(), other.Palettes().Active().ID)
	}
	if other.UsePalette("nope") {
		t.Fatalf("unknown palette accepted")
	}
	if logs.FilterMessage("palette_unknown").Len() != 1 {
		t.Fatalf("palette warning missing")
	}
}

func TestRenderPNG(t *testing.T) {
	s := newTestService(t, nil)
	s.LoadPGN([]byte(ruyLopez))
	out, err := s.RenderPNG(context.Background())
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(out)); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestSetLocksAndRandomPalette(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := newTestService(t, zap.New(core))
	s.LoadPGN([]byte(ruyLopez))
	locks := s.SetLocks([]string{"wq", "bogus", " bn ", "wb"})
	if len(locks) != 2 || locks[0].String() != "bn" || locks[1].String() != "wb" {
		t.Fatalf("locks = %v", locks)
	}
	if logs.FilterMessage("lock_unknown_piece").Len() != 1 {
		t.Fatalf("unknown token not logged")
	}
	if got := s.SetLocks(nil); len(got) != 0 {
		t.Fatalf("locks not cleared: %v", got)
	}

	a := s.RandomPalette(7)
	if !a.Complete() || s.Palettes().Active().ID != palette.CustomID {
		t.Fatalf("custom palette not active: %+v", a)
	}
	b := s.RandomPalette(7)
	if strings.Join(sortedEntries(a), ",") != strings.Join(sortedEntries(b), ",") {
		t.Fatalf("same seed gave different palettes")
	}
	if snap := s.Snapshot(); len(snap.CustomPalette) != 12 {
		t.Fatalf("custom palette not captured: %d", len(snap.CustomPalette))
	}
}

func sortedEntries(p palette.Palette) []string {
	out := make([]string, 0, 12)
	for k, v := range p.Entries() {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

func TestLoadGame(t *testing.T) {
	s := newTestService(t, nil)
	g := nchess.NewGame()
	for _, san := range []string{"d4", "d5", "c4"} {
		if err := g.PushNotationMove(san, nchess.AlgebraicNotation{}, nil); err != nil {
			t.Fatalf("push %s: %v", san, err)
		}
	}
	loaded := s.LoadGame(g)
	if loaded.Total() != 3 || s.Cursor() != 3 {
		t.Fatalf("total=%d cursor=%d", loaded.Total(), s.Cursor())
	}
	if s.Highlights().GameID() != loaded.ID {
		t.Fatalf("highlight store not bound to the loaded game")
	}
}
