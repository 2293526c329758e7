package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/park285/chess-heatmap/internal/compositor"
	"github.com/park285/chess-heatmap/internal/domain"
	"github.com/park285/chess-heatmap/internal/heatmap"
	"github.com/park285/chess-heatmap/internal/highlight"
	"github.com/park285/chess-heatmap/internal/palette"
	"golang.org/x/image/font/basicfont"
)

func testFrame(t *testing.T, st highlight.State) *compositor.Frame {
	t.Helper()
	cat, err := palette.LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	pos := func(s string) domain.Position {
		p, _ := domain.ParsePosition(s)
		return p
	}
	moves := []domain.MoveDescriptor{
		{MoveNumber: 1, SAN: "e4", Piece: domain.Pawn, Color: domain.White, To: pos("e4")},
		{MoveNumber: 2, SAN: "e5", Piece: domain.Pawn, Color: domain.Black, To: pos("e5")},
		{MoveNumber: 3, SAN: "Qh5", Piece: domain.Queen, Color: domain.White, To: pos("h5")},
		{MoveNumber: 4, SAN: "Nc6", Piece: domain.Knight, Color: domain.Black, To: pos("c6")},
		{MoveNumber: 5, SAN: "Qxe5+", Piece: domain.Queen, Color: domain.White, To: pos("e5"), Capture: true},
	}
	f := compositor.Build(compositor.Input{
		Board:      heatmap.Accumulate(moves),
		Moves:      moves,
		Info:       domain.GameInfo{White: "Alice", Black: "Bob & Co", Result: "1-0", ECOCode: "C20"},
		Cursor:     5,
		State:      st,
		Colors:     cat.Default(),
		PaletteID:  cat.Default().ID,
		SquareSize: 40,
		Options:    compositor.DefaultOptions(),
	})
	return &f
}

func TestSVGDocument(t *testing.T) {
	f := testFrame(t, highlight.State{})
	out, err := SVG(f, Options{Legend: true})
	if err != nil {
		t.Fatalf("SVG: %v", err)
	}
	doc := string(out)
	if !strings.HasPrefix(doc, "<svg ") || !strings.HasSuffix(doc, "</svg>\n") {
		t.Fatalf("not an svg document: %.60s", doc)
	}
	// background + header shadow + header + 64 squares + 5 layers + 12 swatches
	if got := strings.Count(doc, "<rect "); got != 3+64+5+12 {
		t.Fatalf("rect count = %d", got)
	}
	if !strings.Contains(doc, "Bob &amp; Co") {
		t.Fatalf("player name not escaped")
	}
	if !strings.Contains(doc, "move 5/5  C20  1-0") {
		t.Fatalf("status line missing")
	}
	if !strings.Contains(doc, "queen 2") {
		t.Fatalf("legend label missing")
	}

	again, _ := SVG(testFrame(t, highlight.State{}), Options{Legend: true})
	if !bytes.Equal(out, again) {
		t.Fatalf("svg output not deterministic")
	}
}

func TestSVGHighlightedFrame(t *testing.T) {
	wq := domain.PieceClass{Type: domain.Queen, Color: domain.White}
	f := testFrame(t, highlight.State{LockedPieces: []domain.PieceClass{wq}})
	out, err := SVG(f, Options{Dark: true})
	if err != nil {
		t.Fatalf("SVG: %v", err)
	}
	doc := string(out)
	if !strings.Contains(doc, `fill-opacity="0.15"`) {
		t.Fatalf("dimmed layers missing")
	}
	if !strings.Contains(doc, DarkTheme.Background) || strings.Contains(doc, LightTheme.LightSquare) {
		t.Fatalf("dark theme not applied")
	}
	if strings.Contains(doc, "queen 2") {
		t.Fatalf("legend drawn without the option")
	}
}

func TestSVGAnnotationDimsOtherPlayer(t *testing.T) {
	f := testFrame(t, highlight.State{HoveredAnnotation: highlight.AnnotationHover(highlight.WhitePlayer, domain.NoColor)})
	out, _ := SVG(f, Options{})
	doc := string(out)
	want := `<tspan fill="` + LightTheme.TextDim + `">Bob &amp; Co</tspan>`
	if !strings.Contains(doc, want) {
		t.Fatalf("black name should be dimmed:\n%s", doc)
	}
}

func TestPNG(t *testing.T) {
	f := testFrame(t, highlight.State{})
	opts := Options{Legend: true}
	out, err := PNG(context.Background(), f, opts)
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	l := newLayout(f, opts)
	if b := img.Bounds(); b.Dx() != int(math.Ceil(l.width)) || b.Dy() != int(math.Ceil(l.height)) {
		t.Fatalf("bounds = %v", b)
	}

	// a1 is dark and empty; sample its center
	a1X := int(l.originX + 20)
	a1Y := int(l.originY + 7*40 + 20)
	r, g, b, _ := img.At(a1X, a1Y).RGBA()
	want := rgba(LightTheme.DarkSquare, 1)
	near := func(got uint32, want uint8) bool {
		d := int(got>>8) - int(want)
		return d >= -2 && d <= 2
	}
	if !near(r, want.R) || !near(g, want.G) || !near(b, want.B) {
		t.Fatalf("a1 pixel = %d,%d,%d want %v", r>>8, g>>8, b>>8, want)
	}
}

func TestPNGCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := PNG(ctx, testFrame(t, highlight.State{}), Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, err := PNG(context.Background(), nil, Options{}); !errors.Is(err, ErrNilFrame) {
		t.Fatalf("err = %v, want ErrNilFrame", err)
	}
}

func TestBlendPixel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 200, G: 100, B: 0, A: 255})
	blendPixel(img, 0, 0, color.NRGBA{R: 0, G: 0, B: 255, A: 128})
	got := img.RGBAAt(0, 0)
	if got.A != 255 || got.B < 120 || got.B > 135 || got.R < 95 || got.R > 105 {
		t.Fatalf("blend = %+v", got)
	}
	blendPixel(img, 5, 5, color.Black)
}

func TestTruncateWithEllipsis(t *testing.T) {
	face := basicfont.Face7x13
	if got := truncateWithEllipsis(face, "short", 100); got != "short" {
		t.Fatalf("got %q", got)
	}
	got := truncateWithEllipsis(face, "a very long player name indeed", 70)
	if !strings.HasSuffix(got, "...") || len(got) > 10 {
		t.Fatalf("got %q", got)
	}
	if got := truncateWithEllipsis(face, "abc", 10); got != "" {
		t.Fatalf("got %q for a width below the ellipsis", got)
	}
}

func TestRGBA(t *testing.T) {
	if c := rgba("#fff", 1); c != (color.NRGBA{255, 255, 255, 255}) {
		t.Fatalf("rgba(#fff) = %v", c)
	}
	if c := rgba("nope", 0.5); c.R != 0x80 || c.A != 128 {
		t.Fatalf("rgba(nope) = %v", c)
	}
}
