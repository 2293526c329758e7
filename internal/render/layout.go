package render

import (
	"fmt"
	"strings"

	"github.com/park285/chess-heatmap/internal/compositor"
	"github.com/park285/chess-heatmap/internal/domain"
	"github.com/park285/chess-heatmap/internal/highlight"
)

// Options selects the presentation around the board.
type Options struct {
	Dark   bool
	Legend bool
	// Title replaces the "White - Black" header line when set.
	Title string
}

const (
	padding      = 24.0
	gutter       = 24.0
	headerHeight = 40.0
	headerGap    = 18.0
	panelRadius  = 12.0
	legendRow    = 26.0
	legendSwatch = 18.0
)

type layout struct {
	side      float64
	board     float64
	originX   float64
	originY   float64
	header    rect
	legendTop float64
	width     float64
	height    float64
}

type rect struct {
	X, Y, W, H float64
}

func newLayout(f *compositor.Frame, opts Options) layout {
	side := f.SquareSize
	if side <= 0 {
		side = 72
	}
	l := layout{side: side, board: side * 8}
	l.originX = padding + gutter
	l.originY = padding + headerHeight + headerGap
	l.header = rect{X: l.originX, Y: padding, W: l.board, H: headerHeight}
	l.width = l.originX + l.board + gutter + padding
	l.height = l.originY + l.board + gutter
	if opts.Legend {
		l.legendTop = l.height + 8
		l.height = l.legendTop + 2*legendRow
	}
	l.height += padding
	return l
}

func (l layout) legendCell(i int) rect {
	col := i % len(domain.PieceTypes)
	row := i / len(domain.PieceTypes)
	cellW := l.board / float64(len(domain.PieceTypes))
	return rect{X: l.originX + float64(col)*cellW, Y: l.legendTop + float64(row)*legendRow, W: cellW, H: legendRow}
}

func title(f *compositor.Frame, opts Options) string {
	if t := strings.TrimSpace(opts.Title); t != "" {
		return t
	}
	white, black := players(f)
	return white + " - " + black
}

func players(f *compositor.Frame) (string, string) {
	white := strings.TrimSpace(f.Info.White)
	if white == "" || white == "?" {
		white = "White"
	}
	black := strings.TrimSpace(f.Info.Black)
	if black == "" || black == "?" {
		black = "Black"
	}
	return white, black
}

func status(f *compositor.Frame) string {
	parts := []string{fmt.Sprintf("move %d/%d", f.Cursor, f.Total)}
	if f.Info.ECOCode != "" {
		parts = append(parts, f.Info.ECOCode)
	}
	if f.Info.Result != "" && f.Info.Result != "*" {
		parts = append(parts, f.Info.Result)
	}
	return strings.Join(parts, "  ")
}

func legendLabel(e compositor.LegendEntry) string {
	label := fmt.Sprintf("%s %d", e.Class.Type.Name(), e.Visits)
	switch e.Decision.Role {
	case highlight.FirstRole:
		label += " [1]"
	case highlight.SecondRole:
		label += " [2]"
	}
	return label
}

func legendOpacity(e compositor.LegendEntry) float64 {
	if e.Decision.Dim() {
		return 0.3
	}
	return 1
}

// playerDim reports whether a player's name is dimmed by an annotation hover
// on the other player.
func playerDim(f *compositor.Frame, color domain.PieceColor) bool {
	a := f.State.HoveredAnnotation
	if a == nil || len(a.Pieces) == 0 {
		return false
	}
	return a.Pieces[0].Color != color
}
