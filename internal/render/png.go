package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"math"
	"strconv"

	"github.com/park285/chess-heatmap/internal/compositor"
	"github.com/park285/chess-heatmap/internal/domain"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

var ErrNilFrame = errors.New("render: frame is nil")

// PNG rasterizes f. Shapes go through the SVG document so both outputs share
// one geometry; text is drawn afterwards with a bitmap face.
func PNG(ctx context.Context, f *compositor.Frame, opts Options) ([]byte, error) {
	if f == nil {
		return nil, ErrNilFrame
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := newLayout(f, opts)
	t := themeFor(opts.Dark)
	w := int(math.Ceil(l.width))
	h := int(math.Ceil(l.height))

	var doc bytes.Buffer
	writeDocument(&doc, f, opts, false)
	icon, err := oksvg.ReadIconStream(&doc)
	if err != nil {
		return nil, fmt.Errorf("parse frame svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, imagedraw.Src)
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	drawer := &font.Drawer{Dst: img, Face: basicfont.Face7x13}
	drawHeader(img, drawer, f, opts, l, t)
	drawCoordinates(drawer, l, t)
	if opts.Legend {
		drawLegendLabels(drawer, f, l, t)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawHeader(img *image.RGBA, d *font.Drawer, f *compositor.Frame, opts Options, l layout, t Theme) {
	panel := image.Rect(
		int(l.header.X),
		int(l.header.Y),
		int(l.header.X+l.header.W),
		int(l.header.Y+l.header.H),
	)
	drawRoundedPanel(img, panel.Add(image.Pt(0, 6)), int(panelRadius), rgba(t.Shadow, 0.2))
	drawRoundedPanel(img, panel, int(panelRadius), rgba(t.Panel, 1))

	metrics := d.Face.Metrics()
	baseline := panel.Min.Y + (panel.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawString(d, status(f), panel.Max.X-16, baseline, alignEnd, rgba(t.TextDim, 1))

	room := panel.Dx() - 48 - d.MeasureString(status(f)).Round()
	if opts.Title != "" {
		drawString(d, truncateWithEllipsis(d.Face, title(f, opts), room), panel.Min.X+16, baseline, alignStart, rgba(t.Text, 1))
		return
	}
	white, black := players(f)
	nameColor := func(c domain.PieceColor) color.Color {
		if playerDim(f, c) {
			return rgba(t.TextDim, 1)
		}
		return rgba(t.Text, 1)
	}
	half := (room - d.MeasureString(" - ").Round()) / 2
	x := drawString(d, truncateWithEllipsis(d.Face, white, half), panel.Min.X+16, baseline, alignStart, nameColor(domain.White))
	x = drawString(d, " - ", x, baseline, alignStart, rgba(t.TextDim, 1))
	drawString(d, truncateWithEllipsis(d.Face, black, half), x, baseline, alignStart, nameColor(domain.Black))
}

func drawCoordinates(d *font.Drawer, l layout, t Theme) {
	clr := rgba(t.Coordinate, 1)
	ascent := d.Face.Metrics().Ascent.Ceil()
	for i := 0; i < 8; i++ {
		fileX := int(l.originX + (float64(i)+0.5)*l.side)
		drawString(d, string(rune('a'+i)), fileX, int(l.originY+l.board)+ascent+4, alignMiddle, clr)

		rankY := int(l.originY+(float64(7-i)+0.5)*l.side) + ascent/2
		drawString(d, strconv.Itoa(i+1), int(l.originX-gutter/2), rankY, alignMiddle, clr)
	}
}

func drawLegendLabels(d *font.Drawer, f *compositor.Frame, l layout, t Theme) {
	for i, e := range f.Legend {
		cell := l.legendCell(i)
		clr := rgba(t.Coordinate, 1)
		if e.Decision.Dim() {
			clr = rgba(t.TextDim, 1)
		}
		x := int(cell.X + legendSwatch + 6)
		y := int(cell.Y+(cell.H-legendSwatch)/2) + 13
		label := truncateWithEllipsis(d.Face, legendLabel(e), int(cell.W-legendSwatch-8))
		drawString(d, label, x, y, alignStart, clr)
	}
}
