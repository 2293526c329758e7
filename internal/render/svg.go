package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/park285/chess-heatmap/internal/compositor"
	"github.com/park285/chess-heatmap/internal/domain"
)

// SVG encodes f as a standalone SVG document.
func SVG(f *compositor.Frame, opts Options) ([]byte, error) {
	if f == nil {
		return nil, ErrNilFrame
	}
	var buf bytes.Buffer
	writeDocument(&buf, f, opts, true)
	return buf.Bytes(), nil
}

// writeDocument emits every shape of the frame. The raster path passes
// chrome=false and draws the header and text itself.
func writeDocument(buf *bytes.Buffer, f *compositor.Frame, opts Options, chrome bool) {
	l := newLayout(f, opts)
	t := themeFor(opts.Dark)

	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(l.width), num(l.height), num(l.width), num(l.height))
	writeRect(buf, rect{W: l.width, H: l.height}, t.Background, 1, "", 0, 0)

	if chrome {
		writeRect(buf, rect{X: l.header.X, Y: l.header.Y + 6, W: l.header.W, H: l.header.H}, t.Shadow, 0.2, "", 0, panelRadius)
		writeRect(buf, l.header, t.Panel, 1, "", 0, panelRadius)
		baseline := l.header.Y + l.header.H/2 + 5
		writeTitle(buf, l.header.X+16, baseline, f, opts, t)
		writeText(buf, l.header.X+l.header.W-16, baseline, "end", t.TextDim, 12, status(f))
	}

	for _, sq := range f.Squares {
		r := rect{X: l.originX + sq.Box.X, Y: l.originY + sq.Box.Y, W: sq.Box.Side, H: sq.Box.Side}
		writeRect(buf, r, t.square(sq.Light), 1, "", 0, 0)
	}
	for _, sq := range f.Squares {
		for _, layer := range sq.Layers {
			r := rect{X: l.originX + layer.X, Y: l.originY + layer.Y, W: layer.Width, H: layer.Height}
			fill := layer.Fill
			if layer.Kind == compositor.Ring {
				fill = ""
			}
			writeRect(buf, r, fill, layer.Opacity, layer.Stroke, layer.StrokeWidth, 0)
		}
	}

	if chrome {
		for i := 0; i < 8; i++ {
			x := l.originX + (float64(i)+0.5)*l.side
			y := l.originY + (float64(7-i)+0.5)*l.side
			writeText(buf, x, l.originY+l.board+gutter*0.7, "middle", t.Coordinate, 12, string(rune('a'+i)))
			writeText(buf, l.originX-gutter/2, y+4, "middle", t.Coordinate, 12, strconv.Itoa(i+1))
		}
	}

	if opts.Legend {
		for i, e := range f.Legend {
			cell := l.legendCell(i)
			sw := rect{X: cell.X, Y: cell.Y + (cell.H-legendSwatch)/2, W: legendSwatch, H: legendSwatch}
			stroke := ""
			if e.Decision.Emphasis.Emphasized() {
				stroke = t.Coordinate
			}
			writeRect(buf, sw, e.Color, legendOpacity(e), stroke, 2, 3)
			if chrome {
				clr := t.Coordinate
				if e.Decision.Dim() {
					clr = t.TextDim
				}
				writeText(buf, sw.X+legendSwatch+6, sw.Y+13, "start", clr, 11, legendLabel(e))
			}
		}
	}

	buf.WriteString("</svg>\n")
}

func writeRect(buf *bytes.Buffer, r rect, fill string, opacity float64, stroke string, strokeWidth, radius float64) {
	fmt.Fprintf(buf, `<rect x="%s" y="%s" width="%s" height="%s"`, num(r.X), num(r.Y), num(r.W), num(r.H))
	if radius > 0 {
		fmt.Fprintf(buf, ` rx="%s" ry="%s"`, num(radius), num(radius))
	}
	if fill == "" {
		buf.WriteString(` fill="none"`)
	} else {
		fmt.Fprintf(buf, ` fill="%s"`, fill)
		if opacity < 1 {
			fmt.Fprintf(buf, ` fill-opacity="%s"`, num(opacity))
		}
	}
	if stroke != "" && strokeWidth > 0 {
		fmt.Fprintf(buf, ` stroke="%s" stroke-width="%s"`, stroke, num(strokeWidth))
		if opacity < 1 {
			fmt.Fprintf(buf, ` stroke-opacity="%s"`, num(opacity))
		}
	}
	buf.WriteString("/>\n")
}

func writeText(buf *bytes.Buffer, x, y float64, anchor, fill string, size int, text string) {
	fmt.Fprintf(buf, `<text x="%s" y="%s" text-anchor="%s" fill="%s" font-family="sans-serif" font-size="%d">`,
		num(x), num(y), anchor, fill, size)
	_ = xml.EscapeText(buf, []byte(text))
	buf.WriteString("</text>\n")
}

// writeTitle dims a player's name while the other player's label is hovered.
func writeTitle(buf *bytes.Buffer, x, y float64, f *compositor.Frame, opts Options, t Theme) {
	if opts.Title != "" {
		writeText(buf, x, y, "start", t.Text, 14, title(f, opts))
		return
	}
	white, black := players(f)
	fmt.Fprintf(buf, `<text x="%s" y="%s" font-family="sans-serif" font-size="14">`, num(x), num(y))
	for _, part := range []struct {
		text  string
		color domain.PieceColor
	}{{white, domain.White}, {" - ", domain.NoColor}, {black, domain.Black}} {
		fill := t.Text
		if part.color != domain.NoColor && playerDim(f, part.color) {
			fill = t.TextDim
		}
		fmt.Fprintf(buf, `<tspan fill="%s">`, fill)
		_ = xml.EscapeText(buf, []byte(part.text))
		buf.WriteString("</tspan>")
	}
	buf.WriteString("</text>\n")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
