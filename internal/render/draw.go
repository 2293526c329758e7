package render

import (
	"image"
	"image/color"
	imagedraw "image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

func drawRoundedPanel(img *image.RGBA, r image.Rectangle, radius int, clr color.Color) {
	if img == nil || r.Empty() {
		return
	}
	if m := min(r.Dx(), r.Dy()) / 2; radius > m {
		radius = m
	}
	if radius < 0 {
		radius = 0
	}
	fill := image.NewUniform(clr)
	if radius == 0 {
		imagedraw.Draw(img, r, fill, image.Point{}, imagedraw.Over)
		return
	}

	// one vertical band and two side bands cover everything but the corners
	bands := []image.Rectangle{
		image.Rect(r.Min.X+radius, r.Min.Y, r.Max.X-radius, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y+radius, r.Min.X+radius, r.Max.Y-radius),
		image.Rect(r.Max.X-radius, r.Min.Y+radius, r.Max.X, r.Max.Y-radius),
	}
	for _, b := range bands {
		if !b.Empty() {
			imagedraw.Draw(img, b, fill, image.Point{}, imagedraw.Over)
		}
	}

	corners := []struct {
		center image.Point
		dx, dy int
	}{
		{image.Pt(r.Min.X+radius, r.Min.Y+radius), -1, -1},
		{image.Pt(r.Max.X-radius-1, r.Min.Y+radius), 1, -1},
		{image.Pt(r.Min.X+radius, r.Max.Y-radius-1), -1, 1},
		{image.Pt(r.Max.X-radius-1, r.Max.Y-radius-1), 1, 1},
	}
	rr := radius * radius
	for _, c := range corners {
		// row and column zero of each quarter already lie inside a band
		for y := 1; y <= radius; y++ {
			for x := 1; x <= radius; x++ {
				if x*x+y*y > rr {
					continue
				}
				blendPixel(img, c.center.X+c.dx*x, c.center.Y+c.dy*y, clr)
			}
		}
	}
}

// blendPixel composites clr over the pixel at (x, y) with source-over.
func blendPixel(img *image.RGBA, x, y int, clr color.Color) {
	if img == nil || !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	sr, sg, sb, sa := clr.RGBA()
	if sa == 0 {
		return
	}
	dst := img.RGBAAt(x, y)
	inv := 1 - float64(sa)/0xffff
	mix := func(s uint32, d uint8) uint8 {
		return floatToUint8(float64(s)/0xffff*255 + float64(d)*inv)
	}
	img.SetRGBA(x, y, color.RGBA{
		R: mix(sr, dst.R),
		G: mix(sg, dst.G),
		B: mix(sb, dst.B),
		A: mix(sa, dst.A),
	})
}

func floatToUint8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	text = strings.TrimSpace(text)
	if text == "" || maxWidth <= 0 || face == nil {
		return text
	}
	d := font.Drawer{Face: face}
	if d.MeasureString(text).Round() <= maxWidth {
		return text
	}
	const ellipsis = "..."
	if d.MeasureString(ellipsis).Round() > maxWidth {
		return ""
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		if c := string(runes) + ellipsis; d.MeasureString(c).Round() <= maxWidth {
			return c
		}
	}
	return ellipsis
}

type align int

const (
	alignStart align = iota
	alignMiddle
	alignEnd
)

// drawString draws text with its baseline at y, anchored at x. It returns
// the x just past the drawn text.
func drawString(d *font.Drawer, text string, x, y int, a align, clr color.Color) int {
	if text == "" {
		return x
	}
	width := d.MeasureString(text).Round()
	switch a {
	case alignMiddle:
		x -= width / 2
	case alignEnd:
		x -= width
	}
	d.Src = image.NewUniform(clr)
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
	return x + width
}
