package render

import (
	"image/color"
	"strconv"

	"github.com/park285/chess-heatmap/internal/palette"
)

// Theme holds the non-palette colors of a rendered frame.
type Theme struct {
	Background  string
	LightSquare string
	DarkSquare  string
	Panel       string
	Shadow      string
	Text        string
	TextDim     string
	Coordinate  string
}

var (
	LightTheme = Theme{
		Background:  "#f6f1e7",
		LightSquare: "#e9cfa3",
		DarkSquare:  "#bb8860",
		Panel:       "#1c1f2e",
		Shadow:      "#000000",
		Text:        "#eceff9",
		TextDim:     "#8a8fa3",
		Coordinate:  "#5b4a3a",
	}
	DarkTheme = Theme{
		Background:  "#101218",
		LightSquare: "#3a3f4b",
		DarkSquare:  "#262a33",
		Panel:       "#20242f",
		Shadow:      "#000000",
		Text:        "#eceff9",
		TextDim:     "#6b7080",
		Coordinate:  "#08d678",
	}
)

func themeFor(dark bool) Theme {
	if dark {
		return DarkTheme
	}
	return LightTheme
}

func (t Theme) square(light bool) string {
	if light {
		return t.LightSquare
	}
	return t.DarkSquare
}

// rgba parses a theme or palette hex color; unparsable input yields the
// palette fallback gray.
func rgba(hex string, alpha float64) color.NRGBA {
	norm, ok := palette.NormalizeHex(hex)
	if !ok {
		norm = palette.FallbackColor
	}
	v, err := strconv.ParseUint(norm[1:], 16, 32)
	if err != nil {
		v = 0x808080
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: floatToUint8(alpha * 255),
	}
}
