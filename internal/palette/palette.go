// Package palette resolves piece classes to display colors under a swappable
// named or custom palette.
package palette

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/park285/chess-heatmap/internal/domain"
)

// FallbackColor is returned for any slot that has no usable color.
const FallbackColor = "#808080"

// CustomID identifies the user-editable palette.
const CustomID = "custom"

// Resolver maps a piece class to a hex color. Implementations are total.
type Resolver interface {
	Resolve(class domain.PieceClass) string
}

// Palette is a 12-slot class to color table.
type Palette struct {
	ID     string
	Name   string
	colors [12]string
}

// New builds a palette from class tokens ("wq") to hex colors. Unknown tokens
// and invalid colors are reported; valid entries are still applied.
func New(id, name string, colors map[string]string) (Palette, error) {
	p := Palette{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)}
	var bad []string
	for token, hex := range colors {
		class, ok := domain.ParsePieceClass(token)
		if !ok || !p.Set(class, hex) {
			bad = append(bad, token)
		}
	}
	if len(bad) > 0 {
		return p, fmt.Errorf("palette %s: invalid entries %v", p.ID, sortedCopy(bad))
	}
	return p, nil
}

// Resolve implements Resolver; unset slots fall back to gray.
func (p Palette) Resolve(class domain.PieceClass) string {
	if c, ok := p.Color(class); ok {
		return c
	}
	return FallbackColor
}

// Color returns the configured color for class, if any.
func (p Palette) Color(class domain.PieceClass) (string, bool) {
	idx := class.Index()
	if idx < 0 || p.colors[idx] == "" {
		return "", false
	}
	return p.colors[idx], true
}

// Set assigns a slot. Invalid colors leave the slot untouched.
func (p *Palette) Set(class domain.PieceClass, hex string) bool {
	idx := class.Index()
	norm, ok := NormalizeHex(hex)
	if idx < 0 || !ok {
		return false
	}
	p.colors[idx] = norm
	return true
}

// Complete reports whether all 12 slots are set.
func (p Palette) Complete() bool {
	for _, c := range p.colors {
		if c == "" {
			return false
		}
	}
	return true
}

// Entries returns the slots keyed by class token, skipping unset ones.
func (p Palette) Entries() map[string]string {
	out := make(map[string]string, len(p.colors))
	for _, class := range domain.AllClasses() {
		if c, ok := p.Color(class); ok {
			out[class.String()] = c
		}
	}
	return out
}

// NewCustom seeds a custom palette with random colors: any hue, saturation
// 50-90%, lightness 35-65%.
func NewCustom(r *rand.Rand) Palette {
	p := Palette{ID: CustomID, Name: "Custom"}
	for _, class := range domain.AllClasses() {
		h := r.Float64() * 360
		s := 0.5 + r.Float64()*0.4
		l := 0.35 + r.Float64()*0.3
		p.Set(class, HSLToHex(h, s, l))
	}
	return p
}

// HSLToHex converts hue in degrees and saturation/lightness in [0,1].
func HSLToHex(h, s, l float64) string {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	s = clamp01(s)
	l = clamp01(l)

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(r+m), channel(g+m), channel(b+m))
}

// NormalizeHex accepts "#rgb" or "#rrggbb" (the '#' is optional) and returns
// the lowercase six-digit form.
func NormalizeHex(s string) (string, bool) {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return "", false
		}
	}
	switch len(s) {
	case 3:
		return "#" + string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]}), true
	case 6:
		return "#" + s, true
	}
	return "", false
}

func channel(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
