package compositor

import (
	"math"

	"github.com/park285/chess-heatmap/internal/domain"
	"github.com/park285/chess-heatmap/internal/highlight"
	"github.com/park285/chess-heatmap/internal/palette"
	"github.com/park285/chess-heatmap/pkg/heatmapdto"
)

const (
	DefaultMaxLayers    = 6
	DefaultLayerStep    = 0.15
	DefaultMinLayer     = 0.10
	DefaultDimOpacity   = 0.15
	DefaultPieceOpacity = 1.0
)

// Ring colors keyed to the decoration reason.
const (
	OverlapRing    = "#ffd54a"
	MoveTargetRing = "#ffffff"
	HoverRing      = "#4fc3f7"
	GlowStroke     = "#ffffff"
)

// Options tunes layer geometry and opacity. Zero geometry fields and a zero
// DimOpacity take the defaults; PieceOpacity is clamped to [0,1] as given.
type Options struct {
	MaxLayers    int
	LayerStep    float64
	MinLayer     float64
	DimOpacity   float64
	PieceOpacity float64
}

func DefaultOptions() Options {
	return Options{
		MaxLayers:    DefaultMaxLayers,
		LayerStep:    DefaultLayerStep,
		MinLayer:     DefaultMinLayer,
		DimOpacity:   DefaultDimOpacity,
		PieceOpacity: DefaultPieceOpacity,
	}
}

func (o Options) normalized() Options {
	if o.MaxLayers <= 0 {
		o.MaxLayers = DefaultMaxLayers
	}
	if o.LayerStep <= 0 || o.LayerStep >= 1 {
		o.LayerStep = DefaultLayerStep
	}
	if o.MinLayer <= 0 || o.MinLayer >= 1 {
		o.MinLayer = DefaultMinLayer
	}
	if o.DimOpacity <= 0 || o.DimOpacity > 1 {
		o.DimOpacity = DefaultDimOpacity
	}
	o.PieceOpacity = clampUnit(o.PieceOpacity, DefaultPieceOpacity)
	return o
}

// Box is the square's placement on the rendering surface.
type Box struct {
	X, Y float64
	Side float64
}

type Kind int

const (
	// Fill is a colored visit layer.
	Fill Kind = iota
	// Ring is an unfilled decoration drawn above the layers.
	Ring
)

// Layer is one axis-aligned rectangle primitive. Fill layers come first,
// largest to smallest; rings follow.
type Layer struct {
	Kind        Kind
	Depth       int
	X           float64
	Y           float64
	Width       float64
	Height      float64
	Fill        string
	Opacity     float64
	Stroke      string
	StrokeWidth float64
	Class       domain.PieceClass
	Emphasis    highlight.Emphasis
	Role        highlight.LockRole
}

// Rect strips the highlight tags, leaving the renderer-agnostic primitive.
func (l Layer) Rect() heatmapdto.Rect {
	return heatmapdto.Rect{
		X:           l.X,
		Y:           l.Y,
		Width:       l.Width,
		Height:      l.Height,
		Fill:        l.Fill,
		Opacity:     l.Opacity,
		Stroke:      l.Stroke,
		StrokeWidth: l.StrokeWidth,
	}
}

type uniqueColor struct {
	color string
	class domain.PieceClass
	match highlight.VisitMatch
}

// CompositeSquare turns one square's filtered visit list into ordered draw
// primitives. Visits collapse to unique colors in first-appearance order, so
// the earliest visitor is the outermost layer. decision must come from
// highlight.ClassifySquare over the same visits; a zero decision renders
// neutral.
func CompositeSquare(visits []domain.SquareVisit, colors palette.Resolver, decision highlight.SquareDecision, box Box, opts Options) []Layer {
	if len(visits) == 0 || box.Side <= 0 {
		return decorations(nil, decision, box)
	}
	opts = opts.normalized()
	if colors == nil {
		colors = palette.Palette{}
	}

	uniq := collapse(visits, colors, decision)
	layers := make([]Layer, 0, len(uniq)+1)
	for i, u := range uniq {
		if i >= opts.MaxLayers {
			break
		}
		size := box.Side * (1 - float64(i)*opts.LayerStep)
		if size < box.Side*opts.MinLayer {
			break
		}
		inset := (box.Side - size) / 2
		l := Layer{
			Kind:     Fill,
			Depth:    i,
			X:        round2(box.X + inset),
			Y:        round2(box.Y + inset),
			Width:    round2(size),
			Height:   round2(size),
			Fill:     u.color,
			Opacity:  opts.PieceOpacity,
			Class:    u.class,
			Emphasis: u.match.Emphasis,
			Role:     u.match.Role,
		}
		if u.match.Emphasis.Dim() {
			l.Opacity = round2(opts.PieceOpacity * opts.DimOpacity)
		}
		if u.match.Emphasis == highlight.Strong {
			l.Stroke = GlowStroke
			l.StrokeWidth = round2(box.Side * 0.03)
		}
		layers = append(layers, l)
	}
	return decorations(layers, decision, box)
}

// collapse merges visits sharing a resolved color. The first visit's match
// stands unless a later merged visit carries a stronger emphasis.
func collapse(visits []domain.SquareVisit, colors palette.Resolver, decision highlight.SquareDecision) []uniqueColor {
	out := make([]uniqueColor, 0, len(visits))
	index := make(map[string]int, len(visits))
	for i, v := range visits {
		var match highlight.VisitMatch
		if i < len(decision.Visits) {
			match = decision.Visits[i]
		}
		c := colors.Resolve(v.Class())
		if j, ok := index[c]; ok {
			if match.Emphasis > out[j].match.Emphasis {
				out[j].match = match
			}
			continue
		}
		index[c] = len(out)
		out = append(out, uniqueColor{color: c, class: v.Class(), match: match})
	}
	return out
}

func decorations(layers []Layer, decision highlight.SquareDecision, box Box) []Layer {
	if box.Side <= 0 {
		return layers
	}
	ring := func(stroke string, width, inset float64) {
		layers = append(layers, Layer{
			Kind:        Ring,
			Depth:       -1,
			X:           round2(box.X + inset),
			Y:           round2(box.Y + inset),
			Width:       round2(box.Side - 2*inset),
			Height:      round2(box.Side - 2*inset),
			Opacity:     1,
			Stroke:      stroke,
			StrokeWidth: round2(width),
			Emphasis:    decision.Emphasis,
		})
	}

	w := box.Side * 0.06
	switch {
	case decision.MoveTarget:
		ring(MoveTargetRing, w, w/2)
	case decision.Overlap == highlight.OverlapBoth:
		ring(OverlapRing, w, w/2)
	}
	if decision.Hovered {
		ring(HoverRing, w/2, w/4)
	}
	return layers
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampUnit(v, fallback float64) float64 {
	switch {
	case math.IsNaN(v):
		return fallback
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
