package heatmappresenter

import (
	"fmt"
	"strings"

	"github.com/park285/chess-heatmap/internal/compositor"
	"github.com/park285/chess-heatmap/internal/highlight"
	"github.com/park285/chess-heatmap/pkg/heatmapdto"
)

// ToSummary flattens a frame for text and JSON consumers.
func ToSummary(f *compositor.Frame, header heatmapdto.GameHeader) heatmapdto.FrameSummary {
	if f == nil {
		return heatmapdto.FrameSummary{Header: header}
	}
	out := heatmapdto.FrameSummary{
		Header:    header,
		PaletteID: f.PaletteID,
		Cursor:    f.Cursor,
		Total:     f.Total,
		Active:    f.State.Active(),
		Sources:   describeSources(f.State),
	}
	for _, sq := range f.Squares {
		if len(sq.Layers) == 0 {
			continue
		}
		s := heatmapdto.SquareSummary{
			Name:     sq.Name,
			Visits:   len(sq.Visits),
			Layers:   make([]heatmapdto.Rect, 0, len(sq.Layers)),
			Emphasis: emphasisLabel(sq.Decision.Emphasis),
			Overlap:  sq.Decision.Overlap.String(),
			Target:   sq.Decision.MoveTarget,
			Hovered:  sq.Decision.Hovered,
		}
		for _, l := range sq.Layers {
			s.Layers = append(s.Layers, l.Rect())
		}
		out.Squares = append(out.Squares, s)
	}
	for _, e := range f.Legend {
		out.Legend = append(out.Legend, heatmapdto.LegendSummary{
			Piece:    e.Class.String(),
			Label:    e.Class.Label(),
			Color:    e.Color,
			Visits:   e.Visits,
			Emphasis: emphasisLabel(e.Decision.Emphasis),
			Role:     e.Decision.Role.String(),
		})
	}
	for _, m := range f.Moves {
		out.Moves = append(out.Moves, heatmapdto.MoveSummary{
			MoveNumber: m.Move.MoveNumber,
			SAN:        m.Move.SAN,
			Piece:      m.Move.Class().String(),
			Emphasis:   emphasisLabel(m.Decision.Emphasis),
			Current:    m.Current,
			Future:     m.Future,
		})
	}
	return out
}

func emphasisLabel(e highlight.Emphasis) string {
	if e == highlight.Neutral {
		return ""
	}
	return e.String()
}

func describeSources(st highlight.State) []string {
	var out []string
	if hs := st.HoveredSquare; hs != nil {
		out = append(out, "square-hover "+hs.Square.String())
	}
	if hm := st.HoveredMove; hm != nil {
		out = append(out, fmt.Sprintf("move-hover %d %s", hm.MoveNumber, hm.SAN))
	}
	if len(st.LockedPieces) > 0 {
		locks := make([]string, 0, len(st.LockedPieces))
		for _, c := range st.LockedPieces {
			locks = append(locks, c.String())
		}
		desc := "lock " + strings.Join(locks, ",")
		if st.Comparing() {
			desc += " compare"
		}
		out = append(out, desc)
	}
	if hp := st.HighlightedPiece; hp != nil {
		out = append(out, "legend-hover "+hp.String())
	}
	if ha := st.HoveredAnnotation; ha != nil {
		out = append(out, "annotation-hover "+ha.Kind.String())
	}
	return out
}
