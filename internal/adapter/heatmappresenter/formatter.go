package heatmappresenter

import (
	"fmt"
	"strings"

	"github.com/park285/chess-heatmap/internal/msgcat"
	"github.com/park285/chess-heatmap/pkg/heatmapdto"
)

// Formatter renders frame summaries as plain text using the message catalog.
// A nil catalog or a broken template falls back to built-in wording.
type Formatter struct {
	messages *msgcat.Catalog
}

func NewFormatter(messages *msgcat.Catalog) *Formatter {
	return &Formatter{messages: messages}
}

func (f *Formatter) render(key string, data map[string]any, fallback string) string {
	if f == nil || f.messages == nil {
		return fallback
	}
	out, err := f.messages.Render(key, data)
	if err != nil {
		return fallback
	}
	return out
}

// Summary writes the header, the visited squares with their layer counts and
// the legend. Moves are listed only when withMoves is set.
func (f *Formatter) Summary(s heatmapdto.FrameSummary, withMoves bool) string {
	var sb strings.Builder
	h := s.Header

	white, black := orDefault(h.White, "White"), orDefault(h.Black, "Black")
	result := h.Result
	if result == "*" {
		result = ""
	}
	sb.WriteString(f.render("summary.header",
		map[string]any{"White": white, "Black": black, "Result": result},
		fmt.Sprintf("%s vs %s", white, black)))
	sb.WriteByte('\n')

	if h.ECOCode != "" {
		sb.WriteString(f.render("summary.opening",
			map[string]any{"Code": h.ECOCode, "Title": h.ECOTitle},
			"Opening: "+h.ECOCode))
		sb.WriteByte('\n')
	}
	sb.WriteString(f.render("summary.cursor",
		map[string]any{"Cursor": s.Cursor, "Total": s.Total, "Palette": s.PaletteID},
		fmt.Sprintf("Move %d of %d", s.Cursor, s.Total)))
	sb.WriteByte('\n')

	if s.Total == 0 {
		sb.WriteString(f.render("summary.empty", nil, "Empty board."))
		sb.WriteByte('\n')
	}
	if sources := strings.Join(s.Sources, "; "); sources != "" {
		sb.WriteString(f.render("summary.highlights", map[string]any{"Sources": sources}, "Active highlights: "+sources))
		sb.WriteByte('\n')
	}

	if len(s.Squares) > 0 {
		sb.WriteByte('\n')
		sb.WriteString(f.render("summary.squares", nil, "Visited squares:"))
		sb.WriteByte('\n')
		for _, sq := range s.Squares {
			data := map[string]any{"Name": sq.Name, "Visits": sq.Visits, "Layers": fillLayers(sq), "Tags": squareTags(sq)}
			sb.WriteString(f.render("summary.square", data, fmt.Sprintf("  %s %d", sq.Name, sq.Visits)))
			sb.WriteByte('\n')
		}
	}

	sb.WriteByte('\n')
	sb.WriteString(f.render("summary.legend", nil, "Legend:"))
	sb.WriteByte('\n')
	for _, e := range s.Legend {
		state := e.Emphasis
		if e.Role != "" {
			state = strings.TrimSpace(state + " " + e.Role)
		}
		data := map[string]any{"Piece": e.Piece, "Label": e.Label, "Color": e.Color, "Visits": e.Visits, "State": state}
		sb.WriteString(f.render("summary.legend_entry", data, fmt.Sprintf("  %s %d", e.Piece, e.Visits)))
		sb.WriteByte('\n')
	}

	if withMoves && len(s.Moves) > 0 {
		sb.WriteByte('\n')
		sb.WriteString(f.render("summary.moves", nil, "Moves:"))
		sb.WriteByte('\n')
		sb.WriteString(formatMoves(s.Moves))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func orDefault(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == "?" {
		return def
	}
	return s
}

func fillLayers(sq heatmapdto.SquareSummary) int {
	n := 0
	for _, l := range sq.Layers {
		if l.Fill != "" {
			n++
		}
	}
	return n
}

func squareTags(sq heatmapdto.SquareSummary) string {
	var tags []string
	if sq.Emphasis != "" {
		tags = append(tags, sq.Emphasis)
	}
	if sq.Overlap != "" {
		tags = append(tags, sq.Overlap)
	}
	if sq.Target {
		tags = append(tags, "target")
	}
	if sq.Hovered {
		tags = append(tags, "hovered")
	}
	return strings.Join(tags, " ")
}

// formatMoves lays plies out in numbered pairs, marking the cursor with '*'
// and unplayed moves with parentheses.
func formatMoves(moves []heatmapdto.MoveSummary) string {
	var sb strings.Builder
	for i, m := range moves {
		if m.MoveNumber%2 == 1 {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d.", (m.MoveNumber+1)/2)
		} else if i == 0 {
			fmt.Fprintf(&sb, "%d...", m.MoveNumber/2)
		}
		sb.WriteByte(' ')
		san := m.SAN
		switch {
		case m.Current:
			san += "*"
		case m.Future:
			san = "(" + san + ")"
		}
		sb.WriteString(san)
	}
	return sb.String()
}
