// Package snapshot converts live interaction state to and from the plain
// heatmapdto.Snapshot record.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/park285/chess-heatmap/internal/domain"
	"github.com/park285/chess-heatmap/internal/highlight"
	"github.com/park285/chess-heatmap/internal/palette"
	"github.com/park285/chess-heatmap/pkg/heatmapdto"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmpty         = errors.New("snapshot: empty input")
	ErrUnknownFormat = errors.New("snapshot: unknown format")
)

type Format int

const (
	JSON Format = iota
	YAML
)

// FormatFromPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

func Encode(s heatmapdto.Snapshot, f Format) ([]byte, error) {
	switch f {
	case JSON:
		b, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode snapshot json: %w", err)
		}
		return append(b, '\n'), nil
	case YAML:
		b, err := yaml.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("encode snapshot yaml: %w", err)
		}
		return b, nil
	}
	return nil, ErrUnknownFormat
}

// Decode reads a snapshot. Missing pieceOpacity decodes as fully opaque.
func Decode(b []byte, f Format) (heatmapdto.Snapshot, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return heatmapdto.Snapshot{}, ErrEmpty
	}
	s := heatmapdto.Snapshot{PieceOpacity: 1}
	var err error
	switch f {
	case JSON:
		err = json.Unmarshal(b, &s)
	case YAML:
		err = yaml.Unmarshal(b, &s)
	default:
		return heatmapdto.Snapshot{}, ErrUnknownFormat
	}
	if err != nil {
		return heatmapdto.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// View is the non-highlight part of a snapshot the caller keeps itself.
type View struct {
	DarkMode     bool
	CurrentMove  int
	PieceOpacity float64
}

// Capture records the current interaction state. Hovers are transient and
// never captured.
func Capture(store *highlight.Store, pal *palette.Context, view View) heatmapdto.Snapshot {
	var st highlight.State
	if store != nil {
		st = store.Highlights()
	}
	active := pal.Active()
	s := heatmapdto.Snapshot{
		PaletteID:    active.ID,
		LockedPieces: make([]string, 0, len(st.LockedPieces)),
		CompareMode:  st.CompareMode,
		DarkMode:     view.DarkMode,
		CurrentMove:  view.CurrentMove,
		PieceOpacity: clampOpacity(view.PieceOpacity),
	}
	for _, c := range st.LockedPieces {
		s.LockedPieces = append(s.LockedPieces, c.String())
	}
	if active.ID == palette.CustomID {
		s.CustomPalette = active.Entries()
	}
	return s
}

// Applied reports what Apply did with fields it had to repair.
type Applied struct {
	View     View
	Warnings []string
}

// Apply restores s onto the store and palette context. Nothing here fails:
// opacity is clamped, an unknown palette id keeps the default, unknown piece
// tokens are skipped and only the last two locks survive.
func Apply(s heatmapdto.Snapshot, store *highlight.Store, pal *palette.Context) Applied {
	var out Applied
	warn := func(format string, args ...any) {
		out.Warnings = append(out.Warnings, fmt.Sprintf(format, args...))
	}

	id := strings.TrimSpace(s.PaletteID)
	switch {
	case strings.EqualFold(id, palette.CustomID) || (id == "" && len(s.CustomPalette) > 0):
		custom, err := palette.New(palette.CustomID, "Custom", s.CustomPalette)
		if err != nil {
			warn("%v", err)
		}
		pal.UseCustom(custom)
	case id == "":
	case !pal.Use(id):
		warn("unknown palette %q", id)
		if cat := pal.Catalog(); cat != nil {
			pal.Use(cat.Default().ID)
		}
	}

	locks := make([]domain.PieceClass, 0, len(s.LockedPieces))
	for _, token := range s.LockedPieces {
		c, ok := domain.ParsePieceClass(token)
		if !ok {
			warn("unknown piece %q", token)
			continue
		}
		locks = append(locks, c)
	}
	if len(locks) > highlight.MaxLocks {
		warn("keeping the last %d of %d locks", highlight.MaxLocks, len(locks))
	}
	if store != nil {
		store.SetLocks(locks)
		store.SetCompareMode(s.CompareMode)
	}

	if s.PieceOpacity < 0 || s.PieceOpacity > 1 || math.IsNaN(s.PieceOpacity) {
		warn("piece opacity %v clamped", s.PieceOpacity)
	}
	cursor := s.CurrentMove
	if cursor < 0 {
		warn("current move %d clamped", cursor)
		cursor = 0
	}
	out.View = View{
		DarkMode:     s.DarkMode,
		CurrentMove:  cursor,
		PieceOpacity: clampOpacity(s.PieceOpacity),
	}
	return out
}

func clampOpacity(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 1
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
