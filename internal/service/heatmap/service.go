package heatmap

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	nchess "github.com/corentings/chess/v2"
	"github.com/google/uuid"
	"github.com/park285/chess-heatmap/internal/compositor"
	"github.com/park285/chess-heatmap/internal/domain"
	coreheatmap "github.com/park285/chess-heatmap/internal/heatmap"
	"github.com/park285/chess-heatmap/internal/highlight"
	"github.com/park285/chess-heatmap/internal/movestream"
	"github.com/park285/chess-heatmap/internal/palette"
	"github.com/park285/chess-heatmap/internal/render"
	"github.com/park285/chess-heatmap/internal/snapshot"
	"github.com/park285/chess-heatmap/pkg/heatmapdto"
	"go.uber.org/zap"
)

type BoardRenderer interface {
	RenderPNG(ctx context.Context, frame *compositor.Frame, opts render.Options) ([]byte, error)
	RenderSVG(frame *compositor.Frame, opts render.Options) ([]byte, error)
}

type defaultRenderer struct{}

func NewBoardRenderer() BoardRenderer { return defaultRenderer{} }

func (defaultRenderer) RenderPNG(ctx context.Context, f *compositor.Frame, opts render.Options) ([]byte, error) {
	return render.PNG(ctx, f, opts)
}

func (defaultRenderer) RenderSVG(f *compositor.Frame, opts render.Options) ([]byte, error) {
	return render.SVG(f, opts)
}

type Config struct {
	SquareSize   int
	Layers       compositor.Options
	DarkMode     bool
	ShowLegend   bool
	PieceOpacity float64
}

// Game is one loaded game. It is immutable once built.
type Game struct {
	ID     uuid.UUID
	Stream movestream.Stream
	Board  domain.Board
}

func (g *Game) Total() int {
	if g == nil {
		return 0
	}
	return g.Stream.Len()
}

type view struct {
	cursor  int
	dark    bool
	opacity float64
}

// Service is the composition root: it owns the loaded game, the active
// palette, the highlight store and the view settings, and produces frames.
type Service struct {
	mu         sync.RWMutex
	game       *Game
	view       view
	palettes   *palette.Context
	highlights *highlight.Store
	renderer   BoardRenderer
	cfg        Config
	logger     *zap.Logger
}

func NewService(palettes *palette.Context, highlights *highlight.Store, renderer BoardRenderer, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if highlights == nil {
		highlights = highlight.NewStore()
	}
	if renderer == nil {
		renderer = NewBoardRenderer()
	}
	if cfg.SquareSize <= 0 {
		cfg.SquareSize = 72
	}
	s := &Service{
		palettes:   palettes,
		highlights: highlights,
		renderer:   renderer,
		cfg:        cfg,
		logger:     logger,
	}
	s.view = view{dark: cfg.DarkMode, opacity: clampUnit(cfg.PieceOpacity)}
	s.install(movestream.Stream{})
	return s
}

// LoadPGN replaces the current game. Unparseable input loads an empty game
// and is logged, never returned.
func (s *Service) LoadPGN(pgn []byte) *Game {
	stream, err := movestream.FromPGN(pgn)
	if err != nil {
		s.logger.Warn("pgn_unparseable", zap.Error(err), zap.Int("bytes", len(pgn)))
	}
	return s.install(stream)
}

// LoadSAN replays a stored SAN move list.
func (s *Service) LoadSAN(moves []string) *Game {
	stream := movestream.FromSAN(moves)
	if stream.Len() == 0 && len(moves) > 0 {
		s.logger.Warn("san_list_rejected", zap.Int("moves", len(moves)))
	}
	return s.install(stream)
}

func (s *Service) LoadGame(g *nchess.Game) *Game {
	return s.install(movestream.FromGame(g))
}

func (s *Service) install(stream movestream.Stream) *Game {
	g := &Game{
		ID:     uuid.New(),
		Stream: stream,
		Board:  coreheatmap.Accumulate(stream.Moves),
	}
	s.mu.Lock()
	s.game = g
	s.view.cursor = g.Total()
	s.mu.Unlock()
	s.highlights.Reset(g.ID)
	s.logger.Debug("game_loaded",
		zap.String("game_id", g.ID.String()),
		zap.Int("plies", g.Total()),
		zap.Int("visits", g.Board.TotalVisits()),
		zap.String("eco", stream.Info.ECOCode),
	)
	return g
}

func (s *Service) Game() *Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game
}

func (s *Service) Highlights() *highlight.Store { return s.highlights }

func (s *Service) Palettes() *palette.Context { return s.palettes }

// SetCursor moves the timeline; out-of-range values clamp.
func (s *Service) SetCursor(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.cursor = coreheatmap.ClampCursor(n, s.game.Total())
	return s.view.cursor
}

// Step advances the cursor by delta plies, as a playback tick does.
func (s *Service) Step(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.cursor = coreheatmap.ClampCursor(s.view.cursor+delta, s.game.Total())
	return s.view.cursor
}

func (s *Service) Cursor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view.cursor
}

func (s *Service) SetDarkMode(on bool) {
	s.mu.Lock()
	s.view.dark = on
	s.mu.Unlock()
}

func (s *Service) SetPieceOpacity(v float64) {
	s.mu.Lock()
	s.view.opacity = clampUnit(v)
	s.mu.Unlock()
}

// UsePalette activates a catalog palette; unknown ids keep the current one.
func (s *Service) UsePalette(id string) bool {
	if s.palettes.Use(id) {
		return true
	}
	s.logger.Warn("palette_unknown", zap.String("palette", id))
	return false
}

// RandomPalette activates a freshly seeded custom palette.
func (s *Service) RandomPalette(seed int64) palette.Palette {
	p := palette.NewCustom(rand.New(rand.NewSource(seed)))
	s.palettes.UseCustom(p)
	return p
}

// HoverSquare hovers a square of the board as shown at the cursor. An empty
// or invalid name clears the hover.
func (s *Service) HoverSquare(name string) {
	board, _ := s.visibleBoard()
	s.highlights.HoverSquare(highlight.SquareHover(board, name))
}

// HoverMove hovers a ply from the move list; zero clears it.
func (s *Service) HoverMove(moveNumber int) {
	g := s.Game()
	s.highlights.HoverMove(highlight.MoveHover(g.Stream.Moves, moveNumber))
}

// HoverLegend hovers a legend entry by class token; an unknown token clears
// the hover.
func (s *Service) HoverLegend(token string) {
	c, ok := domain.ParsePieceClass(token)
	if !ok {
		s.highlights.HoverLegend(nil)
		return
	}
	s.highlights.HoverLegend(&c)
}

// HoverAnnotation hovers a player label or the notation of a ply.
func (s *Service) HoverAnnotation(kind highlight.AnnotationKind, moveNumber int) {
	var mover domain.PieceColor
	if kind == highlight.MoveNotation && moveNumber > 0 {
		mover = domain.ColorForPly(moveNumber)
	}
	s.highlights.HoverAnnotation(highlight.AnnotationHover(kind, mover))
}

// ToggleLock locks or unlocks a class token such as "wq".
func (s *Service) ToggleLock(token string) bool {
	c, ok := domain.ParsePieceClass(token)
	if !ok {
		s.logger.Warn("lock_unknown_piece", zap.String("piece", token))
		return false
	}
	s.highlights.ToggleLock(c)
	return true
}

// SetLocks replaces every lock. Unknown tokens are logged and skipped; only
// the last two valid classes are kept.
func (s *Service) SetLocks(tokens []string) []domain.PieceClass {
	classes := make([]domain.PieceClass, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		c, ok := domain.ParsePieceClass(tok)
		if !ok {
			s.logger.Warn("lock_unknown_piece", zap.String("piece", tok))
			continue
		}
		classes = append(classes, c)
	}
	s.highlights.SetLocks(classes)
	return s.highlights.Highlights().LockedPieces
}

func (s *Service) SetCompareMode(on bool) {
	s.highlights.SetCompareMode(on)
}

// ClearHovers drops every transient source, keeping locks and compare mode.
func (s *Service) ClearHovers() {
	s.highlights.HoverSquare(nil)
	s.highlights.HoverMove(nil)
	s.highlights.HoverLegend(nil)
	s.highlights.HoverAnnotation(nil)
}

func (s *Service) visibleBoard() (domain.Board, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return coreheatmap.Filter(s.game.Board, s.view.cursor), s.view.cursor
}

// Frame resolves the current frame from one consistent read of every input.
func (s *Service) Frame() compositor.Frame {
	s.mu.RLock()
	g, v := s.game, s.view
	s.mu.RUnlock()

	layers := s.cfg.Layers
	layers.PieceOpacity = v.opacity
	active := s.palettes.Active()
	return compositor.Build(compositor.Input{
		Board:      g.Board,
		Moves:      g.Stream.Moves,
		Info:       g.Stream.Info,
		Cursor:     v.cursor,
		State:      highlight.Of(s.highlights),
		Colors:     active,
		PaletteID:  active.ID,
		SquareSize: float64(s.cfg.SquareSize),
		Options:    layers,
	})
}

func (s *Service) renderOptions() render.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return render.Options{Dark: s.view.dark, Legend: s.cfg.ShowLegend}
}

func (s *Service) RenderPNG(ctx context.Context) ([]byte, error) {
	f := s.Frame()
	out, err := s.renderer.RenderPNG(ctx, &f, s.renderOptions())
	if err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}
	return out, nil
}

func (s *Service) RenderSVG() ([]byte, error) {
	f := s.Frame()
	out, err := s.renderer.RenderSVG(&f, s.renderOptions())
	if err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	return out, nil
}

// Snapshot captures the persistent part of the interaction state.
func (s *Service) Snapshot() heatmapdto.Snapshot {
	s.mu.RLock()
	v := s.view
	s.mu.RUnlock()
	return snapshot.Capture(s.highlights, s.palettes, snapshot.View{
		DarkMode:     v.dark,
		CurrentMove:  v.cursor,
		PieceOpacity: v.opacity,
	})
}

// ApplySnapshot restores a snapshot onto the current game. Repaired fields
// are logged; nothing is rejected.
func (s *Service) ApplySnapshot(snap heatmapdto.Snapshot) {
	res := snapshot.Apply(snap, s.highlights, s.palettes)
	for _, w := range res.Warnings {
		s.logger.Warn("snapshot_field_repaired", zap.String("detail", w))
	}
	s.mu.Lock()
	s.view.dark = res.View.DarkMode
	s.view.opacity = res.View.PieceOpacity
	s.view.cursor = coreheatmap.ClampCursor(res.View.CurrentMove, s.game.Total())
	s.mu.Unlock()
}

// Header summarises the loaded game for presenters.
func (s *Service) Header() heatmapdto.GameHeader {
	g := s.Game()
	info := g.Stream.Info
	return heatmapdto.GameHeader{
		GameID:   g.ID.String(),
		White:    strings.TrimSpace(info.White),
		Black:    strings.TrimSpace(info.Black),
		Result:   info.Result,
		ECOCode:  info.ECOCode,
		ECOTitle: info.ECOTitle,
		Plies:    g.Total(),
	}
}

func clampUnit(v float64) float64 {
	switch {
	case v != v:
		return 1
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
