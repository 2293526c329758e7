package heatmapbuilder

import (
	"fmt"

	"github.com/park285/chess-heatmap/internal/adapter/heatmappresenter"
	"github.com/park285/chess-heatmap/internal/compositor"
	"github.com/park285/chess-heatmap/internal/config"
	"github.com/park285/chess-heatmap/internal/highlight"
	"github.com/park285/chess-heatmap/internal/msgcat"
	"github.com/park285/chess-heatmap/internal/palette"
	svcheatmap "github.com/park285/chess-heatmap/internal/service/heatmap"
	"go.uber.org/zap"
)

type Deps struct {
	Service    *svcheatmap.Service
	Catalog    *palette.Catalog
	Palettes   *palette.Context
	Highlights *highlight.Store
	Formatter  *heatmappresenter.Formatter
}

func New(cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog, err := palette.LoadCatalog(cfg.PaletteDir)
	if err != nil {
		return nil, fmt.Errorf("load palettes: %w", err)
	}
	if _, ok := catalog.Get(cfg.Palette); !ok && cfg.Palette != "" {
		logger.Warn("palette_unknown",
			zap.String("palette", cfg.Palette),
			zap.String("fallback", catalog.Default().ID),
		)
	}
	messages, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	palettes := palette.NewContext(catalog, cfg.Palette)
	highlights := highlight.NewStore()

	svcCfg := svcheatmap.Config{
		SquareSize: cfg.SquareSize,
		Layers: compositor.Options{
			MaxLayers:  cfg.MaxLayers,
			LayerStep:  cfg.LayerStep,
			MinLayer:   cfg.MinLayer,
			DimOpacity: cfg.DimOpacity,
		},
		DarkMode:     cfg.DarkMode,
		ShowLegend:   cfg.ShowLegend,
		PieceOpacity: cfg.PieceOpacity,
	}
	service := svcheatmap.NewService(palettes, highlights, svcheatmap.NewBoardRenderer(), svcCfg, logger)

	logger.Debug("heatmap_ready",
		zap.String("palette", palettes.Active().ID),
		zap.Strings("palettes", catalog.IDs()),
		zap.Int("square_size", cfg.SquareSize),
	)
	return &Deps{
		Service:    service,
		Catalog:    catalog,
		Palettes:   palettes,
		Highlights: highlights,
		Formatter:  heatmappresenter.NewFormatter(messages),
	}, nil
}
