package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/park285/chess-heatmap/internal/adapter/heatmappresenter"
	appcfg "github.com/park285/chess-heatmap/internal/config"
	"github.com/park285/chess-heatmap/internal/heatmapbuilder"
	"github.com/park285/chess-heatmap/internal/highlight"
	"github.com/park285/chess-heatmap/internal/obslog"
	svcheatmap "github.com/park285/chess-heatmap/internal/service/heatmap"
	"github.com/park285/chess-heatmap/internal/snapshot"
	"go.uber.org/zap"
)

type options struct {
	configPath   string
	pgnPath      string
	san          string
	move         int
	palette      string
	randomSeed   int64
	locks        string
	compare      bool
	hoverSquare  string
	hoverMove    int
	hoverLegend  string
	hoverPlayer  string
	dark         bool
	opacity      float64
	loadSnapshot string
	saveSnapshot string
	svgPath      string
	pngPath      string
	summary      bool
	moves        bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "", "config file (yaml, json, toml or env)")
	flag.StringVar(&o.pgnPath, "pgn", "", "PGN file to load; - reads stdin")
	flag.StringVar(&o.san, "san", "", "comma separated SAN move list, used when -pgn is empty")
	flag.IntVar(&o.move, "move", -1, "ply cursor; -1 shows the whole game")
	flag.StringVar(&o.palette, "palette", "", "palette id")
	flag.Int64Var(&o.randomSeed, "random-palette", 0, "seed a random custom palette (non-zero)")
	flag.StringVar(&o.locks, "lock", "", "locked piece classes, e.g. wq,bq")
	flag.BoolVar(&o.compare, "compare", false, "compare the two locked classes")
	flag.StringVar(&o.hoverSquare, "hover-square", "", "hovered square, e.g. e4")
	flag.IntVar(&o.hoverMove, "hover-move", 0, "hovered ply number")
	flag.StringVar(&o.hoverLegend, "hover-legend", "", "hovered legend class, e.g. wn")
	flag.StringVar(&o.hoverPlayer, "hover-player", "", "hovered player label: white or black")
	flag.BoolVar(&o.dark, "dark", false, "dark theme")
	flag.Float64Var(&o.opacity, "opacity", -1, "piece opacity in [0,1]; negative keeps the configured value")
	flag.StringVar(&o.loadSnapshot, "snapshot", "", "restore interaction state from a snapshot file")
	flag.StringVar(&o.saveSnapshot, "save-snapshot", "", "write the interaction state to this file")
	flag.StringVar(&o.svgPath, "svg", "", "write SVG output here")
	flag.StringVar(&o.pngPath, "png", "", "write PNG output here")
	flag.BoolVar(&o.summary, "summary", false, "print a text summary")
	flag.BoolVar(&o.moves, "moves", false, "include the move list in the summary")
	flag.Parse()
	return o
}

func main() {
	o := parseFlags()

	cfg, err := appcfg.Load(o.configPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	cleanup, err := obslog.Init(obslog.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Console: cfg.LogToConsole,
		ToFile:  cfg.LogToFile,
		File:    cfg.LogFile,
		Caller:  cfg.LogCaller,
	})
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer cleanup()
	logger := obslog.L()

	deps, err := heatmapbuilder.New(cfg, logger)
	if err != nil {
		logger.Error("heatmap_init_failed", zap.Error(err))
		cleanup()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, deps); err != nil {
		logger.Error("heatmap_failed", zap.Error(err))
		stop()
		cleanup()
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, deps *heatmapbuilder.Deps) error {
	svc := deps.Service
	if err := loadGame(svc, o); err != nil {
		return err
	}
	if o.loadSnapshot != "" {
		data, err := os.ReadFile(o.loadSnapshot)
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}
		snap, err := snapshot.Decode(data, snapshot.FormatFromPath(o.loadSnapshot))
		if err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		svc.ApplySnapshot(snap)
	}
	applyFlags(svc, o)

	presenter := heatmappresenter.NewPresenter(
		func(message string) error {
			_, err := fmt.Fprintln(os.Stdout, message)
			return err
		},
		func(path string, data []byte) error { return os.WriteFile(path, data, 0o644) },
	)

	var artifacts []heatmappresenter.Artifact
	if o.svgPath != "" {
		out, err := svc.RenderSVG()
		if err != nil {
			return err
		}
		artifacts = append(artifacts, heatmappresenter.Artifact{Path: o.svgPath, Data: out})
	}
	if o.pngPath != "" {
		rctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		out, err := svc.RenderPNG(rctx)
		cancel()
		if err != nil {
			return err
		}
		artifacts = append(artifacts, heatmappresenter.Artifact{Path: o.pngPath, Data: out})
	}
	if o.saveSnapshot != "" {
		out, err := snapshot.Encode(svc.Snapshot(), snapshot.FormatFromPath(o.saveSnapshot))
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		artifacts = append(artifacts, heatmappresenter.Artifact{Path: o.saveSnapshot, Data: out})
	}

	var message string
	if o.summary || len(artifacts) == 0 {
		f := svc.Frame()
		message = deps.Formatter.Summary(heatmappresenter.ToSummary(&f, svc.Header()), o.moves)
	}
	return presenter.Frame(message, artifacts...)
}

func loadGame(svc *svcheatmap.Service, o options) error {
	switch {
	case o.pgnPath == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		svc.LoadPGN(data)
	case o.pgnPath != "":
		data, err := os.ReadFile(o.pgnPath)
		if err != nil {
			return fmt.Errorf("read pgn: %w", err)
		}
		svc.LoadPGN(data)
	case o.san != "":
		svc.LoadSAN(splitList(o.san))
	}
	return nil
}

// applyFlags layers command line choices over the config and any restored
// snapshot.
func applyFlags(svc *svcheatmap.Service, o options) {
	if o.move >= 0 {
		svc.SetCursor(o.move)
	}
	if o.palette != "" {
		svc.UsePalette(o.palette)
	}
	if o.randomSeed != 0 {
		svc.RandomPalette(o.randomSeed)
	}
	if o.locks != "" {
		svc.SetLocks(splitList(o.locks))
	}
	if o.compare {
		svc.SetCompareMode(true)
	}
	if o.dark {
		svc.SetDarkMode(true)
	}
	if o.opacity >= 0 {
		svc.SetPieceOpacity(o.opacity)
	}
	if o.hoverSquare != "" {
		svc.HoverSquare(o.hoverSquare)
	}
	if o.hoverMove > 0 {
		svc.HoverMove(o.hoverMove)
	}
	if o.hoverLegend != "" {
		svc.HoverLegend(o.hoverLegend)
	}
	switch strings.ToLower(strings.TrimSpace(o.hoverPlayer)) {
	case "white", "w":
		svc.HoverAnnotation(highlight.WhitePlayer, 0)
	case "black", "b":
		svc.HoverAnnotation(highlight.BlackPlayer, 0)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
