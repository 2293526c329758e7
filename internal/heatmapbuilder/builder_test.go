package heatmapbuilder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/park285/chess-heatmap/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewFromDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	deps, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if deps.Palettes.Active().ID != "classic" {
		t.Fatalf("palette = %s", deps.Palettes.Active().ID)
	}
	if deps.Formatter == nil {
		t.Fatalf("formatter missing")
	}
	if deps.Service.Highlights() != deps.Highlights || deps.Service.Palettes() != deps.Palettes {
		t.Fatalf("service not wired to the shared state")
	}
	f := deps.Service.Frame()
	if f.SquareSize != 72 || f.Total != 0 {
		t.Fatalf("frame = %v/%v", f.SquareSize, f.Total)
	}
}

func TestNewUnknownPaletteFallsBack(t *testing.T) {
	cfg, _ := config.Load("")
	cfg.Palette = "sepia"
	core, logs := observer.New(zap.WarnLevel)
	deps, err := New(cfg, zap.New(core))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if deps.Palettes.Active().ID != deps.Catalog.Default().ID {
		t.Fatalf("palette = %s", deps.Palettes.Active().ID)
	}
	if logs.FilterMessage("palette_unknown").Len() != 1 {
		t.Fatalf("missing warning")
	}
}

func TestNewBadPaletteDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("palettes: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _ := config.Load("")
	cfg.PaletteDir = dir
	if _, err := New(cfg, nil); err == nil {
		t.Fatalf("broken override dir should fail")
	}
	if _, err := New(nil, nil); err == nil {
		t.Fatalf("nil config should fail")
	}
}
