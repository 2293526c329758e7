package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var ErrInvalid = errors.New("invalid config")

type AppConfig struct {
	Palette    string `mapstructure:"HEATMAP_PALETTE"`
	PaletteDir string `mapstructure:"HEATMAP_PALETTE_DIR"`
	// MessagesDir overrides summary text templates.
	MessagesDir string `mapstructure:"HEATMAP_MESSAGES_DIR"`

	SquareSize   int     `mapstructure:"HEATMAP_SQUARE_SIZE"`
	MaxLayers    int     `mapstructure:"HEATMAP_MAX_LAYERS"`
	LayerStep    float64 `mapstructure:"HEATMAP_LAYER_STEP"`
	MinLayer     float64 `mapstructure:"HEATMAP_MIN_LAYER"`
	DimOpacity   float64 `mapstructure:"HEATMAP_DIM_OPACITY"`
	PieceOpacity float64 `mapstructure:"HEATMAP_PIECE_OPACITY"`

	DarkMode   bool `mapstructure:"HEATMAP_DARK_MODE"`
	ShowLegend bool `mapstructure:"HEATMAP_SHOW_LEGEND"`

	LogLevel     string `mapstructure:"LOG_LEVEL"`
	LogFormat    string `mapstructure:"LOG_FORMAT"`
	LogToConsole bool   `mapstructure:"LOG_TO_CONSOLE"`
	LogToFile    bool   `mapstructure:"LOG_TO_FILE"`
	LogFile      string `mapstructure:"LOG_FILE"`
	LogCaller    bool   `mapstructure:"LOG_CALLER"`
}

var defaults = map[string]any{
	"HEATMAP_PALETTE":       "classic",
	"HEATMAP_PALETTE_DIR":   "",
	"HEATMAP_MESSAGES_DIR":  "",
	"HEATMAP_SQUARE_SIZE":   72,
	"HEATMAP_MAX_LAYERS":    6,
	"HEATMAP_LAYER_STEP":    0.15,
	"HEATMAP_MIN_LAYER":     0.10,
	"HEATMAP_DIM_OPACITY":   0.15,
	"HEATMAP_PIECE_OPACITY": 1.0,
	"HEATMAP_DARK_MODE":     false,
	"HEATMAP_SHOW_LEGEND":   true,
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            "console",
	"LOG_TO_CONSOLE":        true,
	"LOG_TO_FILE":           false,
	"LOG_FILE":              "logs/heatmap.log",
	"LOG_CALLER":            false,
}

// Load reads defaults, then the optional config file, then the environment.
// An empty cfgPath skips the file.
func Load(cfgPath string) (*AppConfig, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if p := strings.TrimSpace(cfgPath); p != "" {
		v.SetConfigFile(p)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", p, err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Palette = strings.TrimSpace(cfg.Palette)
	cfg.PaletteDir = strings.TrimSpace(cfg.PaletteDir)
	cfg.MessagesDir = strings.TrimSpace(cfg.MessagesDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	switch {
	case c.SquareSize < 16 || c.SquareSize > 512:
		return fmt.Errorf("%w: HEATMAP_SQUARE_SIZE must be within 16..512, got %d", ErrInvalid, c.SquareSize)
	case c.MaxLayers < 1:
		return fmt.Errorf("%w: HEATMAP_MAX_LAYERS must be positive, got %d", ErrInvalid, c.MaxLayers)
	}
	fractions := []struct {
		key string
		val float64
	}{
		{"HEATMAP_LAYER_STEP", c.LayerStep},
		{"HEATMAP_MIN_LAYER", c.MinLayer},
		{"HEATMAP_DIM_OPACITY", c.DimOpacity},
	}
	for _, f := range fractions {
		if f.val <= 0 || f.val >= 1 {
			return fmt.Errorf("%w: %s must be within (0,1), got %v", ErrInvalid, f.key, f.val)
		}
	}
	if c.PieceOpacity < 0 || c.PieceOpacity > 1 {
		return fmt.Errorf("%w: HEATMAP_PIECE_OPACITY must be within [0,1], got %v", ErrInvalid, c.PieceOpacity)
	}
	return nil
}
