package heatmapdto

// Snapshot is the plain-data interaction state exchanged with permalinks and
// saved visualizations.
type Snapshot struct {
	PaletteID     string            `json:"paletteId" yaml:"paletteId"`
	LockedPieces  []string          `json:"lockedPieces" yaml:"lockedPieces"`
	CompareMode   bool              `json:"compareMode" yaml:"compareMode"`
	DarkMode      bool              `json:"darkMode" yaml:"darkMode"`
	CurrentMove   int               `json:"currentMove" yaml:"currentMove"`
	PieceOpacity  float64           `json:"pieceOpacity" yaml:"pieceOpacity"`
	CustomPalette map[string]string `json:"customPalette,omitempty" yaml:"customPalette,omitempty"`
}
