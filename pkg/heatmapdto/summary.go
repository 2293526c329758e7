package heatmapdto

// GameHeader summarises the loaded game.
type GameHeader struct {
	GameID   string
	White    string
	Black    string
	Result   string
	ECOCode  string
	ECOTitle string
	Plies    int
}

type SquareSummary struct {
	Name     string
	Visits   int
	Layers   []Rect
	Emphasis string
	Overlap  string
	Target   bool
	Hovered  bool
}

type LegendSummary struct {
	Piece    string
	Label    string
	Color    string
	Visits   int
	Emphasis string
	Role     string
}

type MoveSummary struct {
	MoveNumber int
	SAN        string
	Piece      string
	Emphasis   string
	Current    bool
	Future     bool
}

// FrameSummary is a flattened frame for text and JSON consumers. Squares
// holds only squares with visible history or decoration, a1 first.
type FrameSummary struct {
	Header    GameHeader
	PaletteID string
	Cursor    int
	Total     int
	Active    bool
	// Sources describes each active highlight source, highest precedence first.
	Sources []string
	Squares []SquareSummary
	Legend  []LegendSummary
	Moves   []MoveSummary
}
