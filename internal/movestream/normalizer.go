// Package movestream turns rules-engine output into ordered per-ply move
// descriptors. Every entry point degrades to an empty stream instead of
// failing, so a broken game still renders as a bare board.
package movestream

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	nchess "github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"
	"github.com/park285/chess-heatmap/internal/domain"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var (
	ErrEmptyPGN     = errors.New("empty pgn")
	ErrUndecodable  = errors.New("pgn is neither utf-8 nor windows-1252")
	ErrEnginePanics = errors.New("rules engine panicked")
)

var ecoBook = sync.OnceValue(opening.NewBookECO)

// Stream is a normalized game: 1-indexed descriptors plus display metadata.
type Stream struct {
	Moves []domain.MoveDescriptor
	Info  domain.GameInfo
}

func (s Stream) Len() int { return len(s.Moves) }

var (
	tagPairRe     = regexp.MustCompile(`(?m)^\s*\[(\w+)\s+"((?:[^"\\]|\\.)*)"\s*\]`)
	tagLineRe     = regexp.MustCompile(`(?m)^\s*\[.*\]\s*$`)
	braceCommRe   = regexp.MustCompile(`\{[^}]*\}`)
	lineCommRe    = regexp.MustCompile(`;[^\n]*`)
	nagRe         = regexp.MustCompile(`\$\d+`)
	moveNumberRe  = regexp.MustCompile(`\d+\.(\.\.)?`)
	resultTokenRe = regexp.MustCompile(`^(1-0|0-1|1/2-1/2|\*)$`)
)

// FromPGN parses a PGN document. Parse failures yield an empty stream and the
// cause, which callers may log but never need to surface.
func FromPGN(data []byte) (Stream, error) {
	text, err := decodeText(data)
	if err != nil {
		return Stream{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Stream{}, ErrEmptyPGN
	}

	var stream Stream
	game, err := parseGame(text)
	if err == nil {
		stream = FromGame(game)
	}
	if stream.Len() == 0 {
		// bare movetext such as "1. e4" is replayed token by token
		if tokens := movetextTokens(text); len(tokens) > 0 {
			replayed, rerr := replaySAN(tokens)
			if rerr != nil {
				if err == nil {
					err = rerr
				}
				return Stream{}, err
			}
			stream = FromGame(replayed)
			err = nil
		}
	}
	if err != nil {
		return Stream{}, err
	}
	tags := parseTags(text)
	stream.Info.White = tags["White"]
	stream.Info.Black = tags["Black"]
	if r := tags["Result"]; r != "" {
		stream.Info.Result = r
	}
	return stream, nil
}

// FromGame normalizes an already-validated game.
func FromGame(game *nchess.Game) (stream Stream) {
	if game == nil {
		return Stream{}
	}
	defer func() {
		if r := recover(); r != nil {
			stream = Stream{}
		}
	}()

	moves := game.Moves()
	positions := game.Positions()
	if len(positions) < len(moves) {
		return Stream{}
	}
	out := make([]domain.MoveDescriptor, 0, len(moves))
	for i, mv := range moves {
		d, ok := describe(positions[i], mv, i+1)
		if !ok {
			return Stream{}
		}
		out = append(out, d)
	}

	info := domain.GameInfo{Result: game.Outcome().String()}
	if book := ecoBook(); book != nil && len(moves) > 0 {
		if eco := book.Find(moves); eco != nil {
			info.ECOCode = eco.Code()
			info.ECOTitle = eco.Title()
		}
	}
	return Stream{Moves: out, Info: info}
}

// FromSAN replays a stored SAN list through the rules engine. The first
// illegal token invalidates the whole list.
func FromSAN(tokens []string) Stream {
	game, err := replaySAN(tokens)
	if err != nil {
		return Stream{}
	}
	return FromGame(game)
}

func replaySAN(tokens []string) (game *nchess.Game, err error) {
	defer func() {
		if r := recover(); r != nil {
			game, err = nil, ErrEnginePanics
		}
	}()
	game = nchess.NewGame()
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if err := game.PushNotationMove(tok, nchess.AlgebraicNotation{}, nil); err != nil {
			return nil, fmt.Errorf("ply %d %q: %w", i+1, tok, err)
		}
	}
	return game, nil
}

func parseGame(text string) (game *nchess.Game, err error) {
	defer func() {
		if r := recover(); r != nil {
			game, err = nil, ErrEnginePanics
		}
	}()
	opt, err := nchess.PGN(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parse pgn: %w", err)
	}
	return nchess.NewGame(opt), nil
}

func describe(pos *nchess.Position, mv *nchess.Move, moveNumber int) (domain.MoveDescriptor, bool) {
	if pos == nil || mv == nil {
		return domain.MoveDescriptor{}, false
	}
	piece := pos.Board().Piece(mv.S1())
	pt := pieceType(piece.Type())
	pc := pieceColor(piece.Color())
	if !pt.Valid() || !pc.Valid() {
		return domain.MoveDescriptor{}, false
	}

	d := domain.MoveDescriptor{
		MoveNumber: moveNumber,
		SAN:        nchess.AlgebraicNotation{}.Encode(pos, mv),
		Piece:      pt,
		Color:      pc,
		From:       position(mv.S1()),
		To:         position(mv.S2()),
		Capture:    mv.HasTag(nchess.Capture) || mv.HasTag(nchess.EnPassant),
		Promotion:  pieceType(mv.Promo()),
	}
	switch {
	case mv.HasTag(nchess.KingSideCastle):
		d.Castle = domain.KingSide
	case mv.HasTag(nchess.QueenSideCastle):
		d.Castle = domain.QueenSide
	}
	return d, true
}

func position(sq nchess.Square) domain.Position {
	return domain.Position{File: int(sq.File()), Rank: int(sq.Rank())}
}

func pieceType(t nchess.PieceType) domain.PieceType {
	switch t {
	case nchess.King:
		return domain.King
	case nchess.Queen:
		return domain.Queen
	case nchess.Rook:
		return domain.Rook
	case nchess.Bishop:
		return domain.Bishop
	case nchess.Knight:
		return domain.Knight
	case nchess.Pawn:
		return domain.Pawn
	default:
		return domain.NoPieceType
	}
}

func pieceColor(c nchess.Color) domain.PieceColor {
	switch c {
	case nchess.White:
		return domain.White
	case nchess.Black:
		return domain.Black
	default:
		return domain.NoColor
	}
}

func parseTags(text string) map[string]string {
	tags := make(map[string]string)
	for _, m := range tagPairRe.FindAllStringSubmatch(text, -1) {
		if _, seen := tags[m[1]]; seen {
			continue
		}
		tags[m[1]] = strings.ReplaceAll(m[2], `\"`, `"`)
	}
	return tags
}

// movetextTokens strips tags, comments, variations and move numbers,
// leaving bare SAN tokens.
func movetextTokens(text string) []string {
	text = tagLineRe.ReplaceAllString(text, " ")
	text = braceCommRe.ReplaceAllString(text, " ")
	text = lineCommRe.ReplaceAllString(text, " ")
	text = stripVariations(text)
	text = nagRe.ReplaceAllString(text, " ")
	text = moveNumberRe.ReplaceAllString(text, " ")

	var out []string
	for _, f := range strings.Fields(text) {
		if resultTokenRe.MatchString(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func stripVariations(text string) string {
	var b strings.Builder
	depth := 0
	for _, r := range text {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// decodeText accepts UTF-8 (with or without BOM) and falls back to
// Windows-1252, the usual encoding of older PGN archives.
func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data), nil
	}
	reader := transform.NewReader(bytes.NewReader(data), charmap.Windows1252.NewDecoder())
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("decode pgn: %w", err)
	}
	if !utf8.Valid(decoded) {
		return "", ErrUndecodable
	}
	return string(decoded), nil
}
