package rules

import (
	"strings"

	"github.com/notnil/chess"
	"go.uber.org/zap"

	"svw.info/tacticsfeed/internal/domain"
	"svw.info/tacticsfeed/internal/ports"
)

// EmptyBoardFEN is the fallback position for malformed catalog entries.
// The page stays displayable (and unsolvable) instead of crashing.
const EmptyBoardFEN = "8/8/8/8/8/8/8/8 w - - 0 1"

// Engine adapts github.com/notnil/chess to the ports.Engine contract.
type Engine struct {
	game *chess.Game
}

// New builds an engine from a FEN string. Malformed input is tolerated:
// the engine falls back to an empty board and the problem is logged at
// debug, never surfaced.
func New(encoded string, log *zap.SugaredLogger) *Engine {
	opt, err := chess.FEN(strings.TrimSpace(encoded))
	if err != nil {
		if log != nil {
			log.Debugw("malformed position, using empty board", "fen", encoded, "err", err)
		}
		opt, _ = chess.FEN(EmptyBoardFEN)
	}
	return &Engine{game: chess.NewGame(opt)}
}

// NewFactory returns an EngineFactory bound to log.
func NewFactory(log *zap.SugaredLogger) ports.EngineFactory {
	return func(encoded string) ports.Engine { return New(encoded, log) }
}

func (e *Engine) LegalMovesFrom(sq domain.Square) []domain.LegalMove {
	from, ok := parseSquare(sq)
	if !ok {
		return nil
	}
	var out []domain.LegalMove
	for _, m := range e.game.ValidMoves() {
		if m.S1() != from {
			continue
		}
		out = append(out, domain.LegalMove{
			From:      domain.Square(m.S1().String()),
			To:        domain.Square(m.S2().String()),
			Promotion: kindOf(m.Promo()),
			Capture:   m.HasTag(chess.Capture),
			EnPassant: m.HasTag(chess.EnPassant),
		})
	}
	return out
}

func (e *Engine) Apply(mv domain.Move) (domain.MoveRecord, bool) {
	from, okFrom := parseSquare(mv.From)
	to, okTo := parseSquare(mv.To)
	if !okFrom || !okTo {
		return domain.MoveRecord{}, false
	}
	want := pieceTypeOf(mv.Promotion)
	if want == chess.NoPieceType {
		want = chess.Queen // promotions default to queen
	}
	var chosen *chess.Move
	for _, m := range e.game.ValidMoves() {
		if m.S1() != from || m.S2() != to {
			continue
		}
		if m.Promo() == chess.NoPieceType || m.Promo() == want {
			chosen = m
			break
		}
	}
	if chosen == nil {
		return domain.MoveRecord{}, false
	}
	san := chess.AlgebraicNotation{}.Encode(e.game.Position(), chosen)
	if err := e.game.Move(chosen); err != nil {
		return domain.MoveRecord{}, false
	}
	return domain.MoveRecord{
		From:      domain.Square(chosen.S1().String()),
		To:        domain.Square(chosen.S2().String()),
		Promotion: kindOf(chosen.Promo()),
		Capture:   chosen.HasTag(chess.Capture),
		EnPassant: chosen.HasTag(chess.EnPassant),
		SAN:       san,
	}, true
}

func (e *Engine) PieceAt(sq domain.Square) (domain.Piece, bool) {
	s, ok := parseSquare(sq)
	if !ok {
		return domain.Piece{}, false
	}
	p := e.game.Position().Board().Piece(s)
	if p == chess.NoPiece {
		return domain.Piece{}, false
	}
	return domain.Piece{Kind: kindOf(p.Type()), Side: sideOf(p.Color())}, true
}

func (e *Engine) SideToMove() domain.Side { return sideOf(e.game.Position().Turn()) }

func (e *Engine) FEN() string { return e.game.Position().String() }

func parseSquare(sq domain.Square) (chess.Square, bool) {
	s := strings.ToLower(strings.TrimSpace(string(sq)))
	if len(s) != 2 {
		return 0, false
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return 0, false
	}
	return chess.Square(rank*8 + file), true
}

func kindOf(t chess.PieceType) domain.PieceKind {
	switch t {
	case chess.Pawn:
		return domain.Pawn
	case chess.Knight:
		return domain.Knight
	case chess.Bishop:
		return domain.Bishop
	case chess.Rook:
		return domain.Rook
	case chess.Queen:
		return domain.Queen
	case chess.King:
		return domain.King
	default:
		return ""
	}
}

func pieceTypeOf(k domain.PieceKind) chess.PieceType {
	switch k {
	case domain.Pawn:
		return chess.Pawn
	case domain.Knight:
		return chess.Knight
	case domain.Bishop:
		return chess.Bishop
	case domain.Rook:
		return chess.Rook
	case domain.Queen:
		return chess.Queen
	case domain.King:
		return chess.King
	default:
		return chess.NoPieceType
	}
}

func sideOf(c chess.Color) domain.Side {
	if c == chess.Black {
		return domain.Black
	}
	return domain.White
}
