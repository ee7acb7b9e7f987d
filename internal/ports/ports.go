package ports

import (
	"context"

	"svw.info/tacticsfeed/internal/domain"
)

// Engine is a live board position exclusively owned by one puzzle
// instance. All chess rules (legality, turn order, move application) live
// behind it; nothing on this side of the boundary second-guesses it.
type Engine interface {
	// LegalMovesFrom lists the legal moves starting on sq. An invalid or
	// empty square yields an empty list, never an error.
	LegalMovesFrom(sq domain.Square) []domain.LegalMove
	// Apply plays mv if legal and reports the resulting move record.
	// ok is false when the move is illegal; the position is unchanged then.
	Apply(mv domain.Move) (rec domain.MoveRecord, ok bool)
	// PieceAt reports the piece on sq, if any.
	PieceAt(sq domain.Square) (domain.Piece, bool)
	SideToMove() domain.Side
	FEN() string
}

// EngineFactory builds an engine from an encoded position. Malformed
// input falls back to an empty board; the factory never fails.
type EngineFactory func(encoded string) Engine

// KeyValue persists small flags as raw bytes.
type KeyValue interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Scroller lets the feed controller ask the presentation layer to snap
// to a page index.
type Scroller interface {
	ScrollTo(index int)
}
