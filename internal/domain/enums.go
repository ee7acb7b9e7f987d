package domain

// Side is the color to move, stated independently of the position encoding.
type Side string

const (
	White Side = "white"
	Black Side = "black"
)

// PieceKind names a chess piece for promotion choices and board rendering.
type PieceKind string

const (
	Pawn   PieceKind = "pawn"
	Knight PieceKind = "knight"
	Bishop PieceKind = "bishop"
	Rook   PieceKind = "rook"
	Queen  PieceKind = "queen"
	King   PieceKind = "king"
)

// Verdict classifies the most recent move played on an instance.
// VerdictNone means no move has been played yet.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictCorrect
	VerdictIncorrect
)

// InstanceState is the display lifecycle of a puzzle instance.
type InstanceState string

const (
	StateNotStarted InstanceState = "not_started"
	StateInProgress InstanceState = "in_progress"
	StateFailed     InstanceState = "failed"
	StateSolved     InstanceState = "solved"
)
