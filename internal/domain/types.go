package domain

// Square is an algebraic board coordinate like "e4".
type Square string

// Piece is what sits on a square.
type Piece struct {
	Kind PieceKind `json:"kind"`
	Side Side      `json:"side"`
}

// MovePair is the from/to of the most recently played move, kept for
// highlight rendering.
type MovePair struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// SolutionStep is one expected move in a puzzle's forced sequence.
type SolutionStep struct {
	From      Square    `yaml:"from" json:"from"`
	To        Square    `yaml:"to" json:"to"`
	Promotion PieceKind `yaml:"promotion,omitempty" json:"promotion,omitempty"`
}

// Move is a move the player asked to make. An empty Promotion on a
// promoting move means queen.
type Move struct {
	From      Square
	To        Square
	Promotion PieceKind
}

// MoveRecord is an applied move as reported by the rules engine.
type MoveRecord struct {
	From      Square
	To        Square
	Promotion PieceKind
	Capture   bool
	EnPassant bool
	SAN       string
}

// LegalMove is one legal option from a square; the flags drive feedback
// coloring in the UI.
type LegalMove struct {
	From      Square    `json:"from"`
	To        Square    `json:"to"`
	Promotion PieceKind `json:"promotion,omitempty"`
	Capture   bool      `json:"capture,omitempty"`
	EnPassant bool      `json:"enPassant,omitempty"`
}

// PuzzleDefinition is a static, immutable catalog entry.
type PuzzleDefinition struct {
	Slug       string         `yaml:"slug"`
	StartFEN   string         `yaml:"fen"`
	Tactic     string         `yaml:"tactic"`
	SideToPlay Side           `yaml:"side"`
	Solution   []SolutionStep `yaml:"solution"`
}

// PuzzleInstance is the mutable state of one materialized feed page.
// ID is unique within a feed session. FEN tracks the live position after
// each applied move. Version is bumped on every mutation and exists only
// so the presentation layer can decide whether to re-render; it takes no
// part in domain comparisons.
type PuzzleInstance struct {
	ID          string
	FEN         string
	Tactic      string
	SideToPlay  Side
	Solution    []SolutionStep
	StepIndex   int
	Solved      bool
	Liked       bool
	Starred     bool
	Version     uint64
	LastMove    *MovePair
	LastVerdict Verdict
}

// Touch bumps the re-render counter.
func (p *PuzzleInstance) Touch() { p.Version++ }

// State derives the display lifecycle from the progression fields.
func (p *PuzzleInstance) State() InstanceState {
	switch {
	case p.Solved:
		return StateSolved
	case p.LastVerdict == VerdictIncorrect:
		return StateFailed
	case p.StepIndex > 0:
		return StateInProgress
	default:
		return StateNotStarted
	}
}
