// Package progress is the puzzle progression state machine: it compares
// a legally applied move against the instance's next expected solution
// step and advances (or not) its progress. Legality is the rules
// engine's business; by the time a move reaches here it is already on
// the board.
package progress

import "svw.info/tacticsfeed/internal/domain"

// Outcome reports how a played move was classified. Advance is the
// signal for the feed controller to schedule an auto-advance: it fires
// when the move just solved the puzzle, and on any incorrect move, so
// the user sees the feedback and the feed moves on.
type Outcome struct {
	Verdict domain.Verdict
	Solved  bool
	Advance bool
}

// Classify consumes a played move and updates inst.
//
// A move is correct iff its from and to squares match the expected
// step's. The promotion piece is not compared: promotions default to
// queen on the way in, so a puzzle whose line required underpromotion
// could never be marked correct. Known limitation, kept as-is.
func Classify(inst *domain.PuzzleInstance, played domain.Move) Outcome {
	if inst.StepIndex >= len(inst.Solution) {
		// Already solved, or an empty solution that can never solve.
		// Guarded no-op either way.
		return Outcome{Verdict: domain.VerdictNone, Solved: inst.Solved}
	}
	expected := inst.Solution[inst.StepIndex]
	inst.LastMove = &domain.MovePair{From: played.From, To: played.To}
	if played.From == expected.From && played.To == expected.To {
		inst.StepIndex++
		inst.LastVerdict = domain.VerdictCorrect
		if inst.StepIndex == len(inst.Solution) {
			inst.Solved = true
		}
		inst.Touch()
		return Outcome{Verdict: domain.VerdictCorrect, Solved: inst.Solved, Advance: inst.Solved}
	}
	// Progress does not advance and is not reset; the user may keep
	// playing on the changed position.
	inst.LastVerdict = domain.VerdictIncorrect
	inst.Touch()
	return Outcome{Verdict: domain.VerdictIncorrect, Advance: true}
}
