// Package hint surfaces the next expected solution step for the
// "show hint" affordance. Display-only; never mutates the instance.
package hint

import "svw.info/tacticsfeed/internal/domain"

// Next returns the from/to of the next unplayed solution step. found is
// false once the puzzle is solved or when there is nothing to suggest.
func Next(inst *domain.PuzzleInstance) (domain.MovePair, bool) {
	if inst == nil || inst.Solved || inst.StepIndex >= len(inst.Solution) {
		return domain.MovePair{}, false
	}
	step := inst.Solution[inst.StepIndex]
	return domain.MovePair{From: step.From, To: step.To}, true
}
