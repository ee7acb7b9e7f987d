// Package reaction mutates the like/star flags on a puzzle instance.
// Pure state flips, no business rules; toggling twice restores the
// original value and the two flags never affect each other.
package reaction

import "svw.info/tacticsfeed/internal/domain"

// ToggleLike flips the like flag. celebrate is true on the false→true
// transition, the cue for the presentation layer's burst animation.
func ToggleLike(inst *domain.PuzzleInstance) (liked, celebrate bool) {
	inst.Liked = !inst.Liked
	inst.Touch()
	return inst.Liked, inst.Liked
}

// ToggleStar flips the star flag.
func ToggleStar(inst *domain.PuzzleInstance) (starred bool) {
	inst.Starred = !inst.Starred
	inst.Touch()
	return inst.Starred
}
