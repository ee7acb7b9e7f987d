package reaction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"svw.info/tacticsfeed/internal/domain"
)

func TestToggleLikeRoundTrip(t *testing.T) {
	inst := &domain.PuzzleInstance{ID: "a-0"}

	liked, celebrate := ToggleLike(inst)
	assert.True(t, liked)
	assert.True(t, celebrate, "false→true is the celebration transition")

	liked, celebrate = ToggleLike(inst)
	assert.False(t, liked)
	assert.False(t, celebrate)
	assert.False(t, inst.Liked)
}

func TestToggleStarRoundTrip(t *testing.T) {
	inst := &domain.PuzzleInstance{ID: "b-0"}

	assert.True(t, ToggleStar(inst))
	assert.False(t, ToggleStar(inst))
	assert.False(t, inst.Starred)
}

func TestFlagsAreIndependent(t *testing.T) {
	inst := &domain.PuzzleInstance{ID: "b-0"}

	ToggleStar(inst)
	assert.True(t, inst.Starred)
	assert.False(t, inst.Liked)

	ToggleLike(inst)
	ToggleStar(inst)
	assert.True(t, inst.Liked)
	assert.False(t, inst.Starred)
}

func TestTogglesBumpVersion(t *testing.T) {
	inst := &domain.PuzzleInstance{ID: "a-0"}
	v0 := inst.Version

	ToggleLike(inst)
	v1 := inst.Version
	assert.Greater(t, v1, v0)

	ToggleStar(inst)
	assert.Greater(t, inst.Version, v1)
}
