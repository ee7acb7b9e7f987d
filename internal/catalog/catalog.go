package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"svw.info/tacticsfeed/internal/domain"
)

//go:embed puzzles.yaml
var embedded []byte

type file struct {
	Puzzles []domain.PuzzleDefinition `yaml:"puzzles"`
}

// Load returns the embedded catalog in authored order.
func Load() ([]domain.PuzzleDefinition, error) {
	return Parse(embedded)
}

// Parse decodes a catalog document. Individual entries are taken as-is:
// a bad position string is caught later at materialization (the rules
// engine falls back to an empty board), and an entry with no solution is
// displayable but can never be solved. Missing slugs get positional ones
// so instance IDs stay well-formed.
func Parse(data []byte) ([]domain.PuzzleDefinition, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	defs := f.Puzzles
	for i := range defs {
		if strings.TrimSpace(defs[i].Slug) == "" {
			defs[i].Slug = fmt.Sprintf("puzzle-%d", i)
		}
		if defs[i].SideToPlay != domain.Black {
			defs[i].SideToPlay = domain.White
		}
	}
	return defs, nil
}
