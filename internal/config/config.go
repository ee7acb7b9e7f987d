package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration. A YAML file overrides the
// defaults; command-line flags override the file (wired in main).
type Config struct {
	Addr    string     `yaml:"addr"`
	DataDir string     `yaml:"dataDir"`
	Store   string     `yaml:"store"`   // badger | memory
	LogMode string     `yaml:"logMode"` // dev | prod
	Feed    FeedConfig `yaml:"feed"`
}

// FeedConfig tunes the feed controller and the client's view tracking.
type FeedConfig struct {
	InitialPages   int     `yaml:"initialPages"`
	Lookahead      int     `yaml:"lookahead"`
	AppendDelayMs  int     `yaml:"appendDelayMs"`
	AdvanceDelayMs int     `yaml:"advanceDelayMs"`
	// ViewFraction is how much of a page must be visible before the
	// client reports it as in view.
	ViewFraction float64 `yaml:"viewFraction"`
}

func Default() Config {
	return Config{
		Addr:    ":8080",
		DataDir: "./data",
		Store:   "badger",
		LogMode: "dev",
		Feed: FeedConfig{
			InitialPages:   2,
			Lookahead:      3,
			AppendDelayMs:  150,
			AdvanceDelayMs: 1200,
			ViewFraction:   0.6,
		},
	}
}

// Load reads an optional YAML file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
