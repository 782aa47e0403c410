package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Solver          Solver           `yaml:"solver"`
	Maps            []Map            `yaml:"maps"`
	WaypointConfigs []WaypointConfig `yaml:"waypoint_configs"`
	AgentCounts     []int            `yaml:"agent_counts"`
	Timeouts        Timeouts         `yaml:"timeouts"`
	Parse           Parse            `yaml:"parse"`
	Results         Results          `yaml:"results"`
}

type Solver struct {
	// Exe is the native solver binary; required in exec mode.
	Exe string `yaml:"exe"`
	// Mode selects the backend: "exec" (default) or "docker".
	Mode string `yaml:"mode"`
	// Image is the solver image; required in docker mode.
	Image string `yaml:"image"`
	Seed  int    `yaml:"seed"`
	// GraceSec is added to each segment's limit before the child is killed.
	GraceSec int `yaml:"grace_sec"`
	// LenientArtifact restores the legacy zero-on-missing-soc behavior.
	LenientArtifact bool `yaml:"lenient_artifact"`
}

type Map struct {
	// Name is the map file stem, e.g. warehouse-20-40-10-2-1; scenario
	// files are resolved as <scen_dir>/<name>-random-<suffix>.scen.
	Name    string `yaml:"name"`
	File    string `yaml:"file"`
	ScenDir string `yaml:"scen_dir"`
}

type WaypointConfig struct {
	Waypoints int    `yaml:"waypoints"`
	Suffix    string `yaml:"suffix"`
}

type Timeouts struct {
	// TotalSec is the per-experiment budget divided among segments.
	TotalSec int `yaml:"total_sec"`
	// CellGuardSec bounds one matrix cell's wall clock, independent of
	// the per-segment budget.
	CellGuardSec int `yaml:"cell_guard_sec"`
}

type Parse struct {
	// Strict fails the whole scenario parse on any malformed line
	// instead of skipping it with a warning.
	Strict bool `yaml:"strict"`
}

type Results struct {
	Dir string `yaml:"dir"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Solver.Mode {
	case "":
		cfg.Solver.Mode = "exec"
		fallthrough
	case "exec":
		if cfg.Solver.Exe == "" {
			return fmt.Errorf("solver: exe is required in exec mode")
		}
	case "docker":
		if cfg.Solver.Image == "" {
			return fmt.Errorf("solver: image is required in docker mode")
		}
	default:
		return fmt.Errorf("solver: unknown mode %q", cfg.Solver.Mode)
	}
	if cfg.Solver.Seed == 0 {
		cfg.Solver.Seed = 42
	}
	if cfg.Solver.GraceSec == 0 {
		cfg.Solver.GraceSec = 10
	}
	if cfg.Timeouts.TotalSec == 0 {
		cfg.Timeouts.TotalSec = 100
	}
	if cfg.Timeouts.TotalSec < 1 {
		return fmt.Errorf("timeouts: total_sec must be positive")
	}
	if cfg.Timeouts.CellGuardSec == 0 {
		cfg.Timeouts.CellGuardSec = 300
	}
	if cfg.Results.Dir == "" {
		cfg.Results.Dir = "results"
	}
	for i, m := range cfg.Maps {
		if m.Name == "" {
			return fmt.Errorf("map %d: name is required", i)
		}
		if m.File == "" {
			return fmt.Errorf("map %q: file is required", m.Name)
		}
		if m.ScenDir == "" {
			return fmt.Errorf("map %q: scen_dir is required", m.Name)
		}
	}
	for i, wp := range cfg.WaypointConfigs {
		if wp.Waypoints < 1 {
			return fmt.Errorf("waypoint config %d: waypoints must be positive", i)
		}
		if wp.Suffix == "" {
			return fmt.Errorf("waypoint config %d: suffix is required", i)
		}
	}
	for i, n := range cfg.AgentCounts {
		if n < 1 {
			return fmt.Errorf("agent count %d: must be positive, got %d", i, n)
		}
	}
	return nil
}

// ValidateMatrix checks the dimensions the matrix runner needs on top
// of the base validation. Plain runs work without them.
func ValidateMatrix(cfg *Config) error {
	if len(cfg.Maps) == 0 {
		return fmt.Errorf("no maps defined")
	}
	if len(cfg.WaypointConfigs) == 0 {
		return fmt.Errorf("no waypoint_configs defined")
	}
	if len(cfg.AgentCounts) == 0 {
		return fmt.Errorf("no agent_counts defined")
	}
	return nil
}
