// Package config loads experiment settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tomonatu8/envy-free-matching/matching"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the root configuration structure.
type Config struct {
	Experiment ExperimentConfig `yaml:"experiment"`
	Allocation AllocationConfig `yaml:"allocation"`
	Output     OutputConfig     `yaml:"output"`
}

// ExperimentConfig sizes one batch of random trials.
type ExperimentConfig struct {
	NEach     int    `yaml:"n_each"`     // agents per group, also the bundle capacity
	NumGroups int    `yaml:"num_groups"` // groups per trial
	NumItems  int    `yaml:"num_items"`  // items per trial
	NumTries  int    `yaml:"num_tries"`  // number of trials
	Seed      uint64 `yaml:"seed"`       // base seed, per-trial seeds derive from it
	Workers   int    `yaml:"workers"`    // concurrent trials, 0 = GOMAXPROCS
}

// AllocationConfig tunes the scheduler.
type AllocationConfig struct {
	Incremental bool    `yaml:"incremental"` // warm-start matchings between rounds
	Scale       float64 `yaml:"scale"`       // valuation scale, e.g. 1e7
}

// OutputConfig says where results go.
type OutputConfig struct {
	Dir         string `yaml:"dir"`          // CSV directory, e.g. "outcome"
	MetricsFile string `yaml:"metrics_file"` // Prometheus text dump, empty = none
	Progress    bool   `yaml:"progress"`     // render a progress bar on stderr
}

// Default returns the settings of the reference experiment.
func Default() Config {
	return Config{
		Experiment: ExperimentConfig{
			NEach:     10,
			NumGroups: 4,
			NumItems:  40,
			NumTries:  1000,
			Seed:      1,
		},
		Allocation: AllocationConfig{
			Scale: matching.DefaultScale,
		},
		Output: OutputConfig{
			Dir:      "outcome",
			Progress: true,
		},
	}
}

// Load reads path, overlays it on Default and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML from r onto Default. Unknown keys are rejected.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks ranges and cross-field constraints.
func (c Config) Validate() error {
	e := c.Experiment
	switch {
	case e.NEach < 1:
		return fmt.Errorf("%w: n_each must be >= 1, got %d", ErrInvalid, e.NEach)
	case e.NumGroups < 1:
		return fmt.Errorf("%w: num_groups must be >= 1, got %d", ErrInvalid, e.NumGroups)
	case e.NumItems < 1:
		return fmt.Errorf("%w: num_items must be >= 1, got %d", ErrInvalid, e.NumItems)
	case e.NumTries < 0:
		return fmt.Errorf("%w: num_tries must be >= 0, got %d", ErrInvalid, e.NumTries)
	case e.Workers < 0:
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalid, e.Workers)
	case !(c.Allocation.Scale > 0) || c.Allocation.Scale > 1e15:
		return fmt.Errorf("%w: scale must be in (0, 1e15], got %g", ErrInvalid, c.Allocation.Scale)
	case c.Output.Dir == "":
		return fmt.Errorf("%w: output.dir is empty", ErrInvalid)
	}

	return nil
}
