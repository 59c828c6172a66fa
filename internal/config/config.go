// Copyright 2026 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config provides configuration loading for the driversim command.
// Configuration is read from a YAML file and overlaid on defaults that
// reproduce the generated Driver harness.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/db47h/simrt"
)

// Config is the root of a driversim configuration file.
type Config struct {
	// Sim parameterizes the scheduler.
	Sim Sim `yaml:"sim"`

	// Schedule seeds the module event queues. Replacing it in a file
	// replaces the default schedule entirely.
	Schedule []Schedule `yaml:"schedule"`

	// Trace configures run output.
	Trace Trace `yaml:"trace"`
}

// Sim parameterizes the scheduler. Zero values assume the simrt defaults.
type Sim struct {
	// Cycles bounds the number of scheduler iterations.
	Cycles uint64 `yaml:"cycles"`

	// Slot is the simulated-time distance between scheduling slots.
	Slot uint64 `yaml:"slot"`

	// CommitOffset is how far past the slot registers commit. Must be
	// smaller than Slot.
	CommitOffset uint64 `yaml:"commit_offset"`

	// IdleThreshold stops the run after this many consecutive idle ticks.
	IdleThreshold int `yaml:"idle_threshold"`
}

// Schedule seeds the event queue of one module.
type Schedule struct {
	// Module names the module to trigger.
	Module string `yaml:"module"`

	// At is a schedule specification, e.g. "100..10000@100".
	At string `yaml:"at"`
}

// Trace configures run output.
type Trace struct {
	// Quiet suppresses console trace output.
	Quiet bool `yaml:"quiet"`

	// DB is the path of a SQLite trace database. Empty disables it.
	DB string `yaml:"db"`
}

// Default returns the configuration of the generated Driver harness: the
// simrt scheduler defaults with the Driver module triggered once per slot
// over the whole run.
func Default() Config {
	return Config{
		Sim: Sim{
			Cycles:        simrt.DefaultCycles,
			Slot:          simrt.DefaultSlot,
			CommitOffset:  simrt.DefaultCommitOffset,
			IdleThreshold: simrt.DefaultIdleThreshold,
		},
		Schedule: []Schedule{
			{Module: "Driver", At: "100..10000@100"},
		},
	}
}

// Load reads the YAML file at path and overlays it on Default. Fields
// absent from the file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read configuration")
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse configuration %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "configuration %s", path)
	}
	return cfg, nil
}

// Validate checks the parts of the configuration that the runtime cannot:
// schedule entries must name a module and carry a well formed schedule
// specification.
func (c Config) Validate() error {
	for i, sc := range c.Schedule {
		if sc.Module == "" {
			return errors.Errorf("schedule entry %d has no module", i)
		}
		if _, err := simrt.ParseSchedule(sc.At); err != nil {
			return errors.Wrapf(err, "schedule entry %d", i)
		}
	}
	return nil
}

// SimConfig converts the sim section into the runtime configuration. The
// tracer is left for the caller to set.
func (c Config) SimConfig() simrt.Config {
	return simrt.Config{
		Cycles:        c.Sim.Cycles,
		Slot:          simrt.Stamp(c.Sim.Slot),
		CommitOffset:  simrt.Stamp(c.Sim.CommitOffset),
		IdleThreshold: c.Sim.IdleThreshold,
	}
}
