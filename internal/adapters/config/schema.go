package config

import "github.com/EricSDavis/MicroC/internal/core/domain"

// Pipelinefile represents the structure of the microc.yaml configuration file.
type Pipelinefile struct {
	Version string            `yaml:"version"`
	Samples domain.SampleSpec `yaml:"samples"`
	Output  string            `yaml:"output"`
	Threads int               `yaml:"threads"`
	Params  map[string]string `yaml:"params"`
	Stages  []*StageDTO       `yaml:"stages"`
}

// StageDTO represents one pipeline stage definition in the configuration.
type StageDTO struct {
	ID      string            `yaml:"id"`
	Threads int               `yaml:"threads"`
	After   []string          `yaml:"after"`
	Timeout string            `yaml:"timeout"`
	Env     map[string]string `yaml:"environment"`
	Inputs  []InputDTO        `yaml:"inputs"`
	Outputs []OutputDTO       `yaml:"outputs"`
	Cmd     string            `yaml:"cmd"`
}

// InputDTO declares one input slot. Exactly one of Samples or Stage is set.
type InputDTO struct {
	Samples string `yaml:"samples"`
	Stage   string `yaml:"stage"`
	Output  int    `yaml:"output"`
}

// OutputDTO declares one output slot.
type OutputDTO struct {
	Path      string `yaml:"path"`
	Transient bool   `yaml:"transient"`
}
