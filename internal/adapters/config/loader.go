// Package config provides the pipeline configuration loader.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/EricSDavis/MicroC/internal/core/domain"
	"github.com/EricSDavis/MicroC/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds microc.yaml by walking up from cwd, parses it and returns the
// validated configuration. The returned config is immutable: nothing mutates
// it after this point.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	configPath, err := findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var file Pipelinefile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}

	return l.build(configPath, &file)
}

func findConfiguration(cwd string) (string, error) {
	currentDir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrConfigNotFound, err), "cwd", cwd)
	}

	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func readAndUnmarshalYAML(path string, out any) error {
	//nolint:gosec // path is discovered from the working directory by design
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", path)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return zerr.With(errors.Join(domain.ErrConfigParseFailed, err), "path", path)
	}

	return nil
}

func (l *Loader) build(configPath string, file *Pipelinefile) (*domain.Config, error) {
	dir := filepath.Dir(configPath)

	if err := validateSamples(file.Samples); err != nil {
		return nil, err
	}

	spec := file.Samples
	if !filepath.IsAbs(spec.Path) {
		spec.Path = filepath.Join(dir, spec.Path)
	}

	output := file.Output
	if output == "" {
		output = "output"
	}
	if !filepath.IsAbs(output) {
		output = filepath.Join(dir, output)
	}

	threads := file.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	params := file.Params
	if params == nil {
		params = map[string]string{}
	}

	catalog, err := buildCatalog(file, spec, params)
	if err != nil {
		return nil, err
	}

	return &domain.Config{
		Version: file.Version,
		Dir:     dir,
		Samples: spec,
		Output:  output,
		Threads: threads,
		Params:  params,
		Catalog: catalog,
	}, nil
}

func validateSamples(spec domain.SampleSpec) error {
	if spec.Path == "" {
		return zerr.With(zerr.With(domain.ErrConfig, "field", "samples.path"), "reason", "required")
	}
	if len(spec.MergeBy) == 0 {
		return zerr.With(zerr.With(domain.ErrConfig, "field", "samples.mergeBy"), "reason", "required")
	}
	if len(spec.Roles) == 0 {
		return zerr.With(zerr.With(domain.ErrConfig, "field", "samples.roles"), "reason", "required")
	}

	seen := make(map[string]bool, len(spec.Roles))
	for _, role := range spec.Roles {
		if role.Name == "" || role.Column == "" {
			return zerr.With(zerr.With(domain.ErrConfig,
				"field", "samples.roles"),
				"reason", "role name and column are required",
			)
		}
		if seen[role.Name] {
			return zerr.With(zerr.With(zerr.With(domain.ErrConfig,
				"field", "samples.roles"),
				"role", role.Name),
				"reason", "duplicate role",
			)
		}
		seen[role.Name] = true
	}

	return nil
}

// buildCatalog converts stage DTOs into validated rule templates. Template
// and cycle errors surface here, before any sample record is read.
func buildCatalog(file *Pipelinefile, spec domain.SampleSpec, params map[string]string) (*domain.Catalog, error) {
	if len(file.Stages) == 0 {
		return nil, zerr.With(zerr.With(domain.ErrConfig,
			"field", "stages"),
			"reason", "at least one stage is required",
		)
	}

	roles := make(map[string]bool, len(spec.Roles))
	for _, role := range spec.Roles {
		roles[role.Name] = true
	}

	templates := make([]domain.RuleTemplate, 0, len(file.Stages))
	for _, dto := range file.Stages {
		tmpl, err := buildStage(dto, roles, params)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}

	return domain.NewCatalog(templates)
}

func buildStage(dto *StageDTO, roles map[string]bool, params map[string]string) (domain.RuleTemplate, error) {
	inputs := make([]domain.InputRef, 0, len(dto.Inputs))
	for _, in := range dto.Inputs {
		switch {
		case in.Samples != "" && in.Stage != "":
			return domain.RuleTemplate{}, zerr.With(zerr.With(domain.ErrConfig,
				"stage", dto.ID),
				"reason", "input slot binds both a sample role and an upstream stage",
			)
		case in.Samples != "":
			if !roles[in.Samples] {
				return domain.RuleTemplate{}, zerr.With(zerr.With(zerr.With(domain.ErrConfig,
					"stage", dto.ID),
					"role", in.Samples),
					"reason", "unknown sample role",
				)
			}
			inputs = append(inputs, domain.InputRef{Role: in.Samples})
		case in.Stage != "":
			inputs = append(inputs, domain.InputRef{Stage: in.Stage, Output: in.Output})
		default:
			return domain.RuleTemplate{}, zerr.With(zerr.With(domain.ErrConfig,
				"stage", dto.ID),
				"reason", "input slot binds neither a sample role nor an upstream stage",
			)
		}
	}

	outputs := make([]domain.OutputDecl, 0, len(dto.Outputs))
	for _, out := range dto.Outputs {
		tmpl, err := domain.NewPathTemplate(out.Path)
		if err != nil {
			return domain.RuleTemplate{}, zerr.With(err, "stage", dto.ID)
		}
		if filepath.IsAbs(out.Path) {
			return domain.RuleTemplate{}, zerr.With(zerr.With(zerr.With(domain.ErrConfig,
				"stage", dto.ID),
				"path", out.Path),
				"reason", "output paths must be relative to the output root",
			)
		}
		// A group-less output resolves to the same path for every group, so
		// concurrent groups would race each other promoting into it.
		if !tmpl.HasGroup() {
			return domain.RuleTemplate{}, zerr.With(zerr.With(zerr.With(domain.ErrConfig,
				"stage", dto.ID),
				"path", out.Path),
				"reason", "output paths must contain {group}",
			)
		}
		outputs = append(outputs, domain.OutputDecl{Path: tmpl, Transient: out.Transient})
	}
	if len(outputs) == 0 {
		return domain.RuleTemplate{}, zerr.With(zerr.With(domain.ErrConfig,
			"stage", dto.ID),
			"reason", "at least one output is required",
		)
	}

	cmd, err := domain.NewCommandTemplate(dto.Cmd, len(inputs), len(outputs), params)
	if err != nil {
		return domain.RuleTemplate{}, zerr.With(err, "stage", dto.ID)
	}

	var timeout time.Duration
	if dto.Timeout != "" {
		timeout, err = time.ParseDuration(dto.Timeout)
		if err != nil {
			return domain.RuleTemplate{}, zerr.With(zerr.With(zerr.With(domain.ErrConfig,
				"stage", dto.ID),
				"timeout", dto.Timeout),
				"reason", "invalid duration",
			)
		}
	}

	return domain.RuleTemplate{
		ID:      dto.ID,
		Inputs:  inputs,
		Outputs: outputs,
		Threads: dto.Threads,
		After:   dto.After,
		Command: cmd,
		Env:     dto.Env,
		Timeout: timeout,
	}, nil
}
