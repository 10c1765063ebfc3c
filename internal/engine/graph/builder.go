// Package graph expands the rule catalog against every sample group, binding
// path templates to produce one concrete task graph per group.
package graph

import (
	"path/filepath"

	"github.com/EricSDavis/MicroC/internal/core/domain"
	"go.trai.ch/zerr"
)

// Builder instantiates tasks from the immutable configuration.
type Builder struct {
	catalog *domain.Catalog
	root    string
	params  map[string]string
}

// NewBuilder creates a Builder for the given configuration.
func NewBuilder(cfg *domain.Config) *Builder {
	return &Builder{
		catalog: cfg.Catalog,
		root:    cfg.Output,
		params:  cfg.Params,
	}
}

// Options restricts a build to a subset of groups and stages. Empty slices
// mean "all". The stage set is taken literally: a stage whose input
// references an upstream stage excluded from the set fails with an
// unresolved-input error. Callers wanting automatic upstream inclusion
// expand the set with Catalog.Closure first.
type Options struct {
	Groups []domain.GroupKey
	Stages []string
}

// Build produces one validated task graph per group, in group first-appearance
// order. Stages are expanded in catalog topological order, so an upstream
// task always exists before any task consuming its outputs is instantiated.
func (b *Builder) Build(groups domain.Groups, opts Options) ([]*domain.Graph, error) {
	keys, err := selectGroups(groups, opts.Groups)
	if err != nil {
		return nil, err
	}

	include, err := b.selectStages(opts.Stages)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Graph, 0, len(keys))
	for _, key := range keys {
		g, err := b.buildGroup(key, groups, include)
		if err != nil {
			return nil, err
		}
		result = append(result, g)
	}

	return result, nil
}

func selectGroups(groups domain.Groups, requested []domain.GroupKey) ([]domain.GroupKey, error) {
	if len(requested) == 0 {
		return groups.Keys, nil
	}

	known := make(map[domain.GroupKey]bool, len(groups.Keys))
	for _, key := range groups.Keys {
		known[key] = true
	}

	for _, key := range requested {
		if !known[key] {
			return nil, zerr.With(domain.ErrGroupNotFound, "group", string(key))
		}
	}

	// Preserve first-appearance order regardless of request order.
	want := make(map[domain.GroupKey]bool, len(requested))
	for _, key := range requested {
		want[key] = true
	}

	var keys []domain.GroupKey
	for _, key := range groups.Keys {
		if want[key] {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (b *Builder) selectStages(requested []string) (map[string]bool, error) {
	include := make(map[string]bool, b.catalog.Len())

	if len(requested) == 0 {
		for _, id := range b.catalog.Order() {
			include[id] = true
		}
		return include, nil
	}

	for _, id := range requested {
		if _, ok := b.catalog.Stage(id); !ok {
			return nil, zerr.With(domain.ErrStageNotFound, "stage", id)
		}
		include[id] = true
	}
	return include, nil
}

func (b *Builder) buildGroup(key domain.GroupKey, groups domain.Groups, include map[string]bool) (*domain.Graph, error) {
	g := domain.NewGraph(key, b.root)

	for _, id := range b.catalog.Order() {
		if !include[id] {
			continue
		}

		tmpl, _ := b.catalog.Stage(id)
		task, err := b.instantiate(tmpl, key, groups, g)
		if err != nil {
			return nil, err
		}
		if err := g.AddTask(task); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// instantiate binds one rule template to a group. Sample-role slots resolve
// to the group's files; stage slots resolve to the upstream task already in
// the graph, which also yields the dependency edge.
func (b *Builder) instantiate(
	tmpl *domain.RuleTemplate,
	key domain.GroupKey,
	groups domain.Groups,
	g *domain.Graph,
) (*domain.Task, error) {
	inputs := make([][]string, len(tmpl.Inputs))
	depSet := make(map[domain.InternedString]bool)
	var deps []domain.InternedString

	addDep := func(name domain.InternedString) {
		if !depSet[name] {
			depSet[name] = true
			deps = append(deps, name)
		}
	}

	for i, in := range tmpl.Inputs {
		if in.Role != "" {
			paths := groups.Paths(key, in.Role)
			if len(paths) == 0 {
				return nil, zerr.With(zerr.With(zerr.With(zerr.With(domain.ErrConfig,
					"stage", tmpl.ID),
					"group", string(key)),
					"role", in.Role),
					"reason", "group has no files for role",
				)
			}
			inputs[i] = paths
			continue
		}

		upName := domain.TaskName(in.Stage, key)
		up, ok := g.GetTask(upName)
		if !ok {
			return nil, zerr.With(zerr.With(zerr.With(domain.ErrUnresolvedInput,
				"stage", tmpl.ID),
				"group", string(key)),
				"upstream", in.Stage,
			)
		}
		inputs[i] = []string{up.Outputs[in.Output].Path.String()}
		addDep(upName)
	}

	// After entries are ordering-only edges; one excluded from a partial
	// build is dropped rather than reported, since no data flows over it.
	for _, id := range tmpl.After {
		name := domain.TaskName(id, key)
		if _, ok := g.GetTask(name); ok {
			addDep(name)
		}
	}

	outputs := make([]domain.Artifact, len(tmpl.Outputs))
	for i, out := range tmpl.Outputs {
		class := domain.ArtifactFinal
		if out.Transient {
			class = domain.ArtifactTransient
		}
		outputs[i] = domain.Artifact{
			Path:  domain.NewInternedString(filepath.Join(b.root, out.Path.Render(key))),
			Class: class,
		}
	}

	return &domain.Task{
		Name:         domain.TaskName(tmpl.ID, key),
		Stage:        tmpl.ID,
		Group:        key,
		Threads:      tmpl.Threads,
		Root:         b.root,
		Inputs:       inputs,
		Outputs:      outputs,
		Command:      tmpl.Command,
		Env:          tmpl.Env,
		Params:       b.params,
		Timeout:      tmpl.Timeout,
		Dependencies: deps,
	}, nil
}
