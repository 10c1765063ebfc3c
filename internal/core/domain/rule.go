package domain

import (
	"regexp"
	"time"

	"github.com/gammazero/toposort"
	"go.trai.ch/zerr"
)

var validStageIDRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// InputRef declares one input slot of a rule template. Exactly one of Role or
// Stage is set: Role binds the slot to the group's sample files carrying that
// role; Stage binds it to output Output of the named upstream stage.
type InputRef struct {
	Role   string
	Stage  string
	Output int
}

// OutputDecl declares one output slot of a rule template.
type OutputDecl struct {
	Path      PathTemplate
	Transient bool
}

// RuleTemplate is an immutable pipeline stage definition. It is expanded into
// one Task per group by the graph builder.
type RuleTemplate struct {
	ID      string
	Inputs  []InputRef
	Outputs []OutputDecl
	Threads int
	After   []string
	Command CommandTemplate
	Env     map[string]string
	Timeout time.Duration
}

// Catalog is the validated, ordered set of rule templates. Construction
// checks identifiers, upstream references and template-level acyclicity once,
// independent of any group.
type Catalog struct {
	stages []RuleTemplate
	byID   map[string]*RuleTemplate
	order  []string
}

// NewCatalog validates the given templates and returns a Catalog whose Order
// is a topological sort of the template-level dependency relation.
func NewCatalog(stages []RuleTemplate) (*Catalog, error) {
	c := &Catalog{
		stages: stages,
		byID:   make(map[string]*RuleTemplate, len(stages)),
	}

	for i := range stages {
		s := &stages[i]
		if !validStageIDRegex.MatchString(s.ID) {
			return nil, zerr.With(ErrInvalidStageID, "stage", s.ID)
		}
		if _, exists := c.byID[s.ID]; exists {
			return nil, zerr.With(ErrDuplicateStage, "stage", s.ID)
		}
		if s.Threads < 1 {
			s.Threads = 1
		}
		c.byID[s.ID] = s
	}

	for _, s := range stages {
		if err := c.validateRefs(s); err != nil {
			return nil, err
		}
	}

	order, err := c.sortStages()
	if err != nil {
		return nil, err
	}
	c.order = order

	return c, nil
}

// validateRefs checks that every upstream reference of a stage names a known
// stage and a declared output slot.
func (c *Catalog) validateRefs(s RuleTemplate) error {
	for _, dep := range s.After {
		if _, ok := c.byID[dep]; !ok {
			return zerr.With(zerr.With(ErrStageNotFound, "stage", s.ID), "after", dep)
		}
	}

	for _, in := range s.Inputs {
		if in.Stage == "" {
			continue
		}
		up, ok := c.byID[in.Stage]
		if !ok {
			return zerr.With(zerr.With(ErrStageNotFound, "stage", s.ID), "input_stage", in.Stage)
		}
		if in.Output < 0 || in.Output >= len(up.Outputs) {
			return zerr.With(zerr.With(zerr.With(ErrUnresolvedInput,
				"stage", s.ID),
				"input_stage", in.Stage),
				"output_index", in.Output,
			)
		}
	}

	return nil
}

// sortStages runs a topological sort over the template-level relation.
// A cycle here is a catalog misconfiguration and aborts before any group is
// processed.
func (c *Catalog) sortStages() ([]string, error) {
	var edges []toposort.Edge
	for _, s := range c.stages {
		deps := c.upstreamIDs(s)
		if len(deps) == 0 {
			edges = append(edges, toposort.Edge{nil, s.ID})
			continue
		}
		for _, dep := range deps {
			edges = append(edges, toposort.Edge{dep, s.ID})
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, zerr.With(ErrCycle, "cause", err.Error())
	}

	order := make([]string, 0, len(c.stages))
	for _, id := range sorted {
		if id != nil {
			order = append(order, id.(string))
		}
	}
	return order, nil
}

// upstreamIDs returns the deduplicated upstream stage IDs of s, from both its
// explicit After list and its stage-bound input slots.
func (c *Catalog) upstreamIDs(s RuleTemplate) []string {
	seen := make(map[string]bool)
	var ids []string

	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, dep := range s.After {
		add(dep)
	}
	for _, in := range s.Inputs {
		add(in.Stage)
	}
	return ids
}

// Stage returns the template with the given identifier.
func (c *Catalog) Stage(id string) (*RuleTemplate, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Order returns stage identifiers in topological order.
func (c *Catalog) Order() []string {
	return c.order
}

// Len returns the number of stages in the catalog.
func (c *Catalog) Len() int {
	return len(c.stages)
}

// Terminal returns the identifiers of sink stages: stages no other stage
// consumes. Their outputs are the pipeline's reportable artifacts and form
// the default build target.
func (c *Catalog) Terminal() []string {
	consumed := make(map[string]bool)
	for _, s := range c.stages {
		for _, id := range c.upstreamIDs(s) {
			consumed[id] = true
		}
	}

	var terminal []string
	for _, id := range c.order {
		if !consumed[id] {
			terminal = append(terminal, id)
		}
	}
	return terminal
}

// Closure expands the given stage set with its transitive upstream stages,
// returned in catalog topological order. Unknown identifiers are reported as
// ErrStageNotFound.
func (c *Catalog) Closure(ids []string) ([]string, error) {
	include := make(map[string]bool)

	var visit func(id string) error
	visit = func(id string) error {
		if include[id] {
			return nil
		}
		s, ok := c.byID[id]
		if !ok {
			return zerr.With(ErrStageNotFound, "stage", id)
		}
		include[id] = true
		for _, dep := range c.upstreamIDs(*s) {
			if err := visit(dep); err != nil {
				return err
			}
		}
		return nil
	}

	for _, id := range ids {
		if err := visit(id); err != nil {
			return nil, err
		}
	}

	closure := make([]string, 0, len(include))
	for _, id := range c.order {
		if include[id] {
			closure = append(closure, id)
		}
	}
	return closure, nil
}
