// Package domain contains the core data model of the pipeline engine: sample
// grouping, the rule catalog, concrete tasks and the per-group task graph.
package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// Graph is the set of concrete tasks for one group plus their dependency
// relation. Task A depends on task B iff A consumes an output B produces.
// The relation is acyclic by construction (the catalog's template-level
// relation is checked once at catalog load and no group-crossing edges are
// ever created), but Validate guards the invariant anyway.
type Graph struct {
	group          GroupKey
	root           string
	tasks          map[InternedString]Task
	dependents     map[InternedString][]InternedString
	insertionOrder []InternedString
	executionOrder []InternedString
}

// NewGraph creates an empty graph for the given group, rooted at the output
// directory root.
func NewGraph(group GroupKey, root string) *Graph {
	return &Graph{
		group:      group,
		root:       root,
		tasks:      make(map[InternedString]Task),
		dependents: make(map[InternedString][]InternedString),
	}
}

// Group returns the group key this graph was expanded for.
func (g *Graph) Group() GroupKey {
	return g.group
}

// Root returns the output root directory.
func (g *Graph) Root() string {
	return g.root
}

// AddTask adds a task to the graph. Tasks must be added in an order where
// dependencies precede dependents; the builder guarantees this by expanding
// stages in catalog topological order.
func (g *Graph) AddTask(t *Task) error {
	if _, exists := g.tasks[t.Name]; exists {
		return zerr.With(ErrTaskAlreadyExists, "task", t.Name.String())
	}
	g.tasks[t.Name] = *t
	g.insertionOrder = append(g.insertionOrder, t.Name)

	for _, dep := range t.Dependencies {
		g.dependents[dep] = append(g.dependents[dep], t.Name)
	}
	return nil
}

// GetTask returns the task with the given name.
func (g *Graph) GetTask(name InternedString) (Task, bool) {
	t, ok := g.tasks[name]
	return t, ok
}

// Dependents returns the tasks that directly depend on the given task.
func (g *Graph) Dependents(name InternedString) []InternedString {
	return g.dependents[name]
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// Validate checks the acyclicity invariant with a depth-first search and
// populates the execution order. Visiting tasks in insertion order keeps the
// resulting order deterministic for identical input.
func (g *Graph) Validate() error {
	g.executionOrder = make([]InternedString, 0, len(g.tasks))
	visited := make(map[InternedString]int) // 0 unvisited, 1 visiting, 2 done
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		task, exists := g.tasks[u]
		if !exists {
			return zerr.With(ErrMissingDependency, "dependency", u.String())
		}

		for _, dep := range task.Dependencies {
			if visited[dep] == 1 {
				return g.cycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	for _, name := range g.insertionOrder {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

func (g *Graph) cycleError(path []InternedString, dep InternedString) error {
	start := 0
	for i, node := range path {
		if node == dep {
			start = i
			break
		}
	}

	cycle := ""
	for i := start; i < len(path); i++ {
		cycle += path[i].String() + " -> "
	}
	cycle += dep.String()

	return zerr.With(ErrCycle, "cycle", cycle)
}

// Walk returns an iterator over tasks in execution order. Validate must have
// been called and returned nil.
func (g *Graph) Walk() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.tasks[name]) {
				return
			}
		}
	}
}
