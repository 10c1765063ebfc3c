package domain

import "time"

// ArtifactClass describes the durability of a declared output.
type ArtifactClass string

const (
	// ArtifactTransient marks an output that is deleted once no remaining
	// task depends on it.
	ArtifactTransient ArtifactClass = "transient"
	// ArtifactFinal marks an output retained for the caller.
	ArtifactFinal ArtifactClass = "final"
)

// Artifact is a declared output path with its durability classification.
type Artifact struct {
	Path  InternedString
	Class ArtifactClass
}

// Task is a RuleTemplate bound to one concrete group. Input and output paths
// are fully resolved; the command template is rendered by the runner against
// the task's scratch output locations.
type Task struct {
	Name    InternedString
	Stage   string
	Group   GroupKey
	Threads int

	// Root is the output root directory the task's layout (scratch, logs,
	// benchmarks) hangs off.
	Root string

	// Inputs holds one resolved path list per declared input slot.
	Inputs  [][]string
	Outputs []Artifact

	Command CommandTemplate
	Env     map[string]string
	Params  map[string]string
	Timeout time.Duration

	Dependencies []InternedString
}

// TaskName derives the canonical task name for a stage and group.
func TaskName(stage string, group GroupKey) InternedString {
	return NewInternedString(stage + ":" + string(group))
}

// OutputPaths returns the task's declared final output paths.
func (t *Task) OutputPaths() []string {
	paths := make([]string, len(t.Outputs))
	for i, out := range t.Outputs {
		paths[i] = out.Path.String()
	}
	return paths
}

// InputPaths returns the task's resolved input paths, flattened across slots.
func (t *Task) InputPaths() []string {
	var paths []string
	for _, slot := range t.Inputs {
		paths = append(paths, slot...)
	}
	return paths
}

// RunRecord is the benchmark record of one task attempt, persisted next to
// the group's artifacts.
type RunRecord struct {
	Task      string        `json:"task"`
	Group     string        `json:"group"`
	ExitCode  int           `json:"exit_code"`
	Duration  time.Duration `json:"duration_ns"`
	UserTime  time.Duration `json:"user_time_ns"`
	SysTime   time.Duration `json:"sys_time_ns"`
	MaxRSSKiB int64         `json:"max_rss_kib,omitempty"`
	LogPath   string        `json:"log_path"`
	StartedAt time.Time     `json:"started_at"`
}
