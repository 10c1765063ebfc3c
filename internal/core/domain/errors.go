package domain

import "errors"

// Sentinels are plain errors so that zerr.With and zerr.Wrap chain them as
// causes, keeping them matchable with errors.Is after context is attached.
var (
	// ErrConfig is returned when the pipeline configuration or sample table is invalid.
	ErrConfig = errors.New("invalid configuration")

	// ErrCycle is returned when the stage catalog contains a dependency cycle.
	ErrCycle = errors.New("cycle detected in stage catalog")

	// ErrUnresolvedInput is returned when a stage input references an upstream
	// stage that is not part of the build.
	ErrUnresolvedInput = errors.New("unresolved upstream input")

	// ErrResourceConfig is returned when a task requests more threads than the
	// total concurrency budget.
	ErrResourceConfig = errors.New("task thread requirement exceeds concurrency budget")

	// ErrTaskExecution is returned when an external command fails.
	ErrTaskExecution = errors.New("task execution failed")

	// ErrTaskTimeout is returned when an external command exceeds its configured timeout.
	ErrTaskTimeout = errors.New("task timed out")

	// ErrRunAborted is returned when the run is cancelled before all tasks finished.
	ErrRunAborted = errors.New("run aborted")

	// ErrRunFailed is returned when one or more tasks failed.
	ErrRunFailed = errors.New("run finished with failures")

	// ErrTaskAlreadyExists is returned when adding a task with a duplicate name to a graph.
	ErrTaskAlreadyExists = errors.New("task already exists")

	// ErrMissingDependency is returned when a task references a dependency missing from its graph.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrStageNotFound is returned when a requested stage is not in the catalog.
	ErrStageNotFound = errors.New("stage not found")

	// ErrGroupNotFound is returned when a requested group key is not in the sample table.
	ErrGroupNotFound = errors.New("group not found")

	// ErrDuplicateStage is returned when two catalog stages share an identifier.
	ErrDuplicateStage = errors.New("duplicate stage identifier")

	// ErrInvalidStageID is returned when a stage identifier contains invalid characters.
	ErrInvalidStageID = errors.New("stage identifier can only contain alphanumeric characters, hyphens and underscores")

	// ErrInvalidTemplate is returned when a path or command template is malformed.
	ErrInvalidTemplate = errors.New("invalid template")

	// ErrUnknownPlaceholder is returned when a template references an unknown placeholder.
	ErrUnknownPlaceholder = errors.New("unknown template placeholder")

	// ErrConfigNotFound is returned when no microc.yaml can be located.
	ErrConfigNotFound = errors.New("could not find " + ConfigFileName)

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = errors.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = errors.New("failed to parse config file")

	// ErrSampleTableReadFailed is returned when the sample table cannot be read.
	ErrSampleTableReadFailed = errors.New("failed to read sample table")

	// ErrScratchCreateFailed is returned when a task scratch directory cannot be created.
	ErrScratchCreateFailed = errors.New("failed to create scratch directory")

	// ErrLogCreateFailed is returned when a task log file cannot be created.
	ErrLogCreateFailed = errors.New("failed to create task log file")

	// ErrOutputMissing is returned when a command exits successfully without
	// producing a declared output in its scratch directory.
	ErrOutputMissing = errors.New("declared output missing after command succeeded")

	// ErrPromoteFailed is returned when moving an output to its final path fails.
	ErrPromoteFailed = errors.New("failed to promote output")

	// ErrStateWriteFailed is returned when artifact state cannot be written.
	ErrStateWriteFailed = errors.New("failed to write artifact state")
)
