package domain

import "path/filepath"

const (
	// MicrocDirName is the name of the internal engine directory.
	MicrocDirName = ".microc"

	// StateDirName is the name of the artifact state directory.
	StateDirName = "state"

	// ScratchDirName is the name of the per-task scratch directory.
	ScratchDirName = "scratch"

	// LogsDirName is the name of the per-group task log directory.
	LogsDirName = "logs"

	// BenchmarksDirName is the name of the per-group benchmark directory.
	BenchmarksDirName = "benchmarks"

	// ConfigFileName is the name of the pipeline configuration file.
	ConfigFileName = "microc.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// StatePath returns the artifact state directory under the output root.
func StatePath(root string) string {
	return filepath.Join(root, MicrocDirName, StateDirName)
}

// ScratchPath returns the scratch directory under the output root.
func ScratchPath(root string) string {
	return filepath.Join(root, MicrocDirName, ScratchDirName)
}

// GroupPath returns the directory holding a group's final artifacts.
func GroupPath(root string, group GroupKey) string {
	return filepath.Join(root, string(group))
}

// LogsPath returns the log directory for a group.
func LogsPath(root string, group GroupKey) string {
	return filepath.Join(GroupPath(root, group), LogsDirName)
}

// BenchmarksPath returns the benchmark directory for a group.
func BenchmarksPath(root string, group GroupKey) string {
	return filepath.Join(GroupPath(root, group), BenchmarksDirName)
}
