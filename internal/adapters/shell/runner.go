// Package shell provides the task runner: it executes one task's external
// command inside a private scratch directory and atomically promotes the
// declared outputs on success.
package shell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/EricSDavis/MicroC/internal/core/domain"
	"github.com/EricSDavis/MicroC/internal/core/ports"
	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// Runner implements ports.Executor using os/exec. Each invocation owns a
// disjoint scratch directory, so concurrent runner calls need no
// synchronization with each other.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Execute runs the task's command exactly once. The command writes its
// outputs into the scratch directory; on exit status zero each output is
// renamed to its final declared path. The scratch directory is removed
// unconditionally, success or failure, so no partial file is ever visible at
// a final path.
func (r *Runner) Execute(ctx context.Context, task *domain.Task, env []string) (*domain.RunRecord, error) {
	scratch := scratchDir(task)
	if err := os.RemoveAll(scratch); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrScratchCreateFailed, err), "task", task.Name.String())
	}
	if err := os.MkdirAll(scratch, domain.DirPerm); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrScratchCreateFailed, err), "task", task.Name.String())
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	logPath, logFile, err := openLog(task)
	if err != nil {
		return nil, err
	}
	defer func() { _ = logFile.Close() }()

	// Remove stale copies of the declared outputs so an interrupted run
	// never leaves a mix of old and new artifacts.
	for _, out := range task.Outputs {
		if err := os.Remove(out.Path.String()); err != nil && !os.IsNotExist(err) {
			return nil, zerr.With(errors.Join(domain.ErrPromoteFailed, err), "path", out.Path.String())
		}
	}

	scratchOutputs := make([]string, len(task.Outputs))
	for i, out := range task.Outputs {
		scratchOutputs[i] = filepath.Join(scratch, strconv.Itoa(i)+"_"+filepath.Base(out.Path.String()))
	}

	cmdline := task.Command.Render(domain.CommandScope{
		Group:   task.Group,
		Threads: task.Threads,
		Inputs:  task.Inputs,
		Outputs: scratchOutputs,
		Params:  task.Params,
	})

	runCtx := ctx
	var cancel context.CancelFunc
	if task.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, task.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, "sh", "-c", cmdline) //nolint:gosec // catalog-provided command by design
	cmd.Dir = scratch
	cmd.Env = env
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	r.logger.Info("running " + task.Name.String())

	started := time.Now()
	runErr := cmd.Run()
	record := r.newRecord(task, cmd, started, logPath)
	r.writeBenchmark(task, record)

	if runErr != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return record, zerr.With(zerr.With(zerr.With(zerr.With(domain.ErrTaskTimeout,
				"task", task.Name.String()),
				"group", string(task.Group)),
				"timeout", task.Timeout.String()),
				"log", logPath,
			)
		}
		return record, zerr.With(zerr.With(zerr.With(zerr.With(errors.Join(domain.ErrTaskExecution, runErr),
			"task", task.Name.String()),
			"group", string(task.Group)),
			"exit_code", record.ExitCode),
			"log", logPath,
		)
	}

	if err := promote(task, scratchOutputs, logPath); err != nil {
		return record, err
	}

	return record, nil
}

// promote moves every output from scratch to its declared path. Promotion is
// all-or-nothing: a missing or unmovable output rolls back the outputs
// already renamed.
func promote(task *domain.Task, scratchOutputs []string, logPath string) error {
	for i, src := range scratchOutputs {
		if _, err := os.Stat(src); err != nil {
			return zerr.With(zerr.With(zerr.With(domain.ErrOutputMissing,
				"task", task.Name.String()),
				"output", task.Outputs[i].Path.String()),
				"log", logPath,
			)
		}
	}

	promoted := make([]string, 0, len(scratchOutputs))
	for i, src := range scratchOutputs {
		dst := task.Outputs[i].Path.String()
		if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
			rollback(promoted)
			return zerr.With(errors.Join(domain.ErrPromoteFailed, err), "path", dst)
		}

		// Rename, never copy: scratch lives under the output root, so the
		// move stays on one filesystem and is atomic.
		if err := os.Rename(src, dst); err != nil {
			rollback(promoted)
			return zerr.With(zerr.With(errors.Join(domain.ErrPromoteFailed, err),
				"task", task.Name.String()),
				"path", dst,
			)
		}
		promoted = append(promoted, dst)
	}

	return nil
}

func rollback(promoted []string) {
	for _, path := range promoted {
		_ = os.Remove(path)
	}
}

func openLog(task *domain.Task) (string, *os.File, error) {
	logsDir := domain.LogsPath(task.Root, task.Group)
	if err := os.MkdirAll(logsDir, domain.DirPerm); err != nil {
		return "", nil, errors.Join(domain.ErrLogCreateFailed, err)
	}

	logPath := filepath.Join(logsDir, task.Stage+".log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePerm) //nolint:gosec // path derived from validated stage ID
	if err != nil {
		return "", nil, zerr.With(errors.Join(domain.ErrLogCreateFailed, err), "path", logPath)
	}

	return logPath, f, nil
}

func (r *Runner) newRecord(task *domain.Task, cmd *exec.Cmd, started time.Time, logPath string) *domain.RunRecord {
	record := &domain.RunRecord{
		Task:      task.Name.String(),
		Group:     string(task.Group),
		Duration:  time.Since(started),
		LogPath:   logPath,
		StartedAt: started,
		ExitCode:  -1,
	}

	state := cmd.ProcessState
	if state == nil {
		return record
	}

	record.ExitCode = state.ExitCode()
	record.UserTime = state.UserTime()
	record.SysTime = state.SystemTime()
	if ru, ok := state.SysUsage().(*syscall.Rusage); ok {
		record.MaxRSSKiB = int64(ru.Maxrss)
	}

	return record
}

// writeBenchmark persists the run record. Benchmark write failures never fail
// the task; they are only reported.
func (r *Runner) writeBenchmark(task *domain.Task, record *domain.RunRecord) {
	benchDir := domain.BenchmarksPath(task.Root, task.Group)
	if err := os.MkdirAll(benchDir, domain.DirPerm); err != nil {
		r.logger.Warn("failed to create benchmark directory " + benchDir)
		return
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		r.logger.Warn("failed to marshal benchmark record for " + record.Task)
		return
	}

	path := filepath.Join(benchDir, task.Stage+".json")
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		r.logger.Warn("failed to write benchmark record " + path)
	}
}

func scratchDir(task *domain.Task) string {
	sum := xxhash.Sum64String(task.Name.String())
	return filepath.Join(domain.ScratchPath(task.Root), fmt.Sprintf("%016x", sum))
}
