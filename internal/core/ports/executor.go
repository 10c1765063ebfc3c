// Package ports defines the core interfaces of the pipeline engine.
package ports

import (
	"context"

	"github.com/EricSDavis/MicroC/internal/core/domain"
)

// Executor runs a single task's external command.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the task's command once. It owns the task's scratch
	// directory for the duration of the call, captures diagnostics to the
	// task's log file and atomically promotes declared outputs on success.
	//
	// The env parameter contains environment variables in "KEY=VALUE" form,
	// produced by an EnvPreparer.
	//
	// A benchmark record is returned for every attempt that spawned a
	// process, including failed ones.
	Execute(ctx context.Context, task *domain.Task, env []string) (*domain.RunRecord, error)
}
