// Package app implements the application layer for microc.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/EricSDavis/MicroC/internal/core/domain"
	"github.com/EricSDavis/MicroC/internal/core/ports"
	"github.com/EricSDavis/MicroC/internal/engine/graph"
	"github.com/EricSDavis/MicroC/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	samples      ports.SampleSource
	store        ports.ArtifactStore
	scheduler    *scheduler.Scheduler
	tracer       ports.Tracer
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	samples ports.SampleSource,
	store ports.ArtifactStore,
	sched *scheduler.Scheduler,
	tracer ports.Tracer,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		samples:      samples,
		store:        store,
		scheduler:    sched,
		tracer:       tracer,
		logger:       log,
	}
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// Groups restricts the run to the named sample groups. Empty means all.
	Groups []string
	// Stages restricts the run to the named stages plus everything they
	// transitively depend on. Empty means every terminal stage.
	Stages []string
	// Threads overrides the configured concurrency budget when positive.
	Threads int
	// JSON switches log output to one JSON object per line.
	JSON bool
	// SummaryPath, when set, is a file the run summary is written to.
	SummaryPath string
}

// Run builds the task graphs for the requested groups and stages and
// executes them to completion.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	if opts.JSON {
		a.logger.SetJSON(true)
	}

	// Flush any pending spans once the run is over.
	defer func() {
		_ = a.tracer.Shutdown(ctx)
	}()

	cfg, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	groups, err := a.samples.Groups(cfg.Samples)
	if err != nil {
		return zerr.Wrap(err, "failed to read sample table")
	}

	targets := opts.Stages
	if len(targets) == 0 {
		targets = cfg.Catalog.Terminal()
	}
	stages, err := cfg.Catalog.Closure(targets)
	if err != nil {
		return err
	}

	groupKeys := make([]domain.GroupKey, 0, len(opts.Groups))
	for _, g := range opts.Groups {
		groupKeys = append(groupKeys, domain.GroupKey(g))
	}

	graphs, err := graph.NewBuilder(cfg).Build(groups, graph.Options{
		Groups: groupKeys,
		Stages: stages,
	})
	if err != nil {
		return err
	}

	for _, g := range graphs {
		a.store.Track(g)
	}

	threads := cfg.Threads
	if opts.Threads > 0 {
		threads = opts.Threads
	}

	summary, runErr := a.scheduler.Run(ctx, graphs, threads)

	if err := a.reportSummary(summary, opts); err != nil {
		runErr = errors.Join(runErr, err)
	}

	if runErr != nil {
		if summary.Status == scheduler.RunAborted {
			return errors.Join(domain.ErrRunAborted, runErr)
		}
		return errors.Join(domain.ErrRunFailed, runErr)
	}
	return nil
}

func (a *App) reportSummary(summary *scheduler.Summary, opts RunOptions) error {
	a.logger.Info(fmt.Sprintf("run %s: %d done, %d skipped, %d failed, %d not run",
		summary.Status, summary.Done, summary.Skipped, summary.Failed, summary.SkippedFailure))

	if opts.SummaryPath == "" {
		return nil
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to encode run summary")
	}
	if err := os.WriteFile(opts.SummaryPath, append(data, '\n'), domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to write run summary")
	}
	return nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// All removes the entire output directory instead of only the
	// engine-managed state and scratch space.
	All bool
}

// Clean removes run state and scratch space, or the whole output directory.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	cfg, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	var errs error
	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if opts.All {
		remove(cfg.Output, "output directory")
		return errs
	}

	remove(domain.StatePath(cfg.Output), "run state")
	remove(domain.ScratchPath(cfg.Output), "scratch space")
	return errs
}
