// Package scheduler walks task graphs in dependency order and dispatches
// ready tasks to a bounded pool of concurrency slots.
package scheduler

import (
	"context"
	"errors"
	"runtime"
	"slices"
	"sync"

	"github.com/EricSDavis/MicroC/internal/core/domain"
	"github.com/EricSDavis/MicroC/internal/core/ports"
	"go.trai.ch/zerr"
)

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting for its dependencies.
	StatusPending TaskStatus = "Pending"
	// StatusReady indicates every dependency is satisfied and the task is queued.
	StatusReady TaskStatus = "Ready"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusDone indicates the task finished successfully.
	StatusDone TaskStatus = "Done"
	// StatusSkipped indicates every declared output already existed.
	StatusSkipped TaskStatus = "Skipped"
	// StatusFailed indicates the task execution failed.
	StatusFailed TaskStatus = "Failed"
	// StatusSkippedFailure indicates the task never ran because something it
	// transitively depends on failed.
	StatusSkippedFailure TaskStatus = "SkippedFailure"
)

// RunStatus is the overall outcome of a run.
type RunStatus string

const (
	// RunDone means every requested task reached Done or Skipped.
	RunDone RunStatus = "done"
	// RunFailed means at least one task failed.
	RunFailed RunStatus = "failed"
	// RunAborted means the run was cancelled before all tasks finished.
	RunAborted RunStatus = "aborted"
)

// Summary is the machine-readable result of a run.
type Summary struct {
	Status         RunStatus `json:"status"`
	Done           int       `json:"done"`
	Skipped        int       `json:"skipped"`
	Failed         int       `json:"failed"`
	SkippedFailure int       `json:"skipped_failure"`
	FailedTasks    []string  `json:"failed_tasks,omitempty"`
}

// Ok reports whether every requested task reached Done or Skipped.
func (s *Summary) Ok() bool {
	return s.Status == RunDone
}

// Scheduler executes task graphs. It is the single writer of task state
// transitions; runner goroutines only report back over a channel.
type Scheduler struct {
	executor ports.Executor
	store    ports.ArtifactStore
	env      ports.EnvPreparer
	tracer   ports.Tracer
	logger   ports.Logger

	mu         sync.RWMutex
	taskStatus map[domain.InternedString]TaskStatus
}

// New creates a Scheduler with the given collaborators.
func New(
	executor ports.Executor,
	store ports.ArtifactStore,
	env ports.EnvPreparer,
	tracer ports.Tracer,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		executor:   executor,
		store:      store,
		env:        env,
		tracer:     tracer,
		logger:     logger,
		taskStatus: make(map[domain.InternedString]TaskStatus),
	}
}

// Status returns the current status of a task.
func (s *Scheduler) Status(name domain.InternedString) TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taskStatus[name]
}

func (s *Scheduler) updateStatus(name domain.InternedString, status TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[name] = status
}

// Run executes every task of the given graphs exactly once in dependency
// order, bounded by the concurrency budget. Failures are isolated: tasks
// transitively depending on a failed task are marked SkippedFailure and
// independent branches, including other graphs, run to completion. The
// returned summary always describes the full run; the error joins every
// task failure and, on cancellation, the context error.
func (s *Scheduler) Run(ctx context.Context, graphs []*domain.Graph, budget int) (*Summary, error) {
	if budget <= 0 {
		budget = runtime.NumCPU()
	}

	state := s.newRunState(ctx, graphs, budget)
	state.failOversizedTasks()
	state.seedReady()

	state.runLoop()

	return state.summarize()
}

type result struct {
	task domain.InternedString
	err  error
}

type runState struct {
	s      *Scheduler
	ctx    context.Context
	budget int
	free   int

	order      []domain.InternedString
	tasks      map[domain.InternedString]domain.Task
	inDegree   map[domain.InternedString]int
	dependents map[domain.InternedString][]domain.InternedString

	ready     []domain.InternedString
	active    int
	resultsCh chan result
	errs      error
}

func (s *Scheduler) newRunState(ctx context.Context, graphs []*domain.Graph, budget int) *runState {
	state := &runState{
		s:          s,
		ctx:        ctx,
		budget:     budget,
		free:       budget,
		tasks:      make(map[domain.InternedString]domain.Task),
		inDegree:   make(map[domain.InternedString]int),
		dependents: make(map[domain.InternedString][]domain.InternedString),
		resultsCh:  make(chan result),
	}

	for _, g := range graphs {
		for task := range g.Walk() {
			state.order = append(state.order, task.Name)
			state.tasks[task.Name] = task
			state.inDegree[task.Name] = len(task.Dependencies)
			state.dependents[task.Name] = g.Dependents(task.Name)
			s.updateStatus(task.Name, StatusPending)
		}
	}

	return state
}

// failOversizedTasks rejects tasks whose thread requirement can never fit the
// budget. Reporting them at submission instead of holding them ready forever
// turns a guaranteed deadlock into an isolated failure.
func (state *runState) failOversizedTasks() {
	for _, name := range state.order {
		t := state.tasks[name]
		if t.Threads > state.budget {
			err := zerr.With(zerr.With(zerr.With(domain.ErrResourceConfig,
				"task", name.String()),
				"threads", t.Threads),
				"budget", state.budget,
			)
			state.fail(name, err)
		}
	}
}

func (state *runState) seedReady() {
	for _, name := range state.order {
		if state.inDegree[name] == 0 && state.s.Status(name) == StatusPending {
			state.enqueue(name)
		}
	}
}

func (state *runState) enqueue(name domain.InternedString) {
	state.s.updateStatus(name, StatusReady)
	state.ready = append(state.ready, name)
}

func (state *runState) runLoop() {
	for {
		state.schedule()

		if state.active == 0 && (len(state.ready) == 0 || state.ctx.Err() != nil) {
			return
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
			// No new dispatches; drain the tasks already in flight.
			for state.active > 0 {
				state.handleResult(<-state.resultsCh)
			}
			return
		}
	}
}

// schedule dispatches every ready task that fits the free budget, scanning
// in FIFO order so behavior is deterministic. Skipping an up-to-date task or
// dispatching one can ready its dependents, so scanning repeats until a full
// pass changes nothing.
func (state *runState) schedule() {
	if state.ctx.Err() != nil {
		return
	}

	for changed := true; changed; {
		changed = false

		for i := 0; i < len(state.ready); i++ {
			name := state.ready[i]
			t := state.tasks[name]

			if state.s.store.UpToDate(&t) {
				state.ready = slices.Delete(state.ready, i, i+1)
				i--
				changed = true
				state.skip(name)
				continue
			}

			if t.Threads <= state.free {
				state.ready = slices.Delete(state.ready, i, i+1)
				i--
				changed = true

				state.free -= t.Threads
				state.active++
				state.s.updateStatus(name, StatusRunning)
				go state.executeTask(&t)
			}
		}
	}
}

func (state *runState) executeTask(t *domain.Task) {
	res := func() result {
		ctx, span := state.s.tracer.Start(state.ctx, t.Name.String())
		defer span.End()
		span.SetAttribute("microc.group", string(t.Group))
		span.SetAttribute("microc.stage", t.Stage)
		span.SetAttribute("microc.threads", t.Threads)

		env, err := state.s.env.Prepare(ctx, t.Env)
		if err != nil {
			span.RecordError(err)
			return result{task: t.Name, err: err}
		}

		record, err := state.s.executor.Execute(ctx, t, env)
		if err != nil {
			span.RecordError(err)
			return result{task: t.Name, err: err}
		}

		if record != nil {
			span.SetAttribute("microc.duration", record.Duration.String())
		}
		return result{task: t.Name}
	}()

	state.resultsCh <- res
}

func (state *runState) handleResult(res result) {
	t := state.tasks[res.task]
	state.active--
	state.free += t.Threads

	if res.err != nil {
		state.fail(res.task, res.err)
		return
	}

	if err := state.s.store.Commit(&t); err != nil {
		// Fingerprints are advisory; a failed write must not fail the task.
		state.s.logger.Warn("failed to record artifact state for " + res.task.String())
	}

	state.s.logger.Info("finished " + res.task.String())
	state.finish(res.task, StatusDone)
}

// fail marks a task failed and every task transitively depending on it as
// SkippedFailure. Settling them tells the artifact store they will never run.
func (state *runState) fail(name domain.InternedString, err error) {
	state.errs = errors.Join(state.errs, zerr.With(err, "task", name.String()))
	state.s.logger.Error(err)

	state.s.updateStatus(name, StatusFailed)
	state.s.store.Settle(name)

	queue := slices.Clone(state.dependents[name])
	for len(queue) > 0 {
		dep := queue[0]
		queue = queue[1:]

		if _, ok := state.tasks[dep]; !ok {
			continue
		}
		if state.s.Status(dep) == StatusSkippedFailure {
			continue
		}

		state.s.updateStatus(dep, StatusSkippedFailure)
		state.s.store.Settle(dep)
		queue = append(queue, state.dependents[dep]...)
	}
}

func (state *runState) skip(name domain.InternedString) {
	state.s.logger.Info("up to date, skipping " + name.String())
	state.finish(name, StatusSkipped)
}

// finish records a terminal success state and readies dependents whose
// dependencies are now all satisfied. Output promotion happened inside the
// runner before the result was reported, so a consumer dispatched here
// always observes its producer's outputs complete.
func (state *runState) finish(name domain.InternedString, status TaskStatus) {
	state.s.updateStatus(name, status)
	state.s.store.Settle(name)

	for _, dep := range state.dependents[name] {
		if _, ok := state.tasks[dep]; !ok {
			continue
		}
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 && state.s.Status(dep) == StatusPending {
			state.enqueue(dep)
		}
	}
}

func (state *runState) summarize() (*Summary, error) {
	summary := &Summary{Status: RunDone}

	for _, name := range state.order {
		switch state.s.Status(name) {
		case StatusDone:
			summary.Done++
		case StatusSkipped:
			summary.Skipped++
		case StatusFailed:
			summary.Failed++
			summary.FailedTasks = append(summary.FailedTasks, name.String())
		default:
			// Pending, Ready and Running remain only when the run was
			// cancelled; count them with the failure cascade.
			summary.SkippedFailure++
		}
	}

	errs := state.errs
	if state.ctx.Err() != nil {
		summary.Status = RunAborted
		errs = errors.Join(errs, zerr.Wrap(state.ctx.Err(), "run aborted"))
	} else if summary.Failed > 0 {
		summary.Status = RunFailed
	}

	return summary, errs
}
