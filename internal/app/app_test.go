package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EricSDavis/MicroC/internal/adapters/telemetry"
	"github.com/EricSDavis/MicroC/internal/app"
	"github.com/EricSDavis/MicroC/internal/core/domain"
	"github.com/EricSDavis/MicroC/internal/core/ports/mocks"
	"github.com/EricSDavis/MicroC/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

type appTestMocks struct {
	loader   *mocks.MockConfigLoader
	samples  *mocks.MockSampleSource
	store    *mocks.MockArtifactStore
	executor *mocks.MockExecutor
	tracer   *mocks.MockTracer
	logger   *mocks.MockLogger
}

func setupAppTest(t *testing.T) (*app.App, appTestMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := appTestMocks{
		loader:   mocks.NewMockConfigLoader(ctrl),
		samples:  mocks.NewMockSampleSource(ctrl),
		store:    mocks.NewMockArtifactStore(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		tracer:   mocks.NewMockTracer(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}

	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	m.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	m.logger.EXPECT().Error(gomock.Any()).AnyTimes()
	m.store.EXPECT().Settle(gomock.Any()).AnyTimes()
	m.tracer.EXPECT().Shutdown(gomock.Any()).Return(nil).AnyTimes()

	preparer := mocks.NewMockEnvPreparer(ctrl)
	preparer.EXPECT().Prepare(gomock.Any(), gomock.Any()).Return([]string{}, nil).AnyTimes()

	sched := scheduler.New(m.executor, m.store, preparer, telemetry.NewNoopTracer(), m.logger)
	a := app.New(m.loader, m.samples, m.store, sched, m.tracer, m.logger)
	return a, m
}

// twoStageConfig builds align (sample-bound) feeding parse, rooted at root.
func twoStageConfig(t *testing.T, root string) *domain.Config {
	t.Helper()

	alignOut, err := domain.NewPathTemplate("aligned/{group}.bam")
	require.NoError(t, err)
	parseOut, err := domain.NewPathTemplate("parsed/{group}.pairs")
	require.NoError(t, err)

	alignCmd, err := domain.NewCommandTemplate("bwa mem {in.0} > {out.0}", 1, 1, nil)
	require.NoError(t, err)
	parseCmd, err := domain.NewCommandTemplate("pairtools parse {in.0} > {out.0}", 1, 1, nil)
	require.NoError(t, err)

	catalog, err := domain.NewCatalog([]domain.RuleTemplate{
		{
			ID:      "align",
			Inputs:  []domain.InputRef{{Role: "read1"}},
			Outputs: []domain.OutputDecl{{Path: alignOut, Transient: true}},
			Command: alignCmd,
		},
		{
			ID:      "parse",
			Inputs:  []domain.InputRef{{Stage: "align", Output: 0}},
			Outputs: []domain.OutputDecl{{Path: parseOut}},
			Command: parseCmd,
		},
	})
	require.NoError(t, err)

	return &domain.Config{
		Dir:     root,
		Samples: domain.SampleSpec{Path: filepath.Join(root, "samples.tsv")},
		Output:  root,
		Threads: 4,
		Catalog: catalog,
	}
}

func singleGroup() domain.Groups {
	return domain.Groups{
		Keys: []domain.GroupKey{"S1_R1"},
		Files: map[domain.GroupKey][]domain.SampleInput{
			"S1_R1": {{Role: "read1", Path: domain.NewInternedString("fastq/a_1.fq.gz")}},
		},
	}
}

func matchTask(name string) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		task, ok := x.(*domain.Task)
		return ok && task.Name.String() == name
	})
}

func TestApp_RunExecutesPipeline(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a, m := setupAppTest(t)
		root := t.TempDir()

		m.loader.EXPECT().Load(".").Return(twoStageConfig(t, root), nil)
		m.samples.EXPECT().Groups(gomock.Any()).Return(singleGroup(), nil)
		m.store.EXPECT().Track(gomock.Any()).Times(1)
		m.store.EXPECT().UpToDate(gomock.Any()).Return(false).AnyTimes()
		m.store.EXPECT().Commit(gomock.Any()).Return(nil).Times(2)

		alignCall := m.executor.EXPECT().Execute(
			gomock.Any(), matchTask("align:S1_R1"), gomock.Any(),
		).Return(&domain.RunRecord{}, nil).Times(1)
		m.executor.EXPECT().Execute(
			gomock.Any(), matchTask("parse:S1_R1"), gomock.Any(),
		).Return(&domain.RunRecord{}, nil).Times(1).After(alignCall)

		err := a.Run(context.Background(), app.RunOptions{})
		require.NoError(t, err)
	})
}

func TestApp_RunStageSelectionStopsEarly(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a, m := setupAppTest(t)
		root := t.TempDir()

		m.loader.EXPECT().Load(".").Return(twoStageConfig(t, root), nil)
		m.samples.EXPECT().Groups(gomock.Any()).Return(singleGroup(), nil)
		m.store.EXPECT().Track(gomock.Any()).Times(1)
		m.store.EXPECT().UpToDate(gomock.Any()).Return(false).AnyTimes()
		m.store.EXPECT().Commit(gomock.Any()).Return(nil).Times(1)

		// Requesting align must not run its downstream parse stage.
		m.executor.EXPECT().Execute(
			gomock.Any(), matchTask("align:S1_R1"), gomock.Any(),
		).Return(&domain.RunRecord{}, nil).Times(1)

		err := a.Run(context.Background(), app.RunOptions{Stages: []string{"align"}})
		require.NoError(t, err)
	})
}

func TestApp_RunTaskFailure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a, m := setupAppTest(t)
		root := t.TempDir()

		m.loader.EXPECT().Load(".").Return(twoStageConfig(t, root), nil)
		m.samples.EXPECT().Groups(gomock.Any()).Return(singleGroup(), nil)
		m.store.EXPECT().Track(gomock.Any()).Times(1)
		m.store.EXPECT().UpToDate(gomock.Any()).Return(false).AnyTimes()

		m.executor.EXPECT().Execute(
			gomock.Any(), matchTask("align:S1_R1"), gomock.Any(),
		).Return(nil, errors.New("bwa crashed")).Times(1)

		err := a.Run(context.Background(), app.RunOptions{})
		require.Error(t, err)
		require.ErrorIs(t, err, domain.ErrRunFailed)
	})
}

func TestApp_RunConfigErrorSurfaces(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a, m := setupAppTest(t)

		m.loader.EXPECT().Load(".").Return(nil, domain.ErrConfigNotFound)

		err := a.Run(context.Background(), app.RunOptions{})
		require.ErrorIs(t, err, domain.ErrConfigNotFound)
	})
}

func TestApp_RunShutsDownTracer(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	tracer := mocks.NewMockTracer(ctrl)

	// Pending spans must be flushed even when the run ends early.
	loader.EXPECT().Load(".").Return(nil, domain.ErrConfigNotFound)
	tracer.EXPECT().Shutdown(gomock.Any()).Return(nil).Times(1)

	sched := scheduler.New(
		mocks.NewMockExecutor(ctrl),
		mocks.NewMockArtifactStore(ctrl),
		mocks.NewMockEnvPreparer(ctrl),
		telemetry.NewNoopTracer(),
		mocks.NewMockLogger(ctrl),
	)
	a := app.New(
		loader,
		mocks.NewMockSampleSource(ctrl),
		mocks.NewMockArtifactStore(ctrl),
		sched,
		tracer,
		mocks.NewMockLogger(ctrl),
	)

	err := a.Run(context.Background(), app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestApp_RunUnknownStageFails(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a, m := setupAppTest(t)
		root := t.TempDir()

		m.loader.EXPECT().Load(".").Return(twoStageConfig(t, root), nil)
		m.samples.EXPECT().Groups(gomock.Any()).Return(singleGroup(), nil)

		err := a.Run(context.Background(), app.RunOptions{Stages: []string{"dedup"}})
		require.ErrorIs(t, err, domain.ErrStageNotFound)
	})
}

func TestApp_RunWritesSummaryFile(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a, m := setupAppTest(t)
		root := t.TempDir()
		summaryPath := filepath.Join(root, "summary.json")

		m.loader.EXPECT().Load(".").Return(twoStageConfig(t, root), nil)
		m.samples.EXPECT().Groups(gomock.Any()).Return(singleGroup(), nil)
		m.store.EXPECT().Track(gomock.Any()).Times(1)
		m.store.EXPECT().UpToDate(gomock.Any()).Return(false).AnyTimes()
		m.store.EXPECT().Commit(gomock.Any()).Return(nil).AnyTimes()
		m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&domain.RunRecord{}, nil).Times(2)

		err := a.Run(context.Background(), app.RunOptions{SummaryPath: summaryPath})
		require.NoError(t, err)

		data, err := os.ReadFile(summaryPath)
		require.NoError(t, err)

		var summary scheduler.Summary
		require.NoError(t, json.Unmarshal(data, &summary))
		assert.Equal(t, scheduler.RunDone, summary.Status)
		assert.Equal(t, 2, summary.Done)
	})
}

func TestApp_Clean(t *testing.T) {
	a, m := setupAppTest(t)
	root := t.TempDir()

	final := filepath.Join(root, "S1_R1", "parsed.pairs")
	require.NoError(t, os.MkdirAll(filepath.Dir(final), 0o750))
	require.NoError(t, os.WriteFile(final, []byte("pairs"), 0o644))
	require.NoError(t, os.MkdirAll(domain.StatePath(root), 0o750))
	require.NoError(t, os.MkdirAll(domain.ScratchPath(root), 0o750))

	m.loader.EXPECT().Load(".").Return(twoStageConfig(t, root), nil).Times(2)

	require.NoError(t, a.Clean(context.Background(), app.CleanOptions{}))
	assert.NoDirExists(t, domain.StatePath(root))
	assert.NoDirExists(t, domain.ScratchPath(root))
	assert.FileExists(t, final)

	require.NoError(t, a.Clean(context.Background(), app.CleanOptions{All: true}))
	assert.NoDirExists(t, root)
}
