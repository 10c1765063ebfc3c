package artifact_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EricSDavis/MicroC/internal/adapters/artifact"
	"github.com/EricSDavis/MicroC/internal/core/domain"
	"github.com/EricSDavis/MicroC/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newStore(t *testing.T) *artifact.Store {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	return artifact.NewStore(log)
}

func output(path string, class domain.ArtifactClass) domain.Artifact {
	return domain.Artifact{Path: domain.NewInternedString(path), Class: class}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// pipelineGraph builds align -> dedup -> map, where align's output is
// transient and consumed only by dedup.
func pipelineGraph(t *testing.T, root string) (*domain.Graph, string, string) {
	t.Helper()
	g := domain.NewGraph("S1", root)

	aligned := filepath.Join(root, "aligned", "S1.bam")
	deduped := filepath.Join(root, "dedup", "S1.pairs")
	mapped := filepath.Join(root, "map", "S1.cool")

	require.NoError(t, g.AddTask(&domain.Task{
		Name:    domain.NewInternedString("align:S1"),
		Stage:   "align",
		Group:   "S1",
		Root:    root,
		Outputs: []domain.Artifact{output(aligned, domain.ArtifactTransient)},
	}))
	require.NoError(t, g.AddTask(&domain.Task{
		Name:         domain.NewInternedString("dedup:S1"),
		Stage:        "dedup",
		Group:        "S1",
		Root:         root,
		Inputs:       [][]string{{aligned}},
		Outputs:      []domain.Artifact{output(deduped, domain.ArtifactFinal)},
		Dependencies: domain.NewInternedStrings([]string{"align:S1"}),
	}))
	require.NoError(t, g.AddTask(&domain.Task{
		Name:         domain.NewInternedString("map:S1"),
		Stage:        "map",
		Group:        "S1",
		Root:         root,
		Inputs:       [][]string{{deduped}},
		Outputs:      []domain.Artifact{output(mapped, domain.ArtifactFinal)},
		Dependencies: domain.NewInternedStrings([]string{"dedup:S1"}),
	}))
	require.NoError(t, g.Validate())

	return g, aligned, deduped
}

func TestStore_UpToDate(t *testing.T) {
	root := t.TempDir()
	s := newStore(t)
	g, aligned, _ := pipelineGraph(t, root)
	s.Track(g)

	task, ok := g.GetTask(domain.NewInternedString("align:S1"))
	require.True(t, ok)

	t.Run("missing output", func(t *testing.T) {
		assert.False(t, s.UpToDate(&task))
	})

	t.Run("existing output", func(t *testing.T) {
		writeFile(t, aligned, "reads")
		assert.True(t, s.UpToDate(&task))
	})

	t.Run("no declared outputs", func(t *testing.T) {
		empty := domain.Task{Name: domain.NewInternedString("noop:S1")}
		assert.False(t, s.UpToDate(&empty))
	})
}

func TestStore_CommitDetectsTruncatedOutputs(t *testing.T) {
	root := t.TempDir()
	s := newStore(t)
	g, aligned, _ := pipelineGraph(t, root)
	s.Track(g)

	task, ok := g.GetTask(domain.NewInternedString("align:S1"))
	require.True(t, ok)

	writeFile(t, aligned, "full contents of the aligned file")
	require.NoError(t, s.Commit(&task))
	require.True(t, s.UpToDate(&task))

	// A shorter file with the same path no longer matches the fingerprint.
	writeFile(t, aligned, "partial")
	assert.False(t, s.UpToDate(&task))
}

func TestStore_CommitMissingOutputFails(t *testing.T) {
	root := t.TempDir()
	s := newStore(t)
	g, _, _ := pipelineGraph(t, root)
	s.Track(g)

	task, ok := g.GetTask(domain.NewInternedString("align:S1"))
	require.True(t, ok)

	err := s.Commit(&task)
	require.ErrorIs(t, err, domain.ErrStateWriteFailed)
}

func TestStore_SettleDeletesTransientArtifacts(t *testing.T) {
	root := t.TempDir()
	s := newStore(t)
	g, aligned, deduped := pipelineGraph(t, root)
	s.Track(g)

	writeFile(t, aligned, "reads")
	writeFile(t, deduped, "pairs")

	// Producer settled, consumer still pending: artifact must survive.
	s.Settle(domain.NewInternedString("align:S1"))
	assert.FileExists(t, aligned)

	// Last consumer settled: the transient artifact is deleted.
	s.Settle(domain.NewInternedString("dedup:S1"))
	assert.NoFileExists(t, aligned)

	// Final artifacts are never deleted.
	s.Settle(domain.NewInternedString("map:S1"))
	assert.FileExists(t, deduped)
}

func TestStore_SettleToleratesMissingArtifacts(t *testing.T) {
	root := t.TempDir()
	s := newStore(t)
	g, aligned, _ := pipelineGraph(t, root)
	s.Track(g)

	// The producer failed before writing anything.
	s.Settle(domain.NewInternedString("align:S1"))
	s.Settle(domain.NewInternedString("dedup:S1"))
	assert.NoFileExists(t, aligned)
}
