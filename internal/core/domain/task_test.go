package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EricSDavis/MicroC/internal/core/domain"
)

func TestTaskName(t *testing.T) {
	name := domain.TaskName("align", domain.GroupKey("S1_R1"))
	assert.Equal(t, "align:S1_R1", name.String())
}

func TestTaskOutputPaths(t *testing.T) {
	task := &domain.Task{
		Outputs: []domain.Artifact{
			{Path: domain.NewInternedString("out/S1/aligned.bam"), Class: domain.ArtifactFinal},
			{Path: domain.NewInternedString("out/S1/aligned.txt"), Class: domain.ArtifactTransient},
		},
	}

	assert.Equal(t,
		[]string{"out/S1/aligned.bam", "out/S1/aligned.txt"},
		task.OutputPaths(),
	)
}

func TestGroupLayout(t *testing.T) {
	group := domain.GroupKey("S1")

	base := domain.GroupPath("out", group)
	assert.Equal(t, filepath.Join("out", "S1"), base)

	// Logs and benchmarks live under the group directory.
	assert.Equal(t, filepath.Join(base, domain.LogsDirName), domain.LogsPath("out", group))
	assert.Equal(t, filepath.Join(base, domain.BenchmarksDirName), domain.BenchmarksPath("out", group))
}
