package env_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EricSDavis/MicroC/internal/adapters/env"
)

func TestPreparer_FiltersSystemEnvironment(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")
	t.Setenv("SECRET_TOKEN", "hunter2")

	got, err := env.NewPreparer().Prepare(context.Background(), nil)
	require.NoError(t, err)

	assert.Contains(t, got, "PATH=/usr/bin")
	assert.NotContains(t, got, "SECRET_TOKEN=hunter2")
}

func TestPreparer_StageOverridesWin(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")

	got, err := env.NewPreparer().Prepare(context.Background(), map[string]string{
		"PATH":        "/opt/pipeline/bin",
		"BWA_THREADS": "8",
	})
	require.NoError(t, err)

	assert.Contains(t, got, "PATH=/opt/pipeline/bin")
	assert.Contains(t, got, "BWA_THREADS=8")
	assert.NotContains(t, got, "PATH=/usr/bin")
}

func TestPreparer_ResultIsSorted(t *testing.T) {
	got, err := env.NewPreparer().Prepare(context.Background(), map[string]string{
		"ZVAR": "1",
		"AVAR": "2",
	})
	require.NoError(t, err)
	assert.IsIncreasing(t, got)
}
