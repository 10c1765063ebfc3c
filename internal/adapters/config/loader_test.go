package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EricSDavis/MicroC/internal/adapters/config"
	"github.com/EricSDavis/MicroC/internal/core/domain"
	"github.com/EricSDavis/MicroC/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const validConfig = `
version: "1"
samples:
  path: samples.tsv
  mergeBy: [sample, rep]
  roles:
    - name: read1
      column: fq1
    - name: read2
      column: fq2
output: results
threads: 16
params:
  genome: /refs/hg38.fa
stages:
  - id: align
    threads: 8
    timeout: 2h
    environment:
      BWA_THREADS: "8"
    inputs:
      - samples: read1
      - samples: read2
    outputs:
      - path: aligned/{group}.bam
        transient: true
    cmd: "bwa mem -t {threads} {params.genome} {in.0} {in.1} > {out.0}"
  - id: stats
    inputs:
      - stage: align
        output: 0
    outputs:
      - path: stats/{group}.txt
    cmd: "samtools flagstat {in.0} > {out.0}"
`

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	return config.NewLoader(mocks.NewMockLogger(ctrl))
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, domain.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return dir
}

func TestLoader_LoadParsesPipelinefile(t *testing.T) {
	dir := writeConfig(t, validConfig)

	cfg, err := newLoader(t).Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, filepath.Join(dir, "samples.tsv"), cfg.Samples.Path)
	assert.Equal(t, filepath.Join(dir, "results"), cfg.Output)
	assert.Equal(t, 16, cfg.Threads)
	assert.Equal(t, "/refs/hg38.fa", cfg.Params["genome"])

	require.Equal(t, 2, cfg.Catalog.Len())
	align, ok := cfg.Catalog.Stage("align")
	require.True(t, ok)
	assert.Equal(t, 8, align.Threads)
	assert.Equal(t, 2*time.Hour, align.Timeout)
	assert.Equal(t, map[string]string{"BWA_THREADS": "8"}, align.Env)
	require.Len(t, align.Inputs, 2)
	assert.Equal(t, "read1", align.Inputs[0].Role)
	require.Len(t, align.Outputs, 1)
	assert.True(t, align.Outputs[0].Transient)

	stats, ok := cfg.Catalog.Stage("stats")
	require.True(t, ok)
	require.Len(t, stats.Inputs, 1)
	assert.Equal(t, "align", stats.Inputs[0].Stage)
	assert.Equal(t, []string{"align", "stats"}, cfg.Catalog.Order())
}

func TestLoader_LoadWalksUpToFindConfig(t *testing.T) {
	dir := writeConfig(t, validConfig)
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	cfg, err := newLoader(t).Load(nested)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir)
}

func TestLoader_LoadMissingConfigFails(t *testing.T) {
	_, err := newLoader(t).Load(t.TempDir())
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestLoader_LoadMalformedYAMLFails(t *testing.T) {
	dir := writeConfig(t, "stages: [\n")

	_, err := newLoader(t).Load(dir)
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

func TestLoader_LoadRejectsInvalidConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate string
	}{
		{
			"missing sample table path",
			`
samples:
  mergeBy: [sample]
  roles: [{name: read1, column: fq1}]
stages:
  - id: align
    outputs: [{path: "a/{group}"}]
    cmd: "true"
`,
		},
		{
			"no stages",
			`
samples:
  path: samples.tsv
  mergeBy: [sample]
  roles: [{name: read1, column: fq1}]
`,
		},
		{
			"unknown sample role",
			`
samples:
  path: samples.tsv
  mergeBy: [sample]
  roles: [{name: read1, column: fq1}]
stages:
  - id: align
    inputs: [{samples: read9}]
    outputs: [{path: "a/{group}"}]
    cmd: "true"
`,
		},
		{
			"input slot binds role and stage",
			`
samples:
  path: samples.tsv
  mergeBy: [sample]
  roles: [{name: read1, column: fq1}]
stages:
  - id: align
    inputs: [{samples: read1, stage: align}]
    outputs: [{path: "a/{group}"}]
    cmd: "true"
`,
		},
		{
			"absolute output path",
			`
samples:
  path: samples.tsv
  mergeBy: [sample]
  roles: [{name: read1, column: fq1}]
stages:
  - id: align
    outputs: [{path: "/abs/{group}"}]
    cmd: "true"
`,
		},
		{
			"output path without group placeholder",
			`
samples:
  path: samples.tsv
  mergeBy: [sample]
  roles: [{name: read1, column: fq1}]
stages:
  - id: align
    outputs: [{path: "aligned/all.bam"}]
    cmd: "true"
`,
		},
		{
			"stage without outputs",
			`
samples:
  path: samples.tsv
  mergeBy: [sample]
  roles: [{name: read1, column: fq1}]
stages:
  - id: align
    cmd: "true"
`,
		},
		{
			"invalid timeout",
			`
samples:
  path: samples.tsv
  mergeBy: [sample]
  roles: [{name: read1, column: fq1}]
stages:
  - id: align
    timeout: fast
    outputs: [{path: "a/{group}"}]
    cmd: "true"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeConfig(t, tt.mutate)
			_, err := newLoader(t).Load(dir)
			require.ErrorIs(t, err, domain.ErrConfig)
		})
	}
}

func TestLoader_LoadRejectsUnknownCommandPlaceholder(t *testing.T) {
	dir := writeConfig(t, `
samples:
  path: samples.tsv
  mergeBy: [sample]
  roles: [{name: read1, column: fq1}]
stages:
  - id: align
    inputs: [{samples: read1}]
    outputs: [{path: "a/{group}"}]
    cmd: "cat {in.3}"
`)

	_, err := newLoader(t).Load(dir)
	require.ErrorIs(t, err, domain.ErrUnknownPlaceholder)
}

func TestLoader_LoadDefaults(t *testing.T) {
	dir := writeConfig(t, `
samples:
  path: samples.tsv
  mergeBy: [sample]
  roles: [{name: read1, column: fq1}]
stages:
  - id: align
    inputs: [{samples: read1}]
    outputs: [{path: "a/{group}"}]
    cmd: "true"
`)

	cfg, err := newLoader(t).Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "output"), cfg.Output)
	assert.Positive(t, cfg.Threads)

	align, ok := cfg.Catalog.Stage("align")
	require.True(t, ok)
	assert.Equal(t, 1, align.Threads)
	assert.Zero(t, align.Timeout)
}
