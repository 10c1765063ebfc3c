package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EricSDavis/MicroC/internal/core/domain"
)

func TestPathTemplate_Render(t *testing.T) {
	tpl, err := domain.NewPathTemplate("aligned/{group}.bam")
	require.NoError(t, err)
	assert.Equal(t, "aligned/S1_R1.bam", tpl.Render("S1_R1"))
}

func TestPathTemplate_RejectsNonGroupPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"input placeholder", "aligned/{in.0}.bam"},
		{"threads placeholder", "aligned/{threads}.bam"},
		{"group with argument", "aligned/{group.x}.bam"},
		{"stray brace", "aligned/{grp.bam"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewPathTemplate(tt.raw)
			require.Error(t, err)
		})
	}
}

func TestPathTemplate_HasGroup(t *testing.T) {
	withGroup, err := domain.NewPathTemplate("aligned/{group}.bam")
	require.NoError(t, err)
	assert.True(t, withGroup.HasGroup())

	groupless, err := domain.NewPathTemplate("aligned/all.bam")
	require.NoError(t, err)
	assert.False(t, groupless.HasGroup())
}

func TestCommandTemplate_Render(t *testing.T) {
	params := map[string]string{"genome": "/refs/hg38"}
	tpl, err := domain.NewCommandTemplate(
		"bwa mem -t {threads} {params.genome} {in.0} > {out.0}",
		1, 1, params,
	)
	require.NoError(t, err)

	got := tpl.Render(domain.CommandScope{
		Group:   "S1_R1",
		Threads: 8,
		Inputs:  [][]string{{"fastq/S1_R1_1.fq.gz", "fastq/S1_R1_2.fq.gz"}},
		Outputs: []string{"aligned/S1_R1.bam"},
		Params:  params,
	})
	assert.Equal(t,
		"bwa mem -t 8 /refs/hg38 fastq/S1_R1_1.fq.gz fastq/S1_R1_2.fq.gz > aligned/S1_R1.bam",
		got,
	)
}

func TestCommandTemplate_ValidatesPlaceholdersAtParse(t *testing.T) {
	params := map[string]string{"genome": "/refs/hg38"}

	tests := []struct {
		name string
		raw  string
	}{
		{"input index out of range", "cat {in.2}"},
		{"output index out of range", "touch {out.1}"},
		{"unknown parameter", "echo {params.missing}"},
		{"unknown placeholder", "echo {sample}"},
		{"group with argument", "echo {group.x}"},
		{"stray brace", "echo {in.0"},
		{"blank", "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewCommandTemplate(tt.raw, 2, 1, params)
			require.Error(t, err)
		})
	}
}
