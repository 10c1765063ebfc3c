package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EricSDavis/MicroC/internal/core/domain"
)

func stage(t *testing.T, id string, inputs []domain.InputRef, outputs, after []string) domain.RuleTemplate {
	t.Helper()

	decls := make([]domain.OutputDecl, len(outputs))
	for i, raw := range outputs {
		tpl, err := domain.NewPathTemplate(raw)
		require.NoError(t, err)
		decls[i] = domain.OutputDecl{Path: tpl}
	}

	cmd, err := domain.NewCommandTemplate("true", len(inputs), len(decls), nil)
	require.NoError(t, err)

	return domain.RuleTemplate{
		ID:      id,
		Inputs:  inputs,
		Outputs: decls,
		After:   after,
		Command: cmd,
	}
}

func fromStage(id string, output int) domain.InputRef {
	return domain.InputRef{Stage: id, Output: output}
}

// testCatalog models the usual shape: align feeds parse, parse feeds both
// dedup and qc.
func testCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	c, err := domain.NewCatalog([]domain.RuleTemplate{
		stage(t, "qc", []domain.InputRef{fromStage("parse", 0)}, []string{"qc/{group}.txt"}, nil),
		stage(t, "dedup", []domain.InputRef{fromStage("parse", 0)}, []string{"dedup/{group}.pairs"}, nil),
		stage(t, "parse", []domain.InputRef{fromStage("align", 0)}, []string{"parsed/{group}.pairs"}, nil),
		stage(t, "align", []domain.InputRef{{Role: "fastq"}}, []string{"aligned/{group}.bam"}, nil),
	})
	require.NoError(t, err)
	return c
}

func TestNewCatalog_OrdersStagesTopologically(t *testing.T) {
	c := testCatalog(t)

	pos := make(map[string]int)
	for i, id := range c.Order() {
		pos[id] = i
	}
	require.Len(t, pos, 4)
	assert.Less(t, pos["align"], pos["parse"])
	assert.Less(t, pos["parse"], pos["dedup"])
	assert.Less(t, pos["parse"], pos["qc"])
}

func TestNewCatalog_DetectsCycle(t *testing.T) {
	_, err := domain.NewCatalog([]domain.RuleTemplate{
		stage(t, "a", []domain.InputRef{fromStage("b", 0)}, []string{"a/{group}"}, nil),
		stage(t, "b", []domain.InputRef{fromStage("a", 0)}, []string{"b/{group}"}, nil),
	})
	require.ErrorIs(t, err, domain.ErrCycle)
}

func TestNewCatalog_RejectsBadStages(t *testing.T) {
	align := stage(t, "align", nil, []string{"aligned/{group}.bam"}, nil)

	t.Run("duplicate identifier", func(t *testing.T) {
		_, err := domain.NewCatalog([]domain.RuleTemplate{align, align})
		require.ErrorIs(t, err, domain.ErrDuplicateStage)
	})

	t.Run("invalid identifier", func(t *testing.T) {
		_, err := domain.NewCatalog([]domain.RuleTemplate{
			stage(t, "align reads", nil, []string{"aligned/{group}.bam"}, nil),
		})
		require.ErrorIs(t, err, domain.ErrInvalidStageID)
	})

	t.Run("unknown upstream stage", func(t *testing.T) {
		_, err := domain.NewCatalog([]domain.RuleTemplate{
			stage(t, "parse", []domain.InputRef{fromStage("align", 0)}, []string{"parsed/{group}"}, nil),
		})
		require.ErrorIs(t, err, domain.ErrStageNotFound)
	})

	t.Run("unknown after stage", func(t *testing.T) {
		_, err := domain.NewCatalog([]domain.RuleTemplate{
			stage(t, "parse", nil, []string{"parsed/{group}"}, []string{"align"}),
		})
		require.ErrorIs(t, err, domain.ErrStageNotFound)
	})

	t.Run("output index out of range", func(t *testing.T) {
		_, err := domain.NewCatalog([]domain.RuleTemplate{
			align,
			stage(t, "parse", []domain.InputRef{fromStage("align", 3)}, []string{"parsed/{group}"}, nil),
		})
		require.ErrorIs(t, err, domain.ErrUnresolvedInput)
	})
}

func TestCatalog_DefaultsThreadsToOne(t *testing.T) {
	c, err := domain.NewCatalog([]domain.RuleTemplate{
		stage(t, "align", nil, []string{"aligned/{group}.bam"}, nil),
	})
	require.NoError(t, err)

	s, ok := c.Stage("align")
	require.True(t, ok)
	assert.Equal(t, 1, s.Threads)
}

func TestCatalog_Terminal(t *testing.T) {
	c := testCatalog(t)
	assert.ElementsMatch(t, []string{"dedup", "qc"}, c.Terminal())
}

func TestCatalog_Closure(t *testing.T) {
	c := testCatalog(t)

	got, err := c.Closure([]string{"dedup"})
	require.NoError(t, err)
	assert.Equal(t, []string{"align", "parse", "dedup"}, got)

	_, err = c.Closure([]string{"missing"})
	require.ErrorIs(t, err, domain.ErrStageNotFound)
}
