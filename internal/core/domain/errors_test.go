package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"

	"github.com/EricSDavis/MicroC/internal/core/domain"
)

// Error sites attach several key-value pairs by chaining zerr.With calls.
// The sentinel must stay matchable and the wrap message visible through
// the whole chain.
func TestSentinelSurvivesAttachedContext(t *testing.T) {
	err := zerr.With(zerr.With(zerr.Wrap(domain.ErrConfig, "unknown sample role"),
		"stage", "align"),
		"role", "read9",
	)

	require.ErrorIs(t, err, domain.ErrConfig)
	assert.Contains(t, err.Error(), "unknown sample role")
	assert.Contains(t, err.Error(), domain.ErrConfig.Error())
}

func TestSentinelSurvivesSinglePairContext(t *testing.T) {
	err := zerr.With(domain.ErrConfigNotFound, "cwd", "/tmp/project")

	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}
