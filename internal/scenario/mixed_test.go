package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldorsen/meshsim/internal/domain"
)

func TestMixedScenario_DispatchesToCorrectUnderlying(t *testing.T) {
	sc, err := newMixedScenario(
		map[domain.NodeID][]float64{0: {10, 20}},
		map[domain.NodeID]string{1: "turn * 10"},
		2,
	)
	require.NoError(t, err)

	assert.Equal(t, 10.0, sc.Load(0, 0))
	assert.Equal(t, 0.0, sc.Load(1, 0))
	assert.Equal(t, 10.0, sc.Load(1, 1))
	assert.ElementsMatch(t, []domain.NodeID{0, 1}, sc.EntryNodes())
	assert.Equal(t, 2, sc.OpsPerTurn())
}
