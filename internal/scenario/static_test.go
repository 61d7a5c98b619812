package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haldorsen/meshsim/internal/domain"
)

func TestStaticScenario_Load_InTable(t *testing.T) {
	s := NewStaticScenario(map[domain.NodeID][]float64{0: {10, 20, 30}}, 1)
	assert.Equal(t, 10.0, s.Load(0, 0))
	assert.Equal(t, 20.0, s.Load(0, 1))
	assert.Equal(t, 30.0, s.Load(0, 2))
}

func TestStaticScenario_Load_HoldsLastValuePastEnd(t *testing.T) {
	s := NewStaticScenario(map[domain.NodeID][]float64{0: {10, 20, 30}}, 1)
	assert.Equal(t, 30.0, s.Load(0, 3))
	assert.Equal(t, 30.0, s.Load(0, 100))
}

func TestStaticScenario_Load_UnlistedNodeIsZero(t *testing.T) {
	s := NewStaticScenario(map[domain.NodeID][]float64{0: {10}}, 1)
	assert.Equal(t, 0.0, s.Load(1, 0))
}

func TestStaticScenario_Load_NegativeTurnIsZero(t *testing.T) {
	s := NewStaticScenario(map[domain.NodeID][]float64{0: {10}}, 1)
	assert.Equal(t, 0.0, s.Load(0, -1))
}

func TestStaticScenario_EntryNodesAndOpsPerTurn(t *testing.T) {
	s := NewStaticScenario(map[domain.NodeID][]float64{0: {10}, 2: {5}}, 3)
	assert.ElementsMatch(t, []domain.NodeID{0, 2}, s.EntryNodes())
	assert.Equal(t, 3, s.OpsPerTurn())
}
