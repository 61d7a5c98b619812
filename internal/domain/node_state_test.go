package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeState_Valid(t *testing.T) {
	ns, err := NewNodeState(10, 8, 2, 0.5)
	require.NoError(t, err)
	assert.True(t, ns.Healthy())
}

func TestNewNodeState_RejectsHealthOutOfRange(t *testing.T) {
	_, err := NewNodeState(0, 0, 0, 1.5)
	require.Error(t, err)

	_, err = NewNodeState(0, 0, 0, -0.1)
	require.Error(t, err)
}

func TestNewNodeState_RejectsNegativeFields(t *testing.T) {
	_, err := NewNodeState(-1, 0, 0, 1)
	require.Error(t, err)
}

func TestNodeState_HealthyBoundary(t *testing.T) {
	zero := NodeState{Health: 0}
	assert.False(t, zero.Healthy())

	justAbove := NodeState{Health: 0.0001}
	assert.True(t, justAbove.Healthy())
}

func TestInitialNodeState(t *testing.T) {
	ns := InitialNodeState()
	assert.Equal(t, 0.0, ns.Demand)
	assert.Equal(t, 0.0, ns.Served)
	assert.Equal(t, 0.0, ns.Backlog)
	assert.Equal(t, 1.0, ns.Health)
	assert.True(t, ns.Healthy())
}

func TestInitialEdgeState(t *testing.T) {
	assert.True(t, InitialEdgeState().Enabled)
}
