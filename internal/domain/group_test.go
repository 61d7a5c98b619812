package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGroupSet_TotalPartition(t *testing.T) {
	groups := []Group{
		NewGroup("a", []NodeID{0, 1}),
		NewGroup("b", []NodeID{2}),
	}
	gs, err := NewGroupSet(groups, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, gs.Len())
	assert.Equal(t, GroupID(0), gs.GroupOf(0))
	assert.Equal(t, GroupID(0), gs.GroupOf(1))
	assert.Equal(t, GroupID(1), gs.GroupOf(2))
}

func TestNewGroupSet_RejectsGap(t *testing.T) {
	groups := []Group{NewGroup("a", []NodeID{0})}
	_, err := NewGroupSet(groups, 2)
	require.Error(t, err)
	var cerr *ConstructionError
	assert.ErrorAs(t, err, &cerr)
}

func TestNewGroupSet_RejectsOverlap(t *testing.T) {
	groups := []Group{
		NewGroup("a", []NodeID{0, 1}),
		NewGroup("b", []NodeID{1}),
	}
	_, err := NewGroupSet(groups, 2)
	require.Error(t, err)
}

func TestNewGroupSet_RejectsOutOfRangeNode(t *testing.T) {
	groups := []Group{NewGroup("a", []NodeID{5})}
	_, err := NewGroupSet(groups, 2)
	require.Error(t, err)
}

func TestNewGroupSet_EmptyGraph(t *testing.T) {
	gs, err := NewGroupSet(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, gs.Len())
}
