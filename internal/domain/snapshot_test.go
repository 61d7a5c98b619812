package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_EdgeLoad_SplitsByWeight(t *testing.T) {
	// A(100,1) -> X, Y, Z with weights 1, 3, 5 (Z disabled).
	b := NewGraphBuilder()
	a := b.AddNode("A", 100, 1)
	x := b.AddNode("X", 40, 1)
	y := b.AddNode("Y", 40, 1)
	z := b.AddNode("Z", 40, 1)
	eax := b.AddEdge(a, x, 1)
	eay := b.AddEdge(a, y, 3)
	eaz := b.AddEdge(a, z, 5)
	g, err := b.Build()
	require.NoError(t, err)

	nodeStates := []NodeState{
		{Served: 20, Health: 1},
		{Health: 1},
		{Health: 1},
		{Health: 1},
	}
	edgeStates := []EdgeState{
		{Enabled: true},
		{Enabled: true},
		{Enabled: false},
	}
	snap := NewSnapshot(1, nodeStates, edgeStates, nil)

	assert.InDelta(t, 5.0, snap.EdgeLoad(eax, g), 1e-9)
	assert.InDelta(t, 15.0, snap.EdgeLoad(eay, g), 1e-9)
	assert.Equal(t, 0.0, snap.EdgeLoad(eaz, g))
}

func TestSnapshot_EdgeLoad_ZeroWhenProducerUnhealthy(t *testing.T) {
	b := NewGraphBuilder()
	a := b.AddNode("A", 100, 1)
	x := b.AddNode("X", 40, 1)
	e := b.AddEdge(a, x, 1)
	g, err := b.Build()
	require.NoError(t, err)

	snap := NewSnapshot(1,
		[]NodeState{{Served: 20, Health: 0}, {Health: 1}},
		[]EdgeState{{Enabled: true}},
		nil,
	)
	assert.Equal(t, 0.0, snap.EdgeLoad(e, g))
}

func TestSnapshot_EdgeLoad_ZeroWhenEdgeDisabled(t *testing.T) {
	b := NewGraphBuilder()
	a := b.AddNode("A", 100, 1)
	x := b.AddNode("X", 40, 1)
	e := b.AddEdge(a, x, 1)
	g, err := b.Build()
	require.NoError(t, err)

	snap := NewSnapshot(1,
		[]NodeState{{Served: 20, Health: 1}, {Health: 1}},
		[]EdgeState{{Enabled: false}},
		nil,
	)
	assert.Equal(t, 0.0, snap.EdgeLoad(e, g))
}

func TestSnapshot_EdgeLoad_ZeroWhenAllOutgoingDisabled(t *testing.T) {
	b := NewGraphBuilder()
	a := b.AddNode("A", 100, 1)
	x := b.AddNode("X", 40, 1)
	e := b.AddEdge(a, x, 1)
	g, err := b.Build()
	require.NoError(t, err)

	snap := NewSnapshot(1,
		[]NodeState{{Served: 20, Health: 1}, {Health: 1}},
		[]EdgeState{{Enabled: false}},
		nil,
	)
	// e is A's only outgoing edge, so disabling it leaves A with no enabled
	// outgoing edge; EdgeLoad returns 0 on e's own disabled state before
	// the weight sum is computed.
	assert.Equal(t, 0.0, snap.EdgeLoad(e, g))
}

func TestSnapshot_Tick_AdvancesModifiers(t *testing.T) {
	mods := []CapacityModifier{NewCapacityModifier(1)}
	snap := NewSnapshot(0, nil, nil, mods)
	snap.UpdateCapacity(0, 0.5)
	assert.Equal(t, 0.5, snap.ModifierFactor(0))

	snap.Tick() // grace
	assert.True(t, snap.Modifier(0).Active())
	snap.Tick() // expires
	assert.False(t, snap.Modifier(0).Active())
	assert.Equal(t, 1.0, snap.ModifierFactor(0))
}

func TestSnapshot_UpdateCapacity_RefusedWhileActive(t *testing.T) {
	mods := []CapacityModifier{NewCapacityModifier(3)}
	snap := NewSnapshot(0, nil, nil, mods)
	assert.True(t, snap.UpdateCapacity(0, 0.5))
	assert.False(t, snap.UpdateCapacity(0, 1.5))
	assert.Equal(t, 0.5, snap.ModifierFactor(0))
}

func TestSnapshot_CopiesInputSlices(t *testing.T) {
	ns := []NodeState{{Health: 1}}
	snap := NewSnapshot(0, ns, nil, nil)
	ns[0] = NodeState{Health: 0}
	assert.Equal(t, 1.0, snap.NodeState(0).Health)
}
