package domain

// Snapshot is a versioned bundle of one turn's worth of state: the turn
// number, every node's NodeState, every edge's EdgeState, and one
// CapacityModifier per group. It is conceptually immutable between
// engine steps; the only in-place mutation it permits is ticking or
// applying capacity modifiers, which is exactly the mutation an operator
// is allowed to perform between turns.
type Snapshot struct {
	turn       int
	nodeStates []NodeState
	edgeStates []EdgeState
	modifiers  []CapacityModifier
}

// NewSnapshot builds a Snapshot from already-sized state vectors. The
// Engine is responsible for checking the vector lengths against the
// Graph/GroupSet it was constructed with; Snapshot itself only owns the
// data.
func NewSnapshot(turn int, nodeStates []NodeState, edgeStates []EdgeState, modifiers []CapacityModifier) Snapshot {
	ns := make([]NodeState, len(nodeStates))
	copy(ns, nodeStates)
	es := make([]EdgeState, len(edgeStates))
	copy(es, edgeStates)
	mods := make([]CapacityModifier, len(modifiers))
	copy(mods, modifiers)
	return Snapshot{turn: turn, nodeStates: ns, edgeStates: es, modifiers: mods}
}

// Turn returns the snapshot's turn number.
func (s Snapshot) Turn() int { return s.turn }

// NodeState returns the state of node v.
func (s Snapshot) NodeState(v NodeID) NodeState { return s.nodeStates[v] }

// NodeStates returns every node's state in id order. The returned slice
// is a borrowed view into the snapshot's backing array and is only valid
// until the next Engine.Step call.
func (s Snapshot) NodeStates() []NodeState { return s.nodeStates }

// EdgeState returns the state of edge e.
func (s Snapshot) EdgeState(e EdgeID) EdgeState { return s.edgeStates[e] }

// EdgeStates returns every edge's state in id order.
func (s Snapshot) EdgeStates() []EdgeState { return s.edgeStates }

// Modifier returns the capacity modifier for group g.
func (s Snapshot) Modifier(g GroupID) CapacityModifier { return s.modifiers[g] }

// Modifiers returns every group's capacity modifier in group order.
func (s Snapshot) Modifiers() []CapacityModifier { return s.modifiers }

// ModifierFactor returns the current effective capacity multiplier for
// group g: the applied factor while one of its modifiers is active, 1.0
// otherwise.
func (s Snapshot) ModifierFactor(g GroupID) float64 { return s.modifiers[g].Factor() }

// Tick advances every group's capacity modifier by one turn. Mutates
// the modifiers in place.
func (s Snapshot) Tick() {
	for i := range s.modifiers {
		s.modifiers[i].Tick()
	}
}

// UpdateCapacity forwards an operator's apply request to group g's
// modifier. Returns false, changing nothing, if that modifier is already
// active.
func (s Snapshot) UpdateCapacity(g GroupID, factor float64) bool {
	return s.modifiers[g].Apply(factor)
}

// EdgeLoad computes the flow carried by edge e this turn, the central
// flow-splitting rule of the simulation. Given producer u = e.From() with
// served_u and gain_u, u's total forwarded work served_u*gain_u is split
// across u's enabled outgoing edges in proportion to their static
// weight. The result is zero whenever u is unhealthy, e is disabled,
// served_u is zero, or the enabled-outgoing weight sum is zero.
func (s Snapshot) EdgeLoad(e EdgeID, g Graph) float64 {
	if !s.edgeStates[e].Enabled {
		return 0
	}
	edge := g.Edge(e)
	u := edge.From()
	producer := s.nodeStates[u]
	if !producer.Healthy() || producer.Served == 0 {
		return 0
	}

	total := producer.Served * g.Node(u).Gain()

	var w float64
	for _, oe := range g.Outgoing(u) {
		if s.edgeStates[oe].Enabled {
			w += g.Edge(oe).Weight()
		}
	}
	if w == 0 {
		return 0
	}
	return total * (edge.Weight() / w)
}
