package domain

// Group is a named, ordered partition of node-ids. The node order is
// fixed at construction; it is only observable through the order
// Analysis walks a group's nodes, never through the partition semantics
// itself.
type Group struct {
	name  string
	nodes []NodeID
}

// NewGroup creates a Group from a name and an ordered node-id list. The
// list is copied so the caller's backing array can be reused.
func NewGroup(name string, nodes []NodeID) Group {
	owned := make([]NodeID, len(nodes))
	copy(owned, nodes)
	return Group{name: name, nodes: owned}
}

// Name returns the group's display name.
func (g Group) Name() string { return g.name }

// Nodes returns the group's node-ids in construction order.
func (g Group) Nodes() []NodeID { return g.nodes }

// GroupSet partitions every node in a graph into exactly one named
// Group and maintains the reverse node->group index the Engine and
// Analysis use to look up a node's group in O(1).
type GroupSet struct {
	groups []Group
	nodeOf map[NodeID]GroupID
}

// NewGroupSet builds a GroupSet from an ordered list of groups, asserting
// the partition is total and disjoint over numNodes dense node-ids
// [0, numNodes). A gap (a node belonging to no group) or an overlap (a
// node listed in two groups) is a programmer error and fails
// construction.
func NewGroupSet(groups []Group, numNodes int) (GroupSet, error) {
	nodeOf := make(map[NodeID]GroupID, numNodes)
	for gi, g := range groups {
		for _, n := range g.nodes {
			if n < 0 || int(n) >= numNodes {
				return GroupSet{}, NewConstructionError("GroupSet",
					"group references node outside the graph")
			}
			if _, dup := nodeOf[n]; dup {
				return GroupSet{}, NewConstructionError("GroupSet",
					"node belongs to more than one group")
			}
			nodeOf[n] = GroupID(gi)
		}
	}
	if len(nodeOf) != numNodes {
		return GroupSet{}, NewConstructionError("GroupSet",
			"groups do not cover every node in the graph")
	}
	owned := make([]Group, len(groups))
	copy(owned, groups)
	return GroupSet{groups: owned, nodeOf: nodeOf}, nil
}

// Groups returns the groups in construction order.
func (gs GroupSet) Groups() []Group { return gs.groups }

// Len returns the number of groups.
func (gs GroupSet) Len() int { return len(gs.groups) }

// Group returns the group at the given id.
func (gs GroupSet) Group(id GroupID) Group { return gs.groups[id] }

// GroupOf returns the id of the group node belongs to. Every node in the
// graph is guaranteed (by construction) to belong to exactly one group.
func (gs GroupSet) GroupOf(node NodeID) GroupID {
	return gs.nodeOf[node]
}
