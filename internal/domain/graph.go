package domain

// Graph is the immutable topology of the mesh: nodes and directed,
// weighted edges, plus precomputed incoming/outgoing adjacency indexed by
// NodeID. Nodes and edges are referred to everywhere by dense integer
// index rather than by pointer, which sidesteps cyclic-graph ownership
// entirely — the Graph owns all nodes/edges as contiguous slices and the
// adjacency lists hold only indices into them.
type Graph struct {
	nodes    []Node
	edges    []Edge
	outgoing [][]EdgeID
	incoming [][]EdgeID
}

// NewGraph builds a Graph from nodes and edges in a single linear scan,
// precomputing outgoing/incoming adjacency. Returns a ConstructionError
// if any edge references a node index outside [0, len(nodes)).
func NewGraph(nodes []Node, edges []Edge) (Graph, error) {
	outgoing := make([][]EdgeID, len(nodes))
	incoming := make([][]EdgeID, len(nodes))

	for i, n := range nodes {
		if int(n.ID()) != i {
			return Graph{}, NewConstructionError("Graph", "node ids must be dense and in order")
		}
	}

	for i, e := range edges {
		if int(e.ID()) != i {
			return Graph{}, NewConstructionError("Graph", "edge ids must be dense and in order")
		}
		if int(e.From()) < 0 || int(e.From()) >= len(nodes) {
			return Graph{}, NewConstructionError("Graph", "edge references unknown from-node")
		}
		if int(e.To()) < 0 || int(e.To()) >= len(nodes) {
			return Graph{}, NewConstructionError("Graph", "edge references unknown to-node")
		}
		outgoing[e.From()] = append(outgoing[e.From()], e.ID())
		incoming[e.To()] = append(incoming[e.To()], e.ID())
	}

	owned := make([]Node, len(nodes))
	copy(owned, nodes)
	ownedEdges := make([]Edge, len(edges))
	copy(ownedEdges, edges)

	return Graph{nodes: owned, edges: ownedEdges, outgoing: outgoing, incoming: incoming}, nil
}

// NumNodes returns the number of nodes in the graph.
func (g Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the number of edges in the graph.
func (g Graph) NumEdges() int { return len(g.edges) }

// Node returns the node at the given id. Lookups by id are O(1).
func (g Graph) Node(id NodeID) Node { return g.nodes[id] }

// Edge returns the edge at the given id. Lookups by id are O(1).
func (g Graph) Edge(id EdgeID) Edge { return g.edges[id] }

// Nodes returns every node in id order.
func (g Graph) Nodes() []Node { return g.nodes }

// Edges returns every edge in id order.
func (g Graph) Edges() []Edge { return g.edges }

// Outgoing returns the ids of edges leaving node v.
func (g Graph) Outgoing(v NodeID) []EdgeID { return g.outgoing[v] }

// Incoming returns the ids of edges arriving at node v.
func (g Graph) Incoming(v NodeID) []EdgeID { return g.incoming[v] }
