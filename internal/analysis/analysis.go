// Package analysis computes operator-facing GroupSummary rollups from a
// pair of engine snapshots. It depends only on domain, never on engine,
// so it can run against snapshots pulled from a ledger as easily as
// against a live Engine's CurrentSnapshot/PreviousSnapshot pair.
package analysis

import "github.com/haldorsen/meshsim/internal/domain"

// trendEpsilon is the deadband below which a curr/prev delta is reported
// Flat rather than Up or Down.
const trendEpsilon = 0.02

// Trend classifies the direction of a metric between two snapshots.
type Trend int

const (
	Flat Trend = iota
	Up
	Down
)

func (t Trend) String() string {
	switch t {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "flat"
	}
}

// HealthClass classifies a group's current average health.
type HealthClass int

const (
	Ok HealthClass = iota
	Degraded
	Critical
	Failed
)

func (h HealthClass) String() string {
	switch h {
	case Ok:
		return "ok"
	case Degraded:
		return "degraded"
	case Critical:
		return "critical"
	default:
		return "failed"
	}
}

// GroupSummary is one group's rollup for a single turn.
type GroupSummary struct {
	Name             string
	AvgUtilisation   float64
	UtilisationTrend Trend
	NodeCount        int
	RawHealth        float64
	HealthClass      HealthClass
	HealthTrend      Trend
	HealthyNodes     int
	Pressure         []float64
}

// AggregateGroups produces one GroupSummary per group, in group order,
// computed from the (current, previous) snapshot pair over graph's
// topology and groups' partition.
func AggregateGroups(current, previous domain.Snapshot, graph domain.Graph, groups domain.GroupSet) []GroupSummary {
	summaries := make([]GroupSummary, groups.Len())

	for gi := 0; gi < groups.Len(); gi++ {
		g := domain.GroupID(gi)
		grp := groups.Group(g)

		currUtil := avgUtilisation(current, graph, groups, grp)
		prevUtil := avgUtilisation(previous, graph, groups, grp)
		currHealth := avgHealth(current, grp)
		prevHealth := avgHealth(previous, grp)

		summaries[gi] = GroupSummary{
			Name:             grp.Name(),
			AvgUtilisation:   currUtil,
			UtilisationTrend: trend(currUtil, prevUtil),
			NodeCount:        len(grp.Nodes()),
			RawHealth:        currHealth,
			HealthClass:      classify(currHealth),
			HealthTrend:      trend(currHealth, prevHealth),
			HealthyNodes:     healthyCount(current, grp),
			Pressure:         pressure(current, graph, groups, grp),
		}
	}

	return summaries
}

// avgUtilisation sums served and effective capacity across a group's
// healthy nodes only. Zero denominator yields 0, not NaN or a
// division-by-zero panic.
func avgUtilisation(snap domain.Snapshot, graph domain.Graph, groups domain.GroupSet, grp domain.Group) float64 {
	var served, capacity float64
	for _, v := range grp.Nodes() {
		state := snap.NodeState(v)
		if !state.Healthy() {
			continue
		}
		served += state.Served
		capacity += graph.Node(v).Capacity() * snap.ModifierFactor(groups.GroupOf(v))
	}
	if capacity == 0 {
		return 0
	}
	return served / capacity
}

// avgHealth is the arithmetic mean of health over every node in grp,
// including unhealthy ones; 0 for an empty group.
func avgHealth(snap domain.Snapshot, grp domain.Group) float64 {
	nodes := grp.Nodes()
	if len(nodes) == 0 {
		return 0
	}
	var sum float64
	for _, v := range nodes {
		sum += snap.NodeState(v).Health
	}
	return sum / float64(len(nodes))
}

// healthyCount counts nodes in grp whose current state is healthy.
func healthyCount(snap domain.Snapshot, grp domain.Group) int {
	n := 0
	for _, v := range grp.Nodes() {
		if snap.NodeState(v).Healthy() {
			n++
		}
	}
	return n
}

// pressure computes the pressure-by-source-group vector: for every node
// in grp, for every incoming edge, the current edge load is attributed
// to the producer's group. A group's own slot carries
// internal pressure from self-feeding edges and cycles.
func pressure(snap domain.Snapshot, graph domain.Graph, groups domain.GroupSet, grp domain.Group) []float64 {
	p := make([]float64, groups.Len())
	for _, v := range grp.Nodes() {
		for _, e := range graph.Incoming(v) {
			u := graph.Edge(e).From()
			p[groups.GroupOf(u)] += snap.EdgeLoad(e, graph)
		}
	}
	return p
}

func trend(curr, prev float64) Trend {
	delta := curr - prev
	switch {
	case delta > trendEpsilon:
		return Up
	case delta < -trendEpsilon:
		return Down
	default:
		return Flat
	}
}

func classify(health float64) HealthClass {
	switch {
	case health > 0.8:
		return Ok
	case health > 0.3:
		return Degraded
	case health > 0.0:
		return Critical
	default:
		return Failed
	}
}
