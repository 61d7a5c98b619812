// Package meshsim is the public facade over the simulation core: it
// re-exports the Engine construction/stepping API so an external driver
// (a CLI, a test harness, a notebook) can embed a simulation without
// reaching into internal/ itself.
package meshsim

import (
	"github.com/rs/zerolog"

	"github.com/haldorsen/meshsim/internal/analysis"
	"github.com/haldorsen/meshsim/internal/domain"
	"github.com/haldorsen/meshsim/internal/engine"
	"github.com/haldorsen/meshsim/internal/scenario"
)

// Type aliases onto the domain package so callers building a graph/group
// set/snapshot never import internal/domain directly.
type (
	NodeID           = domain.NodeID
	EdgeID           = domain.EdgeID
	GroupID          = domain.GroupID
	Node             = domain.Node
	Edge             = domain.Edge
	NodeState        = domain.NodeState
	EdgeState        = domain.EdgeState
	Group            = domain.Group
	GroupSet         = domain.GroupSet
	Graph            = domain.Graph
	GraphBuilder     = domain.GraphBuilder
	CapacityModifier = domain.CapacityModifier
	Snapshot         = domain.Snapshot
	GroupSummary     = analysis.GroupSummary
	Trend            = analysis.Trend
	HealthClass      = analysis.HealthClass
	Scenario         = engine.Scenario
	StaticScenario   = scenario.StaticScenario
	ExprScenario     = scenario.ExprScenario
)

var (
	NewGraphBuilder     = domain.NewGraphBuilder
	NewGroup            = domain.NewGroup
	NewGroupSet         = domain.NewGroupSet
	NewCapacityModifier = domain.NewCapacityModifier
	NewSnapshot         = domain.NewSnapshot
	InitialNodeState    = domain.InitialNodeState
	InitialEdgeState    = domain.InitialEdgeState
	NewStaticScenario   = scenario.NewStaticScenario
	NewExprScenario     = scenario.NewExprScenario
	LoadFile            = scenario.LoadFile
	AggregateGroups     = analysis.AggregateGroups
)

// Engine is the simulation driver: Step plus the operator throttle and
// boost actions. Wrapping the inner engine (rather than aliasing the
// type) keeps this package's doc comments as the first thing an external
// caller reads.
type Engine struct {
	inner *engine.Engine
}

// New constructs an Engine over the given topology, group partition,
// initial snapshot and load scenario. See engine.New for the construction
// invariants enforced.
func New(graph Graph, groups GroupSet, initial Snapshot, sc Scenario, log zerolog.Logger) (*Engine, error) {
	inner, err := engine.New(graph, groups, initial, sc, engine.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return &Engine{inner: inner}, nil
}

// Step advances the simulation by exactly one turn.
func (e *Engine) Step() { e.inner.Step() }

// TryThrottleGroup applies a capacity-halving modifier to group g, if one
// isn't already active and the per-turn ops budget allows it. Reports
// whether the modifier actually transitioned.
func (e *Engine) TryThrottleGroup(g GroupID) bool { return e.inner.TryThrottleGroup(g) }

// TryBoostGroup applies a 1.5x capacity modifier to group g under the
// same rules as TryThrottleGroup.
func (e *Engine) TryBoostGroup(g GroupID) bool { return e.inner.TryBoostGroup(g) }

// TryApply applies an arbitrary capacity factor to group g.
func (e *Engine) TryApply(g GroupID, factor float64) bool { return e.inner.TryApply(g, factor) }

// CurrentSnapshot returns the most recently published snapshot.
func (e *Engine) CurrentSnapshot() Snapshot { return e.inner.CurrentSnapshot() }

// PreviousSnapshot returns the snapshot from one turn before Current.
// Until the first Step it is the same snapshot as CurrentSnapshot.
func (e *Engine) PreviousSnapshot() Snapshot { return e.inner.PreviousSnapshot() }

// RemainingOps returns the number of operator actions still available
// this turn.
func (e *Engine) RemainingOps() int { return e.inner.RemainingOps() }

// Graph returns the engine's immutable topology.
func (e *Engine) Graph() Graph { return e.inner.Graph() }

// Groups returns the engine's group partition.
func (e *Engine) Groups() GroupSet { return e.inner.Groups() }

// GroupOf returns the group a node belongs to.
func (e *Engine) GroupOf(node NodeID) GroupID { return e.inner.GroupOf(node) }

// Scenario returns the engine's external load source.
func (e *Engine) Scenario() Scenario { return e.inner.Scenario() }

// Summaries aggregates the current/previous snapshots into one
// GroupSummary per group, the operator-facing read model.
func (e *Engine) Summaries() []GroupSummary {
	return analysis.AggregateGroups(e.inner.CurrentSnapshot(), e.inner.PreviousSnapshot(), e.inner.Graph(), e.inner.Groups())
}
