// Package engine owns the Graph, GroupSet, current/previous Snapshot and
// Scenario, and executes the discrete-time propagation step. It is the
// single writer of simulation state; the driver (a REPL, a test, or the
// REST API in this repository) calls Step and the operator-action
// methods between steps.
package engine

import (
	"github.com/rs/zerolog"

	"github.com/haldorsen/meshsim/internal/domain"
)

// Engine drives one service-mesh simulation. It is not safe for
// concurrent use — the scheduling model is single-writer and
// cooperative, and Engine enforces nothing beyond that contract itself;
// callers that need serialized access from multiple goroutines (e.g.
// the REST API) must provide their own mutex.
type Engine struct {
	graph    domain.Graph
	groups   domain.GroupSet
	scenario Scenario

	current  domain.Snapshot
	previous domain.Snapshot

	remainingOps int
	log          zerolog.Logger
}

// Scenario is re-declared here (rather than imported from
// internal/scenario) to keep the engine's only dependency on the pure
// domain package plus a minimal capability interface — internal/scenario
// additionally depends on expr-lang and yaml, neither of which the
// engine itself needs. Any scenario.Scenario value already satisfies
// this interface.
type Scenario interface {
	Load(node domain.NodeID, turn int) float64
	EntryNodes() []domain.NodeID
	OpsPerTurn() int
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger attaches a zerolog.Logger the engine uses to record step and
// operator-action events. Defaults to a no-op logger, so the core never
// forces log I/O on a caller that doesn't want it.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New validates (graph, groups, initial snapshot, scenario) and builds an
// Engine. Returns a ConstructionError if the snapshot's vectors don't
// match the graph/groups. Group-partition totality is enforced by
// domain.NewGroupSet, so a GroupSet that reaches this point is already
// consistent with any graph of the same node count.
func New(graph domain.Graph, groups domain.GroupSet, initial domain.Snapshot, sc Scenario, opts ...Option) (*Engine, error) {
	if len(initial.NodeStates()) != graph.NumNodes() {
		return nil, domain.NewConstructionError("Engine", "node state vector length does not match graph")
	}
	if len(initial.EdgeStates()) != graph.NumEdges() {
		return nil, domain.NewConstructionError("Engine", "edge state vector length does not match graph")
	}
	if len(initial.Modifiers()) != groups.Len() {
		return nil, domain.NewConstructionError("Engine", "capacity modifier vector length does not match group count")
	}
	for i := 0; i < graph.NumNodes(); i++ {
		if _, err := domain.NewNodeState(
			initial.NodeState(domain.NodeID(i)).Demand,
			initial.NodeState(domain.NodeID(i)).Served,
			initial.NodeState(domain.NodeID(i)).Backlog,
			initial.NodeState(domain.NodeID(i)).Health,
		); err != nil {
			return nil, domain.NewConstructionError("Engine", "invalid initial node state: "+err.Error())
		}
	}

	e := &Engine{
		graph:        graph,
		groups:       groups,
		scenario:     sc,
		current:      initial,
		previous:     initial,
		remainingOps: sc.OpsPerTurn(),
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Graph returns the engine's immutable topology.
func (e *Engine) Graph() domain.Graph { return e.graph }

// Groups returns the engine's group partition.
func (e *Engine) Groups() domain.GroupSet { return e.groups }

// Scenario returns the engine's external load source.
func (e *Engine) Scenario() Scenario { return e.scenario }

// GroupOf returns the id of the group node belongs to.
func (e *Engine) GroupOf(node domain.NodeID) domain.GroupID { return e.groups.GroupOf(node) }

// CurrentSnapshot returns a read-only view of the current turn's state.
// The view is a borrowed view valid only until the next call to Step.
func (e *Engine) CurrentSnapshot() domain.Snapshot { return e.current }

// PreviousSnapshot returns a read-only view of the prior turn's state.
// Aliases CurrentSnapshot until the first Step call, so trend
// computations on turn 0 come out Flat by construction.
func (e *Engine) PreviousSnapshot() domain.Snapshot { return e.previous }

// RemainingOps returns how many more operator interventions are allowed
// this turn.
func (e *Engine) RemainingOps() int { return e.remainingOps }

// TryThrottleGroup applies a 0.5x capacity modifier to group g if it is
// currently inactive. Returns false, changing nothing, if the group's
// modifier is already active or the ops budget is exhausted.
func (e *Engine) TryThrottleGroup(g domain.GroupID) bool {
	return e.TryApply(g, 0.5)
}

// TryBoostGroup applies a 1.5x capacity modifier to group g if it is
// currently inactive. Returns false, changing nothing, if the group's
// modifier is already active or the ops budget is exhausted.
func (e *Engine) TryBoostGroup(g domain.GroupID) bool {
	return e.TryApply(g, 1.5)
}

// TryApply applies factor f to group g's capacity modifier, charging one
// unit of the per-turn ops budget only when the modifier actually
// transitions from inactive to active. Re-applying an already-active
// modifier, or calling TryApply with no ops remaining, is a silent
// no-op — normal operator feedback, not a failure.
func (e *Engine) TryApply(g domain.GroupID, f float64) bool {
	if e.remainingOps == 0 {
		return false
	}
	if !e.current.UpdateCapacity(g, f) {
		return false
	}
	e.remainingOps--
	e.log.Debug().
		Int("group", int(g)).
		Float64("factor", f).
		Int("remaining_ops", e.remainingOps).
		Msg("capacity modifier applied")
	return true
}

// Step advances the simulation by exactly one turn:
//  1. tick every capacity modifier on the current snapshot
//  2. compute propagated inbound demand for every node
//  3. derive each node's new (demand, served, backlog, health)
//  4. publish the new snapshot, retiring the old current to previous
//  5. reset the ops budget to the scenario's per-turn allowance
func (e *Engine) Step() {
	e.current.Tick()

	prop := e.computeInboundDemand()
	next := e.deriveNodeStates(prop)

	e.previous = e.current
	e.current = domain.NewSnapshot(e.current.Turn()+1, next, e.current.EdgeStates(), e.current.Modifiers())
	e.remainingOps = e.scenario.OpsPerTurn()

	e.log.Debug().Int("turn", e.current.Turn()).Msg("step complete")
}

// computeInboundDemand builds the propagated-demand vector: every
// healthy node's served output is split across its enabled outgoing
// edges and added to the downstream node's demand; the scenario's
// external load is then added on top for every declared entry node.
func (e *Engine) computeInboundDemand() []float64 {
	prop := make([]float64, e.graph.NumNodes())

	for i := 0; i < e.graph.NumNodes(); i++ {
		u := domain.NodeID(i)
		if !e.current.NodeState(u).Healthy() {
			continue
		}
		for _, edgeID := range e.graph.Outgoing(u) {
			v := e.graph.Edge(edgeID).To()
			prop[v] += e.current.EdgeLoad(edgeID, e.graph)
		}
	}

	turn := e.current.Turn()
	for _, n := range e.scenario.EntryNodes() {
		prop[n] += e.scenario.Load(n, turn)
	}

	return prop
}

// deriveNodeStates builds the full next-turn state vector from the
// current snapshot's state and the inbound demand just computed.
func (e *Engine) deriveNodeStates(prop []float64) []domain.NodeState {
	next := make([]domain.NodeState, e.graph.NumNodes())

	for i := 0; i < e.graph.NumNodes(); i++ {
		v := domain.NodeID(i)
		node := e.graph.Node(v)
		prevState := e.current.NodeState(v)

		if !prevState.Healthy() {
			next[i] = domain.NodeState{Demand: prop[i], Served: 0, Backlog: 0, Health: prevState.Health}
			continue
		}

		effCap := node.Capacity() * e.current.ModifierFactor(e.groups.GroupOf(v))
		total := prop[i] + prevState.Backlog

		served := total
		if served > effCap {
			served = effCap
		}

		// A node whose outgoing edges are all disabled cannot drain, so
		// served work is retained as backlog. A node with no outgoing
		// edges at all is a sink and drains normally.
		var backlog float64
		if hasOutgoing(e.graph, v) && !anyEnabled(e.current, e.graph, v) {
			backlog = total
		} else {
			backlog = total - served
		}

		health := deriveHealth(prevState.Health, total, effCap, backlog)

		next[i] = domain.NodeState{Demand: prop[i], Served: served, Backlog: backlog, Health: health}
	}

	return next
}

// deriveHealth computes the node's next health: decay proportional to
// overload pressure, a flat recovery trickle once backlog fully drains,
// otherwise no change. Skipped entirely when effCap is zero — a fully
// throttled group never heals, even idle.
func deriveHealth(prevHealth, total, effCap, backlog float64) float64 {
	if effCap == 0 {
		return prevHealth
	}
	p := total / effCap
	switch {
	case p > 1:
		return clamp01(prevHealth - 0.1*(p-1))
	case p < 1 && backlog == 0:
		return clamp01(prevHealth + 0.01)
	default:
		return prevHealth
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func hasOutgoing(g domain.Graph, v domain.NodeID) bool {
	return len(g.Outgoing(v)) > 0
}

func anyEnabled(s domain.Snapshot, g domain.Graph, v domain.NodeID) bool {
	for _, edgeID := range g.Outgoing(v) {
		if s.EdgeState(edgeID).Enabled {
			return true
		}
	}
	return false
}
