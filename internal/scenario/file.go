package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/haldorsen/meshsim/internal/domain"
)

// FileDef is the on-disk shape of an operator-authored scenario
// definition: the graph topology, the group partition, and either a
// fixed load table or an expr-lang expression per entry node. The core
// never interprets scenario identity; it only consumes the resulting
// Graph/GroupSet/Scenario/Snapshot.
type FileDef struct {
	Nodes      []fileNode  `yaml:"nodes"`
	Edges      []fileEdge  `yaml:"edges"`
	Groups     []fileGroup `yaml:"groups"`
	OpsPerTurn int         `yaml:"ops_per_turn"`
	Entries    []fileEntry `yaml:"entries"`
}

type fileNode struct {
	Name     string  `yaml:"name"`
	Capacity float64 `yaml:"capacity"`
	Gain     float64 `yaml:"gain"`
}

type fileEdge struct {
	From   string  `yaml:"from"`
	To     string  `yaml:"to"`
	Weight float64 `yaml:"weight"`
}

type fileGroup struct {
	Name  string   `yaml:"name"`
	Nodes []string `yaml:"nodes"`
}

type fileEntry struct {
	Node       string    `yaml:"node"`
	Loads      []float64 `yaml:"loads"`
	Expression string    `yaml:"expr"`
}

// LoadFile parses a YAML scenario definition into a Graph, a GroupSet and
// a Scenario, plus the node-name index callers need to address nodes by
// the names used in the file.
func LoadFile(path string) (domain.Graph, domain.GroupSet, Scenario, map[string]domain.NodeID, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Graph{}, domain.GroupSet{}, nil, nil, fmt.Errorf("scenario: reading %s: %w", path, err)
	}

	var def FileDef
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return domain.Graph{}, domain.GroupSet{}, nil, nil, fmt.Errorf("scenario: parsing %s: %w", path, err)
	}

	g, byName, err := buildGraph(def.Nodes, def.Edges)
	if err != nil {
		return domain.Graph{}, domain.GroupSet{}, nil, nil, err
	}

	groupSet, err := buildGroups(def.Groups, byName, g.NumNodes())
	if err != nil {
		return domain.Graph{}, domain.GroupSet{}, nil, nil, err
	}

	opsPerTurn := def.OpsPerTurn
	if opsPerTurn <= 0 {
		opsPerTurn = 1
	}

	sc, err := buildScenario(def.Entries, byName, opsPerTurn)
	if err != nil {
		return domain.Graph{}, domain.GroupSet{}, nil, nil, err
	}

	return g, groupSet, sc, byName, nil
}

func buildGraph(nodes []fileNode, edges []fileEdge) (domain.Graph, map[string]domain.NodeID, error) {
	builder := domain.NewGraphBuilder()
	byName := make(map[string]domain.NodeID, len(nodes))
	for _, n := range nodes {
		byName[n.Name] = builder.AddNode(n.Name, n.Capacity, n.Gain)
	}
	for _, e := range edges {
		from, ok := byName[e.From]
		if !ok {
			return domain.Graph{}, nil, fmt.Errorf("scenario: edge references unknown node %q", e.From)
		}
		to, ok := byName[e.To]
		if !ok {
			return domain.Graph{}, nil, fmt.Errorf("scenario: edge references unknown node %q", e.To)
		}
		builder.AddEdge(from, to, e.Weight)
	}
	g, err := builder.Build()
	if err != nil {
		return domain.Graph{}, nil, fmt.Errorf("scenario: building graph: %w", err)
	}
	return g, byName, nil
}

func buildGroups(defs []fileGroup, byName map[string]domain.NodeID, numNodes int) (domain.GroupSet, error) {
	groups := make([]domain.Group, 0, len(defs))
	for _, grp := range defs {
		ids := make([]domain.NodeID, 0, len(grp.Nodes))
		for _, name := range grp.Nodes {
			id, ok := byName[name]
			if !ok {
				return domain.GroupSet{}, fmt.Errorf("scenario: group %q references unknown node %q", grp.Name, name)
			}
			ids = append(ids, id)
		}
		groups = append(groups, domain.NewGroup(grp.Name, ids))
	}
	groupSet, err := domain.NewGroupSet(groups, numNodes)
	if err != nil {
		return domain.GroupSet{}, fmt.Errorf("scenario: building groups: %w", err)
	}
	return groupSet, nil
}

func buildScenario(entries []fileEntry, byName map[string]domain.NodeID, opsPerTurn int) (Scenario, error) {
	exprs := make(map[domain.NodeID]string)
	tables := make(map[domain.NodeID][]float64)

	for _, entry := range entries {
		id, ok := byName[entry.Node]
		if !ok {
			return nil, fmt.Errorf("scenario: entry references unknown node %q", entry.Node)
		}
		if entry.Expression != "" {
			if _, dup := tables[id]; dup {
				return nil, fmt.Errorf("scenario: node %q has both a load table and an expression", entry.Node)
			}
			exprs[id] = entry.Expression
			continue
		}
		if _, dup := exprs[id]; dup {
			return nil, fmt.Errorf("scenario: node %q has both a load table and an expression", entry.Node)
		}
		tables[id] = entry.Loads
	}

	if len(exprs) == 0 {
		return NewStaticScenario(tables, opsPerTurn), nil
	}
	if len(tables) == 0 {
		return NewExprScenario(exprs, opsPerTurn)
	}
	return newMixedScenario(tables, exprs, opsPerTurn)
}
