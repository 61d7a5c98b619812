package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScenarioYAML = `
nodes:
  - name: A
    capacity: 100
    gain: 1
  - name: B
    capacity: 60
    gain: 1
edges:
  - from: A
    to: B
    weight: 1.0
groups:
  - name: upstream
    nodes: [A]
  - name: downstream
    nodes: [B]
ops_per_turn: 2
entries:
  - node: A
    loads: [10, 20, 30]
`

func writeScenarioFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadFile_BuildsGraphGroupsAndScenario(t *testing.T) {
	path := writeScenarioFile(t, sampleScenarioYAML)

	g, groups, sc, byName, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 2, g.NumNodes())
	assert.Equal(t, 1, g.NumEdges())
	assert.Equal(t, 2, groups.Len())
	assert.Equal(t, 2, sc.OpsPerTurn())

	a := byName["A"]
	assert.Equal(t, 10.0, sc.Load(a, 0))
}

func TestLoadFile_RejectsUnknownEdgeEndpoint(t *testing.T) {
	path := writeScenarioFile(t, `
nodes:
  - name: A
    capacity: 10
    gain: 1
edges:
  - from: A
    to: ghost
    weight: 1
`)
	_, _, _, _, err := LoadFile(path)
	require.Error(t, err)
}

func TestLoadFile_RejectsMissingFile(t *testing.T) {
	_, _, _, _, err := LoadFile("/nonexistent/scenario.yaml")
	require.Error(t, err)
}

func TestLoadFile_DefaultsOpsPerTurn(t *testing.T) {
	path := writeScenarioFile(t, `
nodes:
  - name: A
    capacity: 10
    gain: 1
groups:
  - name: g
    nodes: [A]
`)
	_, _, sc, _, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, sc.OpsPerTurn())
}
