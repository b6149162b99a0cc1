package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddieland/twig/internal/state"
)

func newStateWithEdges(t *testing.T, edges [][2]string) *state.RepoState {
	s, err := state.Load(t.TempDir())
	require.NoError(t, err)
	for _, e := range edges {
		require.NoError(t, s.AddDependency(e[0], e[1]))
	}
	return s
}

func TestBuildAttachesDeclaredEdges(t *testing.T) {
	s := newStateWithEdges(t, [][2]string{{"feature", "main"}})

	g := Build([]string{"main", "feature"}, "feature", s)

	assert.Equal(t, []string{"main"}, g.Nodes["feature"].Parents)
	assert.Equal(t, []string{"feature"}, g.Nodes["main"].Children)
	assert.True(t, g.Nodes["feature"].IsCurrent)
	assert.False(t, g.Nodes["main"].IsCurrent)
}

func TestBuildOrphanAttachmentToDefaultRoot(t *testing.T) {
	s := newStateWithEdges(t, nil)
	s.AddRoot("main", true)

	g := Build([]string{"main", "orphan"}, "main", s)

	assert.Equal(t, []string{"main"}, g.Nodes["orphan"].Parents)
	assert.Equal(t, []string{"orphan"}, g.Nodes["main"].Children)
}

func TestBuildDoesNotReattachDeclaredRoots(t *testing.T) {
	s := newStateWithEdges(t, nil)
	s.AddRoot("main", true)
	s.AddRoot("develop", false)

	g := Build([]string{"main", "develop"}, "main", s)

	assert.Empty(t, g.Nodes["develop"].Parents)
}

func TestExtractTreeUsesDeclaredRootsWhenPresent(t *testing.T) {
	s := newStateWithEdges(t, [][2]string{{"feature", "main"}})
	s.AddRoot("main", false)

	g := Build([]string{"main", "feature", "orphan"}, "main", s)
	roots, orphans := ExtractTree(g, s.GetRootBranches())

	assert.Equal(t, []string{"main"}, roots)
	assert.Equal(t, []string{"orphan"}, orphans)
}

func TestExtractTreeFallsBackToParentlessNodes(t *testing.T) {
	s := newStateWithEdges(t, [][2]string{{"feature", "main"}})

	g := Build([]string{"main", "feature"}, "main", s)
	roots, orphans := ExtractTree(g, nil)

	assert.Equal(t, []string{"main"}, roots)
	assert.Empty(t, orphans)
}
