package cascade

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddieland/twig/internal/depgraph"
	twiggit "github.com/eddieland/twig/internal/git"
	"github.com/eddieland/twig/internal/rebase"
	"github.com/eddieland/twig/testhelpers"
)

func buildGraph(edges map[string][]string) *depgraph.Graph {
	g := &depgraph.Graph{Nodes: map[string]*depgraph.Node{}}
	for parent, children := range edges {
		if _, ok := g.Nodes[parent]; !ok {
			g.Nodes[parent] = &depgraph.Node{Name: parent}
		}
		for _, c := range children {
			if _, ok := g.Nodes[c]; !ok {
				g.Nodes[c] = &depgraph.Node{Name: c}
			}
			g.Nodes[parent].Children = append(g.Nodes[parent].Children, c)
			g.Nodes[c].Parents = append(g.Nodes[c].Parents, parent)
		}
	}
	return g
}

func TestPlanBFSRespectsMaxDepth(t *testing.T) {
	g := buildGraph(map[string][]string{
		"main": {"a"},
		"a":    {"b"},
		"b":    {"c"},
	})

	targets, skipped := Plan(g, "main", 2)
	assert.Empty(t, skipped)
	assert.ElementsMatch(t, []string{"main", "a", "b"}, targets)
}

func TestPlanSkipsMissingBranches(t *testing.T) {
	g := buildGraph(map[string][]string{
		"main": {"a"},
	})
	g.Nodes["a"].Children = append(g.Nodes["a"].Children, "ghost")

	targets, skipped := Plan(g, "main", 0)
	assert.Contains(t, targets, "main")
	assert.Contains(t, targets, "a")
	assert.Equal(t, []string{"ghost"}, skipped)
}

func TestTopoSortVisitsParentsFirst(t *testing.T) {
	g := buildGraph(map[string][]string{
		"main": {"a", "b"},
		"a":    {"c"},
		"b":    {"c"},
	})

	order := TopoSort(g, []string{"main", "a", "b", "c"})
	pos := map[string]int{}
	for i, n := range order {
		pos[n] = i
	}

	assert.Less(t, pos["main"], pos["a"])
	assert.Less(t, pos["main"], pos["b"])
	assert.Less(t, pos["a"], pos["c"])
	assert.Less(t, pos["b"], pos["c"])
}

func TestTopoSortToleratesCycle(t *testing.T) {
	g := buildGraph(map[string][]string{
		"a": {"b"},
		"b": {"a"},
	})

	assert.NotPanics(t, func() {
		order := TopoSort(g, []string{"a", "b"})
		assert.Len(t, order, 2)
	})
}

func TestRunRebasesDescendantsInOrder(t *testing.T) {
	dir := t.TempDir()
	repo, err := testhelpers.NewGitRepo(dir)
	require.NoError(t, err)
	require.NoError(t, repo.CreateChangeAndCommit("seed", "seed"))

	twiggit.ResetDefaultRepo()
	require.NoError(t, twiggit.InitDefaultRepoInDir(dir))
	t.Cleanup(twiggit.ResetDefaultRepo)

	require.NoError(t, repo.RunGitCommand("checkout", "-b", "a"))
	require.NoError(t, repo.CreateChangeAndCommit("a work", "a"))
	require.NoError(t, repo.RunGitCommand("checkout", "-b", "b"))
	require.NoError(t, repo.CreateChangeAndCommit("b work", "b"))
	require.NoError(t, repo.RunGitCommand("checkout", "main"))
	require.NoError(t, repo.CreateChangeAndCommit("main advances", "main"))

	g := buildGraph(map[string][]string{"main": {"a"}, "a": {"b"}})

	checkout := func(branch string) error {
		return twiggit.CheckoutBranch(context.Background(), branch)
	}

	report, err := Run(context.Background(), g, checkout, "main", 0, rebase.New(false, false), nil)
	require.NoError(t, err)
	assert.False(t, report.Conflict)
	assert.Equal(t, []string{"main", "a", "b"}, report.Order)
	for _, step := range report.Steps {
		assert.Equal(t, rebase.Success, step.Result.Outcome)
	}
}
