package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	twigerrors "github.com/eddieland/twig/internal/errors"
)

func TestLoadMissingFileYieldsDefault(t *testing.T) {
	dir := t.TempDir()

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Version)
	assert.Empty(t, s.Dependencies)
	assert.Empty(t, s.RootBranches)
}

func TestLoadCorruptFileFailsWithStateCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".twig"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".twig", "state.json"), []byte("{not json"), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	var twigErr *twigerrors.TwigError
	require.ErrorAs(t, err, &twigErr)
	assert.Equal(t, twigerrors.KindStateCorrupt, twigErr.Kind)
}

func TestSaveWritesGitignore(t *testing.T) {
	dir := t.TempDir()
	s := newDefaultState()

	require.NoError(t, Save(dir, s))

	body, err := os.ReadFile(filepath.Join(dir, ".twig", ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "*\n", string(body))
}

func TestSaveLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := newDefaultState()
	require.NoError(t, s.AddDependency("feature", "main"))
	s.AddRoot("main", true)

	require.NoError(t, Save(dir, s))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, s.Dependencies, loaded.Dependencies)
	assert.Equal(t, s.RootBranches, loaded.RootBranches)

	require.NoError(t, Save(dir, loaded))
	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, loaded.Dependencies, reloaded.Dependencies)
}

func TestAddDependencyRejectsDuplicate(t *testing.T) {
	s := newDefaultState()
	require.NoError(t, s.AddDependency("feature", "main"))

	err := s.AddDependency("feature", "main")
	require.Error(t, err)
	assert.ErrorIs(t, err, twigerrors.ErrDuplicateEdge)
}

func TestAddDependencyRejectsCycle(t *testing.T) {
	s := newDefaultState()
	require.NoError(t, s.AddDependency("feature", "main"))

	before := append([]BranchDependency(nil), s.Dependencies...)

	err := s.AddDependency("main", "feature")
	require.Error(t, err)
	assert.ErrorIs(t, err, twigerrors.ErrCycleWouldForm)
	assert.Equal(t, before, s.Dependencies)
}

func TestAddRemoveDependencyReturnsToPriorState(t *testing.T) {
	s := newDefaultState()
	before := append([]BranchDependency{}, s.Dependencies...)

	require.NoError(t, s.AddDependency("feature", "main"))
	removed := s.RemoveDependency("feature", "main")
	require.True(t, removed)

	assert.Equal(t, before, s.Dependencies)
}

func TestIndicesAgreeWithDependencies(t *testing.T) {
	s := newDefaultState()
	require.NoError(t, s.AddDependency("sub", "feature"))
	require.NoError(t, s.AddDependency("feature", "main"))

	for _, dep := range s.Dependencies {
		assert.Contains(t, s.dependencyChildren[dep.Parent], dep.Child)
		assert.Contains(t, s.dependencyParents[dep.Child], dep.Parent)
	}
}

func TestAddRootDefaultTwiceIsIdempotent(t *testing.T) {
	s := newDefaultState()
	s.AddRoot("main", true)
	first := append([]RootBranch(nil), s.RootBranches...)

	s.AddRoot("main", true)

	assert.Len(t, s.RootBranches, len(first))
	root, ok := s.GetDefaultRoot()
	require.True(t, ok)
	assert.Equal(t, "main", root)
}

func TestAddRootClearsPriorDefault(t *testing.T) {
	s := newDefaultState()
	s.AddRoot("main", true)
	s.AddRoot("develop", true)

	defaults := 0
	for _, r := range s.RootBranches {
		if r.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)

	root, ok := s.GetDefaultRoot()
	require.True(t, ok)
	assert.Equal(t, "develop", root)
}

func TestSetDefaultRootRejectsNonRoot(t *testing.T) {
	s := newDefaultState()
	err := s.SetDefaultRoot("main")
	require.Error(t, err)
	assert.ErrorIs(t, err, twigerrors.ErrMissingDefaultRoot)
}

func TestEvictStaleBranchesNeverRemovesRoots(t *testing.T) {
	s := newDefaultState()
	s.AddRoot("main", true)
	require.NoError(t, s.AddDependency("feature", "main"))
	s.AddBranchIssue("feature", nil, nil)

	stats := s.EvictStaleBranches(map[string]bool{})

	assert.True(t, s.IsRoot("main"))
	assert.Equal(t, 1, stats.BranchesRemoved)
	assert.Equal(t, 1, stats.DependenciesRemoved)
}

func TestFindDependencyTreeRootTerminatesOnCycle(t *testing.T) {
	s := newDefaultState()
	// Hand-construct a cyclic index to simulate corrupted on-disk state; the
	// State Store itself would never allow this via AddDependency.
	s.dependencyParents = map[string][]string{
		"a": {"b"},
		"b": {"a"},
	}

	root := s.FindDependencyTreeRoot("a")
	assert.Contains(t, []string{"a", "b"}, root)
}

func TestFindDependencyTreeRootFollowsFirstParent(t *testing.T) {
	s := newDefaultState()
	require.NoError(t, s.AddDependency("leaf", "mid"))
	require.NoError(t, s.AddDependency("mid", "main"))

	assert.Equal(t, "main", s.FindDependencyTreeRoot("leaf"))
}

func TestAddBranchIssueReassignsUniqueJiraKey(t *testing.T) {
	s := newDefaultState()
	key := "ABC-1"
	s.AddBranchIssue("feature-a", &key, nil)
	s.AddBranchIssue("feature-b", &key, nil)

	metaA, _ := s.GetBranchMetadata("feature-a")
	assert.Nil(t, metaA.JiraIssue)

	branch, ok := s.GetBranchIssueByJira(key)
	require.True(t, ok)
	assert.Equal(t, "feature-b", branch)
}

func TestWorktreeUpsertByName(t *testing.T) {
	s := newDefaultState()
	s.AddWorktree("wt1", "/path/one", "feature")
	s.AddWorktree("wt1", "/path/two", "feature2")

	assert.Len(t, s.Worktrees, 1)
	wt, ok := s.GetWorktree("wt1")
	require.True(t, ok)
	assert.Equal(t, "/path/two", wt.Path)
	assert.Equal(t, "feature2", wt.Branch)
}
