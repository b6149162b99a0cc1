package cli_test

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddieland/twig/testhelpers"
)

func TestMain(m *testing.M) {
	testhelpers.TestMain(m, nil)
}

// runTwig runs the built twig binary inside dir and returns its combined
// output. Prompts are disabled so any path that would block fails fast.
func runTwig(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(testhelpers.GetSharedBinaryPath(), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "TWIG_NON_INTERACTIVE=true")
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func mustRunTwig(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runTwig(t, dir, args...)
	require.NoError(t, err, "twig %v failed:\n%s", args, out)
	return out
}

func TestBranchDependAndParent(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewSceneParallel(t, testhelpers.BasicSceneSetup)
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))

	out := mustRunTwig(t, scene.Dir, "branch", "depend", "feature", "main")
	assert.Contains(t, out, "feature now depends on main")

	out = mustRunTwig(t, scene.Dir, "branch", "parent", "feature")
	assert.Contains(t, out, "main")
}

func TestBranchDependRejectsCycle(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewSceneParallel(t, testhelpers.BasicSceneSetup)
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))

	mustRunTwig(t, scene.Dir, "branch", "depend", "feature", "main")

	out, err := runTwig(t, scene.Dir, "branch", "depend", "main", "feature")
	require.Error(t, err)
	assert.Contains(t, out, "cycle")
}

func TestBranchDependSuggestsCloseNames(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewSceneParallel(t, testhelpers.BasicSceneSetup)
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))

	out, err := runTwig(t, scene.Dir, "branch", "depend", "featur", "main")
	require.Error(t, err)
	assert.Contains(t, out, "did you mean `feature`?")
}

func TestTreeRendersDeclaredHierarchy(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewSceneParallel(t, testhelpers.BasicSceneSetup)
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("sub"))
	require.NoError(t, scene.Repo.CheckoutBranch("main"))

	mustRunTwig(t, scene.Dir, "branch", "depend", "feature", "main")
	mustRunTwig(t, scene.Dir, "branch", "depend", "sub", "feature")

	out := mustRunTwig(t, scene.Dir, "tree", "--color", "never")
	assert.Contains(t, out, "* main")
	assert.Contains(t, out, "└─ feature")
	assert.Contains(t, out, "   └─ sub")
}

func TestCascadeRebasesDescendants(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewSceneParallel(t, testhelpers.BasicSceneSetup)

	// main -> feature -> sub, then main advances.
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("feature work", "feature"))
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("sub"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("sub work", "sub"))

	mustRunTwig(t, scene.Dir, "branch", "depend", "feature", "main")
	mustRunTwig(t, scene.Dir, "branch", "depend", "sub", "feature")

	require.NoError(t, scene.Repo.CheckoutBranch("main"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("main advances", "main"))

	require.NoError(t, scene.Repo.CheckoutBranch("feature"))
	out := mustRunTwig(t, scene.Dir, "cascade")
	assert.Contains(t, out, "cascade complete")

	// Both descendants now contain the new main commit.
	for _, branch := range []string{"feature", "sub"} {
		require.NoError(t, scene.Repo.CheckoutBranch(branch))
		messages, err := scene.Repo.ListCurrentBranchCommitMessages()
		require.NoError(t, err)
		assert.Contains(t, strings.Join(messages, "\n"), "main advances",
			"branch %s should have been rebased", branch)
	}
}

func TestCascadeReturnsHeadToStart(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewSceneParallel(t, testhelpers.BasicSceneSetup)

	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("feature work", "feature"))
	mustRunTwig(t, scene.Dir, "branch", "depend", "feature", "main")

	mustRunTwig(t, scene.Dir, "cascade")

	branch, err := scene.Repo.CurrentBranchName()
	require.NoError(t, err)
	assert.Equal(t, "feature", branch)
}

func TestTidyPruneRemovesDanglingReferences(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewSceneParallel(t, testhelpers.BasicSceneSetup)
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("doomed"))
	require.NoError(t, scene.Repo.CheckoutBranch("main"))

	mustRunTwig(t, scene.Dir, "branch", "depend", "doomed", "main")
	require.NoError(t, scene.Repo.DeleteBranch("doomed"))

	out := mustRunTwig(t, scene.Dir, "tidy", "prune", "--force")
	assert.Contains(t, out, "doomed")

	out = mustRunTwig(t, scene.Dir, "branch", "parent", "doomed")
	assert.Contains(t, out, "no declared parent")
}

func TestRootAddAndList(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewSceneParallel(t, testhelpers.BasicSceneSetup)

	mustRunTwig(t, scene.Dir, "branch", "root", "add", "main", "--default")
	out := mustRunTwig(t, scene.Dir, "branch", "root", "list")
	assert.Contains(t, out, "main (default)")
}

func TestRebaseRequiresDeclaredParent(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewSceneParallel(t, testhelpers.BasicSceneSetup)
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("loner"))

	out, err := runTwig(t, scene.Dir, "rebase")
	require.Error(t, err)
	assert.Contains(t, out, "no declared parent")
}

func TestBranchSuggestPrefersRootOverSibling(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewSceneParallel(t, testhelpers.BasicSceneSetup)

	// Two siblings fork from main, then main advances.
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature-a"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("a work", "a"))
	require.NoError(t, scene.Repo.CheckoutBranch("main"))
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature-b"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("b work", "b"))
	require.NoError(t, scene.Repo.CheckoutBranch("main"))
	for i := 0; i < 5; i++ {
		require.NoError(t, scene.Repo.CreateChangeAndCommit(fmt.Sprintf("main advance %d", i), "main"))
	}

	mustRunTwig(t, scene.Dir, "branch", "root", "add", "main", "--default")

	out := mustRunTwig(t, scene.Dir, "branch", "suggest")
	assert.Contains(t, out, "feature-a -> main")
	assert.Contains(t, out, "feature-b -> main")
	assert.NotContains(t, out, "feature-b -> feature-a")
	assert.NotContains(t, out, "feature-a -> feature-b")
}

func TestWorktreeAddListRm(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewSceneParallel(t, testhelpers.BasicSceneSetup)
	require.NoError(t, scene.Repo.CreateBranch("feature"))

	mustRunTwig(t, scene.Dir, "worktree", "add", "feature")

	out := mustRunTwig(t, scene.Dir, "worktree", "list")
	assert.Contains(t, out, "feature")

	mustRunTwig(t, scene.Dir, "worktree", "rm", "feature")
	out = mustRunTwig(t, scene.Dir, "worktree", "list")
	assert.Contains(t, out, "no worktrees recorded")
}
