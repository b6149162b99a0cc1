package rebase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	twiggit "github.com/eddieland/twig/internal/git"
	"github.com/eddieland/twig/testhelpers"
)

func withRepo(t *testing.T) *testhelpers.GitRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := testhelpers.NewGitRepo(dir)
	require.NoError(t, err)
	require.NoError(t, repo.CreateChangeAndCommit("seed", "seed"))

	twiggit.ResetDefaultRepo()
	require.NoError(t, twiggit.InitDefaultRepoInDir(dir))
	t.Cleanup(twiggit.ResetDefaultRepo)
	return repo
}

func TestRebaseOntoCleanFastForwardSucceeds(t *testing.T) {
	repo := withRepo(t)
	require.NoError(t, repo.RunGitCommand("checkout", "-b", "feature"))
	require.NoError(t, repo.CreateChangeAndCommit("feature work", "feature"))
	require.NoError(t, repo.RunGitCommand("checkout", "main"))
	require.NoError(t, repo.CreateChangeAndCommit("main work", "main"))
	require.NoError(t, repo.RunGitCommand("checkout", "feature"))

	e := New(false, false)
	result, err := e.RebaseOnto(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, Success, result.Outcome)
}

func TestRebaseOntoUpToDateWhenNoNewCommits(t *testing.T) {
	repo := withRepo(t)
	require.NoError(t, repo.RunGitCommand("checkout", "-b", "feature"))
	require.NoError(t, repo.CreateChangeAndCommit("feature work", "feature"))

	e := New(false, false)
	result, err := e.RebaseOnto(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, UpToDate, result.Outcome)
}

func TestRebaseOntoConflictEntersConflictState(t *testing.T) {
	repo := withRepo(t)
	require.NoError(t, repo.RunGitCommand("checkout", "-b", "feature"))
	require.NoError(t, repo.CreateChangeAndCommit("feature change", "conflicting"))
	require.NoError(t, repo.RunGitCommand("checkout", "main"))
	require.NoError(t, repo.CreateChangeAndCommit("main change", "conflicting"))
	require.NoError(t, repo.RunGitCommand("checkout", "feature"))

	e := New(false, false)
	result, err := e.RebaseOnto(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, Conflict, result.Outcome)
	assert.True(t, twiggit.IsRebaseInProgress(context.Background()))

	// Clean up: abort and stay here is the simplest terminal state.
	res, err := e.Resolve(context.Background(), AbortStayHere, "feature")
	require.NoError(t, err)
	assert.Equal(t, Success, res.Outcome)
	assert.False(t, twiggit.IsRebaseInProgress(context.Background()))
}

func TestResolveContinueAfterFixingConflict(t *testing.T) {
	repo := withRepo(t)
	require.NoError(t, repo.RunGitCommand("checkout", "-b", "feature"))
	require.NoError(t, repo.CreateChangeAndCommit("feature change", "conflicting"))
	require.NoError(t, repo.RunGitCommand("checkout", "main"))
	require.NoError(t, repo.CreateChangeAndCommit("main change", "conflicting"))
	require.NoError(t, repo.RunGitCommand("checkout", "feature"))

	e := New(false, false)
	result, err := e.RebaseOnto(context.Background(), "main")
	require.NoError(t, err)
	require.Equal(t, Conflict, result.Outcome)

	require.NoError(t, repo.ResolveMergeConflicts())
	require.NoError(t, repo.MarkMergeConflictsAsResolved())

	res, err := e.Resolve(context.Background(), Continue, "feature")
	require.NoError(t, err)
	assert.Equal(t, Success, res.Outcome)
	assert.False(t, twiggit.IsRebaseInProgress(context.Background()))
}

func TestResolveAbortToOriginalReturnsToStartingBranch(t *testing.T) {
	repo := withRepo(t)
	require.NoError(t, repo.RunGitCommand("checkout", "-b", "feature"))
	require.NoError(t, repo.CreateChangeAndCommit("feature change", "conflicting"))
	require.NoError(t, repo.RunGitCommand("checkout", "main"))
	require.NoError(t, repo.CreateChangeAndCommit("main change", "conflicting"))
	require.NoError(t, repo.RunGitCommand("checkout", "feature"))

	e := New(false, false)
	result, err := e.RebaseOnto(context.Background(), "main")
	require.NoError(t, err)
	require.Equal(t, Conflict, result.Outcome)

	res, err := e.Resolve(context.Background(), AbortToOriginal, "feature")
	require.NoError(t, err)
	assert.Equal(t, Success, res.Outcome)

	current, err := twiggit.GetCurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "feature", current)
}

func TestValidateSkipListRejectsNonHex(t *testing.T) {
	assert.NoError(t, ValidateSkipList([]string{"abc1234"}))
	assert.Error(t, ValidateSkipList([]string{"nothex!!"}))
	assert.Error(t, ValidateSkipList([]string{"abc"})) // too short
}

func TestRebaseOntoSkippingOmitsMatchedCommit(t *testing.T) {
	repo := withRepo(t)
	require.NoError(t, repo.RunGitCommand("checkout", "-b", "feature"))
	require.NoError(t, repo.CreateChangeAndCommit("skip this", "skipped"))

	skipSHA, err := repo.RunGitCommandAndGetOutput("rev-parse", "HEAD")
	require.NoError(t, err)

	require.NoError(t, repo.CreateChangeAndCommit("keep this", "kept"))

	e := New(false, false)
	result, err := e.RebaseOntoSkipping(context.Background(), "main", []string{skipSHA[:7]})
	require.NoError(t, err)
	assert.Equal(t, Success, result.Outcome)

	messages, err := repo.ListCurrentBranchCommitMessages()
	require.NoError(t, err)
	joined := ""
	for _, m := range messages {
		joined += m + "\n"
	}
	assert.NotContains(t, joined, "skip this")
	assert.Contains(t, joined, "keep this")
}
