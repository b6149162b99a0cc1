package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eddieland/twig/internal/git"
	"github.com/eddieland/twig/testhelpers"
)

func TestIsMerged(t *testing.T) {
	seed := func(t *testing.T) *testhelpers.Scene {
		t.Helper()
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial", "init")
		})
		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("branch1"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("branch1 change", "b1"))
		require.NoError(t, scene.Repo.CheckoutBranch("main"))
		return scene
	}

	t.Run("unmerged branch", func(t *testing.T) {
		scene := seed(t)
		require.NoError(t, git.InitDefaultRepoInDir(scene.Dir))

		merged, err := git.IsMerged(context.Background(), "branch1", "main")
		require.NoError(t, err)
		require.False(t, merged)
	})

	t.Run("merged branch", func(t *testing.T) {
		scene := seed(t)
		require.NoError(t, scene.Repo.MergeBranch("main", "branch1"))
		require.NoError(t, git.InitDefaultRepoInDir(scene.Dir))

		merged, err := git.IsMerged(context.Background(), "branch1", "main")
		require.NoError(t, err)
		require.True(t, merged)
	})

	t.Run("squash-merged branch", func(t *testing.T) {
		scene := seed(t)
		// Squash the branch's change onto main so the SHAs differ but the
		// patch is present; cherry must still call it merged.
		require.NoError(t, scene.Repo.RunGitCommand("merge", "--squash", "branch1"))
		require.NoError(t, scene.Repo.RunGitCommand("commit", "-m", "squashed branch1"))
		require.NoError(t, git.InitDefaultRepoInDir(scene.Dir))

		merged, err := git.IsMerged(context.Background(), "branch1", "main")
		require.NoError(t, err)
		require.True(t, merged)
	})
}
