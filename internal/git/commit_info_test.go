package git_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eddieland/twig/internal/git"
	"github.com/eddieland/twig/testhelpers"
)

func TestGetCommitDate(t *testing.T) {
	scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
		return s.Repo.CreateChangeAndCommit("initial", "init")
	})
	require.NoError(t, git.InitDefaultRepoInDir(scene.Dir))

	date, err := git.GetCommitDate(context.Background(), "main")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), date, time.Minute)
}

func TestGetRevision(t *testing.T) {
	scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
		return s.Repo.CreateChangeAndCommit("initial", "init")
	})
	require.NoError(t, git.InitDefaultRepoInDir(scene.Dir))

	sha, err := git.GetRevision(context.Background(), "main")
	require.NoError(t, err)
	require.Len(t, sha, 40)

	expected, err := scene.Repo.GetRef("main")
	require.NoError(t, err)
	require.Equal(t, expected, sha)
}

func TestGetCommitRangeSHAs(t *testing.T) {
	t.Run("returns only the branch's novel commits", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial", "init")
		})

		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("feature one", "f1"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("feature two", "f2"))

		require.NoError(t, git.InitDefaultRepoInDir(scene.Dir))

		shas, err := git.GetCommitRangeSHAs(context.Background(), "main", "feature")
		require.NoError(t, err)
		require.Len(t, shas, 2)
	})

	t.Run("equal tips yield an empty range", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial", "init")
		})

		require.NoError(t, scene.Repo.CreateBranch("twin"))
		require.NoError(t, git.InitDefaultRepoInDir(scene.Dir))

		shas, err := git.GetCommitRangeSHAs(context.Background(), "main", "twin")
		require.NoError(t, err)
		require.Empty(t, shas)
	})
}
