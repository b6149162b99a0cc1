package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eddieland/twig/internal/git"
	"github.com/eddieland/twig/testhelpers"
)

func sceneWithBareOrigin(t *testing.T) *testhelpers.Scene {
	t.Helper()
	scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
		return s.Repo.CreateChangeAndCommit("initial", "init")
	})
	_, err := scene.Repo.CreateBareRemote("origin")
	require.NoError(t, err)
	return scene
}

func TestFetchRemoteShas(t *testing.T) {
	t.Run("lists every advertised branch tip", func(t *testing.T) {
		scene := sceneWithBareOrigin(t)
		require.NoError(t, scene.Repo.PushBranch("origin", "main"))

		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("feature change", "feat"))
		require.NoError(t, scene.Repo.PushBranch("origin", "feature"))

		shas, err := git.FetchRemoteShas(context.Background(), "origin")
		require.NoError(t, err)

		require.Len(t, shas["main"], 40)
		require.Len(t, shas["feature"], 40)
		require.NotEqual(t, shas["main"], shas["feature"])
	})

	t.Run("empty remote yields empty map", func(t *testing.T) {
		_ = sceneWithBareOrigin(t)

		shas, err := git.FetchRemoteShas(context.Background(), "origin")
		require.NoError(t, err)
		require.Empty(t, shas)
	})

	t.Run("handles slashes in branch names", func(t *testing.T) {
		scene := sceneWithBareOrigin(t)
		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature/my-feature"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("feature change", "feat"))
		require.NoError(t, scene.Repo.PushBranch("origin", "feature/my-feature"))

		shas, err := git.FetchRemoteShas(context.Background(), "origin")
		require.NoError(t, err)
		require.Contains(t, shas, "feature/my-feature")
	})
}

func TestGetOriginOwnerRepo(t *testing.T) {
	tests := []struct {
		url   string
		owner string
		repo  string
	}{
		{"git@github.com:eddieland/twig.git", "eddieland", "twig"},
		{"https://github.com/eddieland/twig", "eddieland", "twig"},
		{"https://github.com/eddieland/twig.git", "eddieland", "twig"},
	}

	for _, tt := range tests {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial", "init")
		})
		require.NoError(t, scene.Repo.RunGitCommand("remote", "add", "origin", tt.url))

		owner, repo, err := git.GetOriginOwnerRepo(context.Background())
		require.NoError(t, err)
		require.Equal(t, tt.owner, owner)
		require.Equal(t, tt.repo, repo)
	}
}

func TestGetOriginOwnerRepoRejectsNonGitHub(t *testing.T) {
	scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
		return s.Repo.CreateChangeAndCommit("initial", "init")
	})
	require.NoError(t, scene.Repo.RunGitCommand("remote", "add", "origin", "https://gitlab.example.com/a/b.git"))

	_, _, err := git.GetOriginOwnerRepo(context.Background())
	require.Error(t, err)
}
