package registry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddieland/twig/testhelpers"
)

func TestAddIsIdempotentByCanonicalPath(t *testing.T) {
	dir := t.TempDir()
	repo, err := testhelpers.NewGitRepo(dir)
	require.NoError(t, err)
	require.NoError(t, repo.CreateChangeAndCommit("seed", ""))

	r := &Registry{}
	ctx := context.Background()

	require.NoError(t, r.Add(ctx, dir, "myrepo"))
	require.NoError(t, r.Add(ctx, dir, "myrepo"))

	assert.Len(t, r.Repositories, 1)
}

func TestRemoveResolvesWorktreeToMainRepoPath(t *testing.T) {
	mainDir := t.TempDir()
	repo, err := testhelpers.NewGitRepo(mainDir)
	require.NoError(t, err)
	require.NoError(t, repo.CreateChangeAndCommit("seed", ""))
	require.NoError(t, repo.RunGitCommand("branch", "feature"))

	worktreeDir := filepath.Join(t.TempDir(), "feature-worktree")
	require.NoError(t, repo.RunGitCommand("worktree", "add", worktreeDir, "feature"))

	ctx := context.Background()
	r := &Registry{}
	require.NoError(t, r.Add(ctx, mainDir, "myrepo"))

	removed, err := r.Remove(ctx, worktreeDir)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, r.Repositories)
}
