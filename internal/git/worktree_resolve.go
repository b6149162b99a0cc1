package git

import (
	"context"
	"path/filepath"
	"strings"
)

// ResolveMainRepoPath canonicalizes path and, if it names a linked
// worktree, resolves it to the main repository's working directory.
// Used by the cross-repository registry so operations run from inside a
// worktree still address the main repo's registry entry.
func ResolveMainRepoPath(ctx context.Context, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	commonDir, err := RunGitCommandInDirWithContext(ctx, abs, "rev-parse", "--path-format=absolute", "--git-common-dir")
	if err != nil {
		// Not a git repository at all (or git too old for --path-format); fall
		// back to the plain canonical path so callers still get something
		// usable for non-repo registry entries.
		return abs, nil
	}

	gitDir, err := RunGitCommandInDirWithContext(ctx, abs, "rev-parse", "--path-format=absolute", "--git-dir")
	if err != nil {
		return abs, nil
	}

	commonDir = strings.TrimSpace(commonDir)
	gitDir = strings.TrimSpace(gitDir)

	if commonDir == gitDir {
		// Not a linked worktree; the common dir is this repo's own .git.
		return abs, nil
	}

	// commonDir is "<main>/.git"; its parent is the main repo's working directory.
	return filepath.Dir(commonDir), nil
}

// RunGitCommandInDirWithContext runs a git command rooted at dir, honoring ctx.
func RunGitCommandInDirWithContext(ctx context.Context, dir string, args ...string) (string, error) {
	runner := &CommandRunner{workingDir: dir}
	return runner.Run(ctx, args...)
}
