package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CherryPick cherry-picks commitSHA onto the currently checked out HEAD,
// aborting and returning an error if it conflicts. Used by the rebase
// engine's skip-commits pipeline, which resets to the new parent itself
// before replaying commits one at a time.
func CherryPick(ctx context.Context, commitSHA string) (string, error) {
	if _, err := RunGitCommandWithContext(ctx, "cherry-pick", commitSHA); err != nil {
		_, _ = RunGitCommandWithContext(ctx, "cherry-pick", "--abort")
		return "", fmt.Errorf("failed to cherry-pick %s: %w", commitSHA, err)
	}

	newSHA, err := RunGitCommandWithContext(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get new SHA after cherry-pick: %w", err)
	}

	return newSHA, nil
}

// RebaseAbort aborts an in-progress rebase.
func RebaseAbort(ctx context.Context) error {
	if _, err := RunGitCommandWithContext(ctx, "rebase", "--abort"); err != nil {
		return fmt.Errorf("rebase abort failed: %w", err)
	}
	return nil
}

// IsRebaseInProgress reports whether a rebase is underway, detected by
// the presence of rebase-merge or rebase-apply inside the Git directory.
func IsRebaseInProgress(ctx context.Context) bool {
	output, err := RunGitCommandWithContext(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return false
	}

	gitDir := strings.TrimSpace(output)
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(GetWorkingDir(), gitDir)
	}
	if _, err := os.Stat(gitDir + "/rebase-merge"); err == nil {
		return true
	}
	if _, err := os.Stat(gitDir + "/rebase-apply"); err == nil {
		return true
	}
	return false
}

// GetRebaseHead returns the commit currently being replayed by an
// in-progress rebase, trying REBASE_HEAD first and falling back to the
// per-mode refs older Git versions expose.
func GetRebaseHead(ctx context.Context) (string, error) {
	refs := []string{
		"REBASE_HEAD",
		"refs/rebase-merge/head",
		"refs/rebase-apply/head",
	}

	for _, refName := range refs {
		output, err := RunGitCommandWithContext(ctx, "rev-parse", "--verify", refName)
		if err == nil && output != "" {
			return output, nil
		}
	}

	return "", fmt.Errorf("rebase head not found")
}
