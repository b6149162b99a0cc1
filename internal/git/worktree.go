package git

import (
	"context"
	"fmt"
	"strings"
)

// AddWorktree creates a linked worktree at path with branch checked out,
// or detached when detach is set.
func AddWorktree(ctx context.Context, path string, branch string, detach bool) error {
	args := []string{"worktree", "add"}
	if detach {
		args = append(args, "--detach")
	}
	args = append(args, path)
	if branch != "" {
		args = append(args, branch)
	}

	if _, err := RunGitCommandWithContext(ctx, args...); err != nil {
		return fmt.Errorf("failed to add worktree at %s: %w", path, err)
	}
	return nil
}

// RemoveWorktree removes the linked worktree at path.
func RemoveWorktree(ctx context.Context, path string) error {
	if _, err := RunGitCommandWithContext(ctx, "worktree", "remove", "--force", path); err != nil {
		return fmt.Errorf("failed to remove worktree at %s: %w", path, err)
	}
	return nil
}

// ListWorktrees returns the filesystem path of every worktree Git knows
// about, the main working tree included.
func ListWorktrees(ctx context.Context) ([]string, error) {
	lines, err := RunGitCommandLinesWithContext(ctx, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to list worktrees: %w", err)
	}

	var worktrees []string
	for _, line := range lines {
		if strings.HasPrefix(line, "worktree ") {
			worktrees = append(worktrees, strings.TrimPrefix(line, "worktree "))
		}
	}
	return worktrees, nil
}
