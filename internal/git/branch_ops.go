package git

import (
	"context"
	"fmt"
	"strings"
)

// CreateAndCheckoutBranch creates branch at the current HEAD and checks
// it out.
func CreateAndCheckoutBranch(ctx context.Context, branch string) error {
	if _, err := RunGitCommandWithContext(ctx, "checkout", "-b", branch); err != nil {
		return fmt.Errorf("failed to create and checkout branch %s: %w", branch, err)
	}
	return nil
}

// CheckoutBranch checks out an existing branch. A branch held by another
// worktree is checked out detached instead, since Git refuses to attach
// the same branch to two working trees.
func CheckoutBranch(ctx context.Context, branch string) error {
	if _, err := RunGitCommandWithContext(ctx, "checkout", branch); err != nil {
		if strings.Contains(err.Error(), "already used by worktree") {
			return CheckoutDetached(ctx, branch)
		}
		return fmt.Errorf("failed to checkout branch %s: %w", branch, err)
	}
	return nil
}

// CheckoutDetached checks out a revision in detached HEAD state.
func CheckoutDetached(ctx context.Context, rev string) error {
	if _, err := RunGitCommandWithContext(ctx, "checkout", "--detach", rev); err != nil {
		return fmt.Errorf("failed to checkout %s in detached state: %w", rev, err)
	}
	return nil
}

// DeleteBranch force-deletes a local branch.
func DeleteBranch(ctx context.Context, branch string) error {
	if _, err := RunGitCommandWithContext(ctx, "branch", "-D", branch); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branch, err)
	}
	return nil
}
