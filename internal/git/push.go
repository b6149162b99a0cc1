package git

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrStaleRemoteInfo indicates a force-with-lease push was refused
// because the remote branch moved since it was last fetched.
var ErrStaleRemoteInfo = errors.New("stale info")

// PushBranch pushes branch to remote, setting upstream. forceWithLease
// uses --force-with-lease (refused when the remote moved underneath);
// force overwrites unconditionally. The cascade engine only ever passes
// forceWithLease.
func PushBranch(ctx context.Context, branch string, remote string, force bool, forceWithLease bool) error {
	args := []string{"push", "-u", remote}

	if force {
		args = append(args, "--force")
	} else if forceWithLease {
		args = append(args, "--force-with-lease")
	}

	args = append(args, branch)

	if _, err := RunGitCommandWithContext(ctx, args...); err != nil {
		if strings.Contains(err.Error(), "stale info") || strings.Contains(err.Error(), "forced update") {
			return fmt.Errorf("%w: force-with-lease push of %s failed due to external changes to the remote branch", ErrStaleRemoteInfo, branch)
		}
		return fmt.Errorf("failed to push branch %s: %w", branch, err)
	}

	return nil
}
