package git

import (
	"context"
	"fmt"
	"strings"
)

// IsMerged reports whether branch's work has landed in parent: either the
// branch tip is the merge base itself, or `git cherry` finds no commit on
// the branch that is missing from parent (which also catches squash and
// rebase merges, where the SHAs differ but the patches are present).
func IsMerged(ctx context.Context, branch, parent string) (bool, error) {
	mergeBase, err := GetMergeBase(ctx, branch, parent)
	if err != nil {
		return false, fmt.Errorf("failed to get merge base: %w", err)
	}

	branchRev, err := GetRevision(ctx, branch)
	if err != nil {
		return false, fmt.Errorf("failed to get branch revision: %w", err)
	}

	if mergeBase == branchRev {
		return true, nil
	}

	cherryOutput, err := RunGitCommandWithContext(ctx, "cherry", parent, branch)
	if err != nil {
		// cherry can fail on unusual histories; fall back to plain ancestry.
		_, err = RunGitCommandWithContext(ctx, "merge-base", "--is-ancestor", branchRev, parent)
		return err == nil, nil
	}

	if cherryOutput == "" {
		return true, nil
	}

	// cherry prefixes commits already present in parent with '-'; any '+'
	// line is unmerged work.
	for _, line := range strings.Split(cherryOutput, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && line[0] != '-' {
			return false, nil
		}
	}

	return true, nil
}
