package git

import (
	"context"
	"strconv"
	"strings"
)

// CountCommitsAhead returns the number of commits reachable from head but
// not from base — i.e. len(rev-list base..head). Used by the inference
// engine's child_depth/parent_drift computation and by the tidy engine's
// "has unique commits" check.
func CountCommitsAhead(ctx context.Context, base, head string) (int, error) {
	out, err := RunGitCommandWithContext(ctx, "rev-list", "--count", base+".."+head)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, err
	}
	return n, nil
}

// GraphAheadBehind returns (ahead, behind) of head relative to base: the
// count of commits unique to head and unique to base respectively.
func GraphAheadBehind(ctx context.Context, base, head string) (ahead, behind int, err error) {
	ahead, err = CountCommitsAhead(ctx, base, head)
	if err != nil {
		return 0, 0, err
	}
	behind, err = CountCommitsAhead(ctx, head, base)
	if err != nil {
		return 0, 0, err
	}
	return ahead, behind, nil
}

// HasUniqueCommits reports whether branch has any commit not reachable
// from parent — rev-list(branch ^parent) is non-empty. Equal tips
// trivially return false.
func HasUniqueCommits(ctx context.Context, branch, parent string) (bool, error) {
	n, err := CountCommitsAhead(ctx, parent, branch)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
