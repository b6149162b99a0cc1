package rebase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	twiggit "github.com/eddieland/twig/internal/git"
)

var skipHashPattern = regexp.MustCompile(`^[0-9a-fA-F]{7,64}$`)

// ValidateSkipList checks that every entry is a 7-64 character hex string.
func ValidateSkipList(hashes []string) error {
	for _, h := range hashes {
		if !skipHashPattern.MatchString(h) {
			return fmt.Errorf("invalid skip-commit hash %q: must be 7-64 hexadecimal characters", h)
		}
	}
	return nil
}

// RebaseOntoSkipping replaces the standard rebase with a manual cherry-pick
// pipeline that omits any commit whose hash is prefix-matched by skip.
func (e *Engine) RebaseOntoSkipping(ctx context.Context, parent string, skip []string) (Result, error) {
	if err := ValidateSkipList(skip); err != nil {
		return Result{Outcome: Error}, err
	}

	commits, err := twiggit.RunGitCommandLinesWithContext(ctx, "rev-list", "--reverse", parent+"..HEAD")
	if err != nil {
		return Result{Outcome: Error}, fmt.Errorf("failed to enumerate commits to rebase: %w", err)
	}

	stashed := false
	if e.Autostash {
		out, stashErr := twiggit.RunGitCommandWithContext(ctx, "stash", "push", "--include-untracked")
		if stashErr != nil {
			return Result{Outcome: Error}, fmt.Errorf("autostash failed: %w", stashErr)
		}
		stashed = !strings.Contains(out, "No local changes to save")
	}

	if err := twiggit.HardReset(ctx, parent); err != nil {
		return Result{Outcome: Error}, fmt.Errorf("failed to reset onto %s: %w", parent, err)
	}

	for _, commit := range commits {
		if commit == "" {
			continue
		}
		if matchesSkipList(commit, skip) {
			continue
		}
		if _, err := twiggit.CherryPick(ctx, commit); err != nil {
			if stashed {
				_, _ = twiggit.RunGitCommandWithContext(ctx, "stash", "pop")
			}
			return Result{Outcome: Conflict}, nil
		}
	}

	if stashed {
		if _, err := twiggit.RunGitCommandWithContext(ctx, "stash", "pop"); err != nil {
			return Result{Outcome: Error}, fmt.Errorf("failed to restore autostash: %w", err)
		}
	}

	return Result{Outcome: Success}, nil
}

func matchesSkipList(commit string, skip []string) bool {
	for _, s := range skip {
		if strings.HasPrefix(commit, s) {
			return true
		}
	}
	return false
}
