// Package rebase implements the single-branch rebase engine: rebasing the
// current branch onto a declared parent, classifying the outcome from the
// Git process's exit status and output text, and driving the interactive
// conflict state machine.
//
// When the Skip resolution completes the rebase, the engine hard-resets
// to HEAD, which also discards any unrelated staged or unstaged changes
// to tracked files.
package rebase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	twigerrors "github.com/eddieland/twig/internal/errors"
	twiggit "github.com/eddieland/twig/internal/git"
)

// Outcome classifies the result of a rebase attempt.
type Outcome int

const (
	Success Outcome = iota
	UpToDate
	Conflict
	Error
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case UpToDate:
		return "up to date"
	case Conflict:
		return "conflict"
	default:
		return "error"
	}
}

// Result carries the outcome of a single rebase invocation plus the raw
// text Git produced, so a caller can surface it to the operator verbatim.
type Result struct {
	Outcome Outcome
	Output  string
}

// Resolution is an operator decision made while CONFLICT_WAIT holds.
type Resolution int

const (
	Continue Resolution = iota
	AbortToOriginal
	AbortStayHere
	Skip
)

// Engine drives a rebase of the current branch onto a sequence of declared
// parents.
type Engine struct {
	Autostash bool
	Force     bool
}

// New returns an Engine with the given autostash/force-rebase behavior.
func New(autostash, force bool) *Engine {
	return &Engine{Autostash: autostash, Force: force}
}

// Preflight verifies HEAD is a branch (not detached) and that no rebase is
// already in progress, per the engine's preconditions.
func (e *Engine) Preflight(ctx context.Context) error {
	if twiggit.IsRebaseInProgress(ctx) {
		return twigerrors.ErrRebaseInProgress
	}
	if _, err := twiggit.GetCurrentBranch(); err != nil {
		return twigerrors.Wrap(twigerrors.KindGitRepository, err, "HEAD must be a branch, not a detached checkout")
	}
	return nil
}

// RebaseOnto rebases the current branch onto parent and classifies the
// outcome from combined exit status and output text.
func (e *Engine) RebaseOnto(ctx context.Context, parent string) (Result, error) {
	args := []string{"rebase"}
	if e.Autostash {
		args = append(args, "--autostash")
	}
	args = append(args, parent)

	stdout, stderr, success, err := twiggit.RunGitCommandCombined(ctx, twiggit.GetWorkingDir(), args...)
	if err != nil {
		return Result{Outcome: Error, Output: stderr}, err
	}

	combined := stdout + stderr
	outcome := classify(combined, success)
	slog.Debug("rebase: attempt classified", "parent", parent, "outcome", outcome.String())

	if outcome == UpToDate && e.Force {
		return e.forceRebase(ctx, parent)
	}

	return Result{Outcome: outcome, Output: combined}, nil
}

func (e *Engine) forceRebase(ctx context.Context, parent string) (Result, error) {
	args := []string{"rebase", "--force-rebase"}
	if e.Autostash {
		args = append(args, "--autostash")
	}
	args = append(args, parent)

	stdout, stderr, success, err := twiggit.RunGitCommandCombined(ctx, twiggit.GetWorkingDir(), args...)
	if err != nil {
		return Result{Outcome: Error, Output: stderr}, err
	}
	combined := stdout + stderr
	return Result{Outcome: classify(combined, success), Output: combined}, nil
}

func classify(text string, success bool) Outcome {
	if strings.Contains(text, "up to date") {
		return UpToDate
	}
	if strings.Contains(text, "CONFLICT") {
		return Conflict
	}
	if success {
		return Success
	}
	return Error
}

// Resolve drives the CONFLICT_WAIT state machine for a single resolution.
// originalBranch is the branch HEAD pointed to before the rebase began,
// used by AbortToOriginal.
func (e *Engine) Resolve(ctx context.Context, resolution Resolution, originalBranch string) (Result, error) {
	switch resolution {
	case Continue:
		// GIT_EDITOR=true keeps Git from opening an editor for the
		// continued commit's message.
		stdout, stderr, success, err := twiggit.RunGitCommandCombinedEnv(ctx, twiggit.GetWorkingDir(),
			[]string{"GIT_EDITOR=true"}, "rebase", "--continue")
		if err != nil {
			return Result{Outcome: Error, Output: stderr}, err
		}
		combined := stdout + stderr
		return Result{Outcome: classify(combined, success), Output: combined}, nil

	case AbortToOriginal:
		if err := twiggit.RebaseAbort(ctx); err != nil {
			return Result{Outcome: Error}, err
		}
		if err := twiggit.CheckoutBranch(ctx, originalBranch); err != nil {
			return Result{Outcome: Error}, err
		}
		return Result{Outcome: Success}, nil

	case AbortStayHere:
		if err := twiggit.RebaseAbort(ctx); err != nil {
			return Result{Outcome: Error}, err
		}
		return Result{Outcome: Success}, nil

	case Skip:
		return e.skip(ctx)

	default:
		return Result{Outcome: Error}, fmt.Errorf("unknown conflict resolution %d", resolution)
	}
}

// skip invokes `rebase --skip`. If a rebase is still in progress afterward
// with a dirty index, the condition is surfaced without further automation;
// if the rebase completed, a hard reset to HEAD clears lingering unmerged
// index entries (the "cleanup after skip" step).
func (e *Engine) skip(ctx context.Context) (Result, error) {
	stdout, stderr, success, err := twiggit.RunGitCommandCombined(ctx, twiggit.GetWorkingDir(), "rebase", "--skip")
	if err != nil {
		return Result{Outcome: Error, Output: stderr}, err
	}
	combined := stdout + stderr

	if twiggit.IsRebaseInProgress(ctx) {
		status, statusErr := twiggit.RunGitCommandWithContext(ctx, "status", "--porcelain")
		if statusErr == nil && strings.TrimSpace(status) != "" {
			return Result{Outcome: Conflict, Output: combined}, nil
		}
		return Result{Outcome: classify(combined, success), Output: combined}, nil
	}

	if resetErr := twiggit.HardReset(ctx, "HEAD"); resetErr != nil {
		return Result{Outcome: Error}, resetErr
	}
	return Result{Outcome: Success, Output: combined}, nil
}
