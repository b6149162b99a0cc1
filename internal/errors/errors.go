// Package errors provides sentinel errors and custom error types for twig.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error into one of the taxonomy buckets. The CLI exits
// with status 1 whatever the kind.
type Kind int

const (
	// KindGitRepository covers not-a-git-repo, bare repo, detached HEAD.
	KindGitRepository Kind = iota
	// KindBranchOperation covers branch-not-found, already-exists, circular dependency.
	KindBranchOperation
	// KindFileSystem covers permission denied, missing state directory.
	KindFileSystem
	// KindNetwork covers timeouts, 401s, 429s from HTTP collaborators.
	KindNetwork
	// KindConfiguration covers invalid TOML, invalid Jira host, empty fields.
	KindConfiguration
	// KindUserInput covers malformed commit hashes, empty branch names.
	KindUserInput
	// KindExternalCommand covers git missing on PATH, non-zero exit from a child process.
	KindExternalCommand
	// KindStateCorrupt covers an unparseable state.json.
	KindStateCorrupt
)

func (k Kind) String() string {
	switch k {
	case KindGitRepository:
		return "git repository"
	case KindBranchOperation:
		return "branch operation"
	case KindFileSystem:
		return "filesystem"
	case KindNetwork:
		return "network"
	case KindConfiguration:
		return "configuration"
	case KindUserInput:
		return "user input"
	case KindExternalCommand:
		return "external command"
	case KindStateCorrupt:
		return "state corrupt"
	default:
		return "unknown"
	}
}

// TwigError carries a taxonomy Kind plus a numbered list of concrete
// next-step suggestions rendered below the one-line cause.
type TwigError struct {
	Kind        Kind
	Err         error
	Suggestions []string
}

func New(kind Kind, msg string, suggestions ...string) *TwigError {
	return &TwigError{Kind: kind, Err: errors.New(msg), Suggestions: suggestions}
}

func Wrap(kind Kind, err error, suggestions ...string) *TwigError {
	return &TwigError{Kind: kind, Err: err, Suggestions: suggestions}
}

func (e *TwigError) Error() string {
	if len(e.Suggestions) == 0 {
		return e.Err.Error()
	}
	var b strings.Builder
	b.WriteString(e.Err.Error())
	for i, s := range e.Suggestions {
		b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, s))
	}
	return b.String()
}

func (e *TwigError) Unwrap() error {
	return e.Err
}

// Sentinel errors for common conditions.
var (
	// ErrNotOnBranch indicates that HEAD is not on a branch.
	ErrNotOnBranch = errors.New("not on a branch")

	// ErrBranchNotFound indicates that a branch does not exist.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrRebaseConflict indicates that a rebase operation encountered a conflict.
	ErrRebaseConflict = errors.New("rebase conflict")

	// ErrRebaseNotInProgress indicates that no rebase is currently in progress.
	ErrRebaseNotInProgress = errors.New("no rebase in progress")

	// ErrRebaseInProgress indicates an operation was attempted while a rebase was already running.
	ErrRebaseInProgress = errors.New("rebase already in progress")

	// ErrCycleWouldForm indicates add_dependency would create a cyclic edge.
	ErrCycleWouldForm = errors.New("dependency would create a cycle")

	// ErrDuplicateEdge indicates the (child, parent) edge already exists.
	ErrDuplicateEdge = errors.New("dependency edge already exists")

	// ErrMissingDefaultRoot indicates set_default_root named a non-root branch.
	ErrMissingDefaultRoot = errors.New("branch is not a declared root")

	// ErrDirtyWorktree indicates a checkout failed due to uncommitted local changes.
	ErrDirtyWorktree = errors.New("working tree has uncommitted changes")

	// ErrRemoteBranchNotFound indicates a remote-tracking attempt found no such remote branch.
	ErrRemoteBranchNotFound = errors.New("remote branch not found")

	// ErrNonInteractive indicates a prompt was required but stdin is not a TTY.
	ErrNonInteractive = errors.New("interactive input required but stdin is not a terminal")
)

// BranchNotFoundError represents an error when a branch is not found.
type BranchNotFoundError struct {
	BranchName string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch %s does not exist", e.BranchName)
}

// Is returns true if the target error is ErrBranchNotFound.
func (e *BranchNotFoundError) Is(target error) bool {
	return target == ErrBranchNotFound
}

// NewBranchNotFoundError creates a new BranchNotFoundError.
func NewBranchNotFoundError(branchName string) *BranchNotFoundError {
	return &BranchNotFoundError{BranchName: branchName}
}

// RebaseConflictError represents an error when a rebase encounters a conflict.
type RebaseConflictError struct {
	BranchName string
	Message    string
}

func (e *RebaseConflictError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rebase conflict on branch %s: %s", e.BranchName, e.Message)
	}
	return fmt.Sprintf("rebase conflict on branch %s", e.BranchName)
}

// Is returns true if the target error is ErrRebaseConflict.
func (e *RebaseConflictError) Is(target error) bool {
	return target == ErrRebaseConflict
}

// NewRebaseConflictError creates a new RebaseConflictError.
func NewRebaseConflictError(branchName string, message string) *RebaseConflictError {
	return &RebaseConflictError{
		BranchName: branchName,
		Message:    message,
	}
}

// GitCommandError represents an error from a git command execution.
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError.
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}

// JiraParseError represents a failure to parse a Jira ticket token.
type JiraParseError struct {
	Reason string
	Input  string
}

func (e *JiraParseError) Error() string {
	return fmt.Sprintf("%s: %q", e.Reason, e.Input)
}

// Sentinel reasons for JiraParseError, matched via errors.Is against the
// wrapping *JiraParseError's Is method.
var (
	ErrJiraInvalidFormat   = errors.New("invalid jira ticket format")
	ErrJiraProjectTooShort = errors.New("jira project code too short")
	ErrJiraMissingNumber   = errors.New("jira ticket missing issue number")
)

func (e *JiraParseError) Is(target error) bool {
	switch target {
	case ErrJiraInvalidFormat:
		return e.Reason == ErrJiraInvalidFormat.Error()
	case ErrJiraProjectTooShort:
		return e.Reason == ErrJiraProjectTooShort.Error()
	case ErrJiraMissingNumber:
		return e.Reason == ErrJiraMissingNumber.Error()
	}
	return false
}

// NewJiraParseError builds a JiraParseError tagged with one of the sentinel reasons above.
func NewJiraParseError(reason error, input string) *JiraParseError {
	return &JiraParseError{Reason: reason.Error(), Input: input}
}

// Suggestions is a convenience constructor mirroring the CLI's "numbered
// next-steps" convention described for surfaced errors.
func Suggestions(ss ...string) []string {
	return ss
}
