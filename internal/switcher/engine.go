// Package switcher interprets a single user-supplied token (branch name,
// Jira key, Jira issue URL, GitHub PR number or URL) and drives the best
// matching checkout/create/track Git operation.
package switcher

import (
	"context"
	"strings"

	twigerrors "github.com/eddieland/twig/internal/errors"
	twiggit "github.com/eddieland/twig/internal/git"
	"github.com/eddieland/twig/internal/jira"
	"github.com/eddieland/twig/internal/state"
)

// DecisionKind is the outcome of running the switch state machine against
// the classified input and the repository's current state.
type DecisionKind int

const (
	// SwitchTo means the target branch is already known; just check it out.
	SwitchTo DecisionKind = iota
	// PromptJiraBranchCreationKind means the Jira key has no known branch yet.
	PromptJiraBranchCreationKind
	// Checkout means the branch exists locally.
	Checkout
	// PromptTrackOrCreateKind means the branch exists only on the remote.
	PromptTrackOrCreateKind
	// PromptCreateNew means the branch exists nowhere.
	PromptCreateNew
	// ResolvePR means a PR reference has no recorded branch association
	// and must be resolved through the GitHub collaborator.
	ResolvePR
)

// Decision is the result of classifying and resolving a token against
// repository state, before any prompting or mutation has happened.
type Decision struct {
	Kind       DecisionKind
	JiraKey    string
	BranchName string

	// GitHub PR coordinates, set when Kind is ResolvePR. Owner and Repo
	// are empty when the token was a bare number; the caller fills them
	// in from the origin remote.
	GithubOwner string
	GithubRepo  string
	GithubPR    int
}

// Engine drives the switch decision state machine and executes the
// resulting Git/state operations.
type Engine struct {
	Parser *jira.Parser
}

// New returns an Engine using parser to normalize Jira tokens.
func New(parser *jira.Parser) *Engine {
	return &Engine{Parser: parser}
}

// Decide classifies token, then resolves it against repository state and
// the local/remote branch lists to produce the next step. It performs no
// mutation and no I/O prompting.
func (e *Engine) Decide(ctx context.Context, token string, s *state.RepoState, localBranches []string) (Decision, error) {
	input := Classify(token, e.Parser)

	switch input.Kind {
	case KindJiraKey:
		if branch, ok := s.GetBranchIssueByJira(input.JiraKey); ok {
			return Decision{Kind: SwitchTo, BranchName: branch, JiraKey: input.JiraKey}, nil
		}
		return Decision{Kind: PromptJiraBranchCreationKind, JiraKey: input.JiraKey}, nil

	case KindGithubPR:
		if branch, ok := s.GetBranchIssueByPR(input.GithubPR); ok {
			return Decision{Kind: SwitchTo, BranchName: branch}, nil
		}
		return Decision{
			Kind:        ResolvePR,
			GithubOwner: input.GithubOwner,
			GithubRepo:  input.GithubRepo,
			GithubPR:    input.GithubPR,
		}, nil

	default:
		if contains(localBranches, input.BranchName) {
			return Decision{Kind: Checkout, BranchName: input.BranchName}, nil
		}
		if exists, _ := remoteBranchExists(ctx, input.BranchName); exists {
			return Decision{Kind: PromptTrackOrCreateKind, BranchName: input.BranchName}, nil
		}
		return Decision{Kind: PromptCreateNew, BranchName: input.BranchName}, nil
	}
}

func remoteBranchExists(ctx context.Context, branch string) (bool, error) {
	_, err := twiggit.RunGitCommandWithContext(ctx, "rev-parse", "--verify", "--quiet", "refs/remotes/origin/"+branch)
	return err == nil, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// SwitchTo checks out an existing branch. Already being on the target
// branch is treated as success (idempotent).
func (e *Engine) SwitchTo(ctx context.Context, branch string) error {
	current, err := twiggit.GetCurrentBranch()
	if err == nil && current == branch {
		return nil
	}
	if err := twiggit.CheckoutBranch(ctx, branch); err != nil {
		if isDirtyWorktreeError(err) {
			return twigerrors.Wrap(twigerrors.KindGitRepository, twigerrors.ErrDirtyWorktree,
				"commit or stash your changes, then retry")
		}
		return twigerrors.Wrap(twigerrors.KindGitRepository, err)
	}
	return nil
}

// TrackRemote creates a local branch tracking origin/<branch> and checks
// it out.
func (e *Engine) TrackRemote(ctx context.Context, branch string) error {
	if exists, _ := remoteBranchExists(ctx, branch); !exists {
		return twigerrors.Wrap(twigerrors.KindGitRepository, twigerrors.ErrRemoteBranchNotFound)
	}
	_, stderr, success, err := twiggit.RunGitCommandCombined(ctx, twiggit.GetWorkingDir(),
		"checkout", "--track", "origin/"+branch)
	if err != nil {
		return twigerrors.Wrap(twigerrors.KindGitRepository, err)
	}
	if !success {
		return twigerrors.New(twigerrors.KindGitRepository, strings.TrimSpace(stderr))
	}
	return nil
}

// CreateBranch creates a new branch named name. base is the commit the
// branch starts from: either the tip of an explicit parent (parentBranch
// non-empty) or the tip of the current branch at invocation time. When
// created from the current branch, the caller is responsible for also
// recording the dependency edge in the state store in the same save.
func (e *Engine) CreateBranch(ctx context.Context, name string, parentBranch string) error {
	base := parentBranch
	if base == "" {
		current, err := twiggit.GetCurrentBranch()
		if err != nil {
			return twigerrors.Wrap(twigerrors.KindGitRepository, err)
		}
		base = current
	}
	if err := twiggit.CheckoutBranch(ctx, base); err != nil {
		return twigerrors.Wrap(twigerrors.KindGitRepository, err)
	}
	if err := twiggit.CreateAndCheckoutBranch(ctx, name); err != nil {
		return twigerrors.Wrap(twigerrors.KindGitRepository, err)
	}
	return nil
}

func isDirtyWorktreeError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, needle := range []string{"local changes", "would be overwritten", "uncommitted changes"} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
