package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/eddieland/twig/internal/config"
	"github.com/eddieland/twig/internal/depgraph"
	twigerrors "github.com/eddieland/twig/internal/errors"
	twiggit "github.com/eddieland/twig/internal/git"
	"github.com/eddieland/twig/internal/jira"
	"github.com/eddieland/twig/internal/state"
)

// completeBranches is a cobra.ValidArgsFunction that shell-completes
// against the current local branch list.
func completeBranches(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	if err := twiggit.InitDefaultRepo(); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	branches, err := twiggit.GetAllBranchNames()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return branches, cobra.ShellCompDirectiveNoFileComp
}

// repoContext bundles the per-invocation context every repo-scoped command
// needs: the repository root, its loaded RepoState, the configured Jira
// parser and collaborator client, and the current local branch picture.
type repoContext struct {
	RepoPath      string
	State         *state.RepoState
	Parser        *jira.Parser
	Jira          jira.Client
	CurrentBranch string
	LocalBranches []string
}

// newRepoContext resolves the repository root, opens the default Git
// repository, loads RepoState, and loads the Jira parser configuration.
// A missing state.json is not an error; it yields fresh defaults.
func newRepoContext(_ context.Context) (*repoContext, error) {
	repoPath, err := twiggit.GetRepoRoot()
	if err != nil {
		return nil, twigerrors.Wrap(twigerrors.KindGitRepository, err,
			"run this command from inside a Git repository")
	}

	if err := twiggit.InitDefaultRepo(); err != nil {
		return nil, twigerrors.Wrap(twigerrors.KindGitRepository, err)
	}

	s, err := state.Load(repoPath)
	if err != nil {
		return nil, err
	}

	jiraCfg, err := config.LoadJiraConfig()
	if err != nil {
		return nil, err
	}

	current, _ := twiggit.GetCurrentBranch()

	branches, err := twiggit.GetAllBranchNames()
	if err != nil {
		return nil, twigerrors.Wrap(twigerrors.KindGitRepository, err)
	}

	var jiraClient jira.Client
	if jiraCfg.Host != "" {
		jiraClient = jira.NewHTTPClient(jiraCfg.Host, jiraCfg.Username, jiraCfg.APIToken)
	}

	return &repoContext{
		RepoPath:      repoPath,
		State:         s,
		Parser:        jira.New(jiraCfg),
		Jira:          jiraClient,
		CurrentBranch: current,
		LocalBranches: branches,
	}, nil
}

// save persists RepoState back to <repo>/.twig/state.json.
func (c *repoContext) save() error {
	return state.Save(c.RepoPath, c.State)
}

// graph builds the dependency graph over the current local branch set.
func (c *repoContext) graph() *depgraph.Graph {
	return depgraph.Build(c.LocalBranches, c.CurrentBranch, c.State)
}

// localBranchSet is graph's local branch list as a membership set,
// convenient for eviction/prune computations.
func (c *repoContext) localBranchSet() map[string]bool {
	set := make(map[string]bool, len(c.LocalBranches))
	for _, b := range c.LocalBranches {
		set[b] = true
	}
	return set
}

// branchNotFoundWithSuggestion wraps ErrBranchNotFound, adding a
// Levenshtein-matched correction when one close local branch name exists.
func (c *repoContext) branchNotFoundWithSuggestion(name string) error {
	suggestions := []string{"run `twig tree` to see known branches"}
	if close := suggestBranchName(name, c.LocalBranches); close != "" {
		suggestions = append([]string{"did you mean `" + close + "`?"}, suggestions...)
	}
	return twigerrors.Wrap(twigerrors.KindBranchOperation, twigerrors.NewBranchNotFoundError(name), suggestions...)
}
