package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	twigerrors "github.com/eddieland/twig/internal/errors"
	twiggit "github.com/eddieland/twig/internal/git"
	"github.com/eddieland/twig/internal/github"
	"github.com/eddieland/twig/internal/switcher"
	"github.com/eddieland/twig/internal/utils"
)

func newSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "switch <target>",
		Short:             "Check out a branch, Jira key, or GitHub PR URL",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := newRepoContext(cmd.Context())
			if err != nil {
				return err
			}

			engine := switcher.New(rc.Parser)
			decision, err := engine.Decide(cmd.Context(), args[0], rc.State, rc.LocalBranches)
			if err != nil {
				return err
			}

			switch decision.Kind {
			case switcher.SwitchTo:
				if err := engine.SwitchTo(cmd.Context(), decision.BranchName); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "switched to %s\n", decision.BranchName)
				return nil

			case switcher.Checkout:
				if err := engine.SwitchTo(cmd.Context(), decision.BranchName); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "switched to %s\n", decision.BranchName)
				return nil

			case switcher.PromptJiraBranchCreationKind:
				return runJiraBranchCreation(cmd, rc, engine, decision.JiraKey)

			case switcher.PromptTrackOrCreateKind:
				return runTrackOrCreate(cmd, rc, engine, decision.BranchName)

			case switcher.PromptCreateNew:
				return runCreateNew(cmd, rc, engine, decision.BranchName)

			case switcher.ResolvePR:
				return runResolvePR(cmd, rc, engine, decision)

			default:
				return twigerrors.New(twigerrors.KindBranchOperation, "unrecognized switch decision")
			}
		},
	}
}

func runJiraBranchCreation(cmd *cobra.Command, rc *repoContext, engine *switcher.Engine, jiraKey string) error {
	jiraReachable := rc.Jira != nil && rc.Jira.Reachable(cmd.Context())

	choice, customName, err := switcher.PromptJiraBranchCreation(jiraKey, jiraReachable)
	if err != nil {
		return err
	}

	var branchName string
	switch choice {
	case switcher.JiraFromSummary:
		issue, err := rc.Jira.GetIssue(cmd.Context(), jiraKey)
		if err != nil {
			return twigerrors.Wrap(twigerrors.KindNetwork, err, "retry, or pick a simple or custom branch name instead")
		}
		branchName = utils.SlugFromSummary(jiraKey, issue.Summary)
	case switcher.JiraSimpleName:
		branchName = utils.SanitizeBranchName(jiraKey)
	case switcher.JiraCustomName:
		branchName = customName
	case switcher.JiraAbort:
		fmt.Fprintln(cmd.OutOrStdout(), "aborted")
		return nil
	}

	if err := engine.CreateBranch(cmd.Context(), branchName, ""); err != nil {
		return err
	}
	key := jiraKey
	rc.State.AddBranchIssue(branchName, &key, nil)
	recordCreatedFromCurrent(cmd, rc, branchName)
	if err := rc.save(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created and switched to %s, linked to %s\n", branchName, jiraKey)
	return nil
}

// recordCreatedFromCurrent declares the new branch dependent on the
// branch it was created from, in the same save as the rest of the
// switch's state changes.
func recordCreatedFromCurrent(cmd *cobra.Command, rc *repoContext, branchName string) {
	if rc.CurrentBranch == "" {
		return
	}
	if err := rc.State.AddDependency(branchName, rc.CurrentBranch); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not record dependency on %s: %v\n", rc.CurrentBranch, err)
	}
}

// runResolvePR asks GitHub for the PR's head branch when no local
// association exists, records the association, and switches to the branch
// (checking it out locally or tracking it from origin).
func runResolvePR(cmd *cobra.Command, rc *repoContext, engine *switcher.Engine, decision switcher.Decision) error {
	ctx := cmd.Context()

	owner, repo := decision.GithubOwner, decision.GithubRepo
	if owner == "" || repo == "" {
		var err error
		owner, repo, err = twiggit.GetOriginOwnerRepo(ctx)
		if err != nil {
			return twigerrors.Wrap(twigerrors.KindConfiguration, err,
				"pass a full PR URL instead of a bare number")
		}
	}

	gh := github.NewClientFromEnv(ctx)
	pr, err := gh.GetPullRequest(ctx, owner, repo, decision.GithubPR)
	if err != nil {
		return err
	}
	if pr.HeadBranch == "" {
		return twigerrors.New(twigerrors.KindBranchOperation,
			fmt.Sprintf("PR #%d has no head branch", decision.GithubPR))
	}

	prNumber := decision.GithubPR
	rc.State.AddBranchIssue(pr.HeadBranch, nil, &prNumber)
	if err := rc.save(); err != nil {
		return err
	}

	if contains(rc.LocalBranches, pr.HeadBranch) {
		if err := engine.SwitchTo(ctx, pr.HeadBranch); err != nil {
			return err
		}
	} else {
		if err := engine.TrackRemote(ctx, pr.HeadBranch); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "switched to %s (PR #%d)\n", pr.HeadBranch, prNumber)
	return nil
}

func runTrackOrCreate(cmd *cobra.Command, rc *repoContext, engine *switcher.Engine, branchName string) error {
	choice, customName, err := switcher.PromptTrackOrCreate(branchName)
	if err != nil {
		return err
	}

	switch choice {
	case switcher.TrackRemote:
		if err := engine.TrackRemote(cmd.Context(), branchName); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "now tracking origin/%s\n", branchName)
		return nil
	case switcher.CreateFresh:
		if err := engine.CreateBranch(cmd.Context(), branchName, ""); err != nil {
			return err
		}
	case switcher.TrackCustomName:
		if err := engine.CreateBranch(cmd.Context(), customName, ""); err != nil {
			return err
		}
		branchName = customName
	case switcher.TrackAbort:
		fmt.Fprintln(cmd.OutOrStdout(), "aborted")
		return nil
	}

	recordCreatedFromCurrent(cmd, rc, branchName)
	if err := rc.save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "switched to %s\n", branchName)
	return nil
}

func runCreateNew(cmd *cobra.Command, rc *repoContext, engine *switcher.Engine, branchName string) error {
	ok, err := switcher.ConfirmCreateNew(branchName)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "aborted")
		return nil
	}

	if err := engine.CreateBranch(cmd.Context(), branchName, ""); err != nil {
		return err
	}
	recordCreatedFromCurrent(cmd, rc, branchName)
	if err := rc.save(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created and switched to %s\n", branchName)
	return nil
}
