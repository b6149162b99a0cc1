package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	twigerrors "github.com/eddieland/twig/internal/errors"
	twiggit "github.com/eddieland/twig/internal/git"
	"github.com/eddieland/twig/internal/rebase"
)

func newRebaseCmd() *cobra.Command {
	var force, autostash, noInteractive bool
	var skipCommits []string

	cmd := &cobra.Command{
		Use:   "rebase [<parent>]",
		Short: "Rebase the current branch onto its declared parent",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := newRepoContext(cmd.Context())
			if err != nil {
				return err
			}

			// An explicit argument rebases onto that parent alone;
			// otherwise every declared parent is processed in the order
			// the edges were added.
			var parents []string
			if len(args) == 1 {
				parents = []string{args[0]}
			} else {
				parents = rc.State.GetDependencyParents(rc.CurrentBranch)
				if len(parents) == 0 {
					return twigerrors.New(twigerrors.KindBranchOperation,
						rc.CurrentBranch+" has no declared parent",
						"run `twig branch depend "+rc.CurrentBranch+" <parent>` first")
				}
			}

			engine := rebase.New(autostash, force)
			if err := engine.Preflight(cmd.Context()); err != nil {
				return err
			}

			if len(skipCommits) > 0 {
				if err := rebase.ValidateSkipList(skipCommits); err != nil {
					return twigerrors.Wrap(twigerrors.KindUserInput, err)
				}
			}

			for _, parent := range parents {
				var result rebase.Result
				if len(skipCommits) > 0 {
					result, err = engine.RebaseOntoSkipping(cmd.Context(), parent, skipCommits)
				} else {
					result, err = engine.RebaseOnto(cmd.Context(), parent)
				}
				if err != nil {
					return twigerrors.Wrap(twigerrors.KindExternalCommand, err)
				}
				if err := handleRebaseResult(cmd, engine, rc.CurrentBranch, result, noInteractive); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "force-rebase even when already up to date")
	cmd.Flags().BoolVar(&autostash, "autostash", false, "stash and restore local changes around the rebase")
	cmd.Flags().BoolVar(&noInteractive, "no-interactive", false, "fail instead of prompting when a conflict occurs")
	cmd.Flags().StringSliceVar(&skipCommits, "skip-commits", nil, "commit hashes to omit while replaying onto the new parent")
	return cmd
}

// handleRebaseResult reports a successful or up-to-date outcome, or drives
// the CONFLICT_WAIT menu (unless --no-interactive) until the conflict
// resolves to success or the operator aborts.
func handleRebaseResult(cmd *cobra.Command, engine *rebase.Engine, originalBranch string, result rebase.Result, noInteractive bool) error {
	switch result.Outcome {
	case rebase.Success:
		fmt.Fprintln(cmd.OutOrStdout(), "rebase complete")
		return nil
	case rebase.UpToDate:
		fmt.Fprintln(cmd.OutOrStdout(), "already up to date")
		return nil
	case rebase.Conflict:
		if noInteractive {
			return twigerrors.Wrap(twigerrors.KindGitRepository, twigerrors.ErrRebaseConflict,
				"resolve the conflict then run `git rebase --continue`")
		}
		return driveConflictLoop(cmd, engine, originalBranch)
	default:
		return twigerrors.New(twigerrors.KindExternalCommand, "rebase failed: "+result.Output)
	}
}

func driveConflictLoop(cmd *cobra.Command, engine *rebase.Engine, originalBranch string) error {
	for {
		if sha, err := twiggit.GetRebaseHead(cmd.Context()); err == nil && len(sha) >= 7 {
			fmt.Fprintf(cmd.OutOrStdout(), "conflict while replaying %s\n", sha[:7])
		}

		resolution, err := rebase.PromptConflictResolution(originalBranch)
		if err != nil {
			return err
		}

		result, err := engine.Resolve(cmd.Context(), resolution, originalBranch)
		if err != nil {
			return twigerrors.Wrap(twigerrors.KindExternalCommand, err)
		}

		switch result.Outcome {
		case rebase.Success:
			fmt.Fprintln(cmd.OutOrStdout(), "rebase complete")
			return nil
		case rebase.Conflict:
			fmt.Fprintln(cmd.OutOrStdout(), "conflict remains, resolve and choose again")
			continue
		default:
			return twigerrors.New(twigerrors.KindExternalCommand, "rebase failed: "+result.Output)
		}
	}
}
