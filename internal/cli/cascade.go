package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eddieland/twig/internal/cascade"
	twigerrors "github.com/eddieland/twig/internal/errors"
	twiggit "github.com/eddieland/twig/internal/git"
	"github.com/eddieland/twig/internal/rebase"
)

func newCascadeCmd() *cobra.Command {
	var maxDepth int
	var force, forcePush, autostash bool

	cmd := &cobra.Command{
		Use:               "cascade [<branch>]",
		Short:             "Rebase a branch and every declared descendant in topological order",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := newRepoContext(cmd.Context())
			if err != nil {
				return err
			}

			branch := rc.CurrentBranch
			if len(args) == 1 {
				branch = args[0]
			}
			if !contains(rc.LocalBranches, branch) {
				return rc.branchNotFoundWithSuggestion(branch)
			}

			engine := rebase.New(autostash, force)
			checkout := func(name string) error {
				return twiggit.CheckoutBranch(cmd.Context(), name)
			}

			var push func(string) error
			if forcePush {
				push = func(name string) error {
					return cascade.ForcePushIfTracked(cmd.Context(), name)
				}
			}

			report, err := cascade.Run(cmd.Context(), rc.graph(), checkout, branch, maxDepth, engine, push)
			if err != nil {
				return twigerrors.Wrap(twigerrors.KindExternalCommand, err)
			}

			for _, skipped := range report.Skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: not present in the local branch graph\n", skipped)
			}
			for _, step := range report.Steps {
				fmt.Fprintf(cmd.OutOrStdout(), "%s onto %s: %s\n", step.Branch, step.Parent, step.Result.Outcome)
			}

			if report.Conflict {
				return twigerrors.Wrap(twigerrors.KindGitRepository, twigerrors.ErrRebaseConflict,
					"resolve the conflict, then rerun `twig cascade` to continue from where it stopped")
			}

			// Return HEAD to where the cascade started.
			if rc.CurrentBranch != "" {
				if err := checkout(rc.CurrentBranch); err != nil {
					return twigerrors.Wrap(twigerrors.KindGitRepository, err)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), "cascade complete")
			return nil
		},
	}

	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "limit how many generations of descendants to rebase (0 = no limit)")
	cmd.Flags().BoolVar(&force, "force", false, "force-rebase even when already up to date")
	cmd.Flags().BoolVar(&forcePush, "force-push", false, "force-with-lease push each rebased branch that has a remote tracking branch")
	cmd.Flags().BoolVar(&autostash, "autostash", false, "stash and restore local changes around each rebase")
	return cmd
}
