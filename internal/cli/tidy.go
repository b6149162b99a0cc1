package cli

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	twigerrors "github.com/eddieland/twig/internal/errors"
	twiggit "github.com/eddieland/twig/internal/git"
	"github.com/eddieland/twig/internal/tidy"
	"github.com/eddieland/twig/internal/utils"
)

func newTidyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tidy",
		Short: "Retire branches that no longer add value, and reconcile dangling state",
	}
	cmd.AddCommand(newTidyCleanCmd())
	cmd.AddCommand(newTidyPruneCmd())
	return cmd
}

func newTidyCleanCmd() *cobra.Command {
	var dryRun, force, aggressive bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Collapse cleanable intermediate branches and delete fully-merged chains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rc, err := newRepoContext(cmd.Context())
			if err != nil {
				return err
			}

			engine := tidy.New(rc.graph(), rc.State, rc.CurrentBranch, aggressive, twiggit.HasUniqueCommits)
			plan, err := engine.ComputePlan(cmd.Context())
			if err != nil {
				return twigerrors.Wrap(twigerrors.KindExternalCommand, err)
			}

			if len(plan.Reparenting) == 0 && len(plan.Chains) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to clean")
				return nil
			}

			for _, op := range plan.Reparenting {
				fmt.Fprintf(cmd.OutOrStdout(), "reparent %s: %s -> %s (deletes %s)\n", op.Child, op.OldParent, op.NewParent, op.OldParent)
			}
			for _, chain := range plan.Chains {
				fmt.Fprintf(cmd.OutOrStdout(), "delete chain: %v\n", chain)
			}
			if dryRun {
				return nil
			}

			if !force {
				ok, err := confirm("apply this clean plan?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}

			deleteBranch := func(name string) error {
				return twiggit.DeleteBranch(cmd.Context(), name)
			}
			if err := engine.Apply(plan, deleteBranch); err != nil {
				return twigerrors.Wrap(twigerrors.KindExternalCommand, err)
			}
			if err := rc.save(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "clean complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without deleting anything")
	cmd.Flags().BoolVar(&force, "force", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&aggressive, "aggressive", false, "fall back to main/master/develop when a branch has no declared parent")
	return cmd
}

func newTidyPruneCmd() *cobra.Command {
	var dryRun, force bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove state entries referencing branches no longer present locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rc, err := newRepoContext(cmd.Context())
			if err != nil {
				return err
			}

			plan := tidy.ComputePrunePlan(rc.State, rc.localBranchSet())
			if len(plan.Branches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to prune")
				return nil
			}

			for _, b := range plan.Branches {
				fmt.Fprintf(cmd.OutOrStdout(), "stale reference: %s\n", b)
			}
			if dryRun {
				return nil
			}

			if !force {
				ok, err := confirm(fmt.Sprintf("remove %d dangling state reference(s)?", len(plan.Branches)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}

			tidy.ApplyPrune(rc.State, plan)
			if err := rc.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d reference(s)\n", len(plan.Branches))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without removing anything")
	cmd.Flags().BoolVar(&force, "force", false, "skip the confirmation prompt")
	return cmd
}

func confirm(message string) (bool, error) {
	if !utils.IsInteractive() {
		return false, twigerrors.Wrap(twigerrors.KindUserInput, twigerrors.ErrNonInteractive,
			"rerun with --force to skip the confirmation prompt")
	}
	var ok bool
	prompt := &survey.Confirm{Message: message, Default: false}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, twigerrors.Wrap(twigerrors.KindUserInput, err)
	}
	return ok, nil
}
