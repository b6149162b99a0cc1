package cli

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/spf13/cobra"

	twigerrors "github.com/eddieland/twig/internal/errors"
	twiggit "github.com/eddieland/twig/internal/git"
	"github.com/eddieland/twig/internal/registry"
)

// fanOutStagger mitigates OS thundering-herd when fetch-all/exec-all spin
// up one task per registered repository.
const fanOutStagger = 100 * time.Millisecond

func newGitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "git",
		Short: "Manage the cross-repository registry",
	}
	cmd.AddCommand(newGitAddCmd())
	cmd.AddCommand(newGitRmCmd())
	cmd.AddCommand(newGitListCmd())
	cmd.AddCommand(newGitFetchCmd())
	cmd.AddCommand(newGitFetchAllCmd())
	cmd.AddCommand(newGitExecCmd())
	cmd.AddCommand(newGitExecAllCmd())
	return cmd
}

func loadRegistry() (*registry.Registry, error) {
	return registry.Load()
}

func newGitAddCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Register a working copy with the cross-repository registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			if err := reg.Add(cmd.Context(), args[0], name); err != nil {
				return err
			}
			if err := reg.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name for the repository (defaults to its directory name)")
	return cmd
}

func newGitRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>",
		Short: "Unregister a working copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			removed, err := reg.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				return twigerrors.New(twigerrors.KindFileSystem, args[0]+" is not registered")
			}
			if err := reg.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "unregistered %s\n", args[0])
			return nil
		},
	}
}

func newGitListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered working copies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			repos := reg.List()
			if len(repos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no repositories registered")
				return nil
			}
			for _, r := range repos {
				fetched := "never fetched"
				if r.LastFetch != nil {
					fetched = "last fetched " + r.LastFetch.Format(time.RFC3339)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", r.Name, r.Path, fetched)
			}
			return nil
		},
	}
}

func newGitFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <path>",
		Short: "Fetch a single registered repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			if err := fetchOne(cmd.Context(), reg, args[0]); err != nil {
				return err
			}
			if err := reg.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "fetched %s\n", args[0])
			return nil
		},
	}
}

func newGitFetchAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-all",
		Short: "Fetch every registered repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			repos := reg.List()

			var mu sync.Mutex
			results := fanOut(repos, func(r registry.Repository) error {
				if _, err := twiggit.RunGitCommandInDirWithContext(cmd.Context(), r.Path, "fetch"); err != nil {
					return twigerrors.Wrap(twigerrors.KindNetwork, err)
				}
				if err := twiggit.PruneRemote(cmd.Context(), r.Path, "origin"); err != nil {
					return twigerrors.Wrap(twigerrors.KindNetwork, err)
				}
				mu.Lock()
				defer mu.Unlock()
				return reg.UpdateFetchTime(cmd.Context(), r.Path)
			})
			reportFanOut(cmd, repos, results, "fetched")

			if err := reg.Save(); err != nil {
				return err
			}
			return nil
		},
	}
}

func fetchOne(ctx context.Context, reg *registry.Registry, path string) error {
	if _, err := twiggit.RunGitCommandInDirWithContext(ctx, path, "fetch"); err != nil {
		return twigerrors.Wrap(twigerrors.KindNetwork, err)
	}
	if err := twiggit.PruneRemote(ctx, path, "origin"); err != nil {
		return twigerrors.Wrap(twigerrors.KindNetwork, err)
	}
	return reg.UpdateFetchTime(ctx, path)
}

func newGitExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "exec <path> -- <cmd> [args...]",
		Short:              "Run an arbitrary command inside a single registered repository",
		Args:               cobra.MinimumNArgs(2),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execIn(args[0], stripDashDash(args[1:]))
		},
	}
}

func newGitExecAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "exec-all -- <cmd> [args...]",
		Short:              "Run an arbitrary command inside every registered repository",
		Args:               cobra.MinimumNArgs(1),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			repos := reg.List()
			argv := stripDashDash(args)

			results := fanOut(repos, func(r registry.Repository) error {
				return execIn(r.Path, argv)
			})
			reportFanOut(cmd, repos, results, "ran command in")
			return nil
		},
	}
}

// stripDashDash removes a leading "--" separator, which cobra leaves intact
// in args when DisableFlagParsing is set.
func stripDashDash(args []string) []string {
	if len(args) > 0 && args[0] == "--" {
		return args[1:]
	}
	return args
}

func execIn(path string, argv []string) error {
	c := exec.Command(argv[0], argv[1:]...)
	c.Dir = path
	out, err := c.CombinedOutput()
	if err != nil {
		return twigerrors.Wrap(twigerrors.KindExternalCommand,
			fmt.Errorf("%s: %w\n%s", path, err, out))
	}
	return nil
}

// fanOut runs fn once per repository with a small inter-start stagger,
// joining every goroutine before returning.
func fanOut(repos []registry.Repository, fn func(registry.Repository) error) []error {
	results := make([]error, len(repos))
	var wg sync.WaitGroup

	for i, r := range repos {
		wg.Add(1)
		go func(i int, r registry.Repository) {
			defer wg.Done()
			results[i] = fn(r)
		}(i, r)
		time.Sleep(fanOutStagger)
	}

	wg.Wait()
	return results
}

func reportFanOut(cmd *cobra.Command, repos []registry.Repository, results []error, verb string) {
	for i, r := range repos {
		if results[i] != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Path, results[i])
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, r.Path)
	}
}
