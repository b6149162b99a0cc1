package cli

import (
	"github.com/spf13/cobra"

	"github.com/eddieland/twig/internal/logging"
)

var verbose bool
var logFile string

// NewRootCmd assembles the full command tree: branch dependency
// management, switch, rebase, cascade, tidy, and the cross-repo git
// registry group.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "twig",
		Short: "twig manages dependency relationships between Git branches",
		Long: `twig tracks how your local branches depend on one another, then uses that
graph to switch, rebase, cascade, and tidy them as a unit.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(verbose, logFile)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr (rotated via lumberjack)")

	rootCmd.AddCommand(newBranchCmd())
	rootCmd.AddCommand(newSwitchCmd())
	rootCmd.AddCommand(newRebaseCmd())
	rootCmd.AddCommand(newCascadeCmd())
	rootCmd.AddCommand(newTidyCmd())
	rootCmd.AddCommand(newGitCmd())
	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(newStaleCmd())
	rootCmd.AddCommand(newWorktreeCmd())

	return rootCmd
}
