package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const defaultConfig = "haulyard.yaml"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hy",
		Short: "Haulyard: trucking dispatch notices and company dispatch lists",
		Long: `Haulyard renders dispatch notices from form submissions, archives one
record per truck, and publishes a dispatch list page per company.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newDBCmd())
	cmd.AddCommand(newSubmitCmd())
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newRefreshCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newPagesCmd())
	cmd.AddCommand(newPruneCmd())
	cmd.AddCommand(newRestoreCmd())
	cmd.AddCommand(newServeCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hy %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
