package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/haulyard/internal/prune"
	"golang.org/x/term"
)

func newPruneCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Trash archive records older than the deletion window",
		Long: `Runs both retention sweeps. Dispatch records whose date is older than
retention.delete_days are trashed, and so are replaced records created
before the same cutoff. Trashed records are soft-deleted; bring one back
with "hy restore <id>".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(cmd, configPath, yes, dryRun)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfig, "path to Haulyard config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list what would be trashed without changing anything")
	return cmd
}

func runPrune(cmd *cobra.Command, configPath string, yes, dryRun bool) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	a, err := openApp(ctx, configPath, appOpts{})
	if err != nil {
		return err
	}
	defer a.Close()

	if !yes && !dryRun {
		ok, err := confirmPrune(cmd, a.cfg.Retention.DeleteDays)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	p := &prune.Pruner{Store: a.store, Days: a.cfg.Retention.DeleteDays, Location: a.cfg.Location(), DryRun: dryRun}
	res, err := p.Run(ctx, time.Now())
	if err != nil {
		return err
	}

	verb := "Trashed"
	if dryRun {
		verb = "Would trash"
	}
	fmt.Fprintf(out, "Cutoff %s\n", res.Cutoff.Format("2006-01-02"))
	for _, e := range res.Archive {
		fmt.Fprintf(out, "  #%d %s/%s\n", e.ID, e.Folder, e.Name)
	}
	fmt.Fprintf(out, "%s %d dispatch records\n", verb, len(res.Archive))
	for _, e := range res.Replaced {
		fmt.Fprintf(out, "  #%d %s/%s (replaced %s)\n", e.ID, e.Folder, e.Name, e.CreatedAt.Format("2006-01-02"))
	}
	fmt.Fprintf(out, "%s %d replaced records\n", verb, len(res.Replaced))

	for _, e := range res.Errors {
		fmt.Fprintf(out, "Error: %v\n", e)
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("%d records could not be trashed", len(res.Errors))
	}
	return nil
}

// confirmPrune asks on an interactive terminal. Non-interactive input must
// pass --yes.
func confirmPrune(cmd *cobra.Command, days int) (bool, error) {
	in := cmd.InOrStdin()
	if !isTerminal(in) {
		return false, fmt.Errorf("refusing to prune without --yes on non-interactive input")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "This will trash archive records older than %d days.\n", days)
	fmt.Fprint(out, "Type \"yes\" to confirm: ")

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()) == "yes", nil
	}
	return false, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
