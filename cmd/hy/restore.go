package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRestoreCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "restore <id>...",
		Short: "Restore trashed archive records",
		Long: `Undoes a prune for the given record ids (as printed by "hy prune") and
regenerates the affected company pages.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd, configPath, args)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfig, "path to Haulyard config file")
	return cmd
}

func runRestore(cmd *cobra.Command, configPath string, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	ids := make([]uint, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseUint(arg, 10, 64)
		if err != nil || id == 0 {
			return fmt.Errorf("invalid record id %q", arg)
		}
		ids = append(ids, uint(id))
	}

	a, err := openApp(ctx, configPath, appOpts{})
	if err != nil {
		return err
	}
	defer a.Close()

	var failed int
	for _, id := range ids {
		if err := a.store.Restore(ctx, id); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			failed++
			continue
		}
		fmt.Fprintf(out, "Restored #%d\n", id)
	}

	if failed < len(ids) {
		if err := a.svc.RefreshAll(ctx); err != nil {
			fmt.Fprintf(out, "Refresh failed: %v\n", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d records could not be restored", failed)
	}
	return nil
}
