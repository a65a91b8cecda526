package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRefreshCmd() *cobra.Command {
	var (
		configPath string
		company    string
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Regenerate company dispatch list pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefresh(cmd, configPath, company, all)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfig, "path to Haulyard config file")
	cmd.Flags().StringVar(&company, "company", "", "company to refresh")
	cmd.Flags().BoolVar(&all, "all", false, "refresh every configured company")
	cmd.MarkFlagsMutuallyExclusive("company", "all")
	cmd.MarkFlagsOneRequired("company", "all")
	return cmd
}

func runRefresh(cmd *cobra.Command, configPath, company string, all bool) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	a, err := openApp(ctx, configPath, appOpts{})
	if err != nil {
		return err
	}
	defer a.Close()

	if all {
		if err := a.svc.RefreshAll(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "Refreshed %d companies\n", len(a.svc.Fleet().Companies()))
		return nil
	}

	r, err := a.svc.RefreshCompany(ctx, company)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Refreshed %s: %d upcoming, %d today, %d past\n",
		company, len(r.Upcoming), len(r.Today), len(r.Past))
	return nil
}
