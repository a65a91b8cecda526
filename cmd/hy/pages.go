package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPagesCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "List company pages published to the GCS bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPages(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfig, "path to Haulyard config file")
	return cmd
}

func runPages(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	a, err := openApp(ctx, configPath, appOpts{})
	if err != nil {
		return err
	}
	defer a.Close()

	if a.bucket == nil {
		return fmt.Errorf("publish.gcs_bucket is not configured")
	}
	names, err := a.bucket.Pages(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintf(out, "No pages in gs://%s\n", a.bucket.Name)
		return nil
	}
	for _, n := range names {
		fmt.Fprintln(out, n)
	}
	return nil
}
