package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zulandar/haulyard/internal/archive"
	"github.com/zulandar/haulyard/internal/page"
	"github.com/zulandar/haulyard/internal/report"
)

func newReportCmd() *cobra.Command {
	var (
		configPath string
		company    string
		xlsxPath   string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a company's classified dispatch list",
		Long: `Classifies a company's archived dispatches into Upcoming, Today and Past
as of now and prints them. With --xlsx the report is also written as a
spreadsheet with one sheet per section.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, configPath, company, xlsxPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfig, "path to Haulyard config file")
	cmd.Flags().StringVar(&company, "company", "", "company name")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the report to this .xlsx file")
	cmd.MarkFlagRequired("company")
	return cmd
}

func runReport(cmd *cobra.Command, configPath, company, xlsxPath string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	a, err := openApp(ctx, configPath, appOpts{})
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.svc.Report(ctx, company)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s dispatch list (%s), %d dispatches\n",
		r.Company, r.GeneratedAt.Format("2006-01-02 15:04 MST"), r.Len())
	placeholders := [3]string{page.NoUpcoming, page.NoToday, page.NoPast}
	for i, items := range r.Sections() {
		fmt.Fprintf(out, "\n%s\n", report.Bucket(i))
		if len(items) == 0 {
			fmt.Fprintf(out, "  %s\n", placeholders[i])
			continue
		}
		for _, it := range items {
			fmt.Fprintf(out, "  %s\n", formatItem(it))
		}
	}

	if xlsxPath == "" {
		return nil
	}
	f, err := os.Create(xlsxPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", xlsxPath, err)
	}
	if err := page.WriteXLSX(f, r); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", xlsxPath, err)
	}
	fmt.Fprintf(out, "\nWrote %s\n", xlsxPath)
	return nil
}

func formatItem(it report.Item) string {
	s := it.Label
	if it.Status != archive.StatusNone {
		s += " [" + it.Status.String() + "]"
	}
	if it.URL != "" {
		s += "  " + it.URL
	}
	return s
}
