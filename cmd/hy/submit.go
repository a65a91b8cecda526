package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zulandar/haulyard/internal/dispatch"
)

func newSubmitCmd() *cobra.Command {
	var (
		configPath string
		values     []string
		file       string
		live       bool
		notify     bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Process one dispatch form submission",
		Long: `Renders a notice for every truck in the submission, archives one record
per truck, and regenerates the affected company pages.

Values are the raw form answers in form order, starting with the form
timestamp. Pass them with --values (comma separated, quote fields that
contain commas) or --file (JSON: {"values": [...]} or a bare array).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, configPath, values, file, live, notify)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfig, "path to Haulyard config file")
	cmd.Flags().StringSliceVar(&values, "values", nil, "form values in form order")
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file holding the form values")
	cmd.Flags().BoolVar(&live, "live", false, "also overwrite each truck's live notice")
	cmd.Flags().BoolVar(&notify, "notify", false, "post notices to the configured chat channels")
	return cmd
}

func runSubmit(cmd *cobra.Command, configPath string, values []string, file string, live, notify bool) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	values, err := readValues(values, file)
	if err != nil {
		return err
	}

	a, err := openApp(ctx, configPath, appOpts{chat: notify})
	if err != nil {
		return err
	}
	defer a.Close()

	req, err := dispatch.ParseFormValues(values, a.svc.Location())
	if err != nil {
		return err
	}

	targets := dispatch.TargetArchive
	if live {
		targets |= dispatch.TargetLive
	}
	res, err := a.svc.Submit(ctx, req, targets)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Submission %s\n", res.SubmissionID)
	for _, t := range res.Trucks {
		if t.Err != nil {
			fmt.Fprintf(out, "  %-8s FAILED  %v\n", t.Truck, t.Err)
			continue
		}
		fmt.Fprintf(out, "  %-8s %s\n", t.Truck, t.Key)
	}
	for _, co := range res.Refreshed {
		fmt.Fprintf(out, "Refreshed %s\n", co)
	}
	for _, e := range res.RefreshErrs {
		fmt.Fprintf(out, "Refresh failed: %v\n", e)
	}
	if len(res.Archived()) == 0 {
		return fmt.Errorf("no trucks archived")
	}
	return nil
}

// readValues returns the flag values, or the values read from file when set.
func readValues(values []string, file string) ([]string, error) {
	if file == "" {
		if len(values) == 0 {
			return nil, fmt.Errorf("either --values or --file is required")
		}
		return values, nil
	}
	if len(values) > 0 {
		return nil, fmt.Errorf("--values and --file are mutually exclusive")
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	var sub dispatch.FormSubmission
	if err := json.Unmarshal(data, &sub); err == nil {
		return sub.Values, nil
	}
	var bare []string
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("parse %s: expected {\"values\": [...]} or a JSON array", file)
	}
	return bare, nil
}
