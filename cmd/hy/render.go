package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/zulandar/haulyard/internal/config"
	"github.com/zulandar/haulyard/internal/dispatch"
	"github.com/zulandar/haulyard/internal/notice"
)

func newRenderCmd() *cobra.Command {
	var (
		configPath string
		values     []string
		file       string
		truck      string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Preview a truck's dispatch notice without archiving it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, configPath, values, file, truck, format)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfig, "path to Haulyard config file")
	cmd.Flags().StringSliceVar(&values, "values", nil, "form values in form order")
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file holding the form values")
	cmd.Flags().StringVar(&truck, "truck", "", "truck to render (default: first in the submission)")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, html, slack or discord")
	return cmd
}

func runRender(cmd *cobra.Command, configPath string, values []string, file, truck, format string) error {
	out := cmd.OutOrStdout()

	values, err := readValues(values, file)
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	renderer := notice.NewRenderer("")
	if cfg.TemplatePath != "" {
		if renderer, err = notice.LoadRenderer(cfg.TemplatePath); err != nil {
			return err
		}
	}

	req, err := dispatch.ParseFormValues(values, cfg.Location())
	if err != nil {
		return err
	}
	if truck == "" {
		truck = req.Trucks[0]
	} else if !slices.Contains(req.Trucks, truck) {
		return fmt.Errorf("truck %s is not in the submission (%v)", truck, req.Trucks)
	}

	doc := renderer.Render(req.Values(truck))
	switch format {
	case "text":
		fmt.Fprintln(out, doc.Text)
	case "html":
		fmt.Fprintln(out, doc.HTML())
	case "slack":
		fmt.Fprintln(out, doc.Markup(notice.SlackMarkers))
	case "discord":
		fmt.Fprintln(out, doc.Markup(notice.DiscordMarkers))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}
