package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/haulyard/internal/dashboard"
	"github.com/zulandar/haulyard/internal/prune"
	"github.com/zulandar/haulyard/internal/schedule"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
		noSchedule bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dispatch web server and scheduled jobs",
		Long: `Serves company pages, archived and live notices, the submission endpoint
and spreadsheet exports. Unless --no-schedule is given, the prune and
refresh jobs run on their configured cron expressions. Runs until
interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port, noSchedule)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfig, "path to Haulyard config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default: server.port from config)")
	cmd.Flags().BoolVar(&noSchedule, "no-schedule", false, "do not run the prune and refresh jobs")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int, noSchedule bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, configPath, appOpts{chat: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if port == 0 {
		port = a.cfg.Server.Port
	}

	var wg sync.WaitGroup
	if !noSchedule {
		sched, err := schedule.New(a.cfg.Location(),
			schedule.PruneJob(a.cfg.Schedule.Prune, &prune.Pruner{
				Store:    a.store,
				Days:     a.cfg.Retention.DeleteDays,
				Location: a.cfg.Location(),
			}),
			schedule.RefreshJob(a.cfg.Schedule.Refresh, a.svc),
		)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			sched.Start(ctx)
		}()
		now := time.Now()
		fmt.Fprintf(cmd.OutOrStdout(), "Scheduler running: next prune %s, next refresh %s\n",
			sched.Next("prune", now).Format(time.RFC3339), sched.Next("refresh", now).Format(time.RFC3339))
	}

	err = dashboard.Start(ctx, dashboard.StartOpts{
		Service:         a.svc,
		Pages:           a.pageReader(),
		Notices:         a.store,
		Port:            port,
		SubmitPerMinute: a.cfg.Server.SubmitPerMinute,
		AllowedOrigins:  a.cfg.Server.AllowedOrigins,
		Out:             cmd.OutOrStdout(),
	})
	// The server only returns early on a listen error; stop the scheduler too.
	stop()
	wg.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Printf("hy: shut down")
	return nil
}
