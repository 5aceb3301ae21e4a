package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-sync/internal/observability"
	"github.com/jonathan/interview-sync/internal/scheduler"
	"github.com/jonathan/interview-sync/internal/shortlist"
)

var (
	shortlistOnce     bool
	shortlistInterval time.Duration
)

var shortlistCmd = &cobra.Command{
	Use:   "shortlist",
	Short: "Link highly ranked candidates to their jobs",
	Long:  "Find interviews ranked at or above the configured minimum and link their candidates to the job's recommended-candidates field.",
	RunE:  runShortlist,
}

func init() {
	shortlistCmd.Flags().BoolVar(&shortlistOnce, "once", false, "Run a single pass and exit")
	shortlistCmd.Flags().DurationVar(&shortlistInterval, "interval", 0, "Pass interval (default from config)")
	rootCmd.AddCommand(shortlistCmd)
}

func runShortlist(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Tables.JobShortlistLink == "" {
		return fmt.Errorf("no shortlist link field configured (tables.job_shortlist_link)")
	}
	linker := a.linker()

	pass := func(ctx context.Context) (shortlist.Result, error) {
		started := time.Now()
		res, err := linker.Run(ctx)
		a.archiveCycle(ctx, cycleFromShortlist(started, res, err))
		return res, err
	}

	if shortlistOnce {
		res, err := pass(ctx)
		if err != nil {
			return err
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintShortlist(res)
		return nil
	}

	interval := shortlistInterval
	if interval <= 0 {
		interval = a.cfg.Schedule.Shortlist.Duration()
	}
	sched, err := scheduler.New(scheduler.Task{
		Name:     "shortlist",
		Interval: interval,
		Timeout:  a.cfg.Schedule.TaskTimeout.Duration(),
		Run: func(ctx context.Context) error {
			_, err := pass(ctx)
			return err
		},
	})
	if err != nil {
		return err
	}
	sched.OnResult = logResult
	return sched.Run(ctx)
}
