package main

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-sync/internal/observability"
	"github.com/jonathan/interview-sync/internal/scheduler"
)

var reconcileOnce bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Create missing interviews and correct ranks on a schedule",
	Long: `Run the reconciliation loop: every cycle derives the job/candidate pairs from the
job table and creates an interview for each pair that has none. The question pool
is reloaded and interview ranks are corrected on their own intervals.`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcileOnce, "once", false, "Run a single cycle and exit")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	tasks, err := a.reconcileTasks()
	if err != nil {
		return err
	}

	if reconcileOnce {
		a.printer = observability.NewPrinter(cmd.OutOrStdout())
		for _, t := range tasks {
			if t.Name == "question-reload" {
				continue
			}
			if err := t.Run(ctx); err != nil {
				return err
			}
		}
		return nil
	}

	sched, err := scheduler.New(tasks...)
	if err != nil {
		return err
	}
	sched.OnResult = logResult
	return sched.Run(ctx)
}

// reconcileTasks are the periodic jobs of the reconciliation loop.
func (a *app) reconcileTasks() ([]scheduler.Task, error) {
	rec, err := a.reconciler()
	if err != nil {
		return nil, err
	}
	timeout := a.cfg.Schedule.TaskTimeout.Duration()

	return []scheduler.Task{
		{
			Name:     "reconcile",
			Interval: a.cfg.Schedule.Reconcile.Duration(),
			Timeout:  timeout,
			Run: func(ctx context.Context) error {
				res, err := rec.RunCycle(ctx)
				if a.printer != nil && err == nil {
					a.printer.PrintCycle(res)
				}
				a.archiveCycle(ctx, cycleFromReconcile(res, err))
				return err
			},
		},
		{
			Name:     "question-reload",
			Interval: a.cfg.Schedule.QuestionReload.Duration(),
			Timeout:  timeout,
			Run: func(context.Context) error {
				return a.pool.Reload()
			},
		},
		{
			Name:     "rank-correction",
			Interval: a.cfg.Schedule.RankCorrection.Duration(),
			Timeout:  timeout,
			Run: func(ctx context.Context) error {
				started := time.Now()
				res, err := rec.CorrectRanks(ctx)
				if a.printer != nil && err == nil {
					a.printer.PrintRanks(res)
				}
				if err != nil || len(res.Promoted) > 0 {
					a.archiveCycle(ctx, cycleFromRank(started, res, err))
				}
				return err
			},
		},
	}, nil
}

// logResult reports successful runs; the scheduler logs failures itself.
func logResult(r scheduler.Result) {
	if r.Err != nil {
		return
	}
	log.Printf("[SCHEDULER] %s finished in %v", r.Task, r.Duration)
}
