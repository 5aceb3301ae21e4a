package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-sync/internal/scheduler"
	"github.com/jonathan/interview-sync/internal/server"
	"github.com/jonathan/interview-sync/internal/server/ratelimit"
)

var (
	webhookPort  int
	webhookDebug bool
	webhookPoll  bool
)

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Start the webhook and chat portal server",
	Long: `Start an HTTP server that syncs roles when the record store reports job changes
and serves the candidate chat sessions and archived transcripts. With --poll the
reconciliation loop runs alongside it.`,
	RunE: runWebhook,
}

func init() {
	webhookCmd.Flags().IntVar(&webhookPort, "port", 0, "Port to listen on (default from config)")
	webhookCmd.Flags().BoolVar(&webhookDebug, "debug", false, "Log every request line")
	webhookCmd.Flags().BoolVar(&webhookPoll, "poll", false, "Also run the reconciliation loop")
	rootCmd.AddCommand(webhookCmd)
}

func runWebhook(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	syncer, err := a.syncer(ctx)
	if err != nil {
		return err
	}
	saver, err := a.saver(ctx)
	if err != nil {
		return err
	}

	port := a.cfg.Server.Port
	if webhookPort > 0 {
		port = webhookPort
	}

	opts := server.Options{
		Port:           port,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		WebhookSecret:  a.cfg.Server.WebhookSecret,
		JobsTable:      a.cfg.Tables.Jobs,
		Debug:          webhookDebug || a.cfg.Verbose,
		RateLimit:      ratelimit.LoadConfig(os.LookupEnv),
		Syncer:         syncer,
		Sessions:       a.chatManager(),
		Portal:         a.links,
		Saver:          saver,
	}
	if a.archive != nil {
		opts.Archive = a.archive
	}
	srv := server.New(opts)

	var sched *scheduler.Scheduler
	if webhookPoll {
		tasks, err := a.reconcileTasks()
		if err != nil {
			return err
		}
		if sched, err = scheduler.New(tasks...); err != nil {
			return err
		}
		sched.OnResult = logResult
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })
	if sched != nil {
		g.Go(func() error { return sched.Run(ctx) })
	}
	return g.Wait()
}
