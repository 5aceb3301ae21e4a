// Package main provides the interview-sync command line: the reconciliation
// loop, the shortlist linker, CV sync, the webhook/chat server and a few
// maintenance commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath    string
	legacyWebhook bool
)

var rootCmd = &cobra.Command{
	Use:   "interview_sync",
	Short: "Keep recruiting interviews in step with the job and candidate tables",
	Long: `interview_sync creates one interview record for every job/candidate pair in the
record store, keeps interview ranks and job shortlists up to date, copies CVs to
blob storage, and serves the candidate chat portal API.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if legacyWebhook {
			return runWebhook(cmd, args)
		}
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to JSON config file")
	rootCmd.Flags().BoolVar(&legacyWebhook, "webhook", false, "Start the webhook server (same as the webhook command)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
