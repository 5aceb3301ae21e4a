package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-sync/internal/db"
	"github.com/jonathan/interview-sync/internal/observability"
)

var (
	cyclesKind  string
	cyclesLimit int
)

var cyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "List recent reconcile, rank and shortlist runs from the archive",
	Long:  "Print the newest archived cycles. Requires DATABASE_URL (or database_url in the config file).",
	RunE:  runCycles,
}

func init() {
	cyclesCmd.Flags().StringVar(&cyclesKind, "kind", "", "Only show cycles of this kind (reconcile, rank, shortlist)")
	cyclesCmd.Flags().IntVar(&cyclesLimit, "limit", db.DefaultCycleLimit, "Maximum number of cycles to show")
	rootCmd.AddCommand(cyclesCmd)
}

// cycleLister is the archive query used by the cycles command.
type cycleLister interface {
	ListRecentCycles(ctx context.Context, kind string, limit int) ([]db.Cycle, error)
}

func runCycles(cmd *cobra.Command, _ []string) error {
	switch cyclesKind {
	case "", db.KindReconcile, db.KindRank, db.KindShortlist:
	default:
		return fmt.Errorf("unknown cycle kind %q", cyclesKind)
	}

	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.archive == nil {
		return fmt.Errorf("no database configured (set DATABASE_URL)")
	}
	return printCycles(ctx, cmd.OutOrStdout(), a.archive, cyclesKind, cyclesLimit)
}

func printCycles(ctx context.Context, out io.Writer, lister cycleLister, kind string, limit int) error {
	cycles, err := lister.ListRecentCycles(ctx, kind, limit)
	if err != nil {
		return err
	}
	observability.NewPrinter(out).PrintRecentCycles(cycles)
	return nil
}
