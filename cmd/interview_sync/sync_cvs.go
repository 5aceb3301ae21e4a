package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-sync/internal/cvsync"
	"github.com/jonathan/interview-sync/internal/observability"
)

var (
	syncRoleID int
	syncJSON   bool
)

var syncCVsCmd = &cobra.Command{
	Use:   "sync-cvs",
	Short: "Download role CVs and descriptions and upload them to blob storage",
	RunE:  runSyncCVs,
}

func init() {
	syncCVsCmd.Flags().IntVar(&syncRoleID, "role", 0, "Sync a single role by record id")
	syncCVsCmd.Flags().BoolVar(&syncJSON, "json", false, "Print the summary as JSON")
	rootCmd.AddCommand(syncCVsCmd)
}

func runSyncCVs(cmd *cobra.Command, _ []string) error {
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

	var summary cvsync.Summary
	if syncRoleID > 0 {
		summary, err = syncer.SyncRole(ctx, syncRoleID)
	} else {
		summary, err = syncer.SyncAll(ctx)
	}
	if err != nil {
		return err
	}

	if syncJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return err
		}
	} else {
		observability.NewPrinter(cmd.OutOrStdout()).PrintSyncSummary(summary)
	}
	if summary.CVsFound > 0 && summary.Uploaded == 0 {
		return fmt.Errorf("no CVs were uploaded (%d found, %d failed)", summary.CVsFound, summary.Failed)
	}
	return nil
}
