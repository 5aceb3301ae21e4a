package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-sync/internal/report"
	"github.com/jonathan/interview-sync/internal/types"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the interview table to an Excel workbook",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "interviews.xlsx", "Output workbook path")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	recs, err := a.store.List(ctx, a.cfg.Tables.Interviews, nil)
	if err != nil {
		return fmt.Errorf("failed to fetch interviews: %w", err)
	}
	fields := a.cfg.Fields.WithDefaults()
	ivs := make([]types.Interview, 0, len(recs))
	for _, rec := range recs {
		ivs = append(ivs, types.InterviewFromRecord(rec, fields))
	}

	path, err := report.ExportToExcel(ivs, exportOut, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d interviews to %s\n", len(ivs), path)
	return nil
}
