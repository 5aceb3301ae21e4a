// Package report exports the interview table to an Excel workbook.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/interview-sync/internal/types"
)

// Sheet names.
const (
	SummarySheet    = "Summary"
	InterviewsSheet = "Interviews"
)

var statusOrder = []string{types.StatusNotStarted, types.StatusReady, types.StatusInProgress, types.StatusComplete}

// ExportToExcel writes the workbook to outputPath, adding .xlsx if missing.
func ExportToExcel(interviews []types.Interview, outputPath string, generated time.Time) (string, error) {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	f, err := build(interviews, generated)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}
	return outputPath, nil
}

// Write streams the workbook to w.
func Write(w io.Writer, interviews []types.Interview, generated time.Time) error {
	f, err := build(interviews, generated)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

// SortByRank orders interviews by rank descending, then title.
func SortByRank(interviews []types.Interview) []types.Interview {
	out := append([]types.Interview(nil), interviews...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank > out[j].Rank
		}
		return out[i].Title < out[j].Title
	})
	return out
}

// StatusCounts tallies interviews per status. Unknown statuses are kept
// under their own name.
func StatusCounts(interviews []types.Interview) map[string]int {
	counts := make(map[string]int, len(statusOrder))
	for _, s := range statusOrder {
		counts[s] = 0
	}
	for _, iv := range interviews {
		status := iv.Status
		if status == "" {
			status = types.StatusNotStarted
		}
		counts[status]++
	}
	return counts
}

func build(interviews []types.Interview, generated time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(InterviewsSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := createSummarySheet(f, interviews, generated); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := createInterviewsSheet(f, interviews); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create interviews sheet: %w", err)
	}
	return f, nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
}

func createSummarySheet(f *excelize.File, interviews []types.Interview, generated time.Time) error {
	sheet := SummarySheet
	_ = f.SetColWidth(sheet, "A", "A", 28)
	_ = f.SetColWidth(sheet, "B", "B", 20)

	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	rows := [][]any{
		{"Interview Report"},
		{"Generated:", generated.Format("2006-01-02 15:04:05")},
		{"Total Interviews:", len(interviews)},
		{},
		{"Status", "Count"},
	}
	counts := StatusCounts(interviews)
	for _, s := range statusOrder {
		rows = append(rows, []any{s, counts[s]})
	}
	var extra []string
	for s := range counts {
		if !slices.Contains(statusOrder, s) {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)
	for _, s := range extra {
		rows = append(rows, []any{s, counts[s]})
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", header); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A5", "B5", header)
}

var interviewColumns = []string{"Title", "Status", "Rank", "Due Date", "CV File", "Portal Link"}

func createInterviewsSheet(f *excelize.File, interviews []types.Interview) error {
	sheet := InterviewsSheet
	widths := []float64{45, 22, 8, 14, 30, 60}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, w)
	}

	header, err := headerStyle(f)
	if err != nil {
		return err
	}
	headerRow := make([]any, len(interviewColumns))
	for i, c := range interviewColumns {
		headerRow[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(interviewColumns))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", header); err != nil {
		return err
	}

	for i, iv := range SortByRank(interviews) {
		row := []any{iv.Title, iv.Status, iv.Rank, iv.DueDate, iv.CVFilename, iv.PortalLink}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

