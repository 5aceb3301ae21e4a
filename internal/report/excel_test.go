package report

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonathan/interview-sync/internal/types"
)

var generated = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func sampleInterviews() []types.Interview {
	return []types.Interview{
		{Title: "B", Status: types.StatusComplete, Rank: 3},
		{Title: "A", Status: types.StatusComplete, Rank: 5, CVFilename: "a.pdf"},
		{Title: "C", Status: types.StatusReady},
		{Title: "D", Status: "Archived", Rank: 3},
	}
}

func TestSortByRank(t *testing.T) {
	sorted := SortByRank(sampleInterviews())
	titles := make([]string, 0, len(sorted))
	for _, iv := range sorted {
		titles = append(titles, iv.Title)
	}
	assert.Equal(t, []string{"A", "B", "D", "C"}, titles)
}

func TestStatusCounts(t *testing.T) {
	counts := StatusCounts(append(sampleInterviews(), types.Interview{Title: "E"}))
	assert.Equal(t, 2, counts[types.StatusComplete])
	assert.Equal(t, 1, counts[types.StatusReady])
	assert.Equal(t, 1, counts[types.StatusNotStarted])
	assert.Equal(t, 0, counts[types.StatusInProgress])
	assert.Equal(t, 1, counts["Archived"])
}

func TestExportToExcel(t *testing.T) {
	out, err := ExportToExcel(sampleInterviews(), filepath.Join(t.TempDir(), "report"), generated)
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", filepath.Ext(out))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SummarySheet, InterviewsSheet}, f.GetSheetList())

	title, err := f.GetCellValue(InterviewsSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "A", title)

	rank, err := f.GetCellValue(InterviewsSheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "5", rank)

	total, err := f.GetCellValue(SummarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "4", total)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, generated))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	header, err := f.GetCellValue(InterviewsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Title", header)
}
