package cvsync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-sync/internal/blob"
	"github.com/jonathan/interview-sync/internal/records"
)

type recordingWriter struct {
	table  string
	fields records.Record
	err    error
}

func (w *recordingWriter) Update(_ context.Context, tableID string, fields records.Record) error {
	w.table = tableID
	w.fields = fields
	return w.err
}

func TestStatus(t *testing.T) {
	src := &fakeSource{jobs: []records.Record{roleRecord()}}
	syncer := NewSyncer(src, blob.NewLocalStore(t.TempDir()), Config{JobsTable: "jobs"})

	st, err := syncer.Status(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, RoleStatus{
		ID: 12, Title: "Data Engineer", Client: "Acme",
		CVs: 2, JDFiles: 1, HasDescription: true,
	}, st)

	_, err = syncer.Status(context.Background(), 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch role 99")
}

func TestStatus_CountsCVAttachments(t *testing.T) {
	rec := roleRecord()
	rec["nc_92rx___nc_m2m_JobDescription_CVs"] = []any{
		map[string]any{"CV": map[string]any{
			"Id": float64(7), "First Name": "Jane", "Last Name": "Doe",
			"CV": []any{
				map[string]any{"path": "download/a.pdf", "title": "a.pdf"},
				map[string]any{"path": "download/b.pdf", "title": "b.pdf"},
				map[string]any{"path": "download/c.pdf", "title": "c.pdf"},
			},
		}},
	}
	syncer := NewSyncer(&fakeSource{jobs: []records.Record{rec}}, blob.NewLocalStore(t.TempDir()), Config{JobsTable: "jobs"})

	st, err := syncer.Status(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, 3, st.CVs)
}

func TestSetStatus(t *testing.T) {
	syncer := NewSyncer(&fakeSource{}, blob.NewLocalStore(t.TempDir()), Config{JobsTable: "jobs"})

	w := &recordingWriter{}
	require.NoError(t, syncer.SetStatus(context.Background(), w, 12, "Closed"))
	assert.Equal(t, "jobs", w.table)
	assert.Equal(t, records.Record{"Id": 12, "Status": "Closed"}, w.fields)

	w.err = errors.New("boom")
	err := syncer.SetStatus(context.Background(), w, 12, "Open")
	require.Error(t, err)
	assert.ErrorIs(t, err, w.err)
}
