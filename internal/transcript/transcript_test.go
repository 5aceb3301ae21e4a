package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-sync/internal/blob"
	"github.com/jonathan/interview-sync/internal/records"
	"github.com/jonathan/interview-sync/internal/types"
)

var started = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func sample() Transcript {
	return Transcript{
		ID:          "t-1",
		InterviewID: 42,
		Candidate:   "Jane Doe",
		Role:        "Data Engineer",
		StartedAt:   started,
		CompletedAt: started.Add(10 * time.Minute),
		Messages: []Message{
			{Role: RoleAssistant, Content: "Why us?"},
			{Role: RoleUser, Content: "Because."},
		},
	}
}

func TestText(t *testing.T) {
	assert.Equal(t, "Interviewer: Why us?\n\nJane Doe: Because.", sample().Text())
	assert.Equal(t, []string{"Because."}, sample().Answers())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, sample().Validate())

	bad := sample()
	bad.Candidate = ""
	assert.Error(t, bad.Validate())
}

type fakeUpdater struct {
	table  string
	fields records.Record
	err    error
}

func (f *fakeUpdater) Update(_ context.Context, table string, fields records.Record) error {
	f.table, f.fields = table, fields
	return f.err
}

type fakeArchive struct {
	id      string
	payload []byte
}

func (f *fakeArchive) ArchiveTranscript(_ context.Context, id string, _ int, _, _ string, payload []byte) error {
	f.id, f.payload = id, payload
	return nil
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir)
	sink.now = func() time.Time { return started }

	require.NoError(t, sink.Save(context.Background(), sample()))

	path := filepath.Join(dir, "Jane_Doe_Data_Engineer_42_20250301_093000.json")
	assert.Equal(t, path, sink.Path(sample()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Transcript
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "t-1", got.ID)
	assert.Len(t, got.Messages, 2)
}

func TestRecordSink(t *testing.T) {
	up := &fakeUpdater{}
	sink := &RecordSink{Store: up, Table: "interviews"}

	require.NoError(t, sink.Save(context.Background(), sample()))
	assert.Equal(t, "interviews", up.table)
	assert.Equal(t, 42, up.fields["Id"])
	assert.Equal(t, types.StatusComplete, up.fields["Interview Status"])
	assert.Equal(t, sample().Text(), up.fields["Answers"])

	noID := sample()
	noID.InterviewID = 0
	up.fields = nil
	require.NoError(t, sink.Save(context.Background(), noID))
	assert.Nil(t, up.fields)
}

func TestBlobSink(t *testing.T) {
	root := t.TempDir()
	sink := &BlobSink{Store: blob.NewLocalStore(root)}

	require.NoError(t, sink.Save(context.Background(), sample()))
	data, err := os.ReadFile(filepath.Join(root, "answers", "Jane_Doe_Data_Engineer_20250301_094000.txt"))
	require.NoError(t, err)
	assert.Equal(t, sample().Text(), string(data))
}

func TestSaver_ContinuesPastFailures(t *testing.T) {
	archive := &fakeArchive{}
	up := &fakeUpdater{err: errors.New("remote down")}
	saver := NewSaver(&RecordSink{Store: up, Table: "interviews"}, &ArchiveSink{Archive: archive})

	err := saver.Save(context.Background(), sample())
	require.Error(t, err)

	var sinkErr *SinkError
	require.ErrorAs(t, err, &sinkErr)
	assert.Equal(t, "record", sinkErr.Sink)
	assert.Equal(t, "t-1", archive.id)
	assert.NotEmpty(t, archive.payload)
}

func TestSaver_RejectsInvalid(t *testing.T) {
	archive := &fakeArchive{}
	saver := NewSaver(&ArchiveSink{Archive: archive})

	bad := sample()
	bad.Messages = nil
	err := saver.Save(context.Background(), bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transcript")
	assert.Empty(t, archive.id)
}
