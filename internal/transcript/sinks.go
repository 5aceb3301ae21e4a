package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonathan/interview-sync/internal/blob"
	"github.com/jonathan/interview-sync/internal/records"
	"github.com/jonathan/interview-sync/internal/types"
)

// Sink persists a transcript somewhere.
type Sink interface {
	Name() string
	Save(ctx context.Context, t Transcript) error
}

// Saver validates a transcript and writes it to every sink. A failing sink
// does not stop the others.
type Saver struct {
	sinks []Sink
}

// NewSaver creates a saver over sinks.
func NewSaver(sinks ...Sink) *Saver {
	return &Saver{sinks: sinks}
}

// SinkError reports one failed sink.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("transcript sink %s: %v", e.Sink, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// Save validates t and runs every sink. The returned error joins all sink
// failures.
func (s *Saver) Save(ctx context.Context, t Transcript) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid transcript: %w", err)
	}

	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Save(ctx, t); err != nil {
			log.Printf("[TRANSCRIPT] %s failed for %s: %v", sink.Name(), t.ID, err)
			errs = append(errs, &SinkError{Sink: sink.Name(), Err: err})
			continue
		}
		log.Printf("[TRANSCRIPT] Saved %s to %s", t.ID, sink.Name())
	}
	return errors.Join(errs...)
}

// FileSink writes {dir}/{candidate}_{role}_{interview}_{timestamp}.json.
type FileSink struct {
	Dir string
	now func() time.Time
}

// NewFileSink creates a file sink. An empty dir means "interview_responses".
func NewFileSink(dir string) *FileSink {
	if dir == "" {
		dir = "interview_responses"
	}
	return &FileSink{Dir: dir, now: time.Now}
}

// Name implements Sink.
func (s *FileSink) Name() string { return "file" }

// Path returns the file name a transcript is written to.
func (s *FileSink) Path(t Transcript) string {
	interview := "unknown"
	if t.InterviewID > 0 {
		interview = strconv.Itoa(t.InterviewID)
	}
	name := fmt.Sprintf("%s_%s_%s_%s.json",
		blob.Slug(orUnknown(t.Candidate)), blob.Slug(orUnknown(t.Role)), interview, s.now().Format("20060102_150405"))
	return filepath.Join(s.Dir, name)
}

// Save implements Sink.
func (s *FileSink) Save(_ context.Context, t Transcript) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.Dir, err)
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}
	return os.WriteFile(s.Path(t), data, 0644)
}

// Updater patches a record.
type Updater interface {
	Update(ctx context.Context, tableID string, fields records.Record) error
}

// RecordSink writes the answers back to the interview row and marks it
// complete. Transcripts without an interview id are skipped.
type RecordSink struct {
	Store  Updater
	Table  string
	Fields types.FieldMap
}

// Name implements Sink.
func (s *RecordSink) Name() string { return "record" }

// Save implements Sink.
func (s *RecordSink) Save(ctx context.Context, t Transcript) error {
	if t.InterviewID <= 0 {
		return nil
	}
	f := s.Fields.WithDefaults()
	return s.Store.Update(ctx, s.Table, records.Record{
		records.IDField: t.InterviewID,
		f.Answers:       t.Text(),
		f.Status:        types.StatusComplete,
	})
}

// BlobSink uploads the plain-text transcript to answers/.
type BlobSink struct {
	Store blob.Store
}

// Name implements Sink.
func (s *BlobSink) Name() string { return "blob" }

// Save implements Sink.
func (s *BlobSink) Save(ctx context.Context, t Transcript) error {
	ts := t.CompletedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.Store.Upload(ctx, blob.AnswersPath(orUnknown(t.Candidate), orUnknown(t.Role), ts), []byte(t.Text()), "text/plain; charset=utf-8")
	return err
}

// Archiver stores raw transcript documents.
type Archiver interface {
	ArchiveTranscript(ctx context.Context, id string, interviewID int, candidate, role string, payload []byte) error
}

// ArchiveSink stores the JSON document in a database archive.
type ArchiveSink struct {
	Archive Archiver
}

// Name implements Sink.
func (s *ArchiveSink) Name() string { return "archive" }

// Save implements Sink.
func (s *ArchiveSink) Save(ctx context.Context, t Transcript) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}
	return s.Archive.ArchiveTranscript(ctx, t.ID, t.InterviewID, t.Candidate, t.Role, payload)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
