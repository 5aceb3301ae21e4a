package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// ArchiveTranscript upserts a transcript document. interviewID 0 is stored
// as NULL.
func (db *DB) ArchiveTranscript(ctx context.Context, id string, interviewID int, candidate, role string, payload []byte) error {
	var ivID *int
	if interviewID > 0 {
		ivID = &interviewID
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO transcripts (id, interview_id, candidate_name, role_name, content)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET content = $5, created_at = NOW()`,
		id, ivID, candidate, role, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to archive transcript: %w", err)
	}
	return nil
}

// GetTranscript loads an archived transcript.
func (db *DB) GetTranscript(ctx context.Context, id string) (*ArchivedTranscript, error) {
	var t ArchivedTranscript
	err := db.pool.QueryRow(ctx,
		`SELECT id, interview_id, candidate_name, role_name, content, created_at
		 FROM transcripts WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.InterviewID, &t.Candidate, &t.Role, &t.Content, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transcript: %w", err)
	}
	return &t, nil
}

func msToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
