package db

import (
	"time"

	"github.com/google/uuid"
)

// Cycle kinds
const (
	KindReconcile = "reconcile"
	KindRank      = "rank"
	KindShortlist = "shortlist"
)

// Cycle is one archived scheduler run.
type Cycle struct {
	ID        uuid.UUID     `json:"id"`
	Kind      string        `json:"kind"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Pairs     int           `json:"pairs"`
	Created   int           `json:"created"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Linked    int           `json:"linked"`
	Error     *string       `json:"error,omitempty"`
}

// ArchivedTranscript is a stored transcript row.
type ArchivedTranscript struct {
	ID          string    `json:"id"`
	InterviewID *int      `json:"interview_id,omitempty"`
	Candidate   string    `json:"candidate_name"`
	Role        string    `json:"role_name"`
	Content     []byte    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}
