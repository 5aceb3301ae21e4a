package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jonathan/interview-sync/internal/db"
)

// TranscriptResponse is an archived transcript with its document inlined.
type TranscriptResponse struct {
	ID          string          `json:"id"`
	InterviewID *int            `json:"interview_id,omitempty"`
	Candidate   string          `json:"candidate"`
	Role        string          `json:"role"`
	ArchivedAt  time.Time       `json:"archived_at"`
	Transcript  json.RawMessage `json:"transcript"`
}

// handleGetTranscript returns a transcript from the Postgres archive.
func (s *Server) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	if s.opts.Archive == nil {
		s.fail(w, &ErrUnavailable{Feature: "transcript archive"})
		return
	}

	id := r.PathValue("id")
	t, err := s.opts.Archive.GetTranscript(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		s.fail(w, &ErrNotFound{Kind: "transcript", ID: id})
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, TranscriptResponse{
		ID:          t.ID,
		InterviewID: t.InterviewID,
		Candidate:   t.Candidate,
		Role:        t.Role,
		ArchivedAt:  t.CreatedAt,
		Transcript:  json.RawMessage(t.Content),
	})
}
