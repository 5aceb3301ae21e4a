package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-sync/internal/questions"
	"github.com/jonathan/interview-sync/internal/records"
	"github.com/jonathan/interview-sync/internal/types"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("session not found")

// QuestionSource returns the questions stored for an interview.
type QuestionSource interface {
	Questions(ctx context.Context, interviewID int) ([]string, error)
}

// Sampler draws questions from the pool.
type Sampler interface {
	Sample(n int) []string
}

// RecordQuestions reads the numbered question list from an interview row.
type RecordQuestions struct {
	Store interface {
		Get(ctx context.Context, tableID string, id int) (records.Record, error)
	}
	Table  string
	Fields types.FieldMap
}

// Questions implements QuestionSource.
func (r *RecordQuestions) Questions(ctx context.Context, interviewID int) ([]string, error) {
	rec, err := r.Store.Get(ctx, r.Table, interviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interview %d: %w", interviewID, err)
	}
	iv := types.InterviewFromRecord(rec, r.Fields.WithDefaults())
	return questions.ParseNumbered(iv.Questions), nil
}

// StartRequest opens a session.
type StartRequest struct {
	Candidate   string `json:"candidate" validate:"max=200"`
	Role        string `json:"role" validate:"max=200"`
	InterviewID int    `json:"interview_id,omitempty" validate:"gte=0"`
	Token       string `json:"token,omitempty"`
}

// Manager keeps live sessions in memory.
type Manager struct {
	script   Script
	source   QuestionSource
	sampler  Sampler
	count    int
	now      func() time.Time
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a manager. source may be nil; questions then always
// come from sampler.
func NewManager(script Script, source QuestionSource, sampler Sampler, count int) *Manager {
	if count <= 0 {
		count = questions.DefaultCount
	}
	return &Manager{
		script:   script,
		source:   source,
		sampler:  sampler,
		count:    count,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Start opens a session. Stored interview questions are preferred; the pool
// is used when there is no interview id, the lookup fails, or the stored
// list is empty.
func (m *Manager) Start(ctx context.Context, req StartRequest) *Session {
	var qs []string
	if req.InterviewID > 0 && m.source != nil {
		stored, err := m.source.Questions(ctx, req.InterviewID)
		if err != nil {
			log.Printf("[CHAT] Falling back to question pool for interview %d: %v", req.InterviewID, err)
		}
		qs = stored
	}
	if len(qs) == 0 && m.sampler != nil {
		qs = m.sampler.Sample(m.count)
	}

	s := newSession(uuid.NewString(), req.InterviewID, req.Candidate, req.Role, qs, m.script, m.now)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	log.Printf("[CHAT] Started session %s for %s (%s)", s.id, s.candidate, s.role)
	return s
}

// Get looks up a session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Prune removes sessions with no activity since cutoff and returns how many
// were dropped.
func (m *Manager) Prune(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
