// Package chat runs the scripted interview questionnaire: a greeting, an
// introduction, then one question per candidate reply until the list is
// exhausted.
package chat

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/interview-sync/internal/transcript"
)

// CompletionMessage closes every interview.
const CompletionMessage = "Thank you for your time! The interview is now complete."

// Defaults for missing portal parameters.
const (
	UnknownCandidate = "Unknown User"
	UnknownRole      = "Unknown Role"
	DefaultPlatform  = "The Candidate"
)

// ErrComplete is returned when a message arrives after the last question.
var ErrComplete = errors.New("interview is already complete")

// Script holds the fixed assistant lines.
type Script struct {
	Platform string
	Company  string
}

// Greeting is the first assistant message.
func (s Script) Greeting(candidate string) string {
	platform := s.Platform
	if platform == "" {
		platform = DefaultPlatform
	}
	return fmt.Sprintf("Good morning, %s! Welcome to %s's interview platform!", candidate, platform)
}

// Intro introduces the role.
func (s Script) Intro(role string) string {
	if s.Company == "" {
		return fmt.Sprintf("We'll be asking some questions to establish your suitability for the role of %s. Let's get started.", role)
	}
	return fmt.Sprintf("We'll be asking some questions to establish your suitability for the role of %s, for %s. Let's get started.", role, s.Company)
}

// Session is one candidate's conversation.
type Session struct {
	mu sync.Mutex

	id          string
	interviewID int
	candidate   string
	role        string
	questions   []string
	next        int
	messages    []transcript.Message
	startedAt   time.Time
	completedAt time.Time
	lastActive  time.Time
	now         func() time.Time
}

// View is a snapshot of a session for API responses.
type View struct {
	ID          string               `json:"id"`
	InterviewID int                  `json:"interview_id,omitempty"`
	Candidate   string               `json:"candidate"`
	Role        string               `json:"role"`
	Complete    bool                 `json:"complete"`
	Asked       int                  `json:"asked"`
	Total       int                  `json:"total"`
	Messages    []transcript.Message `json:"messages"`
}

func newSession(id string, interviewID int, candidate, role string, questions []string, script Script, now func() time.Time) *Session {
	if candidate == "" {
		candidate = UnknownCandidate
	}
	if role == "" {
		role = UnknownRole
	}
	s := &Session{
		id:          id,
		interviewID: interviewID,
		candidate:   candidate,
		role:        role,
		questions:   append([]string(nil), questions...),
		startedAt:   now(),
		now:         now,
	}
	s.lastActive = s.startedAt
	s.say(script.Greeting(candidate))
	s.say(script.Intro(role))
	s.askNext()
	return s
}

// Reply records the candidate's message and returns the assistant messages
// sent in response.
func (s *Session) Reply(content string) ([]transcript.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.completedAt.IsZero() {
		return nil, ErrComplete
	}
	s.lastActive = s.now()
	s.messages = append(s.messages, transcript.Message{Role: transcript.RoleUser, Content: content, At: s.lastActive})
	before := len(s.messages)
	s.askNext()
	return append([]transcript.Message(nil), s.messages[before:]...), nil
}

// LastActive is the time of the latest candidate reply, or the start time.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Complete reports whether the completion message has been sent.
func (s *Session) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.completedAt.IsZero()
}

// View returns a snapshot.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		ID:          s.id,
		InterviewID: s.interviewID,
		Candidate:   s.candidate,
		Role:        s.role,
		Complete:    !s.completedAt.IsZero(),
		Asked:       s.next,
		Total:       len(s.questions),
		Messages:    append([]transcript.Message(nil), s.messages...),
	}
}

// Transcript converts the session for persistence.
func (s *Session) Transcript() transcript.Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()
	return transcript.Transcript{
		ID:          s.id,
		InterviewID: s.interviewID,
		Candidate:   s.candidate,
		Role:        s.role,
		StartedAt:   s.startedAt,
		CompletedAt: s.completedAt,
		Messages:    append([]transcript.Message(nil), s.messages...),
	}
}

// askNext sends the next question, or the completion message when none are
// left. Callers hold mu, except during construction.
func (s *Session) askNext() {
	if s.next < len(s.questions) {
		s.say(s.questions[s.next])
		s.next++
		return
	}
	s.say(CompletionMessage)
	s.completedAt = s.now()
}

func (s *Session) say(content string) {
	s.messages = append(s.messages, transcript.Message{Role: transcript.RoleAssistant, Content: content, At: s.now()})
}
