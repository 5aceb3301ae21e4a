// Package transcript holds completed interview conversations and saves them
// to every configured sink.
package transcript

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/interview-sync/internal/schemas"
)

// Message roles.
const (
	RoleAssistant = "assistant"
	RoleUser      = "user"
)

// Message is one chat turn.
type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at,omitzero"`
}

// Transcript is a full interview conversation.
type Transcript struct {
	ID          string    `json:"id"`
	InterviewID int       `json:"interview_id,omitempty"`
	Candidate   string    `json:"candidate_name"`
	Role        string    `json:"role_name"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
	Messages    []Message `json:"messages"`
}

// Validate checks the transcript against the transcript JSON schema.
func (t Transcript) Validate() error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}
	return schemas.ValidateTranscript(data)
}

// Text renders the conversation as plain text, one turn per paragraph.
func (t Transcript) Text() string {
	var sb strings.Builder
	for i, m := range t.Messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		speaker := "Interviewer"
		if m.Role == RoleUser {
			speaker = t.Candidate
			if speaker == "" {
				speaker = "Candidate"
			}
		}
		sb.WriteString(speaker)
		sb.WriteString(": ")
		sb.WriteString(m.Content)
	}
	return sb.String()
}

// Answers returns only the candidate's messages.
func (t Transcript) Answers() []string {
	var out []string
	for _, m := range t.Messages {
		if m.Role == RoleUser {
			out = append(out, m.Content)
		}
	}
	return out
}
