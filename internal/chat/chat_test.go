package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-sync/internal/questions"
	"github.com/jonathan/interview-sync/internal/records"
	"github.com/jonathan/interview-sync/internal/transcript"
)

type fakeGetter struct {
	rec records.Record
	err error
}

func (f *fakeGetter) Get(context.Context, string, int) (records.Record, error) {
	return f.rec, f.err
}

func TestScript(t *testing.T) {
	s := Script{Company: "Acme"}
	assert.Equal(t, "Good morning, Jane! Welcome to The Candidate's interview platform!", s.Greeting("Jane"))
	assert.Equal(t, "We'll be asking some questions to establish your suitability for the role of Engineer, for Acme. Let's get started.", s.Intro("Engineer"))
	assert.NotContains(t, Script{}.Intro("Engineer"), ", for")
}

func TestSession_FullConversation(t *testing.T) {
	m := NewManager(Script{}, nil, questions.NewStaticPool([]string{"Q1", "Q2"}, 1), 2)
	s := m.Start(context.Background(), StartRequest{Candidate: "Jane Doe", Role: "Engineer"})

	view := s.View()
	require.Len(t, view.Messages, 3)
	assert.Contains(t, view.Messages[0].Content, "Good morning, Jane Doe!")
	assert.Equal(t, 1, view.Asked)
	assert.Equal(t, 2, view.Total)
	assert.False(t, view.Complete)

	out, err := s.Reply("answer one")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.False(t, s.Complete())

	out, err = s.Reply("answer two")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, CompletionMessage, out[0].Content)
	assert.True(t, s.Complete())

	_, err = s.Reply("late")
	assert.ErrorIs(t, err, ErrComplete)

	tr := s.Transcript()
	assert.Equal(t, []string{"answer one", "answer two"}, tr.Answers())
	assert.False(t, tr.CompletedAt.IsZero())
	assert.NoError(t, tr.Validate())
}

func TestSession_Defaults(t *testing.T) {
	m := NewManager(Script{}, nil, nil, 0)
	s := m.Start(context.Background(), StartRequest{})

	view := s.View()
	assert.Equal(t, UnknownCandidate, view.Candidate)
	assert.Equal(t, UnknownRole, view.Role)
	// No questions: greeting, intro, completion.
	require.Len(t, view.Messages, 3)
	assert.Equal(t, CompletionMessage, view.Messages[2].Content)
	assert.True(t, view.Complete)
}

func TestManager_StoredQuestions(t *testing.T) {
	src := &RecordQuestions{Store: &fakeGetter{rec: records.Record{"Text": "1. Stored A\n2. Stored B"}}, Table: "interviews"}
	m := NewManager(Script{}, src, questions.NewStaticPool([]string{"pool"}, 1), 6)

	s := m.Start(context.Background(), StartRequest{Candidate: "Jane Doe", Role: "Engineer", InterviewID: 4})
	view := s.View()
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, "Stored A", view.Messages[2].Content)
	assert.Equal(t, 4, view.InterviewID)
}

func TestManager_FallsBackToPool(t *testing.T) {
	src := &RecordQuestions{Store: &fakeGetter{err: errors.New("down")}, Table: "interviews"}
	m := NewManager(Script{}, src, questions.NewStaticPool([]string{"pool"}, 1), 6)

	s := m.Start(context.Background(), StartRequest{Candidate: "Jane Doe", Role: "Engineer", InterviewID: 4})
	assert.Equal(t, "pool", s.View().Messages[2].Content)
}

func TestManager_GetPrune(t *testing.T) {
	m := NewManager(Script{}, nil, questions.NewStaticPool([]string{"Q"}, 1), 1)
	s := m.Start(context.Background(), StartRequest{Candidate: "A B", Role: "R"})

	got, err := m.Get(s.View().ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Zero(t, m.Prune(time.Now().Add(-time.Hour)))
	assert.Equal(t, 1, m.Prune(time.Now().Add(time.Hour)))
	assert.Zero(t, m.Len())
}

func TestManager_PruneKeepsActiveSessions(t *testing.T) {
	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	m := NewManager(Script{}, nil, questions.NewStaticPool([]string{"Q1", "Q2"}, 2), 2)
	m.now = func() time.Time { return clock }

	active := m.Start(context.Background(), StartRequest{Candidate: "A B", Role: "R"})
	idle := m.Start(context.Background(), StartRequest{Candidate: "C D", Role: "R"})

	clock = clock.Add(23 * time.Hour)
	_, err := active.Reply("still here")
	require.NoError(t, err)
	assert.Equal(t, clock, active.LastActive())

	clock = clock.Add(2 * time.Hour)
	assert.Equal(t, 1, m.Prune(clock.Add(-24*time.Hour)))

	_, err = m.Get(active.View().ID)
	require.NoError(t, err)
	_, err = m.Get(idle.View().ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestView_MessagesRoles(t *testing.T) {
	m := NewManager(Script{}, nil, questions.NewStaticPool([]string{"Q"}, 1), 1)
	s := m.Start(context.Background(), StartRequest{Candidate: "A B", Role: "R"})
	_, err := s.Reply("hi")
	require.NoError(t, err)

	msgs := s.View().Messages
	assert.Equal(t, transcript.RoleUser, msgs[3].Role)
	assert.Equal(t, transcript.RoleAssistant, msgs[4].Role)
}
