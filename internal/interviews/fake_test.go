package interviews

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/interview-sync/internal/portal"
	"github.com/jonathan/interview-sync/internal/questions"
	"github.com/jonathan/interview-sync/internal/records"
	"github.com/jonathan/interview-sync/internal/types"
)

type linkCall struct {
	Table, Field string
	RecordID     int
	Related      []int
}

// fakeStore is an in-memory record store.
type fakeStore struct {
	mu      sync.Mutex
	tables  map[string][]records.Record
	finds   map[string]records.Record
	nextID  int
	creates []records.Record
	updates []records.Record
	links   []linkCall
	findLog []string

	listErr   map[string]error
	createErr error
	updateErr error
	linkErr   error
	noID      bool
	// onCreate runs after each successful create.
	onCreate func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tables:  map[string][]records.Record{},
		finds:   map[string]records.Record{},
		listErr: map[string]error{},
		nextID:  100,
	}
}

func (s *fakeStore) List(_ context.Context, table string, _ *records.Query) ([]records.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.listErr[table]; err != nil {
		return nil, err
	}
	return append([]records.Record(nil), s.tables[table]...), nil
}

func (s *fakeStore) Find(_ context.Context, _ string, where string) (records.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findLog = append(s.findLog, where)
	return s.finds[where], nil
}

func (s *fakeStore) Create(_ context.Context, table string, fields records.Record) (records.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.creates = append(s.creates, fields)
	if s.noID {
		return records.Record{}, nil
	}
	s.nextID++
	row := records.Record{"Id": float64(s.nextID)}
	for k, v := range fields {
		row[k] = v
	}
	s.tables[table] = append(s.tables[table], row)
	if s.onCreate != nil {
		s.onCreate()
	}
	return records.Record{"Id": float64(s.nextID)}, nil
}

func (s *fakeStore) Update(_ context.Context, table string, fields records.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates = append(s.updates, fields)
	id, _ := fields.Int("Id")
	for _, row := range s.tables[table] {
		if row.ID() == id {
			for k, v := range fields {
				row[k] = v
			}
		}
	}
	return nil
}

func (s *fakeStore) Link(_ context.Context, table, field string, recordID int, related ...int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.linkErr != nil {
		return s.linkErr
	}
	s.links = append(s.links, linkCall{Table: table, Field: field, RecordID: recordID, Related: related})
	return nil
}

var testTables = Tables{
	Jobs:                   "jobs",
	Candidates:             "candidates",
	Interviews:             "interviews",
	InterviewCandidateLink: "cand-link",
}

var fixedNow = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestReconciler(store Store, policy RankPolicy) *Reconciler {
	pool := questions.NewStaticPool([]string{"q1", "q2", "q3", "q4", "q5", "q6", "q7"}, 3)
	r := NewReconciler(store, Config{Tables: testTables}, pool, portal.NewBuilder("http://portal.local", ""), policy)
	r.now = func() time.Time { return fixedNow }
	r.location = time.UTC
	r.sleep = func(context.Context, time.Duration) error { return nil }
	return r
}

func jobRecord(id int, title, client string, candidates ...records.Record) records.Record {
	rel := make([]any, 0, len(candidates))
	for _, c := range candidates {
		rel = append(rel, map[string]any{"CV": map[string]any(c)})
	}
	return records.Record{
		"Id":        float64(id),
		"Job Title": title,
		"Client":    client,
		"nc_92rx___nc_m2m_JobDescription_CVs": rel,
	}
}

func candidateRecord(id int, first, last, cvTitle string) records.Record {
	rec := records.Record{"First Name": first, "Last Name": last}
	if id > 0 {
		rec["Id"] = float64(id)
	}
	if cvTitle != "" {
		rec["CV"] = []any{map[string]any{"path": "download/" + cvTitle, "title": cvTitle}}
	}
	return rec
}

func interviewRecord(id int, title, status string, rank int, cv string) records.Record {
	return records.Record{
		"Id":               float64(id),
		"Title":            title,
		"Interview Status": status,
		"Interview Rank":   float64(rank),
		"CV File":          cv,
	}
}

func candidateWhere(first, last string) string {
	f := types.DefaultFieldMap()
	return records.Where(records.Eq(f.FirstName, first), records.Eq(f.LastName, last))
}

func errFake(msg string) error { return fmt.Errorf("fake: %s", msg) }
