package shortlist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-sync/internal/records"
	"github.com/jonathan/interview-sync/internal/types"
)

type linkCall struct {
	JobID int
	IDs   []int
}

type fakeStore struct {
	queries map[string]string
	tables  map[string][]records.Record
	finds   map[string]records.Record
	links   []linkCall
	linkErr error
}

func (s *fakeStore) List(_ context.Context, table string, q *records.Query) ([]records.Record, error) {
	if q != nil {
		if s.queries == nil {
			s.queries = map[string]string{}
		}
		s.queries[table] = q.Where
	}
	return s.tables[table], nil
}

func (s *fakeStore) Find(_ context.Context, _ string, where string) (records.Record, error) {
	return s.finds[where], nil
}

func (s *fakeStore) Link(_ context.Context, _, _ string, id int, related ...int) error {
	if s.linkErr != nil {
		return s.linkErr
	}
	s.links = append(s.links, linkCall{JobID: id, IDs: related})
	return nil
}

func interview(id int, title string, rank int, candidates ...records.Record) records.Record {
	rel := make([]any, 0, len(candidates))
	for _, c := range candidates {
		rel = append(rel, map[string]any{"Candidate": map[string]any(c)})
	}
	return records.Record{
		"Id":                         float64(id),
		"Title":                      title,
		"Interview Rank":             float64(rank),
		"nc_m2jd___nc_rel_Candidate": rel,
	}
}

func newStore() *fakeStore {
	return &fakeStore{
		tables: map[string][]records.Record{
			"jobs": {
				{"Id": float64(1), "Job Title": "Engineer", "Client": "Acme"},
				{"Id": float64(2), "Job Title": "Engineer", "Client": "Globex"},
				{"Id": float64(3), "Job Title": "Analyst"},
			},
		},
		finds: map[string]records.Record{},
	}
}

func newTestLinker(s Store) *Linker {
	return NewLinker(s, Config{JobsTable: "jobs", CandidatesTable: "cands", InterviewsTable: "ivs", LinkField: "rec"})
}

func TestRun_GroupsCandidatesPerJob(t *testing.T) {
	s := newStore()
	f := types.DefaultFieldMap()
	s.finds[records.Where(records.Eq(f.FirstName, "John"), records.Eq(f.LastName, "Roe"))] = records.Record{"Id": float64(22)}
	s.tables["ivs"] = []records.Record{
		interview(10, "Globex - Engineer: Jane Doe", 5, records.Record{"Id": float64(21), "First Name": "Jane", "Last Name": "Doe"}),
		interview(11, "Globex - Engineer: John Roe", 4),
		interview(12, "Globex - Engineer: Jane Doe", 4, records.Record{"Id": float64(21), "First Name": "Jane", "Last Name": "Doe"}),
		interview(13, "Analyst: Low Rank", 3),
		interview(14, "Unknown - Role: Ann Lee", 5),
		interview(15, "no colon", 5),
	}

	result, err := newTestLinker(s).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "(Interview Rank,gte,4)", s.queries["ivs"])
	assert.Equal(t, 5, result.HighRated)
	assert.Equal(t, 1, result.Jobs)
	assert.Equal(t, 1, result.LinkedJobs)
	assert.Equal(t, 2, result.Unmatched)
	require.Len(t, s.links, 1)
	assert.Equal(t, linkCall{JobID: 2, IDs: []int{21, 22}}, s.links[0])
}

func TestRun_LinkFailureCounted(t *testing.T) {
	s := newStore()
	s.linkErr = errors.New("nope")
	s.tables["ivs"] = []records.Record{
		interview(10, "Analyst: Jane Doe", 5, records.Record{"Id": float64(21), "First Name": "Jane", "Last Name": "Doe"}),
	}

	result, err := newTestLinker(s).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.FailedLinks)
	assert.Zero(t, result.LinkedJobs)
}

func TestFindJob(t *testing.T) {
	jobs := []types.Job{{ID: 1, Title: "Engineer", Client: "Acme"}, {ID: 2, Title: "Engineer", Client: "Globex"}}

	job, ok := FindJob(jobs, "Engineer", "")
	require.True(t, ok)
	assert.Equal(t, 1, job.ID)

	job, ok = FindJob(jobs, "Engineer", "Globex")
	require.True(t, ok)
	assert.Equal(t, 2, job.ID)

	_, ok = FindJob(jobs, "Engineer", "Initech")
	assert.False(t, ok)
}
