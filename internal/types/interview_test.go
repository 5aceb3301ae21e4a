package types

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/interview-sync/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterviewTitle(t *testing.T) {
	tests := []struct {
		name                      string
		client, job, first, last string
		want                      string
	}{
		{"with client", "Acme", "Engineer", "Jane", "Doe", "Acme - Engineer: Jane Doe"},
		{"without client", "", "Engineer", "Jane", "Doe", "Engineer: Jane Doe"},
		{"multi word last name", "Acme", "Data Lead", "Ana", "de la Cruz", "Acme - Data Lead: Ana de la Cruz"},
		{"inner whitespace kept", "Acme", "Engineer ", "Jane", "Doe", "Acme - Engineer : Jane Doe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterviewTitle(tt.client, tt.job, tt.first, tt.last))
		})
	}
}

func TestInterviewTitle_IsPure(t *testing.T) {
	a := InterviewTitle("Acme", "Engineer", "Jane", "Doe")
	b := InterviewTitle("Acme", "Engineer", "Jane", "Doe")
	assert.Equal(t, a, b)
	assert.NotContains(t, InterviewTitle("", "Engineer", "Jane", "Doe"), " - ")
}

func TestParseTitle(t *testing.T) {
	parsed, ok := ParseTitle("Acme - Engineer: Jane Doe")
	require.True(t, ok)
	assert.Equal(t, ParsedTitle{Client: "Acme", JobTitle: "Engineer", FirstName: "Jane", LastName: "Doe"}, parsed)

	parsed, ok = ParseTitle("Engineer: Ana de la Cruz")
	require.True(t, ok)
	assert.Equal(t, "", parsed.Client)
	assert.Equal(t, "de la Cruz", parsed.LastName)
}

func TestParseTitle_RoundTrip(t *testing.T) {
	title := InterviewTitle("Globex", "Site Reliability Engineer", "Sam", "Lee")
	parsed, ok := ParseTitle(title)
	require.True(t, ok)
	assert.Equal(t, title, InterviewTitle(parsed.Client, parsed.JobTitle, parsed.FirstName, parsed.LastName))
}

func TestParseTitle_Invalid(t *testing.T) {
	for _, title := range []string{"", "No colon here", "Engineer: Mononym", ": Jane Doe"} {
		_, ok := ParseTitle(title)
		assert.False(t, ok, title)
	}
}

func TestJobFromRecord(t *testing.T) {
	raw := `{
		"Id": 3,
		"Job Title": "Engineer",
		"Client": "Acme",
		"Job Description": [{"path": "download/jd.pdf", "title": "jd.pdf"}],
		"nc_92rx___nc_m2m_JobDescription_CVs": [
			{"CV": {"Id": 9, "First Name": "Jane", "Last Name": "Doe", "CV": [{"path": "download/a.pdf", "title": "jane.pdf", "size": 100}]}},
			{"CV": null},
			{"other": 1}
		]
	}`
	var rec records.Record
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))

	job := JobFromRecord(rec, DefaultFieldMap())
	assert.Equal(t, 3, job.ID)
	assert.Equal(t, "Engineer", job.Title)
	assert.Equal(t, "Acme", job.Client)
	require.Len(t, job.JDFiles, 1)
	require.Len(t, job.Candidates, 1)

	jane := job.Candidates[0]
	assert.Equal(t, 9, jane.ID)
	assert.Equal(t, "Jane Doe", jane.FullName())
	assert.Equal(t, "jane.pdf", jane.CVFilename())
	assert.Equal(t, 100, jane.CVs[0].Size)
}

func TestInterviewFromRecord(t *testing.T) {
	rec := records.Record{
		"Id":               11.0,
		"Title":            "Acme - Engineer: Jane Doe",
		"Interview Status": StatusComplete,
		"Interview Rank":   4.0,
		"CV File":          "jane.pdf",
		"nc_m2jd___nc_rel_Candidate": []any{
			map[string]any{"Candidate": map[string]any{"Id": 9.0, "First Name": "Jane", "Last Name": "Doe"}},
		},
	}

	iv := InterviewFromRecord(rec, DefaultFieldMap())
	assert.Equal(t, 11, iv.ID)
	assert.Equal(t, StatusComplete, iv.Status)
	assert.Equal(t, 4, iv.Rank)
	assert.Equal(t, "jane.pdf", iv.CVFilename)
	require.Len(t, iv.Candidates, 1)
	assert.Equal(t, 9, iv.Candidates[0].ID)
}

func TestFieldMap_WithDefaults(t *testing.T) {
	f := FieldMap{JobCVRelation: "custom_rel"}.WithDefaults()
	assert.Equal(t, "custom_rel", f.JobCVRelation)
	assert.Equal(t, "Job Title", f.JobTitle)
	assert.Equal(t, "Interview Rank", f.Rank)
}

func TestFieldMap_PrimaryKeyNotConfigurable(t *testing.T) {
	var f FieldMap
	require.NoError(t, json.Unmarshal([]byte(`{"id": "Key", "job_title": "Role"}`), &f))

	job := JobFromRecord(records.Record{"Id": 4.0, "Key": 9.0, "Role": "Engineer"}, f.WithDefaults())
	assert.Equal(t, 4, job.ID)
	assert.Equal(t, "Engineer", job.Title)
}

func TestPairTitle(t *testing.T) {
	p := CandidateJobPair{JobTitle: "Engineer", Client: "Acme", FirstName: "Jane", LastName: "Doe"}
	assert.Equal(t, "Acme - Engineer: Jane Doe", p.Title())
	assert.Equal(t, "Jane Doe", p.CandidateName())
}
