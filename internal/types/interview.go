package types

import (
	"strings"

	"github.com/jonathan/interview-sync/internal/records"
)

// Interview status values, in lifecycle order.
const (
	StatusNotStarted = "Not Started"
	StatusReady      = "Ready for Interview"
	StatusInProgress = "In Progress"
	StatusComplete   = "Complete"
)

// Rank bounds. RankUnset marks an interview nobody has rated yet.
const (
	RankUnset = 0
	RankMax   = 5
)

// Interview is the per-candidate, per-job scheduling and transcript record.
type Interview struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	PortalLink string `json:"portal_link,omitempty"`
	DueDate    string `json:"due_date,omitempty"`
	Status     string `json:"status,omitempty"`
	Rank       int    `json:"rank"`
	Questions  string `json:"questions,omitempty"`
	CVFilename string `json:"cv_filename,omitempty"`
	Answers    string `json:"answers,omitempty"`
	DateAdded  string `json:"date_added,omitempty"`
	// Candidates holds the embedded candidate relation, when the store returns it.
	Candidates []Candidate `json:"candidates,omitempty"`
}

// InterviewFromRecord decodes an interview row.
func InterviewFromRecord(rec records.Record, f FieldMap) Interview {
	iv := Interview{
		ID:         intField(rec, records.IDField),
		Title:      rec.String(f.Title),
		PortalLink: rec.String(f.PortalLink),
		DueDate:    rec.String(f.DueDate),
		Status:     rec.String(f.Status),
		Rank:       intField(rec, f.Rank),
		Questions:  rec.String(f.Questions),
		CVFilename: rec.String(f.CVFilename),
		Answers:    rec.String(f.Answers),
		DateAdded:  rec.String(f.DateAdded),
	}
	for _, rel := range rec.List(f.CandidateRelation) {
		if c := rel.Map(f.CandidateKey); c != nil {
			iv.Candidates = append(iv.Candidates, CandidateFromRecord(c, f))
		}
	}
	return iv
}

// CandidateJobPair is one (job, candidate) combination that should have an
// interview. It is derived fresh on every cycle and never stored.
type CandidateJobPair struct {
	JobID     int
	JobTitle  string
	Client    string
	FirstName string
	LastName  string
	// CandidateID is nil when the candidate could not be resolved; the
	// interview is still created but not linked.
	CandidateID *int
	CVFilename  string
}

// Title returns the interview title this pair maps to.
func (p CandidateJobPair) Title() string {
	return InterviewTitle(p.Client, p.JobTitle, p.FirstName, p.LastName)
}

// CandidateName is "First Last".
func (p CandidateJobPair) CandidateName() string {
	return p.FirstName + " " + p.LastName
}

// InterviewTitle derives the interview title, which doubles as the
// interview's unique key: "{client} - {job}: {first} {last}". The client
// prefix is omitted entirely when client is empty. Any formatting drift in
// the inputs produces a different key.
func InterviewTitle(client, jobTitle, firstName, lastName string) string {
	prefix := ""
	if client != "" {
		prefix = client + " - "
	}
	return strings.TrimSpace(prefix + jobTitle + ": " + firstName + " " + lastName)
}

// ParsedTitle is the decomposition of an interview title.
type ParsedTitle struct {
	Client    string
	JobTitle  string
	FirstName string
	LastName  string
}

// ParseTitle reverses InterviewTitle. The candidate part must contain at
// least two words; everything after the first word is the last name. The
// job part is split on the first " - " into client and job title.
func ParseTitle(title string) (ParsedTitle, bool) {
	jobPart, candidatePart, ok := strings.Cut(title, ":")
	if !ok {
		return ParsedTitle{}, false
	}
	jobPart = strings.TrimSpace(jobPart)

	names := strings.Fields(candidatePart)
	if len(names) < 2 {
		return ParsedTitle{}, false
	}

	parsed := ParsedTitle{
		JobTitle:  jobPart,
		FirstName: names[0],
		LastName:  strings.Join(names[1:], " "),
	}
	if client, job, found := strings.Cut(jobPart, " - "); found {
		parsed.Client = client
		parsed.JobTitle = job
	}
	if parsed.JobTitle == "" {
		return ParsedTitle{}, false
	}
	return parsed, true
}
