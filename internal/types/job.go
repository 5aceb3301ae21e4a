package types

import (
	"strings"

	"github.com/jonathan/interview-sync/internal/records"
)

// Attachment is a file stored on a record (CV, job description).
type Attachment struct {
	Path     string `json:"path"`
	Title    string `json:"title"`
	MimeType string `json:"mimetype,omitempty"`
	Size     int    `json:"size,omitempty"`
}

// Candidate is a person with uploaded CV files.
type Candidate struct {
	ID        int          `json:"id"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	CVs       []Attachment `json:"cvs,omitempty"`
}

// FullName joins first and last name with a single space.
func (c Candidate) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// CVFilename returns the title of the first CV attachment, if any.
func (c Candidate) CVFilename() string {
	for _, cv := range c.CVs {
		if cv.Title != "" {
			return cv.Title
		}
	}
	return ""
}

// Job is a hiring requisition (a "role") with its linked candidates.
type Job struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Client      string       `json:"client,omitempty"`
	Status      string       `json:"status,omitempty"`
	Description string       `json:"description,omitempty"`
	JDFiles     []Attachment `json:"jd_files,omitempty"`
	Candidates  []Candidate  `json:"candidates,omitempty"`
}

// JobFromRecord decodes a job row, including the embedded CV relation list.
// Relation entries without an embedded candidate object are dropped.
func JobFromRecord(rec records.Record, f FieldMap) Job {
	job := Job{
		ID:          intField(rec, records.IDField),
		Title:       rec.String(f.JobTitle),
		Client:      rec.String(f.JobClient),
		Status:      rec.String(f.JobStatus),
		Description: rec.String(f.JobDescription),
		JDFiles:     AttachmentsFrom(rec, f.JobDescFiles),
	}

	for _, rel := range rec.List(f.JobCVRelation) {
		cv := rel.Map(f.JobCVKey)
		if cv == nil {
			continue
		}
		job.Candidates = append(job.Candidates, CandidateFromRecord(cv, f))
	}
	return job
}

// CandidateFromRecord decodes a candidate row or an embedded candidate object.
func CandidateFromRecord(rec records.Record, f FieldMap) Candidate {
	return Candidate{
		ID:        intField(rec, records.IDField),
		FirstName: rec.String(f.FirstName),
		LastName:  rec.String(f.LastName),
		CVs:       AttachmentsFrom(rec, f.CVFiles),
	}
}

// AttachmentsFrom reads an attachment list column.
func AttachmentsFrom(rec records.Record, key string) []Attachment {
	items := rec.List(key)
	if len(items) == 0 {
		return nil
	}
	out := make([]Attachment, 0, len(items))
	for _, item := range items {
		size, _ := item.Int("size")
		out = append(out, Attachment{
			Path:     item.String("path"),
			Title:    item.String("title"),
			MimeType: item.String("mimetype"),
			Size:     size,
		})
	}
	return out
}

func intField(rec records.Record, key string) int {
	n, _ := rec.Int(key)
	return n
}
